package http

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type errorResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Fields  []string `json:"missingFields,omitempty"`
}

func newErrorResponse(c *gin.Context, statusCode int, message string) {
	logrus.WithField("status", statusCode).Error(message)
	c.AbortWithStatusJSON(statusCode, errorResponse{Message: message})
}

func newValidationResponse(c *gin.Context, statusCode int, message string, fields []string) {
	c.AbortWithStatusJSON(statusCode, errorResponse{Message: message, Fields: fields})
}
