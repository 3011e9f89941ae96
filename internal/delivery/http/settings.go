package http

import (
	"io"
	"net/http"

	"codboost/internal/models"
	"codboost/internal/service"

	"github.com/gin-gonic/gin"
	pkgerrors "github.com/pkg/errors"
)

// GetSettings
// @Summary Read the shop's settings document
// @Produce json
// @Success 200 {object} models.Settings
// @Failure 500 {object} errorResponse
// @Router /api/settings [get]
func (h *Handler) GetSettings(c *gin.Context) {
	settings, err := h.settings.GetSettings(shopDomain(c))
	if err != nil {
		newErrorResponse(c, http.StatusInternalServerError, internalMessage(err))
		return
	}
	c.JSON(http.StatusOK, settings)
}

// SaveSettings
// @Summary Replace the shop's settings document
// @Accept json
// @Produce json
// @Param settings body models.Settings true "full settings document"
// @Success 200 {object} map[string]interface{}
// @Failure 400,500 {object} errorResponse
// @Router /api/settings [put]
func (h *Handler) SaveSettings(c *gin.Context) {
	var settings models.Settings
	if err := c.ShouldBindJSON(&settings); err != nil {
		newErrorResponse(c, http.StatusBadRequest, "invalid settings payload")
		return
	}
	if err := h.settings.SaveSettings(shopDomain(c), settings); err != nil {
		newErrorResponse(c, http.StatusInternalServerError, internalMessage(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "settings saved"})
}

// UpdateSettingsSection
// @Summary Merge a partial payload into one settings section
// @Accept json
// @Produce json
// @Param section path string true "general, email, notifications or delivery"
// @Success 200 {object} models.Settings
// @Failure 400,500 {object} errorResponse
// @Router /api/settings/{section} [put]
func (h *Handler) UpdateSettingsSection(c *gin.Context) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil || len(raw) == 0 {
		newErrorResponse(c, http.StatusBadRequest, "empty settings payload")
		return
	}

	settings, err := h.settings.UpdateSettingsSection(shopDomain(c), c.Param("section"), raw)
	if err != nil {
		if pkgerrors.Is(err, service.ErrUnknownSection) {
			newErrorResponse(c, http.StatusBadRequest, "unknown settings section")
			return
		}
		newErrorResponse(c, http.StatusInternalServerError, internalMessage(err))
		return
	}
	c.JSON(http.StatusOK, settings)
}
