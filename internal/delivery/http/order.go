package http

import (
	"net/http"
	"strconv"

	"codboost/internal/models"
	"codboost/internal/service"

	"github.com/gin-gonic/gin"
	pkgerrors "github.com/pkg/errors"
)

type createOrderResponse struct {
	Success         bool            `json:"success"`
	Message         string          `json:"message"`
	LocalOrderID    uint            `json:"localOrderId"`
	OrderNumber     string          `json:"orderNumber"`
	ShopifyOrderID  *int64          `json:"shopifyOrderId,omitempty"`
	HasShopifyOrder bool            `json:"hasShopifyOrder"`
	ShopifyError    string          `json:"shopifyError,omitempty"`
	Order           models.CodOrder `json:"order"`
}

type listOrdersResponse struct {
	Orders     []models.CodOrder `json:"orders"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	TotalPages int               `json:"totalPages"`
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Notes  string `json:"notes"`
}

// CreateOrder
// @Summary Submit a COD order
// @Description Validates and persists a storefront COD submission, then mirrors it into Shopify best-effort
// @Accept json
// @Produce json
// @Param order body service.OrderSubmission true "order submission"
// @Success 201 {object} createOrderResponse
// @Failure 400 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /api/orders [post]
func (h *Handler) CreateOrder(c *gin.Context) {
	var raw service.OrderSubmission
	if err := c.ShouldBindJSON(&raw); err != nil {
		newErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.orders.Submit(c.Request.Context(), raw, shopDomain(c))
	if err != nil {
		var verr *service.ValidationError
		if pkgerrors.As(err, &verr) {
			newValidationResponse(c, http.StatusBadRequest, "missing required fields", verr.Fields)
			return
		}
		newErrorResponse(c, http.StatusInternalServerError, internalMessage(err))
		return
	}

	resp := createOrderResponse{
		Success:         true,
		Message:         "order created",
		LocalOrderID:    result.Order.ID,
		OrderNumber:     result.Order.OrderNumber,
		HasShopifyOrder: result.HasShopifyOrder,
		ShopifyError:    result.ShopifyError,
		Order:           result.Order,
	}
	if result.ShopifyResult != nil {
		resp.ShopifyOrderID = &result.ShopifyResult.OrderID
	}
	c.JSON(http.StatusCreated, resp)
}

// ListOrders
// @Summary List COD orders for the shop
// @Produce json
// @Param page query int false "page number"
// @Param limit query int false "page size"
// @Success 200 {object} listOrdersResponse
// @Failure 500 {object} errorResponse
// @Router /api/orders [get]
func (h *Handler) ListOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	list, err := h.orders.List(shopDomain(c), page, limit)
	if err != nil {
		newErrorResponse(c, http.StatusInternalServerError, internalMessage(err))
		return
	}
	c.JSON(http.StatusOK, listOrdersResponse{
		Orders:     list.Orders,
		Total:      list.Total,
		Page:       list.Page,
		TotalPages: list.TotalPages,
	})
}

// UpdateOrderStatus
// @Summary Move an order through its lifecycle
// @Accept json
// @Produce json
// @Param id path int true "local order id"
// @Param body body updateStatusRequest true "target status"
// @Success 200 {object} map[string]interface{}
// @Failure 400,404,409 {object} errorResponse
// @Router /api/orders/{id} [put]
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		newErrorResponse(c, http.StatusBadRequest, "invalid order id")
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		newErrorResponse(c, http.StatusBadRequest, "status is required")
		return
	}

	result, err := h.orders.ChangeStatus(c.Request.Context(), uint(id), req.Status, req.Notes)
	if err != nil {
		switch {
		case pkgerrors.Is(err, service.ErrNotFound):
			newErrorResponse(c, http.StatusNotFound, "order not found")
		case pkgerrors.Is(err, service.ErrInvalidTransition):
			newErrorResponse(c, http.StatusConflict, "invalid status transition")
		default:
			newErrorResponse(c, http.StatusInternalServerError, internalMessage(err))
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"message":       "order status updated",
		"order":         result.Order,
		"mirrorUpdated": result.MirrorUpdated,
		"mirrorError":   result.MirrorError,
	})
}

// OrderStats
// @Summary Aggregate order counters and revenue for the dashboard
// @Produce json
// @Success 200 {object} models.OrderStats
// @Failure 500 {object} errorResponse
// @Router /api/orders/stats [get]
func (h *Handler) OrderStats(c *gin.Context) {
	stats, err := h.orders.Stats(shopDomain(c))
	if err != nil {
		newErrorResponse(c, http.StatusInternalServerError, internalMessage(err))
		return
	}
	c.JSON(http.StatusOK, stats)
}

// internalMessage redacts store errors outside of debug mode.
func internalMessage(err error) string {
	if gin.Mode() == gin.ReleaseMode {
		return "internal server error"
	}
	return err.Error()
}
