package http

import (
	"net/http"
	"time"

	"codboost/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	_ "codboost/docs"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const shopDomainHeader = "X-Shopify-Shop-Domain"

type Handler struct {
	orders   service.Orders
	settings service.MerchantSettings

	// used when no shop header is present, development only
	devShopDomain string
}

func NewHandler(orders service.Orders, settings service.MerchantSettings, devShopDomain string) *Handler {
	return &Handler{orders: orders, settings: settings, devShopDomain: devShopDomain}
}

func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.Default()

	api := router.Group("/api", h.verifyShop)
	{
		api.POST("/orders", h.CreateOrder)
		api.GET("/orders", h.ListOrders)
		api.GET("/orders/stats", h.OrderStats)
		api.PUT("/orders/:id", h.UpdateOrderStatus)

		api.GET("/settings", h.GetSettings)
		api.PUT("/settings", h.SaveSettings)
		api.PUT("/settings/:section", h.UpdateSettingsSection)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"service":   "cod-boost",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return router
}

// verifyShop resolves the tenant from request metadata. Every /api route is
// scoped by it.
func (h *Handler) verifyShop(c *gin.Context) {
	shop := c.GetHeader(shopDomainHeader)
	if shop == "" {
		shop = h.devShopDomain
	}
	if shop == "" {
		newErrorResponse(c, http.StatusBadRequest, "missing shop domain")
		return
	}
	c.Set("shopDomain", shop)
	c.Next()
}

func shopDomain(c *gin.Context) string {
	return c.GetString("shopDomain")
}
