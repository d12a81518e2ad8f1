package routes

import (
	"github.com/gin-gonic/gin"
	orderControllers "github.com/junaidrashid-git/bidaya-api/controllers/order"
	productcontroller "github.com/junaidrashid-git/bidaya-api/controllers/product"
	"github.com/junaidrashid-git/bidaya-api/middleware"
)

// SetupOrderRoutes mounts order administration under parent.
func SetupOrderRoutes(parent *gin.RouterGroup, d Deps) {
	orders := parent.Group("/orders")
	{
		// Fetch all orders, ?status= narrows
		orders.GET("", orderControllers.GetAllOrders(d.Orders))

		// websocket endpoint for real-time order updates
		orders.GET("/ws", orderControllers.OrderWebSocket(d.Hub))

		orders.GET("/:id", orderControllers.GetOrderByID(d.Orders))

		// Update order status (e.g., shipped, cancelled)
		orders.PUT("/:id/status", orderControllers.UpdateOrderStatus(d.Orders))

		orders.DELETE("/:id", orderControllers.DeleteOrder(d.Orders))
	}
}

// SetupIntegrationRoutes registers endpoints for partner systems that
// authenticate with the static API key.
func SetupIntegrationRoutes(r *gin.Engine, d Deps) {
	integrations := r.Group("/integrations")
	integrations.Use(middleware.ValidateAPIKey(d.APIKey))
	{
		integrations.GET("/products/export-excel", productcontroller.ExportProductsToExcel(d.DB))
	}
}
