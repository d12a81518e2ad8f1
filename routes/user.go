package routes

import (
	"github.com/gin-gonic/gin"
	cartControllers "github.com/junaidrashid-git/bidaya-api/controllers/cart"
	orderControllers "github.com/junaidrashid-git/bidaya-api/controllers/order"
	productControllers "github.com/junaidrashid-git/bidaya-api/controllers/product"
	userControllers "github.com/junaidrashid-git/bidaya-api/controllers/user"
	"github.com/junaidrashid-git/bidaya-api/middleware"
	"github.com/junaidrashid-git/bidaya-api/models"
)

// SetupUserRoutes registers all “/user/*” endpoints. Requires an approved
// trader or admin session.
func SetupUserRoutes(r *gin.Engine, d Deps) {
	db := d.DB
	userGroup := r.Group("/user")
	userGroup.Use(middleware.ValidateToken(d.Auth), middleware.RequireRoles(models.RoleTrader, models.RoleAdmin))
	{
		// ──────────────── Profile ────────────────
		userGroup.GET("/", userControllers.GetUser(db))    // GET /user/
		userGroup.PUT("/", userControllers.UpdateUser(db)) // PUT /user/

		// ──────────────── Shopping Cart ────────────────
		cartGroup := userGroup.Group("/cart")
		{
			cartGroup.GET("", cartControllers.GetCart(db))                       // GET /user/cart
			cartGroup.POST("", cartControllers.AddCartItem(db))                  // POST /user/cart
			cartGroup.PUT("/:product_id", cartControllers.UpdateCartItem(db))    // PUT /user/cart/:product_id
			cartGroup.DELETE("/:product_id", cartControllers.DeleteCartItem(db)) // DELETE /user/cart/:product_id
			cartGroup.DELETE("", cartControllers.ClearCart(db))                  // DELETE /user/cart
		}
		userGroup.POST("/checkout", cartControllers.Checkout(db, d.Orders)) // POST /user/checkout

		// ──────────────── Orders ────────────────
		orderGroup := userGroup.Group("/orders")
		{
			orderGroup.GET("", orderControllers.GetMyOrders(d.Orders))
			orderGroup.POST("", orderControllers.PlaceOrder(d.Orders))
			orderGroup.GET("/:id", orderControllers.GetMyOrder(d.Orders))
		}

		// ──────────────── Browse Products ────────────────
		userGroup.GET("/products", productControllers.GetProducts(db))        // GET /user/products
		userGroup.GET("/products/:id", productControllers.GetProductByID(db)) // GET /user/products/:id
		userGroup.GET("/categories", productControllers.GetAllCategories(db)) // GET /user/categories

		// ──────────────── Favorites ────────────────
		favGroup := userGroup.Group("/favorites")
		{
			favGroup.GET("", userControllers.GetFavorites(db))
			favGroup.POST("/:product_id", userControllers.AddFavorite(db))
			favGroup.DELETE("/:product_id", userControllers.RemoveFavorite(db))
		}

		userGroup.GET("/policy/:slug", userControllers.GetPolicy())
	}
}
