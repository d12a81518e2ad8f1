package routes

import (
	"github.com/gin-gonic/gin"
	adminController "github.com/junaidrashid-git/bidaya-api/controllers/admin"
	productcontroller "github.com/junaidrashid-git/bidaya-api/controllers/product"
	userControllers "github.com/junaidrashid-git/bidaya-api/controllers/user"
	"github.com/junaidrashid-git/bidaya-api/middleware"
	"github.com/junaidrashid-git/bidaya-api/models"
)

// SetupAdminRoutes registers all “/admin/*” endpoints. Requires an admin session.
func SetupAdminRoutes(r *gin.Engine, d Deps) {
	db := d.DB
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.ValidateToken(d.Auth), middleware.RequireRoles(models.RoleAdmin))
	{
		// ─────────── Dashboard ───────────
		adminGroup.GET("/dashboard", adminController.Dashboard(d.Reports))
		adminGroup.GET("/payouts", adminController.Payouts(d.Reports))

		// ─────────── Admin & User Management ───────────
		adminGroup.GET("/admins", adminController.GetAllAdmins(db))
		adminGroup.GET("/users", userControllers.GetAllUsers(db))
		adminGroup.GET("/users/pending", adminController.ListPendingUsers(db))
		adminGroup.GET("/users/banned", adminController.ListBannedUsers(db))
		adminGroup.GET("/traders", adminController.ListApprovedTraders(db))

		userMgmt := adminGroup.Group("/users/:id")
		{
			userMgmt.POST("/approve", adminController.ApproveUser(db))
			userMgmt.POST("/reject", adminController.RejectUser(db))
			userMgmt.POST("/ban", adminController.BanUser(db, d.Auth))
			userMgmt.POST("/unban", adminController.UnbanUser(db))
			userMgmt.POST("/promote", adminController.PromoteUser(db))
			userMgmt.PUT("/nickname", adminController.SetNickname(db))
		}

		// ─────────── Product Management ───────────
		productAdmin := adminGroup.Group("/products")
		{
			productAdmin.POST("", productcontroller.SaveProduct(db))
			productAdmin.PUT("/:id", productcontroller.SaveProduct(db))
			productAdmin.GET("", productcontroller.GetProducts(db))
			productAdmin.GET("/:id", productcontroller.GetProductByID(db))
			productAdmin.DELETE("/:id", productcontroller.DeleteProduct(db))
			productAdmin.POST("/:id/images", productcontroller.UploadProductImages(db, d.Uploads))
			productAdmin.POST("/import-excel", productcontroller.ImportProductsFromExcel(db))
			productAdmin.GET("/export-excel", productcontroller.ExportProductsToExcel(db))
		}

		// ─────────── Category Management ───────────
		categoryAdmin := adminGroup.Group("/categories")
		{
			categoryAdmin.POST("", productcontroller.CreateCategory(db, d.Uploads))
			categoryAdmin.PUT("/:id", productcontroller.UpdateCategory(db, d.Uploads))
			categoryAdmin.GET("", productcontroller.GetAllCategories(db))
			categoryAdmin.DELETE("/:id", productcontroller.DeleteCategory(db))
		}

		// ─────────── Orders ───────────
		SetupOrderRoutes(adminGroup, d)
	}
}
