package routes

import (
	"github.com/gin-gonic/gin"
	authControllers "github.com/junaidrashid-git/bidaya-api/controllers/auth"
	"github.com/junaidrashid-git/bidaya-api/middleware"
)

// SetupAuthRoutes registers all “/auth/*” endpoints.
func SetupAuthRoutes(r *gin.Engine, d Deps) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", authControllers.Register(d.Auth))
		authGroup.POST("/login", authControllers.Login(d.Auth))

		authGroup.POST("/logout", middleware.ValidateToken(d.Auth), authControllers.Logout(d.Auth))
		authGroup.GET("/session", middleware.ValidateToken(d.Auth), authControllers.Session())
	}
}
