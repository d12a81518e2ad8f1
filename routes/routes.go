package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/bidaya-api/auth"
	"github.com/junaidrashid-git/bidaya-api/notify"
	"github.com/junaidrashid-git/bidaya-api/orders"
	"github.com/junaidrashid-git/bidaya-api/reports"
	"github.com/junaidrashid-git/bidaya-api/uploads"
	"gorm.io/gorm"
)

// Deps carries the services the route groups hand to their controllers.
type Deps struct {
	DB      *gorm.DB
	Auth    *auth.Service
	Orders  *orders.Store
	Reports *reports.Reporter
	Hub     *notify.Hub
	Uploads *uploads.Store
	// APIKey guards /integrations; empty disables the group.
	APIKey string
}

// SetupRoutes is the single entry-point that wires up every route group.
func SetupRoutes(r *gin.Engine, d Deps) {
	// 1️⃣ Public auth routes
	SetupAuthRoutes(r, d)

	// 2️⃣ Trader routes (token + approved trader or admin)
	SetupUserRoutes(r, d)

	// 3️⃣ Admin routes (token + admin role)
	SetupAdminRoutes(r, d)

	// 4️⃣ Machine integrations (API key)
	SetupIntegrationRoutes(r, d)
}
