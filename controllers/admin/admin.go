package adminController

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/bidaya-api/middleware"
	"github.com/junaidrashid-git/bidaya-api/models"
	"github.com/junaidrashid-git/bidaya-api/reports"
	"gorm.io/gorm"
)

func GetAllAdmins(db *gorm.DB) gin.HandlerFunc {
	return listUsers(db, func(q *gorm.DB) *gorm.DB {
		return q.Where("role = ?", models.RoleAdmin)
	})
}

// Dashboard returns the figures shown on the admin home screen.
func Dashboard(reporter *reports.Reporter) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := reporter.Dashboard(c.Request.Context())
		if err != nil {
			middleware.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}

// Payouts lists what each trader earned on delivered orders.
func Payouts(reporter *reports.Reporter) gin.HandlerFunc {
	return func(c *gin.Context) {
		payouts, err := reporter.Payouts(c.Request.Context())
		if err != nil {
			middleware.Fail(c, err)
			return
		}
		if payouts == nil {
			payouts = []reports.Payout{}
		}
		c.JSON(http.StatusOK, payouts)
	}
}
