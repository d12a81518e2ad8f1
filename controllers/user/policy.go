package userControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/bidaya-api/middleware"
	"github.com/junaidrashid-git/bidaya-api/policy"
)

// GET /user/policy/:slug
func GetPolicy() gin.HandlerFunc {
	return func(c *gin.Context) {
		page, err := policy.Get(c.Param("slug"))
		if err != nil {
			middleware.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, page)
	}
}
