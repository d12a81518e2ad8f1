package orderControllers

import (
	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/bidaya-api/notify"
)

// OrderWebSocket streams order events to the admin console.
func OrderWebSocket(hub *notify.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		hub.ServeHTTP(c.Writer, c.Request)
	}
}
