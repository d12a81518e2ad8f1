package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/bidaya-api/guard"
	"github.com/junaidrashid-git/bidaya-api/models"
)

// RequireRoles applies the storefront route guard to API requests. It runs
// after ValidateToken.
func RequireRoles(roles ...models.Role) gin.HandlerFunc {
	policy := guard.Policy{Roles: roles}
	return func(c *gin.Context) {
		out := guard.Decide(guard.State{User: CurrentUser(c)}, policy)
		switch out.Kind {
		case guard.Render:
			c.Next()
		case guard.RedirectLogin:
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":    models.ErrUnauthenticated.Error(),
				"code":     models.CodeUnauthenticated,
				"redirect": out.Location,
			})
		case guard.RedirectPending:
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":    models.ErrAccountNotApproved.Error(),
				"code":     models.CodeAccountNotApproved,
				"redirect": out.Location,
			})
		default:
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":    models.ErrForbidden.Error(),
				"code":     models.CodeForbidden,
				"redirect": out.Location,
			})
		}
	}
}
