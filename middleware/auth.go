package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/bidaya-api/guard"
	"github.com/junaidrashid-git/bidaya-api/models"
)

const (
	userKey      = "user"
	userIDKey    = "user_id"
	sessionIDKey = "session_id"
)

// Authenticator resolves bearer tokens. *auth.Service satisfies it.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, string, error)
}

// ValidateToken requires a valid session token and stores its user on the
// context. Websocket clients, which cannot set headers, pass ?token=.
func ValidateToken(authn Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c.GetHeader("Authorization"))
		if tokenString == "" {
			tokenString = c.Query("token")
		}
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":    "Authorization header is missing",
				"code":     models.CodeUnauthenticated,
				"redirect": guard.LoginPath,
			})
			return
		}

		user, sessionID, err := authn.Authenticate(c.Request.Context(), tokenString)
		if err != nil {
			body := gin.H{"error": "Invalid or expired token", "code": models.CodeUnauthenticated, "redirect": guard.LoginPath}
			if code := models.CodeOf(err); code == models.CodeAccountBanned {
				body["error"] = models.ErrAccountBanned.Error()
				body["code"] = code
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, body)
			return
		}

		c.Set(userKey, user)
		c.Set(userIDKey, user.ID)
		c.Set(sessionIDKey, sessionID)
		c.Next()
	}
}

// CurrentUser is the user set by ValidateToken, or nil.
func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(userKey); ok {
		if u, ok := v.(*models.User); ok {
			return u
		}
	}
	return nil
}

func SessionID(c *gin.Context) string {
	return c.GetString(sessionIDKey)
}

func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return header
}
