package authControllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/bidaya-api/auth"
	"github.com/junaidrashid-git/bidaya-api/guard"
	"github.com/junaidrashid-git/bidaya-api/middleware"
	"github.com/junaidrashid-git/bidaya-api/models"
)

// Service is the account backend. *auth.Service satisfies it.
type Service interface {
	SignUp(ctx context.Context, reg models.Registration) (*models.User, error)
	SignIn(ctx context.Context, creds models.Credentials) (string, *models.User, error)
	SignOut(ctx context.Context, sessionID string) error
}

// POST /auth/register creates a pending trader. It does not sign in.
func Register(svc Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var reg models.Registration
		if err := c.ShouldBindJSON(&reg); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		user, err := svc.SignUp(c.Request.Context(), reg)
		if err != nil {
			if errors.Is(err, auth.ErrUnknownGovernorate) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			middleware.Fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"user": user, "redirect": guard.PendingPath})
	}
}

// POST /auth/login
func Login(svc Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var creds models.Credentials
		if err := c.ShouldBindJSON(&creds); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		token, user, err := svc.SignIn(c.Request.Context(), creds)
		if err != nil {
			middleware.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
	}
}

// POST /auth/logout ends the caller's session only.
func Logout(svc Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.SignOut(c.Request.Context(), middleware.SessionID(c)); err != nil {
			middleware.Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Signed out"})
	}
}

// GET /auth/session returns the signed-in user.
func Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)
		if user == nil {
			middleware.Fail(c, models.ErrUnauthenticated)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": user})
	}
}
