package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/bidaya-api/logging"
	"github.com/junaidrashid-git/bidaya-api/models"
)

var statuses = map[error]int{
	models.ErrInvalidCredentials: http.StatusUnauthorized,
	models.ErrAccountBanned:      http.StatusForbidden,
	models.ErrAccountNotApproved: http.StatusForbidden,
	models.ErrEmailTaken:         http.StatusConflict,
	models.ErrUnauthenticated:    http.StatusUnauthorized,
	models.ErrForbidden:          http.StatusForbidden,
	models.ErrNotFound:           http.StatusNotFound,
	models.ErrInsufficientStock:  http.StatusConflict,
	models.ErrPriceOutOfBand:     http.StatusUnprocessableEntity,
	models.ErrEmptyCart:          http.StatusBadRequest,
}

// StatusOf maps shared errors to HTTP statuses; anything else is a 500.
func StatusOf(err error) int {
	for target, status := range statuses {
		if errors.Is(err, target) {
			return status
		}
	}
	var invalid models.ErrInvalidProduct
	if errors.As(err, &invalid) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// Fail writes err with the status StatusOf picks.
func Fail(c *gin.Context, err error) {
	FailWith(c, StatusOf(err), err)
}

// FailWith writes err as {"error": ..., "code": ...}. Server errors are
// logged and their details kept out of the response.
func FailWith(c *gin.Context, status int, err error) {
	if status >= http.StatusInternalServerError {
		fields := logging.Fields{Step: c.FullPath()}
		if u := CurrentUser(c); u != nil {
			fields.UserID = u.ID
		}
		logging.Failure("http_handler", err, fields)
		c.AbortWithStatusJSON(status, gin.H{"error": "internal server error"})
		return
	}
	body := gin.H{"error": err.Error()}
	if code := models.CodeOf(err); code != "" {
		body["code"] = code
	}
	c.AbortWithStatusJSON(status, body)
}
