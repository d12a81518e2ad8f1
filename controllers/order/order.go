package orderControllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/bidaya-api/middleware"
	"github.com/junaidrashid-git/bidaya-api/models"
	"github.com/junaidrashid-git/bidaya-api/orders"
)

// -------- Request Structs --------

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// -------- Helpers --------

func fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, orders.ErrInvalidOrder):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, orders.ErrOrderIsCancelled):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		middleware.Fail(c, err)
	}
}

func nonNil(list []models.Order) []models.Order {
	if list == nil {
		return []models.Order{}
	}
	return list
}

// -------- Trader Handlers --------

// PlaceOrder records an order submitted by a client-side cart. The trader
// is always the caller, whatever the draft says.
func PlaceOrder(store *orders.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)
		if user == nil {
			middleware.Fail(c, models.ErrUnauthenticated)
			return
		}
		var draft models.OrderDraft
		if err := c.ShouldBindJSON(&draft); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		draft.TraderID = user.ID

		order, err := store.SubmitOrder(c.Request.Context(), draft)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, order)
	}
}

func GetMyOrders(store *orders.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)
		if user == nil {
			middleware.Fail(c, models.ErrUnauthenticated)
			return
		}
		list, err := store.ListByTrader(c.Request.Context(), user.ID)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, nonNil(list))
	}
}

func GetMyOrder(store *orders.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)
		if user == nil {
			middleware.Fail(c, models.ErrUnauthenticated)
			return
		}
		order, err := store.GetForTrader(c.Request.Context(), c.Param("id"), user.ID)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// -------- Admin Handlers --------

// GetAllOrders lists every order, optionally filtered with ?status=.
func GetAllOrders(store *orders.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var status models.OrderStatus
		if raw := c.Query("status"); raw != "" {
			parsed, ok := models.ParseOrderStatus(strings.ToUpper(raw))
			if !ok {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order status"})
				return
			}
			status = parsed
		}
		list, err := store.ListAll(c.Request.Context(), status)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, nonNil(list))
	}
}

func GetOrderByID(store *orders.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := store.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

func UpdateOrderStatus(store *orders.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		order, err := store.UpdateStatus(c.Request.Context(), c.Param("id"), models.OrderStatus(strings.ToUpper(req.Status)))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

func DeleteOrder(store *orders.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := store.Delete(c.Request.Context(), c.Param("id")); err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Order deleted successfully"})
	}
}
