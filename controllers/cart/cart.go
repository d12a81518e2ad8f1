package cartControllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/bidaya-api/cart"
	"github.com/junaidrashid-git/bidaya-api/middleware"
	"github.com/junaidrashid-git/bidaya-api/models"
	"github.com/junaidrashid-git/bidaya-api/orders"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type AddItemInput struct {
	ProductID    uint            `json:"productId" binding:"required"`
	Quantity     int             `json:"quantity" binding:"required,min=1"`
	SellingPrice decimal.Decimal `json:"sellingPrice"`
}

type QuantityInput struct {
	Quantity *int `json:"quantity" binding:"required"`
}

type CheckoutInput struct {
	Customer      models.CustomerInfo  `json:"customer" binding:"required"`
	PaymentMethod models.PaymentMethod `json:"paymentMethod"`
}

type cartView struct {
	Items  []models.CartItem `json:"items"`
	Totals cart.Totals       `json:"totals"`
}

func view(e *cart.Engine) cartView {
	items := e.Items()
	if items == nil {
		items = []models.CartItem{}
	}
	return cartView{Items: items, Totals: e.Totals()}
}

// engine loads the signed-in trader's cart from its database row.
func engine(c *gin.Context, db *gorm.DB, submitter cart.OrderSubmitter) (*cart.Engine, bool) {
	user := middleware.CurrentUser(c)
	if user == nil {
		middleware.Fail(c, models.ErrUnauthenticated)
		return nil, false
	}
	e, err := cart.New(c.Request.Context(), cart.NewGormStorage(db, user.ID), submitter,
		cart.SessionFunc(func() *models.User { return user }))
	if err != nil {
		middleware.Fail(c, err)
		return nil, false
	}
	return e, true
}

func fail(c *gin.Context, err error) {
	if errors.Is(err, cart.ErrInvalidQuantity) || errors.Is(err, cart.ErrInvalidPaymentMethod) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	middleware.Fail(c, err)
}

// GET /user/cart
func GetCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		e, ok := engine(c, db, nil)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, view(e))
	}
}

// POST /user/cart
func AddCartItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input AddItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		var product models.Product
		if err := db.First(&product, input.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				middleware.Fail(c, models.ErrNotFound)
				return
			}
			middleware.Fail(c, err)
			return
		}

		e, ok := engine(c, db, nil)
		if !ok {
			return
		}
		if err := e.Add(c.Request.Context(), product, input.Quantity, input.SellingPrice); err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, view(e))
	}
}

// PUT /user/cart/:product_id
func UpdateCartItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err := strconv.ParseUint(c.Param("product_id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
			return
		}
		var input QuantityInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		e, ok := engine(c, db, nil)
		if !ok {
			return
		}
		if err := e.SetQuantity(c.Request.Context(), uint(productID), *input.Quantity); err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, view(e))
	}
}

// DELETE /user/cart/:product_id
func DeleteCartItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err := strconv.ParseUint(c.Param("product_id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
			return
		}
		e, ok := engine(c, db, nil)
		if !ok {
			return
		}
		if err := e.Remove(c.Request.Context(), uint(productID)); err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, view(e))
	}
}

// DELETE /user/cart
func ClearCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		e, ok := engine(c, db, nil)
		if !ok {
			return
		}
		if err := e.Clear(c.Request.Context()); err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, view(e))
	}
}

// POST /user/checkout places the stored cart as an order and empties it.
func Checkout(db *gorm.DB, submitter cart.OrderSubmitter) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CheckoutInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		if input.PaymentMethod == "" {
			input.PaymentMethod = models.PaymentCashOnDelivery
		}

		e, ok := engine(c, db, submitter)
		if !ok {
			return
		}
		order, err := e.Checkout(c.Request.Context(), input.Customer, input.PaymentMethod)
		if err != nil {
			if errors.Is(err, orders.ErrInvalidOrder) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, order)
	}
}
