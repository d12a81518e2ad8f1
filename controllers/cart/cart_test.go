package cartControllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/bidaya-api/internal/testdb"
	"github.com/junaidrashid-git/bidaya-api/models"
	"github.com/junaidrashid-git/bidaya-api/orders"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(t *testing.T, user *models.User) (*gin.Engine, *gorm.DB) {
	t.Helper()
	db := testdb.Open(t)
	store := orders.NewStore(db, nil, nil)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if user != nil {
			c.Set("user", user)
		}
		c.Next()
	})
	r.GET("/cart", GetCart(db))
	r.POST("/cart", AddCartItem(db))
	r.PUT("/cart/:product_id", UpdateCartItem(db))
	r.DELETE("/cart/:product_id", DeleteCartItem(db))
	r.DELETE("/cart", ClearCart(db))
	r.POST("/checkout", Checkout(db, store))
	return r, db
}

func send(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var data []byte
	if body != nil {
		data, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func seedProduct(t *testing.T, db *gorm.DB, stock int) models.Product {
	t.Helper()
	p := models.Product{
		Name:     "Blender",
		Price:    decimal.NewFromInt(1000),
		MinPrice: decimal.NewFromInt(1200),
		MaxPrice: decimal.NewFromInt(1500),
		Stock:    stock,
	}
	if err := db.Create(&p).Error; err != nil {
		t.Fatal(err)
	}
	return p
}

func decodeView(t *testing.T, w *httptest.ResponseRecorder) cartView {
	t.Helper()
	var v cartView
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %s: %v", w.Body.String(), err)
	}
	return v
}

func trader() *models.User {
	return &models.User{ID: 7, Role: models.RoleTrader, Status: models.StatusApproved}
}

func TestCartRequiresUser(t *testing.T) {
	r, _ := newRouter(t, nil)
	if w := send(r, http.MethodGet, "/cart", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestAddUpdateRemove(t *testing.T) {
	r, db := newRouter(t, trader())
	p := seedProduct(t, db, 5)

	w := send(r, http.MethodPost, "/cart", gin.H{"productId": p.ID, "quantity": 2, "sellingPrice": "1300"})
	if w.Code != http.StatusOK {
		t.Fatalf("add: %d %s", w.Code, w.Body.String())
	}
	v := decodeView(t, w)
	if len(v.Items) != 1 || v.Totals.ItemCount != 2 || !v.Totals.NetProfit.Equal(decimal.NewFromInt(600)) {
		t.Fatalf("view = %+v", v)
	}

	// Re-adding keeps the first selling price.
	w = send(r, http.MethodPost, "/cart", gin.H{"productId": p.ID, "quantity": 1, "sellingPrice": "1500"})
	v = decodeView(t, w)
	if v.Items[0].Quantity != 3 || !v.Items[0].SellingPrice.Equal(decimal.NewFromInt(1300)) {
		t.Fatalf("merged line = %+v", v.Items[0])
	}

	w = send(r, http.MethodPut, "/cart/"+itoa(p.ID), gin.H{"quantity": 1})
	if v = decodeView(t, w); v.Totals.ItemCount != 1 {
		t.Fatalf("after update = %+v", v.Totals)
	}

	w = send(r, http.MethodGet, "/cart", nil)
	if v = decodeView(t, w); v.Totals.ItemCount != 1 {
		t.Fatalf("cart not persisted: %+v", v.Totals)
	}

	w = send(r, http.MethodDelete, "/cart/"+itoa(p.ID), nil)
	if v = decodeView(t, w); len(v.Items) != 0 {
		t.Fatalf("after delete = %+v", v.Items)
	}
}

func TestAddRejections(t *testing.T) {
	r, db := newRouter(t, trader())
	p := seedProduct(t, db, 2)

	cases := []struct {
		name   string
		body   gin.H
		status int
	}{
		{"below band", gin.H{"productId": p.ID, "quantity": 1, "sellingPrice": "1100"}, http.StatusUnprocessableEntity},
		{"over stock", gin.H{"productId": p.ID, "quantity": 3, "sellingPrice": "1300"}, http.StatusConflict},
		{"zero quantity", gin.H{"productId": p.ID, "quantity": 0, "sellingPrice": "1300"}, http.StatusBadRequest},
		{"unknown product", gin.H{"productId": 999, "quantity": 1, "sellingPrice": "1300"}, http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if w := send(r, http.MethodPost, "/cart", tc.body); w.Code != tc.status {
				t.Fatalf("status = %d, want %d: %s", w.Code, tc.status, w.Body.String())
			}
		})
	}
}

func TestCheckout(t *testing.T) {
	r, db := newRouter(t, trader())
	p := seedProduct(t, db, 5)

	customer := models.CustomerInfo{Name: "Huda", Phone: "07801234567", Governorate: "أربيل", Address: "Ankawa"}
	if w := send(r, http.MethodPost, "/checkout", gin.H{"customer": customer}); w.Code != http.StatusBadRequest {
		t.Fatalf("empty cart checkout = %d", w.Code)
	}

	send(r, http.MethodPost, "/cart", gin.H{"productId": p.ID, "quantity": 2, "sellingPrice": "1300"})
	if w := send(r, http.MethodPost, "/checkout", gin.H{"customer": customer, "paymentMethod": "BITCOIN"}); w.Code != http.StatusBadRequest {
		t.Fatalf("bad method = %d", w.Code)
	}

	w := send(r, http.MethodPost, "/checkout", gin.H{"customer": customer, "paymentMethod": models.PaymentBankTransfer})
	if w.Code != http.StatusCreated {
		t.Fatalf("checkout: %d %s", w.Code, w.Body.String())
	}
	var order models.Order
	json.Unmarshal(w.Body.Bytes(), &order)
	if order.TraderID != 7 || order.Status != models.OrderStatusProcessing || !order.NetProfit.Equal(decimal.NewFromInt(600)) {
		t.Fatalf("order = %+v", order)
	}

	if v := decodeView(t, send(r, http.MethodGet, "/cart", nil)); len(v.Items) != 0 {
		t.Fatalf("cart not cleared: %+v", v.Items)
	}
	var fresh models.Product
	db.First(&fresh, p.ID)
	if fresh.Stock != 3 {
		t.Fatalf("stock = %d", fresh.Stock)
	}
}

func TestClearCart(t *testing.T) {
	r, db := newRouter(t, trader())
	p := seedProduct(t, db, 5)
	send(r, http.MethodPost, "/cart", gin.H{"productId": p.ID, "quantity": 1, "sellingPrice": "1300"})
	if v := decodeView(t, send(r, http.MethodDelete, "/cart", nil)); len(v.Items) != 0 {
		t.Fatalf("items = %+v", v.Items)
	}
	var n int64
	db.Model(&models.CartEntry{}).Count(&n)
	if n != 0 {
		t.Fatalf("cart entries = %d", n)
	}
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
