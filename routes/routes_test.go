package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/bidaya-api/auth"
	"github.com/junaidrashid-git/bidaya-api/internal/testdb"
	"github.com/junaidrashid-git/bidaya-api/models"
	"github.com/junaidrashid-git/bidaya-api/notify"
	"github.com/junaidrashid-git/bidaya-api/orders"
	"github.com/junaidrashid-git/bidaya-api/reports"
	"github.com/junaidrashid-git/bidaya-api/uploads"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type app struct {
	t  *testing.T
	r  *gin.Engine
	db *gorm.DB
}

func newApp(t *testing.T) *app {
	t.Helper()
	db := testdb.Open(t)
	svc := auth.NewService(db, "route-secret", time.Hour)
	svc.Cost = bcrypt.MinCost
	reporter, err := reports.New(db)
	if err != nil {
		t.Fatal(err)
	}
	hub := notify.NewHub()

	r := gin.New()
	SetupRoutes(r, Deps{
		DB:      db,
		Auth:    svc,
		Orders:  orders.NewStore(db, hub, nil),
		Reports: reporter,
		Hub:     hub,
		Uploads: uploads.NewStore(t.TempDir()),
		APIKey:  "partner-key",
	})
	return &app{t: t, r: r, db: db}
}

func (a *app) do(method, path, token string, body interface{}) (*httptest.ResponseRecorder, []byte) {
	var data []byte
	if body != nil {
		data, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.r.ServeHTTP(w, req)
	return w, w.Body.Bytes()
}

// account registers, sets role and status directly, and signs in.
func (a *app) account(email string, role models.Role) (string, models.User) {
	a.t.Helper()
	reg := gin.H{"fullName": "User " + email, "email": email, "password": "password-123",
		"phone": "0770", "governorate": "كركوك", "age": 33}
	if w, body := a.do(http.MethodPost, "/auth/register", "", reg); w.Code != http.StatusCreated {
		a.t.Fatalf("register %s: %d %s", email, w.Code, body)
	}
	a.db.Model(&models.User{}).Where("email = ?", email).
		Updates(map[string]interface{}{"role": role, "status": models.StatusApproved})

	w, body := a.do(http.MethodPost, "/auth/login", "", gin.H{"email": email, "password": "password-123"})
	if w.Code != http.StatusOK {
		a.t.Fatalf("login %s: %d %s", email, w.Code, body)
	}
	var out struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	json.Unmarshal(body, &out)
	return out.Token, out.User
}

func TestAccessControl(t *testing.T) {
	a := newApp(t)
	trader, _ := a.account("trader@bidaya.iq", models.RoleTrader)
	admin, _ := a.account("admin@bidaya.iq", models.RoleAdmin)

	cases := []struct {
		path, token string
		status      int
	}{
		{"/user/products", "", http.StatusUnauthorized},
		{"/user/products", trader, http.StatusOK},
		{"/user/products", admin, http.StatusOK},
		{"/admin/dashboard", trader, http.StatusForbidden},
		{"/admin/dashboard", admin, http.StatusOK},
		{"/admin/users/pending", admin, http.StatusOK},
		{"/user/policy/delivery", trader, http.StatusOK},
		{"/integrations/products/export-excel", "", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		if w, body := a.do(http.MethodGet, tc.path, tc.token, nil); w.Code != tc.status {
			t.Errorf("%s: status = %d, want %d (%s)", tc.path, w.Code, tc.status, body)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/integrations/products/export-excel", nil)
	req.Header.Set("X-API-KEY", "partner-key")
	w := httptest.NewRecorder()
	a.r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("export with key = %d", w.Code)
	}
}

func TestBanEndsSession(t *testing.T) {
	a := newApp(t)
	trader, user := a.account("trader@bidaya.iq", models.RoleTrader)
	admin, _ := a.account("admin@bidaya.iq", models.RoleAdmin)

	path := "/admin/users/" + strconv.FormatUint(uint64(user.ID), 10) + "/ban"
	if w, body := a.do(http.MethodPost, path, admin, nil); w.Code != http.StatusOK {
		t.Fatalf("ban = %d %s", w.Code, body)
	}
	if w, _ := a.do(http.MethodGet, "/user/", trader, nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("banned session = %d", w.Code)
	}
}

func TestCartCheckoutToAdminOrders(t *testing.T) {
	a := newApp(t)
	trader, user := a.account("trader@bidaya.iq", models.RoleTrader)
	admin, _ := a.account("admin@bidaya.iq", models.RoleAdmin)

	p := models.Product{Name: "Fan", Price: decimal.NewFromInt(20000), MinPrice: decimal.NewFromInt(25000),
		MaxPrice: decimal.NewFromInt(30000), Stock: 3}
	a.db.Create(&p)

	if w, body := a.do(http.MethodPost, "/user/cart", trader, gin.H{"productId": p.ID, "quantity": 2, "sellingPrice": "27000"}); w.Code != http.StatusOK {
		t.Fatalf("add = %d %s", w.Code, body)
	}
	customer := gin.H{"name": "Noor", "phone": "07712345678", "governorate": "كركوك", "address": "Street 60"}
	w, body := a.do(http.MethodPost, "/user/checkout", trader, gin.H{"customer": customer, "paymentMethod": "CASH_ON_DELIVERY"})
	if w.Code != http.StatusCreated {
		t.Fatalf("checkout = %d %s", w.Code, body)
	}
	var order models.Order
	json.Unmarshal(body, &order)
	if order.TraderID != user.ID || !order.NetProfit.Equal(decimal.NewFromInt(14000)) {
		t.Fatalf("order = %+v", order)
	}

	var mine []models.Order
	_, body = a.do(http.MethodGet, "/user/orders", trader, nil)
	json.Unmarshal(body, &mine)
	if len(mine) != 1 {
		t.Fatalf("trader orders = %d", len(mine))
	}

	if w, _ = a.do(http.MethodPut, "/admin/orders/"+order.ID+"/status", admin, gin.H{"status": "DELIVERED"}); w.Code != http.StatusOK {
		t.Fatalf("deliver = %d", w.Code)
	}
	var payouts []reports.Payout
	_, body = a.do(http.MethodGet, "/admin/payouts", admin, nil)
	json.Unmarshal(body, &payouts)
	if len(payouts) != 1 || !payouts[0].NetProfit.Equal(decimal.NewFromInt(14000)) {
		t.Fatalf("payouts = %s", body)
	}
}
