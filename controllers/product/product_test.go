package productcontroller

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/bidaya-api/internal/testdb"
	"github.com/junaidrashid-git/bidaya-api/models"
	"github.com/junaidrashid-git/bidaya-api/uploads"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	db := testdb.Open(t)
	store := uploads.NewStore(t.TempDir())
	r := gin.New()
	r.GET("/products", GetProducts(db))
	r.GET("/products/:id", GetProductByID(db))
	r.POST("/products", SaveProduct(db))
	r.PUT("/products/:id", SaveProduct(db))
	r.DELETE("/products/:id", DeleteProduct(db))
	r.POST("/products/:id/images", UploadProductImages(db, store))
	r.POST("/products/import-excel", ImportProductsFromExcel(db))
	r.GET("/products/export-excel", ExportProductsToExcel(db))
	r.GET("/categories", GetAllCategories(db))
	r.POST("/categories", CreateCategory(db, store))
	r.PUT("/categories/:id", UpdateCategory(db, store))
	r.DELETE("/categories/:id", DeleteCategory(db))
	return r, db
}

func sendJSON(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	data, _ := json.Marshal(body)
	req := httptest.NewRequest(method, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func sendForm(r http.Handler, method, path string, fields map[string]string, files map[string][]byte) *httptest.ResponseRecorder {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		mw.WriteField(k, v)
	}
	for name, content := range files {
		field := "images"
		if name == "products.xlsx" {
			field = "file"
		} else if name == "cover.png" {
			field = "image"
		}
		part, _ := mw.CreateFormFile(field, name)
		part.Write(content)
	}
	mw.Close()
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func blender(categoryID uint) ProductInput {
	return ProductInput{
		Name:       "Hand Blender",
		Price:      decimal.NewFromInt(1000),
		MinPrice:   decimal.NewFromInt(1200),
		MaxPrice:   decimal.NewFromInt(1500),
		Stock:      10,
		CategoryID: categoryID,
	}
}

func TestSaveProduct(t *testing.T) {
	r, db := newRouter(t)
	cat := models.Category{Name: "Kitchen"}
	db.Create(&cat)

	w := sendJSON(r, http.MethodPost, "/products", blender(cat.ID))
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", w.Code, w.Body)
	}
	var created models.Product
	json.Unmarshal(w.Body.Bytes(), &created)

	update := blender(cat.ID)
	update.Stock = 4
	w = sendJSON(r, http.MethodPut, "/products/"+itoa(created.ID), update)
	if w.Code != http.StatusOK {
		t.Fatalf("update status = %d: %s", w.Code, w.Body)
	}
	var stored models.Product
	db.First(&stored, created.ID)
	if stored.Stock != 4 {
		t.Errorf("stock = %d", stored.Stock)
	}

	bad := blender(cat.ID)
	bad.MinPrice = decimal.NewFromInt(2000)
	if w := sendJSON(r, http.MethodPost, "/products", bad); w.Code != http.StatusBadRequest {
		t.Errorf("inverted band status = %d", w.Code)
	}
	if w := sendJSON(r, http.MethodPost, "/products", blender(99)); w.Code != http.StatusBadRequest {
		t.Errorf("unknown category status = %d", w.Code)
	}
	if w := sendJSON(r, http.MethodPut, "/products/999", blender(0)); w.Code != http.StatusNotFound {
		t.Errorf("update missing status = %d", w.Code)
	}
}

func TestGetProductsFilters(t *testing.T) {
	r, db := newRouter(t)
	db.Create(&[]models.Product{
		{Name: "Hand Blender", CategoryID: 1, Stock: 1},
		{Name: "Phone Case", CategoryID: 2, Stock: 1},
		{Name: "Stand Blender", CategoryID: 1, Stock: 1},
	})

	get := func(path string) []models.Product {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("%s status = %d", path, w.Code)
		}
		var out []models.Product
		json.Unmarshal(w.Body.Bytes(), &out)
		return out
	}

	if got := get("/products?search=BLENDER&sort_by=name&order=asc"); len(got) != 2 || got[0].Name != "Hand Blender" {
		t.Errorf("search = %+v", got)
	}
	if got := get("/products?category_id=2"); len(got) != 1 || got[0].Name != "Phone Case" {
		t.Errorf("category = %+v", got)
	}

	req := httptest.NewRequest(http.MethodGet, "/products?sort_by=password", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad sort status = %d", w.Code)
	}
}

func TestDeleteProduct(t *testing.T) {
	r, db := newRouter(t)
	p := models.Product{Name: "Lamp"}
	db.Create(&p)
	db.Create(&models.Favorite{UserID: 1, ProductID: p.ID})

	req := httptest.NewRequest(http.MethodDelete, "/products/"+itoa(p.ID), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var favorites int64
	db.Model(&models.Favorite{}).Count(&favorites)
	if favorites != 0 {
		t.Errorf("favorites left = %d", favorites)
	}

	req = httptest.NewRequest(http.MethodGet, "/products/"+itoa(p.ID), nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("get deleted status = %d", w.Code)
	}
}

func TestUploadProductImages(t *testing.T) {
	r, db := newRouter(t)
	p := models.Product{Name: "Lamp"}
	db.Create(&p)

	w := sendForm(r, http.MethodPost, "/products/"+itoa(p.ID)+"/images", nil, map[string][]byte{"a.jpg": []byte("jpg")})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body)
	}
	var stored models.Product
	db.First(&stored, p.ID)
	if len(stored.Images) != 1 || stored.ImageURL != stored.Images[0] {
		t.Errorf("stored = %+v", stored)
	}

	w = sendForm(r, http.MethodPost, "/products/"+itoa(p.ID)+"/images", nil, map[string][]byte{"a.exe": []byte("MZ")})
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad type status = %d", w.Code)
	}
}

func TestExcelRoundTrip(t *testing.T) {
	r, db := newRouter(t)
	db.Create(&models.Product{
		Name: "Kettle", Price: decimal.NewFromInt(900), MinPrice: decimal.NewFromInt(1000),
		MaxPrice: decimal.NewFromInt(1300), Stock: 6,
	})

	req := httptest.NewRequest(http.MethodGet, "/products/export-excel", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("export status = %d", w.Code)
	}
	sheet := w.Body.Bytes()

	other, otherDB := newRouter(t)
	w = sendForm(other, http.MethodPost, "/products/import-excel", nil, map[string][]byte{"products.xlsx": sheet})
	if w.Code != http.StatusOK {
		t.Fatalf("import status = %d: %s", w.Code, w.Body)
	}
	var result struct {
		Created int `json:"created_count"`
		Skipped int `json:"skipped_count"`
	}
	json.Unmarshal(w.Body.Bytes(), &result)
	if result.Created != 1 || result.Skipped != 0 {
		t.Errorf("result = %+v (%s)", result, w.Body)
	}
	var imported models.Product
	if err := otherDB.First(&imported, "name = ?", "Kettle").Error; err != nil {
		t.Fatal(err)
	}
	if imported.Stock != 6 || !imported.MaxPrice.Equal(decimal.NewFromInt(1300)) {
		t.Errorf("imported = %+v", imported)
	}

	// Importing the same sheet into the source database updates by id.
	w = sendForm(r, http.MethodPost, "/products/import-excel", nil, map[string][]byte{"products.xlsx": sheet})
	var again struct {
		Updated int `json:"updated_count"`
	}
	json.Unmarshal(w.Body.Bytes(), &again)
	if again.Updated != 1 {
		t.Errorf("second import = %s", w.Body)
	}
}

func TestCategories(t *testing.T) {
	r, db := newRouter(t)

	w := sendForm(r, http.MethodPost, "/categories", map[string]string{"name": "إلكترونيات"}, map[string][]byte{"cover.png": []byte("png")})
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", w.Code, w.Body)
	}
	var cat models.Category
	json.Unmarshal(w.Body.Bytes(), &cat)
	if cat.Image == "" {
		t.Error("image not stored")
	}

	if w := sendForm(r, http.MethodPost, "/categories", map[string]string{"name": "إلكترونيات"}, nil); w.Code != http.StatusConflict {
		t.Errorf("duplicate status = %d", w.Code)
	}
	if w := sendForm(r, http.MethodPut, "/categories/"+itoa(cat.ID), map[string]string{"name": "هواتف"}, nil); w.Code != http.StatusOK {
		t.Errorf("update status = %d", w.Code)
	}

	p := models.Product{Name: "Charger", CategoryID: cat.ID}
	db.Create(&p)
	req := httptest.NewRequest(http.MethodDelete, "/categories/"+itoa(cat.ID), nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("delete status = %d", w.Code)
	}
	db.First(&p, p.ID)
	if p.CategoryID != 0 {
		t.Errorf("product still in deleted category %d", p.CategoryID)
	}
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
