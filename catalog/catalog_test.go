package catalog

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/junaidrashid-git/bidaya-api/models"
)

type stubSource struct {
	products []models.Product
	err      error
}

func (s stubSource) Products(context.Context) ([]models.Product, error) { return s.products, s.err }

func (s stubSource) Product(_ context.Context, id uint) (*models.Product, error) {
	for i := range s.products {
		if s.products[i].ID == id {
			return &s.products[i], nil
		}
	}
	return nil, s.err
}

func (s stubSource) Categories(context.Context) ([]models.Category, error) {
	return []models.Category{{ID: 1, Name: "إلكترونيات"}}, s.err
}

func sample() []models.Product {
	return []models.Product{
		{ID: 1, Name: "Wireless Earbuds", CategoryID: 1},
		{ID: 2, Name: "Phone Case", CategoryID: 1},
		{ID: 3, Name: "Kitchen Scale", CategoryID: 2},
		{ID: 4, Name: "سماعة رأس", CategoryID: 1},
	}
}

func TestFilter(t *testing.T) {
	tests := []struct {
		category uint
		search   string
		want     []uint
	}{
		{0, "", []uint{1, 2, 3, 4}},
		{1, "", []uint{1, 2, 4}},
		{0, "  PHONE ", []uint{2}},
		{2, "phone", nil},
		{1, "سماعة", []uint{4}},
	}
	for _, tt := range tests {
		got := Filter(sample(), tt.category, tt.search)
		var ids []uint
		for _, p := range got {
			ids = append(ids, p.ID)
		}
		if fmt.Sprint(ids) != fmt.Sprint(tt.want) {
			t.Errorf("Filter(%d, %q) = %v, want %v", tt.category, tt.search, ids, tt.want)
		}
	}
}

func TestPage(t *testing.T) {
	var products []models.Product
	for i := 1; i <= 19; i++ {
		products = append(products, models.Product{ID: uint(i)})
	}
	page, pages := Page(products, 3)
	if pages != 3 || len(page) != 3 || page[0].ID != 17 {
		t.Errorf("page 3 = %d items starting at %v, pages = %d", len(page), page, pages)
	}
	if page, _ := Page(products, 4); page != nil {
		t.Errorf("page past the end = %v", page)
	}
	if _, pages := Page(nil, 1); pages != 0 {
		t.Errorf("pages of empty list = %d", pages)
	}
}

func TestProductNotFound(t *testing.T) {
	a := New(stubSource{products: sample()})
	if _, err := a.Product(context.Background(), 99); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("err = %v", err)
	}
	p, err := a.Product(context.Background(), 3)
	if err != nil || p.Name != "Kitchen Scale" {
		t.Fatalf("p = %+v, err = %v", p, err)
	}
}

func TestSourceErrorsAreWrapped(t *testing.T) {
	boom := errors.New("connection refused")
	a := New(stubSource{err: boom})
	if _, err := a.Products(context.Background()); !errors.Is(err, boom) {
		t.Errorf("err = %v", err)
	}
	if _, err := a.Categories(context.Background()); !errors.Is(err, boom) {
		t.Errorf("err = %v", err)
	}
}
