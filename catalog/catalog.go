// Package catalog gives the storefront read-only access to products and
// categories.
package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/junaidrashid-git/bidaya-api/models"
)

const PageSize = 8

// Source is implemented by client.Client.
type Source interface {
	Products(ctx context.Context) ([]models.Product, error)
	Product(ctx context.Context, id uint) (*models.Product, error)
	Categories(ctx context.Context) ([]models.Category, error)
}

type Accessor struct {
	src Source
}

func New(src Source) *Accessor {
	return &Accessor{src: src}
}

func (a *Accessor) Products(ctx context.Context) ([]models.Product, error) {
	products, err := a.src.Products(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch products: %w", err)
	}
	return products, nil
}

// Product returns models.ErrNotFound when id does not exist.
func (a *Accessor) Product(ctx context.Context, id uint) (*models.Product, error) {
	p, err := a.src.Product(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetch product %d: %w", id, err)
	}
	if p == nil {
		return nil, fmt.Errorf("fetch product %d: %w", id, models.ErrNotFound)
	}
	return p, nil
}

func (a *Accessor) Categories(ctx context.Context) ([]models.Category, error) {
	categories, err := a.src.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch categories: %w", err)
	}
	return categories, nil
}

// Filter keeps products whose name contains search (case-insensitive) and,
// when categoryID is non-zero, that belong to that category.
func Filter(products []models.Product, categoryID uint, search string) []models.Product {
	search = strings.ToLower(strings.TrimSpace(search))
	var out []models.Product
	for _, p := range products {
		if categoryID != 0 && p.CategoryID != categoryID {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Page returns the 1-based page of products and the total page count.
func Page(products []models.Product, page int) ([]models.Product, int) {
	pages := (len(products) + PageSize - 1) / PageSize
	if page < 1 || page > pages {
		return nil, pages
	}
	start := (page - 1) * PageSize
	end := start + PageSize
	if end > len(products) {
		end = len(products)
	}
	return products[start:end], pages
}
