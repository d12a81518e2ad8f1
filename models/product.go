package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Product struct {
	ID          uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string          `gorm:"not null" json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"price"` // Cost price
	MinPrice    decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"minPrice"`
	MaxPrice    decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"maxPrice"`
	Stock       int             `json:"stock"`
	ImageURL    string          `json:"imageUrl"`
	Images      []string        `gorm:"type:text;serializer:json" json:"images"`
	CategoryID  uint            `gorm:"index" json:"categoryId"`
	Category    *Category       `json:"category,omitempty"`
	CreatedAt   time.Time       `json:"-"`
	UpdatedAt   time.Time       `json:"-"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
}

// InBand reports whether price lies in [MinPrice, MaxPrice].
func (p *Product) InBand(price decimal.Decimal) bool {
	return price.GreaterThanOrEqual(p.MinPrice) && price.LessThanOrEqual(p.MaxPrice)
}

// Validate checks the fields an admin must get right when saving.
func (p *Product) Validate() error {
	switch {
	case p.Name == "":
		return ErrInvalidProduct("name is required")
	case p.Price.IsNegative():
		return ErrInvalidProduct("price must not be negative")
	case p.MinPrice.GreaterThan(p.MaxPrice):
		return ErrInvalidProduct("minPrice must not exceed maxPrice")
	case p.Stock < 0:
		return ErrInvalidProduct("stock must not be negative")
	}
	return nil
}
