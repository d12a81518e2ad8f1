package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartItem embeds the product as it was fetched, not a live reference.
type CartItem struct {
	Product      Product         `json:"product"`
	Quantity     int             `json:"quantity"`
	SellingPrice decimal.Decimal `json:"sellingPrice"`
}

// CartEntry stores one trader's serialized cart, overwritten on every change.
type CartEntry struct {
	OwnerID   uint   `gorm:"primaryKey;autoIncrement:false"`
	Payload   []byte `gorm:"not null"`
	UpdatedAt time.Time
}
