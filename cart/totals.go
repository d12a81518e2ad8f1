package cart

import (
	"github.com/junaidrashid-git/bidaya-api/models"
	"github.com/shopspring/decimal"
)

// Totals are derived from the lines on every read and never stored.
type Totals struct {
	ItemCount    int             `json:"itemCount"`
	TotalCost    decimal.Decimal `json:"totalCost"`
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
	NetProfit    decimal.Decimal `json:"netProfit"`
}

func Summarize(items []models.CartItem) Totals {
	t := Totals{TotalCost: decimal.Zero, TotalRevenue: decimal.Zero}
	for _, it := range items {
		qty := decimal.NewFromInt(int64(it.Quantity))
		t.ItemCount += it.Quantity
		t.TotalCost = t.TotalCost.Add(it.Product.Price.Mul(qty))
		t.TotalRevenue = t.TotalRevenue.Add(it.SellingPrice.Mul(qty))
	}
	t.NetProfit = t.TotalRevenue.Sub(t.TotalCost)
	return t
}
