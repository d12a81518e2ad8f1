package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string
type PaymentMethod string

const (
	OrderStatusPending    OrderStatus = "PENDING"    // Recorded, not yet handled
	OrderStatusProcessing OrderStatus = "PROCESSING" // Being prepared
	OrderStatusShipped    OrderStatus = "SHIPPED"    // Out for delivery
	OrderStatusDelivered  OrderStatus = "DELIVERED"  // Customer received it
	OrderStatusCancelled  OrderStatus = "CANCELLED"  // Cancelled, stock returned

	PaymentCashOnDelivery PaymentMethod = "CASH_ON_DELIVERY"
	PaymentCreditCard     PaymentMethod = "CREDIT_CARD"
	PaymentBankTransfer   PaymentMethod = "BANK_TRANSFER"
)

// CustomerInfo is captured during checkout only; it is never copied to a profile.
type CustomerInfo struct {
	Name        string `json:"name" binding:"required"`
	Phone       string `json:"phone" binding:"required"`
	Governorate string `json:"governorate" binding:"required"`
	Address     string `json:"address" binding:"required"`
	Notes       string `json:"notes,omitempty"`
}

type Order struct {
	ID            string          `gorm:"primaryKey;type:VARCHAR(36)" json:"id"`
	Date          time.Time       `gorm:"index" json:"date"`
	Customer      CustomerInfo    `gorm:"type:text;serializer:json" json:"customer"`
	Items         []CartItem      `gorm:"type:text;serializer:json" json:"items"`
	TotalCost     decimal.Decimal `gorm:"type:numeric(14,2)" json:"totalCost"`
	TotalRevenue  decimal.Decimal `gorm:"type:numeric(14,2)" json:"totalRevenue"`
	NetProfit     decimal.Decimal `gorm:"type:numeric(14,2)" json:"netProfit"`
	Status        OrderStatus     `gorm:"type:VARCHAR(20);default:'PROCESSING';index" json:"status"`
	TraderID      uint            `gorm:"index;not null" json:"traderId"`
	PaymentMethod PaymentMethod   `gorm:"type:VARCHAR(20)" json:"paymentMethod"`
}

// OrderDraft is what a cart submits; the backend assigns the id, date and status.
type OrderDraft struct {
	TraderID      uint            `json:"traderId"`
	Customer      CustomerInfo    `json:"customer"`
	Items         []CartItem      `json:"items"`
	PaymentMethod PaymentMethod   `json:"paymentMethod"`
	TotalCost     decimal.Decimal `json:"totalCost"`
	TotalRevenue  decimal.Decimal `json:"totalRevenue"`
	NetProfit     decimal.Decimal `json:"netProfit"`
}

func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch st := OrderStatus(s); st {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return st, true
	}
	return "", false
}

func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	switch m := PaymentMethod(s); m {
	case PaymentCashOnDelivery, PaymentCreditCard, PaymentBankTransfer:
		return m, true
	}
	return "", false
}

// PaymentMethods lists the accepted methods in display order.
func PaymentMethods() []PaymentMethod {
	return []PaymentMethod{PaymentCashOnDelivery, PaymentCreditCard, PaymentBankTransfer}
}
