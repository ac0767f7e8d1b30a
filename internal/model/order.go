package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

const PaymentStatusCompleted = "completed"

// ValidOrderStatus reports whether s belongs to the enumerated status set.
// Transitions between statuses are not restricted, the backend accepts any of them.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

type Customer struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type LineItem struct {
	ProductID     string          `json:"productID"`
	Name          string          `json:"name"`
	Quantity      int             `json:"quantity"`
	SelectedSize  string          `json:"selectedSize"`
	SelectedImage string          `json:"selectedImage"`
	Price         decimal.Decimal `json:"price"`
}

type Order struct {
	ID            string          `json:"id"`
	Status        string          `json:"status"`
	PaymentStatus string          `json:"paymentStatus"`
	Customer      Customer        `json:"customer"`
	Products      []LineItem      `json:"products"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	CreatedAt     time.Time       `json:"createdAt"`
}

type StatusUpdateInput struct {
	Status string `json:"status"`
}
