package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderCreatedEvent struct {
	OrderID     uint64          `json:"orderId"`
	UserID      string          `json:"userId"`
	ItemCount   int             `json:"itemCount"`
	FinalAmount decimal.Decimal `json:"finalAmount"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type OrderCancelledEvent struct {
	OrderID      uint64          `json:"orderId"`
	UserID       string          `json:"userId"`
	RefundAmount decimal.Decimal `json:"refundAmount"`
	CancelledAt  time.Time       `json:"cancelledAt"`
}

type OrderStatusChangedEvent struct {
	OrderID   uint64      `json:"orderId"`
	OldStatus OrderStatus `json:"oldStatus"`
	NewStatus OrderStatus `json:"newStatus"`
	ChangedAt time.Time   `json:"changedAt"`
}
