package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

// CanTransitionTo encodes the order lifecycle: pending -> processing ->
// shipped -> delivered, with cancellation allowed from any non-terminal state.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	switch s {
	case OrderPending:
		return next == OrderProcessing || next == OrderCancelled
	case OrderProcessing:
		return next == OrderShipped || next == OrderCancelled
	case OrderShipped:
		return next == OrderDelivered || next == OrderCancelled
	default:
		return false
	}
}

func (s OrderStatus) Terminal() bool {
	return s == OrderDelivered || s == OrderCancelled
}

func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch OrderStatus(s) {
	case OrderPending, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled:
		return OrderStatus(s), true
	}
	return "", false
}

type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "pending"
	PaymentProcessing PaymentStatus = "processing"
	PaymentCompleted  PaymentStatus = "completed"
	PaymentFailed     PaymentStatus = "failed"
	PaymentRefunded   PaymentStatus = "refunded"
)

// CanTransitionTo allows failed payments to re-enter processing (retry) and
// completed payments to be refunded. Refunded is terminal.
func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	switch s {
	case PaymentPending:
		return next == PaymentProcessing || next == PaymentFailed
	case PaymentProcessing:
		return next == PaymentCompleted || next == PaymentFailed
	case PaymentCompleted:
		return next == PaymentRefunded
	case PaymentFailed:
		return next == PaymentProcessing
	default:
		return false
	}
}

func ParsePaymentStatus(s string) (PaymentStatus, bool) {
	switch PaymentStatus(s) {
	case PaymentPending, PaymentProcessing, PaymentCompleted, PaymentFailed, PaymentRefunded:
		return PaymentStatus(s), true
	}
	return "", false
}

type PaymentMethod string

const (
	MethodCreditCard     PaymentMethod = "CREDIT_CARD"
	MethodMada           PaymentMethod = "MADA"
	MethodCashOnDelivery PaymentMethod = "CASH_ON_DELIVERY"
	MethodApplePay       PaymentMethod = "APPLE_PAY"
	MethodStcPay         PaymentMethod = "STC_PAY"
)

// IsCard reports whether the method requires card data and a gateway charge.
func (m PaymentMethod) IsCard() bool {
	return m == MethodCreditCard || m == MethodMada
}

type Order struct {
	ID             uint64           `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID         string           `json:"userId" gorm:"size:64;not null;index"`
	Status         OrderStatus      `json:"status" gorm:"size:20;not null;default:'pending'"`
	OrderDate      time.Time        `json:"orderDate" gorm:"not null"`
	SubTotal       decimal.Decimal  `json:"subTotal" gorm:"type:decimal(10,2);not null"`
	DiscountAmount decimal.Decimal  `json:"discountAmount" gorm:"type:decimal(10,2);not null"`
	VatAmount      decimal.Decimal  `json:"vatAmount" gorm:"type:decimal(10,2);not null"`
	TotalAmount    decimal.Decimal  `json:"totalAmount" gorm:"type:decimal(10,2);not null"`
	DeliveryFee    decimal.Decimal  `json:"deliveryFee" gorm:"type:decimal(10,2);not null"`
	PromoCodeID    *uint64          `json:"promoCodeId,omitempty"`
	InvoicePath    string           `json:"invoicePath,omitempty" gorm:"size:255"`
	Items          []OrderItem      `json:"items" gorm:"foreignKey:OrderID"`
	Address        *DeliveryAddress `json:"address,omitempty" gorm:"foreignKey:OrderID"`
	Payment        *PaymentDetails  `json:"payment,omitempty" gorm:"foreignKey:OrderID"`
}

// FinalAmount is the amount actually charged: the VAT-inclusive total plus
// the untaxed delivery fee.
func (o *Order) FinalAmount() decimal.Decimal {
	return o.TotalAmount.Add(o.DeliveryFee)
}

// OrderItem snapshots product name and prices at creation time so later
// catalog edits cannot rewrite order history.
type OrderItem struct {
	ID             uint64          `json:"id" gorm:"primaryKey;autoIncrement"`
	OrderID        uint64          `json:"orderId" gorm:"not null;index"`
	ProductID      uint64          `json:"productId" gorm:"not null"`
	ProductName    string          `json:"productName" gorm:"size:100;not null"`
	Quantity       int             `json:"quantity" gorm:"not null"`
	OriginalPrice  decimal.Decimal `json:"originalPrice" gorm:"type:decimal(10,2);not null"`
	Price          decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	DiscountAmount decimal.Decimal `json:"discountAmount" gorm:"type:decimal(10,2);not null"`
	DiscountName   string          `json:"discountName,omitempty" gorm:"size:100"`
	DiscountID     *uint64         `json:"discountId,omitempty"`
	Total          decimal.Decimal `json:"total" gorm:"type:decimal(10,2);not null"`
}

type DeliveryAddress struct {
	ID                uint64 `json:"id" gorm:"primaryKey;autoIncrement"`
	OrderID           uint64 `json:"orderId" gorm:"not null;uniqueIndex"`
	FullName          string `json:"fullName" gorm:"size:100;not null"`
	PhoneNumber       string `json:"phoneNumber" gorm:"size:20;not null"`
	City              string `json:"city" gorm:"size:50;not null"`
	Street            string `json:"street" gorm:"size:100"`
	BuildingNumber    string `json:"buildingNumber,omitempty" gorm:"size:20"`
	AdditionalDetails string `json:"additionalDetails,omitempty" gorm:"size:200"`
}

type PaymentDetails struct {
	ID            uint64          `json:"id" gorm:"primaryKey;autoIncrement"`
	OrderID       uint64          `json:"orderId" gorm:"not null;uniqueIndex"`
	Method        PaymentMethod   `json:"paymentMethod" gorm:"size:30;not null"`
	Status        PaymentStatus   `json:"status" gorm:"size:20;not null;default:'pending'"`
	Amount        decimal.Decimal `json:"amount" gorm:"type:decimal(10,2);not null"`
	Currency      string          `json:"currency" gorm:"size:3;not null;default:'SAR'"`
	TransactionID string          `json:"transactionId,omitempty" gorm:"size:100"`
	ErrorMessage  string          `json:"errorMessage,omitempty" gorm:"size:500"`
	PaidAt        *time.Time      `json:"paidAt,omitempty"`
	IsRefunded    bool            `json:"isRefunded" gorm:"not null;default:false"`
	RefundedAt    *time.Time      `json:"refundedAt,omitempty"`
	RefundAmount  decimal.Decimal `json:"refundAmount" gorm:"type:decimal(10,2);not null;default:0"`
	CreatedAt     time.Time       `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt     time.Time       `json:"updatedAt" gorm:"autoUpdateTime"`
}
