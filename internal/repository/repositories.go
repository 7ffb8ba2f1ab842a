package repository

import (
	"context"
	"time"

	"order-engine/internal/domain"
)

type ProductRepository interface {
	FindByID(ctx context.Context, id uint64) (*domain.Product, error)
	// DecrementStock performs an atomic conditional decrement
	// (stock = stock - qty WHERE stock >= qty) and fails with an
	// INSUFFICIENT_STOCK conflict when the condition does not hold.
	DecrementStock(ctx context.Context, id uint64, qty int) error
	RestoreStock(ctx context.Context, id uint64, qty int) error
}

type CartRepository interface {
	ListByUser(ctx context.Context, userID string) ([]domain.CartItem, error)
	ClearByUser(ctx context.Context, userID string) error
}

type DiscountRepository interface {
	ListActive(ctx context.Context, at time.Time) ([]domain.Discount, error)
}

type PromoCodeRepository interface {
	// FindByCode locks the promo row for the duration of the transaction so
	// usage counters cannot race with concurrent redemptions.
	FindByCode(ctx context.Context, code string) (*domain.PromoCode, error)
	CountUsages(ctx context.Context, promoCodeID uint64) (int64, error)
	CountUserUsages(ctx context.Context, promoCodeID uint64, userID string) (int64, error)
	RecordUsage(ctx context.Context, usage *domain.PromoCodeUsage) error
}

type OrderRepository interface {
	// Create persists the order together with its items, address and
	// payment record, assigning ids.
	Create(ctx context.Context, order *domain.Order) error
	FindByID(ctx context.Context, id uint64) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string, status domain.OrderStatus, limit, offset int) ([]domain.Order, error)
	// Update saves order fields and the payment record if present.
	Update(ctx context.Context, order *domain.Order) error
	SetInvoicePath(ctx context.Context, orderID uint64, path string) error
}

// Tx exposes the repositories bound to one database handle, either a live
// transaction or the root connection.
type Tx interface {
	Products() ProductRepository
	Carts() CartRepository
	Discounts() DiscountRepository
	PromoCodes() PromoCodeRepository
	Orders() OrderRepository
}

// Store is the unit-of-work entry point. WithinTransaction runs fn inside a
// single atomic unit and retries the whole unit from the start on transient
// storage failures (deadlock, lock wait timeout), bounded by a small count.
type Store interface {
	Tx
	WithinTransaction(ctx context.Context, fn func(tx Tx) error) error
}
