package services

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"

	"order-engine/internal/domain"
	"order-engine/internal/errs"
	"order-engine/internal/infra"
	rabbit "order-engine/internal/infra/rabbitmq"
	"order-engine/internal/pricing"
	"order-engine/internal/promo"
	"order-engine/internal/repository"
)

const activeDiscountsCacheKey = "discounts:active"

// InvoiceRenderer writes an invoice document for an order and returns its path.
type InvoiceRenderer interface {
	Generate(order *domain.Order) (string, error)
}

type OrderService struct {
	store       repository.Store
	gateway     infra.CardGatewayInterface
	publisher   rabbit.PublisherInterface
	invoices    InvoiceRenderer
	redisClient *redis.Client
}

func NewOrderService(store repository.Store, gateway infra.CardGatewayInterface, pub rabbit.PublisherInterface) *OrderService {
	return &OrderService{
		store:     store,
		gateway:   gateway,
		publisher: pub,
	}
}

func (u *OrderService) SetRedisClient(client *redis.Client) {
	u.redisClient = client
}

func (u *OrderService) SetInvoiceRenderer(r InvoiceRenderer) {
	u.invoices = r
}

type CreateOrderInput struct {
	UserID        string
	Address       domain.DeliveryAddress
	PaymentMethod domain.PaymentMethod
	PaymentData   PaymentData
	PromoCode     string
}

// CreateOrder turns the user's cart into an order inside one atomic unit:
// price every line against the active discounts, validate and redeem an
// optional promo code, persist the order graph, charge the payment, decrement
// stock and clear the cart. A failure at any point rolls the whole unit back.
func (u *OrderService) CreateOrder(ctx context.Context, in CreateOrderInput) (*domain.Order, error) {
	if in.UserID == "" {
		return nil, errs.New(errs.KindUnauthorized, "MISSING_USER", "user id is required")
	}
	if in.Address.FullName == "" || in.Address.PhoneNumber == "" || in.Address.City == "" {
		return nil, errs.New(errs.KindValidation, "INVALID_ADDRESS", "full name, phone number and city are required")
	}

	var created *domain.Order
	err := u.store.WithinTransaction(ctx, func(tx repository.Tx) error {
		cartItems, err := tx.Carts().ListByUser(ctx, in.UserID)
		if err != nil {
			return err
		}
		if len(cartItems) == 0 {
			return errs.New(errs.KindValidation, "EMPTY_CART", "cart is empty")
		}

		now := time.Now().UTC()
		active, err := u.activeDiscounts(ctx, tx, now)
		if err != nil {
			return err
		}

		subtotal := decimal.Zero
		itemDiscount := decimal.Zero
		items := make([]domain.OrderItem, 0, len(cartItems))
		for _, ci := range cartItems {
			product, err := tx.Products().FindByID(ctx, ci.ProductID)
			if err != nil {
				return err
			}
			// Early check for a friendly message; the conditional decrement
			// below remains the authority under concurrency.
			if product.Stock < ci.Quantity {
				return errs.Newf(errs.KindConflict, "INSUFFICIENT_STOCK",
					"product %d: requested %d, available %d", product.ID, ci.Quantity, product.Stock)
			}

			candidates := promo.ApplicableDiscounts(active, product.ID, product.Category, now)
			best := pricing.BestDiscount(candidates, product.Price)
			unit := pricing.DiscountedUnitPrice(product.Price, best)

			qty := decimal.NewFromInt(int64(ci.Quantity))
			item := domain.OrderItem{
				ProductID:      product.ID,
				ProductName:    product.Name,
				Quantity:       ci.Quantity,
				OriginalPrice:  product.Price,
				Price:          unit,
				DiscountAmount: product.Price.Sub(unit).Mul(qty),
				Total:          unit.Mul(qty),
			}
			if best != nil {
				id := best.ID
				item.DiscountID = &id
				item.DiscountName = best.Name
			}
			subtotal = subtotal.Add(product.Price.Mul(qty))
			itemDiscount = itemDiscount.Add(item.DiscountAmount)
			items = append(items, item)
		}

		totalDiscount := itemDiscount
		var promoID *uint64
		if in.PromoCode != "" {
			code := strings.ToUpper(strings.TrimSpace(in.PromoCode))
			pc, err := tx.PromoCodes().FindByCode(ctx, code)
			if err != nil {
				return err
			}
			var totalUses, userUses int64
			if pc != nil {
				if totalUses, err = tx.PromoCodes().CountUsages(ctx, pc.ID); err != nil {
					return err
				}
				if userUses, err = tx.PromoCodes().CountUserUsages(ctx, pc.ID, in.UserID); err != nil {
					return err
				}
			}
			// Promo stacks on top of per-item discounts, computed against
			// what is actually left to pay.
			amount, err := promo.Validate(pc, subtotal.Sub(itemDiscount), totalUses, userUses, now)
			if err != nil {
				return err
			}
			totalDiscount = totalDiscount.Add(amount)
			promoID = &pc.ID
		}

		total := subtotal.Sub(totalDiscount)
		address := in.Address
		order := &domain.Order{
			UserID:         in.UserID,
			Status:         domain.OrderPending,
			OrderDate:      now,
			SubTotal:       subtotal,
			DiscountAmount: totalDiscount,
			VatAmount:      pricing.VATFromInclusive(total),
			TotalAmount:    total,
			DeliveryFee:    pricing.DeliveryFee,
			PromoCodeID:    promoID,
			Items:          items,
			Address:        &address,
		}
		order.Payment = &domain.PaymentDetails{
			Method:   in.PaymentMethod,
			Status:   domain.PaymentPending,
			Amount:   order.FinalAmount(),
			Currency: "SAR",
		}

		if err := tx.Orders().Create(ctx, order); err != nil {
			return err
		}

		// A declined or invalid payment aborts the unit, so no order row
		// survives a failed charge.
		if err := u.processPayment(ctx, order.Payment, in.PaymentData); err != nil {
			return err
		}
		if err := tx.Orders().Update(ctx, order); err != nil {
			return err
		}

		for _, item := range order.Items {
			if err := tx.Products().DecrementStock(ctx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}

		if promoID != nil {
			usage := &domain.PromoCodeUsage{
				PromoCodeID: *promoID,
				UserID:      in.UserID,
				OrderID:     order.ID,
				UsedAt:      now,
			}
			if err := tx.PromoCodes().RecordUsage(ctx, usage); err != nil {
				return err
			}
		}

		if err := tx.Carts().ClearByUser(ctx, in.UserID); err != nil {
			return err
		}

		created = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	go u.generateInvoice(created)
	go u.publishEvent(context.Background(), rabbit.KeyOrderCreated, domain.OrderCreatedEvent{
		OrderID:     created.ID,
		UserID:      created.UserID,
		ItemCount:   len(created.Items),
		FinalAmount: created.FinalAmount(),
		CreatedAt:   created.OrderDate,
	})

	return created, nil
}

// CancelOrder is the customer-facing cancellation: only the owner may cancel,
// only while the order is pending or processing, and only within one hour of
// placing it. Stock is restored and the payment is marked refunded.
func (u *OrderService) CancelOrder(ctx context.Context, orderID uint64, userID string) (*domain.Order, error) {
	var cancelled *domain.Order
	err := u.store.WithinTransaction(ctx, func(tx repository.Tx) error {
		order, err := tx.Orders().FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if order.UserID != userID {
			return errs.New(errs.KindUnauthorized, "NOT_OWNER", "order belongs to another user")
		}
		if order.Status != domain.OrderPending && order.Status != domain.OrderProcessing {
			return errs.Newf(errs.KindConflict, "CANCELLATION_NOT_ALLOWED",
				"order in status %s cannot be cancelled", order.Status)
		}
		if time.Since(order.OrderDate) > time.Hour {
			return errs.New(errs.KindConflict, "CANCELLATION_WINDOW_EXPIRED",
				"orders can only be cancelled within one hour of placement")
		}

		order.Status = domain.OrderCancelled
		if err := u.restockItems(ctx, tx, order); err != nil {
			return err
		}
		u.markRefunded(order)
		if err := tx.Orders().Update(ctx, order); err != nil {
			return err
		}
		cancelled = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	go u.publishEvent(context.Background(), rabbit.KeyOrderCancelled, domain.OrderCancelledEvent{
		OrderID:      cancelled.ID,
		UserID:       cancelled.UserID,
		RefundAmount: cancelled.TotalAmount,
		CancelledAt:  time.Now().UTC(),
	})

	return cancelled, nil
}

// UpdateOrderStatus moves an order along its lifecycle. Delivering an order
// settles its payment; cancelling one restores stock and refunds it.
func (u *OrderService) UpdateOrderStatus(ctx context.Context, orderID uint64, next domain.OrderStatus) (*domain.Order, error) {
	var updated *domain.Order
	var previous domain.OrderStatus
	err := u.store.WithinTransaction(ctx, func(tx repository.Tx) error {
		order, err := tx.Orders().FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if !order.Status.CanTransitionTo(next) {
			return errs.Newf(errs.KindConflict, "INVALID_TRANSITION",
				"cannot move order from %s to %s", order.Status, next)
		}

		previous = order.Status
		order.Status = next
		switch next {
		case domain.OrderDelivered:
			if order.Payment != nil && order.Payment.Status != domain.PaymentCompleted {
				now := time.Now().UTC()
				order.Payment.Status = domain.PaymentCompleted
				order.Payment.PaidAt = &now
			}
		case domain.OrderCancelled:
			if err := u.restockItems(ctx, tx, order); err != nil {
				return err
			}
			u.markRefunded(order)
		}

		if err := tx.Orders().Update(ctx, order); err != nil {
			return err
		}
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	go u.generateInvoice(updated)
	go u.publishEvent(context.Background(), rabbit.KeyOrderStatusChanged, domain.OrderStatusChangedEvent{
		OrderID:   updated.ID,
		OldStatus: previous,
		NewStatus: updated.Status,
		ChangedAt: time.Now().UTC(),
	})

	return updated, nil
}

// UpdatePaymentStatus moves an order's payment record along its lifecycle.
func (u *OrderService) UpdatePaymentStatus(ctx context.Context, orderID uint64, next domain.PaymentStatus) (*domain.Order, error) {
	var updated *domain.Order
	err := u.store.WithinTransaction(ctx, func(tx repository.Tx) error {
		order, err := tx.Orders().FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if order.Payment == nil {
			return errs.New(errs.KindValidation, "NO_PAYMENT_DETAILS", "order has no payment record")
		}
		if !order.Payment.Status.CanTransitionTo(next) {
			return errs.Newf(errs.KindConflict, "INVALID_TRANSITION",
				"cannot move payment from %s to %s", order.Payment.Status, next)
		}

		order.Payment.Status = next
		switch next {
		case domain.PaymentCompleted:
			now := time.Now().UTC()
			order.Payment.PaidAt = &now
		case domain.PaymentRefunded:
			u.markRefunded(order)
		}

		if err := tx.Orders().Update(ctx, order); err != nil {
			return err
		}
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// GetOrder loads one order. Non-admin callers may only read their own.
func (u *OrderService) GetOrder(ctx context.Context, orderID uint64, userID string, isAdmin bool) (*domain.Order, error) {
	order, err := u.store.Orders().FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && order.UserID != userID {
		return nil, errs.New(errs.KindUnauthorized, "NOT_OWNER", "order belongs to another user")
	}
	return order, nil
}

// ListOrders returns the user's orders, optionally filtered by status.
func (u *OrderService) ListOrders(ctx context.Context, userID string, status domain.OrderStatus, limit, offset int) ([]domain.Order, error) {
	return u.store.Orders().ListByUser(ctx, userID, status, limit, offset)
}

// PromoValidation is the outcome of a dry-run promo check. An invalid code is
// a normal outcome, not an error.
type PromoValidation struct {
	Valid          bool            `json:"valid"`
	Code           string          `json:"code"`
	Reason         string          `json:"reason,omitempty"`
	Message        string          `json:"message,omitempty"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	FinalAmount    decimal.Decimal `json:"finalAmount"`
}

// ValidatePromoCode previews a promo code against a subtotal without
// redeeming it. The authoritative re-check happens during order creation.
func (u *OrderService) ValidatePromoCode(ctx context.Context, code, userID string, subtotal decimal.Decimal) (*PromoValidation, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	result := &PromoValidation{Code: normalized, FinalAmount: subtotal}

	pc, err := u.store.PromoCodes().FindByCode(ctx, normalized)
	if err != nil {
		return nil, err
	}
	var totalUses, userUses int64
	if pc != nil {
		if totalUses, err = u.store.PromoCodes().CountUsages(ctx, pc.ID); err != nil {
			return nil, err
		}
		if userUses, err = u.store.PromoCodes().CountUserUsages(ctx, pc.ID, userID); err != nil {
			return nil, err
		}
	}

	amount, err := promo.Validate(pc, subtotal, totalUses, userUses, time.Now().UTC())
	if err != nil {
		var domainErr *errs.Error
		if errors.As(err, &domainErr) {
			result.Reason = domainErr.Code
			result.Message = domainErr.Message
			return result, nil
		}
		return nil, err
	}

	result.Valid = true
	result.DiscountAmount = amount
	result.FinalAmount = subtotal.Sub(amount)
	return result, nil
}

// activeDiscounts reads the active-discount set through a short-lived redis
// cache. Discounts are reference data, so a one-minute staleness is fine.
func (u *OrderService) activeDiscounts(ctx context.Context, tx repository.Tx, now time.Time) ([]domain.Discount, error) {
	if u.redisClient != nil {
		cached, err := u.redisClient.Get(ctx, activeDiscountsCacheKey).Result()
		if err == nil {
			var discounts []domain.Discount
			if err := json.Unmarshal([]byte(cached), &discounts); err == nil {
				return discounts, nil
			}
		}
	}

	discounts, err := tx.Discounts().ListActive(ctx, now)
	if err != nil {
		return nil, err
	}

	if u.redisClient != nil {
		if data, err := json.Marshal(discounts); err == nil {
			u.redisClient.Set(ctx, activeDiscountsCacheKey, data, time.Minute)
		}
	}
	return discounts, nil
}

func (u *OrderService) restockItems(ctx context.Context, tx repository.Tx, order *domain.Order) error {
	for _, item := range order.Items {
		if err := tx.Products().RestoreStock(ctx, item.ProductID, item.Quantity); err != nil {
			return err
		}
	}
	return nil
}

// markRefunded records refund bookkeeping only. Actual money movement is the
// gateway's reconciliation job.
func (u *OrderService) markRefunded(order *domain.Order) {
	p := order.Payment
	if p == nil || p.IsRefunded {
		return
	}
	now := time.Now().UTC()
	p.Status = domain.PaymentRefunded
	p.IsRefunded = true
	p.RefundedAt = &now
	p.RefundAmount = order.TotalAmount
}

func (u *OrderService) generateInvoice(order *domain.Order) {
	if u.invoices == nil {
		return
	}
	path, err := u.invoices.Generate(order)
	if err != nil {
		log.Printf("Failed to generate invoice for order %d: %v", order.ID, err)
		return
	}
	if err := u.store.Orders().SetInvoicePath(context.Background(), order.ID, path); err != nil {
		log.Printf("Failed to record invoice path for order %d: %v", order.ID, err)
	}
}

func (u *OrderService) publishEvent(ctx context.Context, key string, evt any) {
	log.Printf("Publishing %s event: %+v", key, evt)
	if err := u.publisher.Publish(ctx, key, evt); err != nil {
		log.Printf("Failed to publish %s event: %v", key, err)
	}
}
