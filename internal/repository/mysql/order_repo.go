package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"order-engine/internal/domain"
	"order-engine/internal/errs"
)

type orderRepo struct {
	db *gorm.DB
}

// Create persists the full order graph (items, address, payment) in one go;
// gorm assigns ids to the order and its associations.
func (r *orderRepo) Create(ctx context.Context, order *domain.Order) error {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return err
	}
	if order.ID == 0 {
		return errs.New(errs.KindInternal, "ORDER_ID_UNASSIGNED", "order saved without id")
	}
	return nil
}

func (r *orderRepo) FindByID(ctx context.Context, id uint64) (*domain.Order, error) {
	var o domain.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Address").
		Preload("Payment").
		First(&o, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.Newf(errs.KindNotFound, "ORDER_NOT_FOUND", "order %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *orderRepo) ListByUser(ctx context.Context, userID string, status domain.OrderStatus, limit, offset int) ([]domain.Order, error) {
	q := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Address").
		Preload("Payment").
		Where("user_id = ?", userID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}
	var orders []domain.Order
	if err := q.Order("order_date DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepo) Update(ctx context.Context, order *domain.Order) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(order).Error; err != nil {
		return err
	}
	if order.Payment != nil {
		if err := r.db.WithContext(ctx).Save(order.Payment).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *orderRepo) SetInvoicePath(ctx context.Context, orderID uint64, path string) error {
	return r.db.WithContext(ctx).Model(&domain.Order{}).
		Where("id = ?", orderID).
		Update("invoice_path", path).Error
}
