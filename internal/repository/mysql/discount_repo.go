package mysql

import (
	"context"
	"time"

	"gorm.io/gorm"

	"order-engine/internal/domain"
)

type discountRepo struct {
	db *gorm.DB
}

func (r *discountRepo) ListActive(ctx context.Context, at time.Time) ([]domain.Discount, error) {
	var discounts []domain.Discount
	err := r.db.WithContext(ctx).
		Where("is_active = ? AND start_date <= ? AND end_date >= ?", true, at, at).
		Preload("Products").
		Find(&discounts).Error
	if err != nil {
		return nil, err
	}
	return discounts, nil
}
