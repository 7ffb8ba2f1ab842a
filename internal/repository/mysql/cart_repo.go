package mysql

import (
	"context"

	"gorm.io/gorm"

	"order-engine/internal/domain"
)

type cartRepo struct {
	db *gorm.DB
}

func (r *cartRepo) ListByUser(ctx context.Context, userID string) ([]domain.CartItem, error) {
	var items []domain.CartItem
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *cartRepo) ClearByUser(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&domain.CartItem{}).Error
}
