package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"order-engine/internal/domain"
)

type promoRepo struct {
	db *gorm.DB
}

// FindByCode takes a row lock so concurrent redemptions of the same code
// serialize on the usage-count check inside the transaction.
func (r *promoRepo) FindByCode(ctx context.Context, code string) (*domain.PromoCode, error) {
	var p domain.PromoCode
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("code = ?", code).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *promoRepo) CountUsages(ctx context.Context, promoCodeID uint64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.PromoCodeUsage{}).
		Where("promo_code_id = ?", promoCodeID).
		Count(&n).Error
	return n, err
}

func (r *promoRepo) CountUserUsages(ctx context.Context, promoCodeID uint64, userID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.PromoCodeUsage{}).
		Where("promo_code_id = ? AND user_id = ?", promoCodeID, userID).
		Count(&n).Error
	return n, err
}

func (r *promoRepo) RecordUsage(ctx context.Context, usage *domain.PromoCodeUsage) error {
	return r.db.WithContext(ctx).Create(usage).Error
}
