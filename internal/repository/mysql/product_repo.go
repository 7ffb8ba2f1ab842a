package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"order-engine/internal/domain"
	"order-engine/internal/errs"
)

type productRepo struct {
	db *gorm.DB
}

func (r *productRepo) FindByID(ctx context.Context, id uint64) (*domain.Product, error) {
	var p domain.Product
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Newf(errs.KindNotFound, "PRODUCT_NOT_FOUND", "product %d not found", id)
		}
		return nil, err
	}
	return &p, nil
}

// DecrementStock relies on a conditional UPDATE so two concurrent orders can
// never both pass the stock check and decrement past zero; zero rows affected
// means the stock race was lost.
func (r *productRepo) DecrementStock(ctx context.Context, id uint64, qty int) error {
	res := r.db.WithContext(ctx).Model(&domain.Product{}).
		Where("id = ? AND stock >= ?", id, qty).
		UpdateColumn("stock", gorm.Expr("stock - ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var p domain.Product
		err := r.db.WithContext(ctx).Select("stock").First(&p, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.Newf(errs.KindNotFound, "PRODUCT_NOT_FOUND", "product %d not found", id)
		}
		if err != nil {
			return err
		}
		return errs.Newf(errs.KindConflict, "INSUFFICIENT_STOCK",
			"product %d: requested %d, available %d", id, qty, p.Stock)
	}
	return nil
}

func (r *productRepo) RestoreStock(ctx context.Context, id uint64, qty int) error {
	res := r.db.WithContext(ctx).Model(&domain.Product{}).
		Where("id = ?", id).
		UpdateColumn("stock", gorm.Expr("stock + ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.Newf(errs.KindNotFound, "PRODUCT_NOT_FOUND", "product %d not found", id)
	}
	return nil
}
