package mysql

import (
	"context"
	"errors"
	"log"
	"time"

	gomysql "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"

	"order-engine/internal/errs"
	"order-engine/internal/repository"
)

// Bounded retry for serialization conflicts; the whole unit re-executes
// from the start, never resumes mid-way.
const maxTxAttempts = 3

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Products() repository.ProductRepository   { return &productRepo{db: s.db} }
func (s *Store) Carts() repository.CartRepository         { return &cartRepo{db: s.db} }
func (s *Store) Discounts() repository.DiscountRepository { return &discountRepo{db: s.db} }
func (s *Store) PromoCodes() repository.PromoCodeRepository {
	return &promoRepo{db: s.db}
}
func (s *Store) Orders() repository.OrderRepository { return &orderRepo{db: s.db} }

func (s *Store) WithinTransaction(ctx context.Context, fn func(tx repository.Tx) error) error {
	var err error
	for attempt := 1; attempt <= maxTxAttempts; attempt++ {
		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return fn(&txHandle{db: tx})
		})
		if err == nil || !isTransient(err) {
			return err
		}
		log.Printf("transaction attempt %d/%d hit transient error, retrying: %v", attempt, maxTxAttempts, err)
		time.Sleep(time.Duration(attempt) * 50 * time.Millisecond)
	}
	return errs.Wrap(errs.KindInternal, "TX_RETRIES_EXHAUSTED", "transaction failed after retries", err)
}

type txHandle struct {
	db *gorm.DB
}

func (t *txHandle) Products() repository.ProductRepository   { return &productRepo{db: t.db} }
func (t *txHandle) Carts() repository.CartRepository         { return &cartRepo{db: t.db} }
func (t *txHandle) Discounts() repository.DiscountRepository { return &discountRepo{db: t.db} }
func (t *txHandle) PromoCodes() repository.PromoCodeRepository {
	return &promoRepo{db: t.db}
}
func (t *txHandle) Orders() repository.OrderRepository { return &orderRepo{db: t.db} }

// MySQL 1213 = deadlock victim, 1205 = lock wait timeout. Both resolve by
// re-running the unit.
func isTransient(err error) bool {
	var myErr *gomysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1213 || myErr.Number == 1205
	}
	return errs.IsTransient(err)
}
