package mysql

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	gomysql "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"

	"order-engine/internal/errs"
	"order-engine/internal/repository"
)

func newTestStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(gormmysql.New(gormmysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	return NewStore(gdb), mock
}

func TestProductRepo_DecrementStock(t *testing.T) {
	t.Run("decrements when enough stock remains", func(t *testing.T) {
		store, mock := newTestStore(t)
		mock.ExpectExec("UPDATE `products` SET").
			WithArgs(3, uint64(1), 3).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := store.Products().DecrementStock(context.Background(), 1, 3)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("zero rows affected means the stock race was lost", func(t *testing.T) {
		store, mock := newTestStore(t)
		mock.ExpectExec("UPDATE `products` SET").
			WithArgs(3, uint64(1), 3).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("SELECT `stock` FROM `products`").
			WillReturnRows(sqlmock.NewRows([]string{"stock"}).AddRow(1))

		err := store.Products().DecrementStock(context.Background(), 1, 3)
		assert.Error(t, err)
		assert.Equal(t, "INSUFFICIENT_STOCK", errs.CodeOf(err))
		assert.Equal(t, errs.KindConflict, errs.KindOf(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing product", func(t *testing.T) {
		store, mock := newTestStore(t)
		mock.ExpectExec("UPDATE `products` SET").
			WithArgs(3, uint64(9), 3).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("SELECT `stock` FROM `products`").
			WillReturnRows(sqlmock.NewRows([]string{"stock"}))

		err := store.Products().DecrementStock(context.Background(), 9, 3)
		assert.Error(t, err)
		assert.Equal(t, "PRODUCT_NOT_FOUND", errs.CodeOf(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestProductRepo_RestoreStock(t *testing.T) {
	store, mock := newTestStore(t)
	mock.ExpectExec("UPDATE `products` SET").
		WithArgs(2, uint64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.Products().RestoreStock(context.Background(), 1, 2)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepo_FindByID_NotFound(t *testing.T) {
	store, mock := newTestStore(t)
	mock.ExpectQuery("SELECT (.+) FROM `products`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "price", "stock"}))

	_, err := store.Products().FindByID(context.Background(), 404)
	assert.Error(t, err)
	assert.Equal(t, "PRODUCT_NOT_FOUND", errs.CodeOf(err))
	assert.Equal(t, errs.KindNotFound, errs.KindOf(err))
}

func TestStore_WithinTransaction(t *testing.T) {
	t.Run("commits on success", func(t *testing.T) {
		store, mock := newTestStore(t)
		mock.ExpectBegin()
		mock.ExpectCommit()

		calls := 0
		err := store.WithinTransaction(context.Background(), func(tx repository.Tx) error {
			calls++
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, 1, calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("retries deadlocks up to the attempt limit", func(t *testing.T) {
		store, mock := newTestStore(t)
		for i := 0; i < maxTxAttempts; i++ {
			mock.ExpectBegin()
			mock.ExpectRollback()
		}

		calls := 0
		err := store.WithinTransaction(context.Background(), func(tx repository.Tx) error {
			calls++
			return &gomysql.MySQLError{Number: 1213, Message: "Deadlock found"}
		})
		assert.Error(t, err)
		assert.Equal(t, "TX_RETRIES_EXHAUSTED", errs.CodeOf(err))
		assert.Equal(t, maxTxAttempts, calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("does not retry business errors", func(t *testing.T) {
		store, mock := newTestStore(t)
		mock.ExpectBegin()
		mock.ExpectRollback()

		boom := errors.New("validation failed")
		calls := 0
		err := store.WithinTransaction(context.Background(), func(tx repository.Tx) error {
			calls++
			return boom
		})
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 1, calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestIsTransient(t *testing.T) {
	assert.True(t, isTransient(&gomysql.MySQLError{Number: 1213}))
	assert.True(t, isTransient(&gomysql.MySQLError{Number: 1205}))
	assert.False(t, isTransient(&gomysql.MySQLError{Number: 1062}))
	assert.False(t, isTransient(errors.New("plain")))
	assert.True(t, isTransient(errs.New(errs.KindTransient, "FLAKY", "try again")))
}
