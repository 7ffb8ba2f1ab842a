package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"order-engine/internal/domain"
	"order-engine/internal/infra"
	"order-engine/internal/repository"
)

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uint64) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductRepository) DecrementStock(ctx context.Context, id uint64, qty int) error {
	args := m.Called(ctx, id, qty)
	return args.Error(0)
}

func (m *MockProductRepository) RestoreStock(ctx context.Context, id uint64, qty int) error {
	args := m.Called(ctx, id, qty)
	return args.Error(0)
}

type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) ListByUser(ctx context.Context, userID string) ([]domain.CartItem, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CartItem), args.Error(1)
}

func (m *MockCartRepository) ClearByUser(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type MockDiscountRepository struct {
	mock.Mock
}

func (m *MockDiscountRepository) ListActive(ctx context.Context, at time.Time) ([]domain.Discount, error) {
	args := m.Called(ctx, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Discount), args.Error(1)
}

type MockPromoCodeRepository struct {
	mock.Mock
}

func (m *MockPromoCodeRepository) FindByCode(ctx context.Context, code string) (*domain.PromoCode, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PromoCode), args.Error(1)
}

func (m *MockPromoCodeRepository) CountUsages(ctx context.Context, promoCodeID uint64) (int64, error) {
	args := m.Called(ctx, promoCodeID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPromoCodeRepository) CountUserUsages(ctx context.Context, promoCodeID uint64, userID string) (int64, error) {
	args := m.Called(ctx, promoCodeID, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPromoCodeRepository) RecordUsage(ctx context.Context, usage *domain.PromoCodeUsage) error {
	args := m.Called(ctx, usage)
	return args.Error(0)
}

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uint64) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderRepository) ListByUser(ctx context.Context, userID string, status domain.OrderStatus, limit, offset int) ([]domain.Order, error) {
	args := m.Called(ctx, userID, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *MockOrderRepository) Update(ctx context.Context, order *domain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) SetInvoicePath(ctx context.Context, orderID uint64, path string) error {
	args := m.Called(ctx, orderID, path)
	return args.Error(0)
}

type MockCardGateway struct {
	mock.Mock
}

func (m *MockCardGateway) Charge(ctx context.Context, req infra.ChargeRequest) (*infra.ChargeResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*infra.ChargeResult), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, routingKey string, data any) error {
	args := m.Called(ctx, routingKey, data)
	return args.Error(0)
}

// MockStore bundles the repository mocks into a Store whose transactions just
// run the callback against the same mocks. Rollback is not simulated.
type MockStore struct {
	ProductRepo  MockProductRepository
	CartRepo     MockCartRepository
	DiscountRepo MockDiscountRepository
	PromoRepo    MockPromoCodeRepository
	OrderRepo    MockOrderRepository
}

var _ repository.Store = (*MockStore)(nil)

func (s *MockStore) Products() repository.ProductRepository   { return &s.ProductRepo }
func (s *MockStore) Carts() repository.CartRepository         { return &s.CartRepo }
func (s *MockStore) Discounts() repository.DiscountRepository { return &s.DiscountRepo }
func (s *MockStore) PromoCodes() repository.PromoCodeRepository {
	return &s.PromoRepo
}
func (s *MockStore) Orders() repository.OrderRepository { return &s.OrderRepo }

func (s *MockStore) WithinTransaction(ctx context.Context, fn func(tx repository.Tx) error) error {
	return fn(s)
}

// AssertExpectations checks every embedded mock.
func (s *MockStore) AssertExpectations(t mock.TestingT) {
	s.ProductRepo.AssertExpectations(t)
	s.CartRepo.AssertExpectations(t)
	s.DiscountRepo.AssertExpectations(t)
	s.PromoRepo.AssertExpectations(t)
	s.OrderRepo.AssertExpectations(t)
}
