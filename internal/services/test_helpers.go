package services

import (
	"time"

	"github.com/shopspring/decimal"

	"order-engine/internal/domain"
)

const (
	TestUserID    = "user-1"
	TestOrderID   = uint64(1)
	TestProductID = uint64(1)
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func makeProduct(id uint64, name, category, price string, stock int) *domain.Product {
	return &domain.Product{
		ID:       id,
		Name:     name,
		Category: category,
		Price:    dec(price),
		Stock:    stock,
	}
}

func makeCartItem(productID uint64, qty int) domain.CartItem {
	return domain.CartItem{
		ID:        productID,
		UserID:    TestUserID,
		ProductID: productID,
		Quantity:  qty,
	}
}

func makePercentageDiscount(id uint64, name, value string) domain.Discount {
	now := time.Now().UTC()
	return domain.Discount{
		ID:        id,
		Name:      name,
		Type:      domain.DiscountPercentage,
		Value:     dec(value),
		Scope:     domain.ScopeAllProducts,
		StartDate: now.Add(-time.Hour),
		EndDate:   now.Add(time.Hour),
		IsActive:  true,
	}
}

func makeFixedDiscount(id uint64, name, value string) domain.Discount {
	d := makePercentageDiscount(id, name, value)
	d.Type = domain.DiscountFixed
	return d
}

func makePromoCode(id uint64, code string, typ domain.PromoCodeType, value string) *domain.PromoCode {
	now := time.Now().UTC()
	return &domain.PromoCode{
		ID:        id,
		Code:      code,
		Type:      typ,
		Value:     dec(value),
		StartDate: now.Add(-time.Hour),
		EndDate:   now.Add(time.Hour),
		IsActive:  true,
	}
}

func makeOrder(id uint64, userID string, status domain.OrderStatus, placedAt time.Time) *domain.Order {
	total := dec("160.00")
	return &domain.Order{
		ID:             id,
		UserID:         userID,
		Status:         status,
		OrderDate:      placedAt,
		SubTotal:       dec("200.00"),
		DiscountAmount: dec("40.00"),
		VatAmount:      dec("20.87"),
		TotalAmount:    total,
		DeliveryFee:    dec("25.00"),
		Items: []domain.OrderItem{
			{
				ID:             1,
				OrderID:        id,
				ProductID:      TestProductID,
				ProductName:    "Widget",
				Quantity:       2,
				OriginalPrice:  dec("100.00"),
				Price:          dec("80.00"),
				DiscountAmount: dec("40.00"),
				Total:          total,
			},
		},
		Address: &domain.DeliveryAddress{
			OrderID:     id,
			FullName:    "Test User",
			PhoneNumber: "0500000000",
			City:        "Riyadh",
		},
		Payment: &domain.PaymentDetails{
			OrderID:  id,
			Method:   domain.MethodCreditCard,
			Status:   domain.PaymentCompleted,
			Amount:   total.Add(dec("25.00")),
			Currency: "SAR",
		},
	}
}

func validCardData() PaymentData {
	return PaymentData{
		"cardNumber": "4111 1111 1111 1111",
		"expiryDate": "12/30",
		"cvv":        "123",
	}
}

func testAddress() domain.DeliveryAddress {
	return domain.DeliveryAddress{
		FullName:    "Test User",
		PhoneNumber: "0500000000",
		City:        "Riyadh",
		Street:      "King Fahd Rd",
	}
}
