package pricing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"order-engine/internal/domain"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func percentage(id uint64, name, value string) domain.Discount {
	return domain.Discount{
		ID:    id,
		Name:  name,
		Type:  domain.DiscountPercentage,
		Value: dec(value),
		Scope: domain.ScopeAllProducts,
	}
}

func fixed(id uint64, name, value string) domain.Discount {
	d := percentage(id, name, value)
	d.Type = domain.DiscountFixed
	return d
}

func TestBestDiscount(t *testing.T) {
	tests := []struct {
		name       string
		price      string
		candidates []domain.Discount
		wantName   string
	}{
		{
			name:  "fixed wins at a low price",
			price: "40.00",
			candidates: []domain.Discount{
				percentage(1, "Ten Percent", "10"),
				fixed(2, "Five Off", "5"),
			},
			// 10% of 40 saves 4.00, the fixed discount saves 5.00.
			wantName: "Five Off",
		},
		{
			name:  "percentage wins at a high price",
			price: "100.00",
			candidates: []domain.Discount{
				percentage(1, "Ten Percent", "10"),
				fixed(2, "Five Off", "5"),
			},
			wantName: "Ten Percent",
		},
		{
			name:  "tie keeps the first candidate",
			price: "50.00",
			candidates: []domain.Discount{
				percentage(1, "Ten Percent", "10"),
				fixed(2, "Five Off", "5"),
			},
			// Both save exactly 5.00 at a price of 50.
			wantName: "Ten Percent",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			best := BestDiscount(tt.candidates, dec(tt.price))
			assert.NotNil(t, best)
			assert.Equal(t, tt.wantName, best.Name)
		})
	}

	t.Run("empty candidate set", func(t *testing.T) {
		assert.Nil(t, BestDiscount(nil, dec("100.00")))
	})

	t.Run("selection is deterministic across calls", func(t *testing.T) {
		candidates := []domain.Discount{
			percentage(1, "A", "10"),
			fixed(2, "B", "5"),
			fixed(3, "C", "5"),
		}
		first := BestDiscount(candidates, dec("50.00"))
		for i := 0; i < 10; i++ {
			assert.Equal(t, first.ID, BestDiscount(candidates, dec("50.00")).ID)
		}
	})
}

func TestDiscountedUnitPrice(t *testing.T) {
	tests := []struct {
		name     string
		price    string
		discount *domain.Discount
		want     string
	}{
		{name: "nil discount leaves the price alone", price: "99.99", discount: nil, want: "99.99"},
		{name: "percentage", price: "100.00", discount: &domain.Discount{Type: domain.DiscountPercentage, Value: dec("20")}, want: "80.00"},
		{name: "percentage rounds half away from zero", price: "33.35", discount: &domain.Discount{Type: domain.DiscountPercentage, Value: dec("10")}, want: "30.02"},
		{name: "fixed", price: "40.00", discount: &domain.Discount{Type: domain.DiscountFixed, Value: dec("5")}, want: "35.00"},
		{name: "fixed larger than price clamps to zero", price: "3.00", discount: &domain.Discount{Type: domain.DiscountFixed, Value: dec("5")}, want: "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DiscountedUnitPrice(dec(tt.price), tt.discount)
			assert.True(t, got.Equal(dec(tt.want)), "want %s, got %s", tt.want, got)
		})
	}
}

func TestPromoDiscountAmount(t *testing.T) {
	t.Run("percentage of subtotal", func(t *testing.T) {
		p := &domain.PromoCode{Type: domain.PromoPercentage, Value: dec("10")}
		got := PromoDiscountAmount(p, dec("200.00"))
		assert.True(t, got.Equal(dec("20.00")))
	})

	t.Run("fixed amount", func(t *testing.T) {
		p := &domain.PromoCode{Type: domain.PromoFixed, Value: dec("15")}
		got := PromoDiscountAmount(p, dec("200.00"))
		assert.True(t, got.Equal(dec("15.00")))
	})

	t.Run("capped at the subtotal", func(t *testing.T) {
		p := &domain.PromoCode{Type: domain.PromoFixed, Value: dec("500")}
		got := PromoDiscountAmount(p, dec("200.00"))
		assert.True(t, got.Equal(dec("200.00")))
	})
}

func TestVATFromInclusive(t *testing.T) {
	tests := []struct {
		amount string
		want   string
	}{
		{"160.00", "20.87"},
		{"115.00", "15.00"},
		{"0.00", "0.00"},
		{"1.00", "0.13"},
	}

	for _, tt := range tests {
		got := VATFromInclusive(dec(tt.amount))
		assert.True(t, got.Equal(dec(tt.want)), "VAT of %s: want %s, got %s", tt.amount, tt.want, got)
	}
}

func TestDeliveryFee(t *testing.T) {
	assert.True(t, DeliveryFee.Equal(dec("25")))
}

func TestSavingUsesWindowIndependentValue(t *testing.T) {
	// Saving ignores the activity window; filtering happens upstream.
	d := percentage(1, "Expired", "50")
	d.StartDate = time.Now().Add(-48 * time.Hour)
	d.EndDate = time.Now().Add(-24 * time.Hour)
	assert.True(t, Saving(&d, dec("100.00")).Equal(dec("50")))
}
