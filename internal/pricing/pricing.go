// Package pricing holds the stateless money arithmetic for order totals.
// All amounts are fixed-point decimals rounded to 2 places
// (decimal.Round is round-half-away-from-zero, matching currency rules).
package pricing

import (
	"github.com/shopspring/decimal"

	"order-engine/internal/domain"
)

var (
	hundred = decimal.NewFromInt(100)
	vatRate = decimal.RequireFromString("0.15")
	vatBase = decimal.RequireFromString("1.15")

	// DeliveryFee is flat, added after tax and never taxed itself.
	DeliveryFee = decimal.NewFromInt(25)
)

// Saving is the absolute amount a discount takes off one unit at the given
// price: percentage discounts scale with the price, fixed ones do not.
func Saving(d *domain.Discount, unitPrice decimal.Decimal) decimal.Decimal {
	if d.Type == domain.DiscountPercentage {
		return unitPrice.Mul(d.Value).Div(hundred)
	}
	return d.Value
}

// BestDiscount picks the candidate with the greatest absolute saving.
// Ties go to the earliest candidate, so repeated calls with the same slice
// are deterministic. Returns nil for an empty candidate set.
func BestDiscount(candidates []domain.Discount, unitPrice decimal.Decimal) *domain.Discount {
	var best *domain.Discount
	var bestSaving decimal.Decimal
	for i := range candidates {
		s := Saving(&candidates[i], unitPrice)
		if best == nil || s.GreaterThan(bestSaving) {
			best = &candidates[i]
			bestSaving = s
		}
	}
	return best
}

// DiscountedUnitPrice applies a discount to a unit price. The result is
// rounded to 2 places and never negative.
func DiscountedUnitPrice(unitPrice decimal.Decimal, d *domain.Discount) decimal.Decimal {
	if d == nil {
		return unitPrice
	}
	if d.Type == domain.DiscountPercentage {
		return unitPrice.Mul(decimal.NewFromInt(1).Sub(d.Value.Div(hundred))).Round(2)
	}
	p := unitPrice.Sub(d.Value).Round(2)
	if p.IsNegative() {
		return decimal.Zero
	}
	return p
}

// PromoDiscountAmount computes the order-level promo discount on the given
// subtotal, capped so the order can never go negative.
func PromoDiscountAmount(p *domain.PromoCode, subtotal decimal.Decimal) decimal.Decimal {
	var amount decimal.Decimal
	if p.Type == domain.PromoPercentage {
		amount = subtotal.Mul(p.Value).Div(hundred).Round(2)
	} else {
		amount = p.Value
	}
	if amount.GreaterThan(subtotal) {
		return subtotal
	}
	return amount
}

// VATFromInclusive extracts the 15% VAT share baked into a gross amount:
// round(amount * 0.15 / 1.15, 2). Prices are stored VAT-inclusive, so the
// tax is divided out rather than added on top.
func VATFromInclusive(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(vatRate).Div(vatBase).Round(2)
}
