// Package promo resolves which discounts apply to a product and validates
// promo-code redemptions against their usage caps.
package promo

import (
	"time"

	"github.com/shopspring/decimal"

	"order-engine/internal/domain"
	"order-engine/internal/errs"
	"order-engine/internal/pricing"
)

// ApplicableDiscounts filters the active-discount set down to those whose
// scope matches the product. An empty result means the price is unchanged.
func ApplicableDiscounts(active []domain.Discount, productID uint64, category string, now time.Time) []domain.Discount {
	var out []domain.Discount
	for _, d := range active {
		if !d.ActiveAt(now) {
			continue
		}
		if d.AppliesTo(productID, category) {
			out = append(out, d)
		}
	}
	return out
}

// Validate runs the promo-code redemption ladder. The caller supplies the
// usage counts it read under the same atomic unit that will record the usage.
// On success the capped discount amount for the given subtotal is returned.
func Validate(p *domain.PromoCode, subtotal decimal.Decimal, totalUses, userUses int64, now time.Time) (decimal.Decimal, error) {
	if p == nil {
		return decimal.Zero, errs.New(errs.KindNotFound, "PROMO_NOT_FOUND", "promo code not found")
	}
	if !p.IsActive {
		return decimal.Zero, errs.New(errs.KindConflict, "PROMO_INACTIVE", "promo code is not active")
	}
	if now.Before(p.StartDate) || now.After(p.EndDate) {
		return decimal.Zero, errs.New(errs.KindConflict, "PROMO_OUT_OF_WINDOW", "promo code is not valid at this date")
	}
	if p.MinimumOrderAmount.Valid && subtotal.LessThan(p.MinimumOrderAmount.Decimal) {
		return decimal.Zero, errs.Newf(errs.KindConflict, "PROMO_BELOW_MINIMUM",
			"order subtotal is below the minimum of %s", p.MinimumOrderAmount.Decimal.StringFixed(2))
	}
	if p.MaxUsesTotal != nil && totalUses >= int64(*p.MaxUsesTotal) {
		return decimal.Zero, errs.New(errs.KindConflict, "PROMO_TOTAL_USES_EXCEEDED", "promo code usage limit reached")
	}
	if p.MaxUsesPerUser != nil && userUses >= int64(*p.MaxUsesPerUser) {
		return decimal.Zero, errs.New(errs.KindConflict, "PROMO_PER_USER_USES_EXCEEDED", "promo code usage limit for this user reached")
	}
	return pricing.PromoDiscountAmount(p, subtotal), nil
}
