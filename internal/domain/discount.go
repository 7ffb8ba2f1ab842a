package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed_amount"
)

type DiscountScope string

const (
	ScopeAllProducts DiscountScope = "all_products"
	ScopeCategory    DiscountScope = "category"
	ScopeProduct     DiscountScope = "product"
	ScopeGlobal      DiscountScope = "global"
)

type Discount struct {
	ID           uint64            `json:"id" gorm:"primaryKey;autoIncrement"`
	Name         string            `json:"name" gorm:"size:100;not null"`
	Description  string            `json:"description" gorm:"size:500"`
	Type         DiscountType      `json:"type" gorm:"size:20;not null"`
	Value        decimal.Decimal   `json:"value" gorm:"type:decimal(10,2);not null"`
	Scope        DiscountScope     `json:"scope" gorm:"size:20;not null"`
	CategoryName string            `json:"categoryName" gorm:"size:50"`
	Products     []DiscountProduct `json:"products,omitempty" gorm:"foreignKey:DiscountID"`
	StartDate    time.Time         `json:"startDate" gorm:"not null"`
	EndDate      time.Time         `json:"endDate" gorm:"not null"`
	IsActive     bool              `json:"isActive" gorm:"not null"`
	CreatedAt    time.Time         `json:"createdAt" gorm:"autoCreateTime"`
}

type DiscountProduct struct {
	ID         uint64 `json:"id" gorm:"primaryKey;autoIncrement"`
	DiscountID uint64 `json:"discountId" gorm:"not null;index"`
	ProductID  uint64 `json:"productId" gorm:"not null;index"`
}

// ActiveAt reports whether the discount window covers t and the flag is on.
func (d *Discount) ActiveAt(t time.Time) bool {
	return d.IsActive && !t.Before(d.StartDate) && !t.After(d.EndDate)
}

// AppliesTo reports whether the discount's scope matches the given product.
func (d *Discount) AppliesTo(productID uint64, category string) bool {
	switch d.Scope {
	case ScopeAllProducts, ScopeGlobal:
		return true
	case ScopeCategory:
		return d.CategoryName == category
	case ScopeProduct:
		for _, dp := range d.Products {
			if dp.ProductID == productID {
				return true
			}
		}
	}
	return false
}

type PromoCodeType string

const (
	PromoPercentage PromoCodeType = "percentage"
	PromoFixed      PromoCodeType = "fixed_amount"
)

type PromoCode struct {
	ID                 uint64              `json:"id" gorm:"primaryKey;autoIncrement"`
	Code               string              `json:"code" gorm:"size:50;not null;uniqueIndex"`
	Description        string              `json:"description" gorm:"size:500"`
	Type               PromoCodeType       `json:"type" gorm:"size:20;not null"`
	Value              decimal.Decimal     `json:"value" gorm:"type:decimal(10,2);not null"`
	MinimumOrderAmount decimal.NullDecimal `json:"minimumOrderAmount" gorm:"type:decimal(10,2)"`
	MaxUsesTotal       *int                `json:"maxUsesTotal"`
	MaxUsesPerUser     *int                `json:"maxUsesPerUser"`
	StartDate          time.Time           `json:"startDate" gorm:"not null"`
	EndDate            time.Time           `json:"endDate" gorm:"not null"`
	IsActive           bool                `json:"isActive" gorm:"not null"`
	CreatedAt          time.Time           `json:"createdAt" gorm:"autoCreateTime"`
}

func (p *PromoCode) ActiveAt(t time.Time) bool {
	return p.IsActive && !t.Before(p.StartDate) && !t.After(p.EndDate)
}

// PromoCodeUsage records one redemption; counted to enforce usage caps.
type PromoCodeUsage struct {
	ID          uint64    `json:"id" gorm:"primaryKey;autoIncrement"`
	PromoCodeID uint64    `json:"promoCodeId" gorm:"not null;index"`
	UserID      string    `json:"userId" gorm:"size:64;not null;index"`
	OrderID     uint64    `json:"orderId" gorm:"not null"`
	UsedAt      time.Time `json:"usedAt" gorm:"autoCreateTime"`
}
