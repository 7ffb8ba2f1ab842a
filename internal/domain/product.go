package domain

import "github.com/shopspring/decimal"

type Product struct {
	ID          uint64          `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string          `json:"name" gorm:"size:100;not null"`
	Category    string          `json:"category" gorm:"size:50;not null;index"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	Stock       int             `json:"stock" gorm:"not null"`
	Description string          `json:"description" gorm:"size:1000"`
}

// CartItem rows are owned by a single user; (user_id, product_id) is unique.
type CartItem struct {
	ID        uint64 `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    string `json:"userId" gorm:"size:64;not null;uniqueIndex:idx_cart_user_product"`
	ProductID uint64 `json:"productId" gorm:"not null;uniqueIndex:idx_cart_user_product"`
	Quantity  int    `json:"quantity" gorm:"not null"`
}
