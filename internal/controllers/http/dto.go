package http

import (
	"github.com/shopspring/decimal"

	"order-engine/internal/domain"
)

type AddressRequest struct {
	FullName          string `json:"fullName" binding:"required"`
	PhoneNumber       string `json:"phoneNumber" binding:"required"`
	City              string `json:"city" binding:"required"`
	Street            string `json:"street"`
	BuildingNumber    string `json:"buildingNumber"`
	AdditionalDetails string `json:"additionalDetails"`
}

func (a AddressRequest) toDomain() domain.DeliveryAddress {
	return domain.DeliveryAddress{
		FullName:          a.FullName,
		PhoneNumber:       a.PhoneNumber,
		City:              a.City,
		Street:            a.Street,
		BuildingNumber:    a.BuildingNumber,
		AdditionalDetails: a.AdditionalDetails,
	}
}

type CreateOrderRequest struct {
	Address       AddressRequest    `json:"address" binding:"required"`
	PaymentMethod string            `json:"paymentMethod" binding:"required"`
	PaymentData   map[string]string `json:"paymentData"`
	PromoCode     string            `json:"promoCode"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type ValidatePromoRequest struct {
	Code     string          `json:"code" binding:"required"`
	Subtotal decimal.Decimal `json:"subtotal" binding:"required"`
}
