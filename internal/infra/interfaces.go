package infra

import (
	"context"

	"github.com/shopspring/decimal"
)

type CardGatewayInterface interface {
	Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error)
}

var _ CardGatewayInterface = (*CardGateway)(nil)

type ChargeRequest struct {
	CardNumber string          `json:"cardNumber"`
	ExpiryDate string          `json:"expiryDate"`
	CVV        string          `json:"cvv"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
}

type ChargeResult struct {
	Success       bool   `json:"success"`
	TransactionID string `json:"transactionId"`
	ErrorMessage  string `json:"errorMessage"`
}
