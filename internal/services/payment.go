package services

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"order-engine/internal/domain"
	"order-engine/internal/errs"
	"order-engine/internal/infra"
)

// PaymentData carries method-specific fields supplied by the client
// (card number, expiry, cvv). It is validated and forwarded to the gateway
// but never persisted.
type PaymentData map[string]string

var (
	cardNumberRe = regexp.MustCompile(`^\d{16}$`)
	cardExpiryRe = regexp.MustCompile(`^(0[1-9]|1[0-2])/([0-9]{2})$`)
	cardCVVRe    = regexp.MustCompile(`^[0-9]{3}$`)
)

// processPayment dispatches on the payment method and mutates the payment
// record in place. Any returned error aborts the whole order-creation unit:
// a failed payment must leave no order behind.
func (s *OrderService) processPayment(ctx context.Context, payment *domain.PaymentDetails, data PaymentData) error {
	switch {
	case payment.Method.IsCard():
		if err := validateCardData(data, time.Now().UTC()); err != nil {
			return err
		}
		result, err := s.gateway.Charge(ctx, infra.ChargeRequest{
			CardNumber: strings.ReplaceAll(data["cardNumber"], " ", ""),
			ExpiryDate: data["expiryDate"],
			CVV:        data["cvv"],
			Amount:     payment.Amount,
			Currency:   payment.Currency,
		})
		if err != nil {
			return errs.Wrap(errs.KindPayment, "PAYMENT_GATEWAY_ERROR", "card charge failed", err)
		}
		if !result.Success {
			payment.ErrorMessage = result.ErrorMessage
			return errs.New(errs.KindPayment, "PAYMENT_DECLINED", result.ErrorMessage)
		}
		now := time.Now().UTC()
		payment.Status = domain.PaymentCompleted
		payment.TransactionID = result.TransactionID
		payment.PaidAt = &now
		return nil

	case payment.Method == domain.MethodCashOnDelivery:
		// Collected physically on delivery, so the payment stays in
		// processing rather than completed.
		now := time.Now().UTC()
		payment.Status = domain.PaymentProcessing
		payment.TransactionID = "COD-" + uuid.NewString()
		payment.PaidAt = &now
		return nil

	default:
		return errs.Newf(errs.KindPayment, "UNSUPPORTED_PAYMENT_METHOD",
			"payment method %s is not supported", payment.Method)
	}
}

func validateCardData(data PaymentData, now time.Time) error {
	invalid := func(msg string) error {
		return errs.New(errs.KindPayment, "INVALID_CARD_DATA", msg)
	}
	if data == nil {
		return invalid("card data is missing")
	}

	number := strings.ReplaceAll(data["cardNumber"], " ", "")
	if !cardNumberRe.MatchString(number) {
		return invalid("card number must be 16 digits")
	}

	expiry := data["expiryDate"]
	m := cardExpiryRe.FindStringSubmatch(expiry)
	if m == nil {
		return invalid("expiry date must be MM/YY")
	}
	month, _ := strconv.Atoi(m[1])
	year, _ := strconv.Atoi(m[2])
	// Valid through the last instant of the expiry month.
	endOfMonth := time.Date(2000+year, time.Month(month)+1, 1, 0, 0, 0, 0, time.UTC).Add(-time.Second)
	if !endOfMonth.After(now) {
		return invalid("card is expired")
	}

	if !cardCVVRe.MatchString(data["cvv"]) {
		return invalid("cvv must be 3 digits")
	}
	return nil
}
