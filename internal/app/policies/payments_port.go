package policies

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrPaymentsNotConfigured = errors.New("payments: stripe secret key is not configured")
	ErrPaymentGateway        = errors.New("payments: gateway error")
)

const IntentSucceeded = "succeeded"

type CreateIntentRequest struct {
	// Amount is in major units; gateways convert to minor units.
	Amount   decimal.Decimal
	Currency string
	Metadata map[string]string
}

type PaymentIntent struct {
	ID           string
	ClientSecret string
	Status       string
	// Amount is in major units.
	Amount   decimal.Decimal
	Currency string
	Metadata map[string]string
}

func (p PaymentIntent) Succeeded() bool { return p.Status == IntentSucceeded }

// PaymentsPort abstracts the card payment provider.
type PaymentsPort interface {
	CreateIntent(ctx context.Context, req CreateIntentRequest) (PaymentIntent, error)
	RetrieveIntent(ctx context.Context, id string) (PaymentIntent, error)
}

// GatewayError carries the provider's error class, e.g. "authentication_error".
type GatewayError struct {
	Kind    string
	Message string
}

func (e *GatewayError) Error() string {
	if e.Kind == "" {
		return "payments: " + e.Message
	}
	return "payments: " + e.Kind + ": " + e.Message
}

func (e *GatewayError) Unwrap() error { return ErrPaymentGateway }

const GatewayAuthentication = "authentication_error"
