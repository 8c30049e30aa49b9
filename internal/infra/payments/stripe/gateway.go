package stripe

import (
	"context"
	"errors"
	"net/http"
	"strings"

	stripego "github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/paymentintent"

	"boilerfunnel/internal/app/policies"
	"boilerfunnel/internal/domain/shared/money"
)

// Gateway creates and reads PaymentIntents with a per-instance API key.
type Gateway struct {
	intents *paymentintent.Client
}

// New returns a gateway, or policies.ErrPaymentsNotConfigured for a blank key.
func New(secretKey string, backend stripego.Backend) (*Gateway, error) {
	key := strings.TrimSpace(secretKey)
	if key == "" {
		return nil, policies.ErrPaymentsNotConfigured
	}
	if backend == nil {
		backend = stripego.GetBackend(stripego.APIBackend)
	}
	return &Gateway{intents: &paymentintent.Client{B: backend, Key: key}}, nil
}

func (g *Gateway) CreateIntent(ctx context.Context, req policies.CreateIntentRequest) (policies.PaymentIntent, error) {
	params := &stripego.PaymentIntentParams{
		Amount:   stripego.Int64(money.MinorUnits(req.Amount)),
		Currency: stripego.String(strings.ToLower(req.Currency)),
		AutomaticPaymentMethods: &stripego.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripego.Bool(true),
		},
	}
	params.Context = ctx
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}
	pi, err := g.intents.New(params)
	if err != nil {
		return policies.PaymentIntent{}, translate(err)
	}
	return fromStripe(pi), nil
}

func (g *Gateway) RetrieveIntent(ctx context.Context, id string) (policies.PaymentIntent, error) {
	params := &stripego.PaymentIntentParams{}
	params.Context = ctx
	pi, err := g.intents.Get(id, params)
	if err != nil {
		return policies.PaymentIntent{}, translate(err)
	}
	return fromStripe(pi), nil
}

func fromStripe(pi *stripego.PaymentIntent) policies.PaymentIntent {
	return policies.PaymentIntent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Status:       string(pi.Status),
		Amount:       money.FromMinorUnits(pi.Amount),
		Currency:     string(pi.Currency),
		Metadata:     pi.Metadata,
	}
}

func translate(err error) error {
	var serr *stripego.Error
	if errors.As(err, &serr) {
		msg := serr.Msg
		if msg == "" {
			msg = err.Error()
		}
		kind := string(serr.Type)
		if serr.HTTPStatusCode == http.StatusUnauthorized {
			kind = policies.GatewayAuthentication
		}
		return &policies.GatewayError{Kind: kind, Message: msg}
	}
	return &policies.GatewayError{Message: err.Error()}
}

// Disabled stands in when no secret key is configured.
type Disabled struct{}

func (Disabled) CreateIntent(context.Context, policies.CreateIntentRequest) (policies.PaymentIntent, error) {
	return policies.PaymentIntent{}, policies.ErrPaymentsNotConfigured
}

func (Disabled) RetrieveIntent(context.Context, string) (policies.PaymentIntent, error) {
	return policies.PaymentIntent{}, policies.ErrPaymentsNotConfigured
}

var (
	_ policies.PaymentsPort = (*Gateway)(nil)
	_ policies.PaymentsPort = Disabled{}
)
