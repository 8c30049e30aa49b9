package payments

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"boilerfunnel/internal/app/commands"
	"boilerfunnel/internal/app/dto"
	handlersupport "boilerfunnel/internal/app/handlers/support"
	"boilerfunnel/internal/app/outbox"
	"boilerfunnel/internal/app/policies"
	domainsubmissions "boilerfunnel/internal/domain/submissions"
)

const (
	CreateIntentKey   = "payments.create_intent"
	ConfirmPaymentKey = "payments.confirm"

	DefaultCurrency = "gbp"
)

var (
	ErrInvalidAmount    = errors.New("payments: invalid amount")
	ErrIntentIDRequired = errors.New("payments: payment intent id is required")
)

// NotCompletedError reports an intent that has not succeeded yet.
type NotCompletedError struct {
	Status string
}

func (e *NotCompletedError) Error() string {
	return "payments: payment not completed (status " + e.Status + ")"
}

// CreateIntentCommand starts a card payment. Amount is in pounds; when nil it
// is derived from the submission's product price plus install surcharge.
type CreateIntentCommand struct {
	Amount       *decimal.Decimal
	Currency     string
	SubmissionID string
	Metadata     map[string]string
}

func (CreateIntentCommand) Key() string { return CreateIntentKey }

func (c CreateIntentCommand) Validate() error {
	if c.Amount != nil && !c.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if c.Amount == nil && strings.TrimSpace(c.SubmissionID) == "" {
		return ErrInvalidAmount
	}
	return nil
}

type CreateIntentHandler struct {
	Payments         policies.PaymentsPort
	DefaultCurrency  string
	DefaultBasePrice decimal.Decimal
	Logger           *slog.Logger
}

func (h *CreateIntentHandler) Handle(ctx context.Context, cmd CreateIntentCommand) (*dto.PaymentIntent, error) {
	if h.Payments == nil {
		return nil, policies.ErrPaymentsNotConfigured
	}
	unit, err := handlersupport.UnitFrom(ctx)
	if err != nil {
		return nil, err
	}

	var submission *domainsubmissions.Submission
	if id := strings.TrimSpace(cmd.SubmissionID); id != "" {
		submission, err = unit.Submissions().ByID(ctx, domainsubmissions.SubmissionID(id))
		if err != nil && !(cmd.Amount != nil && errors.Is(err, domainsubmissions.ErrNotFound)) {
			return nil, err
		}
	}

	var amount decimal.Decimal
	switch {
	case cmd.Amount != nil:
		amount = *cmd.Amount
	case submission != nil:
		amount, err = submission.AmountDue(h.DefaultBasePrice)
		if err != nil {
			return nil, err
		}
	}
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	metadata := map[string]string{"submissionId": strings.TrimSpace(cmd.SubmissionID)}
	for k, v := range cmd.Metadata {
		if k != "submissionId" {
			metadata[k] = v
		}
	}
	intent, err := h.Payments.CreateIntent(ctx, policies.CreateIntentRequest{
		Amount:   amount,
		Currency: h.currency(cmd.Currency),
		Metadata: metadata,
	})
	if err != nil {
		return nil, err
	}

	if submission != nil {
		submission.MarkPaymentPending(intent.ID, time.Now())
		if err := unit.Submissions().Save(ctx, submission); err != nil {
			return nil, err
		}
	}
	if h.Logger != nil {
		h.Logger.Info("payment intent created", "intent_id", intent.ID, "submission_id", cmd.SubmissionID, "amount", amount.StringFixed(2))
	}
	return &dto.PaymentIntent{
		ClientSecret:    intent.ClientSecret,
		PaymentIntentID: intent.ID,
		Amount:          dto.Amount(amount),
		Currency:        intent.Currency,
	}, nil
}

func (h *CreateIntentHandler) currency(requested string) string {
	if c := strings.ToLower(strings.TrimSpace(requested)); c != "" {
		return c
	}
	if c := strings.ToLower(strings.TrimSpace(h.DefaultCurrency)); c != "" {
		return c
	}
	return DefaultCurrency
}

type ConfirmPaymentCommand struct {
	PaymentIntentID string
	SubmissionID    string
}

func (ConfirmPaymentCommand) Key() string { return ConfirmPaymentKey }

func (c ConfirmPaymentCommand) Validate() error {
	if strings.TrimSpace(c.PaymentIntentID) == "" {
		return ErrIntentIDRequired
	}
	return nil
}

type ConfirmPaymentHandler struct {
	Payments policies.PaymentsPort
	Outbox   outbox.Outbox
	Encoder  outbox.EventEncoder
	Logger   *slog.Logger
}

// Handle records a succeeded intent on the submission. A missing submission
// does not fail the confirmation because the charge has already happened.
func (h *ConfirmPaymentHandler) Handle(ctx context.Context, cmd ConfirmPaymentCommand) (*dto.ConfirmedPayment, error) {
	if h.Payments == nil {
		return nil, policies.ErrPaymentsNotConfigured
	}
	unit, err := handlersupport.UnitFrom(ctx)
	if err != nil {
		return nil, err
	}
	intent, err := h.Payments.RetrieveIntent(ctx, strings.TrimSpace(cmd.PaymentIntentID))
	if err != nil {
		return nil, err
	}
	if !intent.Succeeded() {
		return nil, &NotCompletedError{Status: intent.Status}
	}

	if id := strings.TrimSpace(cmd.SubmissionID); id != "" {
		submission, err := unit.Submissions().ByID(ctx, domainsubmissions.SubmissionID(id))
		switch {
		case errors.Is(err, domainsubmissions.ErrNotFound):
			if h.Logger != nil {
				h.Logger.Warn("confirmed payment for unknown submission", "intent_id", intent.ID, "submission_id", id)
			}
		case err != nil:
			return nil, err
		default:
			submission.CompletePayment(intent.ID, intent.Amount, time.Now())
			if err := unit.Submissions().Save(ctx, submission); err != nil {
				return nil, err
			}
			if err := outbox.Publish(ctx, h.Outbox, h.Encoder, submission); err != nil {
				return nil, fmt.Errorf("record payment event: %w", err)
			}
		}
	}
	if h.Logger != nil {
		h.Logger.Info("payment confirmed", "intent_id", intent.ID, "amount", intent.Amount.StringFixed(2))
	}
	return &dto.ConfirmedPayment{ID: intent.ID, Status: intent.Status, Amount: dto.Amount(intent.Amount)}, nil
}

var (
	_ commands.Handler[CreateIntentCommand, *dto.PaymentIntent]      = (*CreateIntentHandler)(nil)
	_ commands.Handler[ConfirmPaymentCommand, *dto.ConfirmedPayment] = (*ConfirmPaymentHandler)(nil)
)
