package ginserver

import (
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"boilerfunnel/internal/app/commands"
	"boilerfunnel/internal/app/dto"
	paymentsapp "boilerfunnel/internal/app/handlers/payments"
	"boilerfunnel/internal/infra/obs"
)

type PaymentHandler struct {
	Commands commands.Bus
	Metrics  FunnelRecorder
	Logger   *slog.Logger
}

type createIntentRequest struct {
	Amount       *decimal.Decimal  `json:"amount"`
	Currency     string            `json:"currency"`
	SubmissionID string            `json:"submissionId"`
	Metadata     map[string]string `json:"metadata"`
}

type confirmPaymentRequest struct {
	PaymentIntentID string `json:"paymentIntentId"`
	SubmissionID    string `json:"submissionId"`
}

func (h PaymentHandler) errors() errorResponder {
	return errorResponder{Logger: h.Logger, Scope: "payment"}
}

// CreateIntent starts a card payment. Amount is in pounds.
func (h PaymentHandler) CreateIntent(c *gin.Context) {
	var req createIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errors().respondWithError(c, http.StatusBadRequest, msgInvalidAmount)
		return
	}
	cmd := paymentsapp.CreateIntentCommand{
		Amount:       req.Amount,
		Currency:     req.Currency,
		SubmissionID: req.SubmissionID,
		Metadata:     req.Metadata,
	}
	result, err := commands.Dispatch[paymentsapp.CreateIntentCommand, *dto.PaymentIntent](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		h.errors().handleError(c, err, "Failed to create payment intent")
		return
	}
	recordStep(h.Metrics, obs.StepPaymentStarted)
	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"clientSecret":    result.ClientSecret,
		"paymentIntentId": result.PaymentIntentID,
	})
}

func (h PaymentHandler) Confirm(c *gin.Context) {
	var req confirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errors().respondWithError(c, http.StatusBadRequest, msgIntentIDRequired)
		return
	}
	cmd := paymentsapp.ConfirmPaymentCommand{PaymentIntentID: req.PaymentIntentID, SubmissionID: req.SubmissionID}
	result, err := commands.Dispatch[paymentsapp.ConfirmPaymentCommand, *dto.ConfirmedPayment](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		h.errors().handleError(c, err, "Failed to confirm payment")
		return
	}
	recordStep(h.Metrics, obs.StepPaymentDone)
	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"message":       "Payment confirmed successfully",
		"paymentIntent": result,
	})
}

var _ PaymentHTTP = PaymentHandler{}
