package ginserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"unicode"
	"unicode/utf8"

	gin "github.com/gin-gonic/gin"

	"boilerfunnel/internal/app/commands"
	catalogapp "boilerfunnel/internal/app/handlers/catalog"
	paymentsapp "boilerfunnel/internal/app/handlers/payments"
	submissionsapp "boilerfunnel/internal/app/handlers/submissions"
	"boilerfunnel/internal/app/policies"
	"boilerfunnel/internal/app/queries"
	"boilerfunnel/internal/domain/booking"
	"boilerfunnel/internal/domain/catalog"
	"boilerfunnel/internal/domain/finance"
	"boilerfunnel/internal/domain/shared/money"
	"boilerfunnel/internal/domain/submissions"
	"boilerfunnel/internal/infra/storage/s3"
)

const (
	msgMissingContact     = "Missing required fields: firstName, lastName, email, and phone are required"
	msgSubmissionNotFound = "Form submission not found"
	msgProductNotFound    = "Product not found"
	msgInvalidCategory    = "Invalid category. Must be one of: good, better, best"
	msgInvalidRating      = "Rating must be a number between 0 and 5"
	msgInvalidAmount      = "Invalid amount"
	msgIntentIDRequired   = "Payment intent ID is required"
	msgPaymentIncomplete  = "Payment not completed"
	msgStripeNotSet       = "Stripe is not configured. Please set STRIPE_SECRET_KEY in your .env file."
	msgStripeAuth         = "Invalid Stripe API key. Please check your STRIPE_SECRET_KEY in the .env file."
)

var badRequestErrors = []error{
	submissions.ErrInvalidAnswer,
	submissions.ErrInvalidPayment,
	submissions.ErrNoProductSelected,
	submissionsapp.ErrSubmissionIDRequired,
	submissionsapp.ErrProductIDRequired,
	catalog.ErrMissingFields,
	catalog.ErrInvalidPrice,
	catalog.ErrInvalidBoiler,
	catalogapp.ErrProductIDRequired,
	finance.ErrInvalidTerm,
	finance.ErrInvalidAPR,
	finance.ErrDepositOutOfRange,
	finance.ErrDepositExceedsPrice,
	finance.ErrUnknownOption,
	money.ErrMalformedPrice,
	booking.ErrDateNotSelectable,
	booking.ErrInvalidDate,
	booking.ErrInvalidMonth,
}

var unavailableErrors = []error{
	catalogapp.ErrUploaderUnavailable,
	submissionsapp.ErrRendererUnavailable,
	s3.ErrNotConfigured,
	commands.ErrHandlerNotFound,
	commands.ErrNilBus,
	queries.ErrHandlerNotFound,
	queries.ErrNilBus,
}

// errorResponder renders failures in the API's {"error", "details"} shape.
type errorResponder struct {
	Logger *slog.Logger
	Scope  string
}

// handleError classifies err. fallback is the message used for unexpected
// failures, with the underlying error moved to details.
func (r errorResponder) handleError(c *gin.Context, err error, fallback string) {
	var incomplete *paymentsapp.NotCompletedError
	var gateway *policies.GatewayError
	switch {
	case errors.Is(err, submissions.ErrMissingContact):
		r.respond(c, http.StatusBadRequest, gin.H{"error": msgMissingContact}, err)
	case errors.Is(err, submissions.ErrNotFound):
		r.respond(c, http.StatusNotFound, gin.H{"error": msgSubmissionNotFound}, err)
	case errors.Is(err, catalog.ErrNotFound):
		r.respond(c, http.StatusNotFound, gin.H{"error": msgProductNotFound}, err)
	case errors.Is(err, catalog.ErrInvalidCategory):
		r.respond(c, http.StatusBadRequest, gin.H{"error": msgInvalidCategory}, err)
	case errors.Is(err, catalog.ErrInvalidRating):
		r.respond(c, http.StatusBadRequest, gin.H{"error": msgInvalidRating}, err)
	case errors.Is(err, paymentsapp.ErrInvalidAmount):
		r.respond(c, http.StatusBadRequest, gin.H{"error": msgInvalidAmount}, err)
	case errors.Is(err, paymentsapp.ErrIntentIDRequired):
		r.respond(c, http.StatusBadRequest, gin.H{"error": msgIntentIDRequired}, err)
	case errors.As(err, &incomplete):
		r.respond(c, http.StatusBadRequest, gin.H{"error": msgPaymentIncomplete, "status": incomplete.Status}, err)
	case errors.Is(err, policies.ErrPaymentsNotConfigured):
		r.respond(c, http.StatusInternalServerError, gin.H{"error": msgStripeNotSet}, err)
	case errors.As(err, &gateway):
		msg := gateway.Message
		if gateway.Kind == policies.GatewayAuthentication {
			msg = msgStripeAuth
		}
		details := gateway.Kind
		if details == "" {
			details = "Unknown error"
		}
		r.respond(c, http.StatusBadGateway, gin.H{"error": msg, "details": details}, err)
	case isAny(err, badRequestErrors):
		r.respond(c, http.StatusBadRequest, gin.H{"error": publicMessage(err)}, err)
	case isAny(err, unavailableErrors):
		r.respond(c, http.StatusServiceUnavailable, gin.H{"error": publicMessage(err)}, err)
	default:
		r.respond(c, http.StatusInternalServerError, gin.H{"error": fallback, "details": err.Error()}, err)
	}
}

func (r errorResponder) respondWithError(c *gin.Context, status int, msg string) {
	r.respond(c, status, gin.H{"error": msg}, errors.New(msg))
}

func (r errorResponder) respond(c *gin.Context, status int, body gin.H, err error) {
	_ = c.Error(err)
	if r.Logger != nil {
		fields := []any{"status", status, "error", err, "path", c.FullPath()}
		if status >= http.StatusInternalServerError {
			r.Logger.Error(r.Scope+" request failed", fields...)
		} else {
			r.Logger.Warn(r.Scope+" request rejected", fields...)
		}
	}
	c.AbortWithStatusJSON(status, body)
}

func isAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// publicMessage drops the "pkg: " prefix of a sentinel error and capitalises
// the remainder.
func publicMessage(err error) string {
	msg := err.Error()
	if idx := strings.Index(msg, ": "); idx > 0 && !strings.ContainsAny(msg[:idx], " ") {
		msg = msg[idx+2:]
	}
	r, size := utf8.DecodeRuneInString(msg)
	if r == utf8.RuneError {
		return msg
	}
	return string(unicode.ToUpper(r)) + msg[size:]
}
