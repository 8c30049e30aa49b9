package submissions

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"boilerfunnel/internal/domain/booking"
	"boilerfunnel/internal/domain/catalog"
	"boilerfunnel/internal/domain/finance"
)

var now = time.Date(2026, 10, 18, 10, 0, 0, 0, time.UTC)

func newTestSubmission(t *testing.T) *Submission {
	t.Helper()
	s, err := NewSubmission(CreateParams{
		ID: "sub-1",
		Qualification: Qualification{
			FuelType:     FuelMainsGas,
			BoilerType:   catalog.BoilerCombi,
			BedroomCount: Bedrooms3,
			Postcode:     " sw1a 1aa ",
		},
		Contact: Contact{FirstName: "Sam", LastName: "Jones", Email: " Sam@Example.com ", Phone: "07700 900000"},
		Now:     now,
	})
	require.NoError(t, err)
	return s
}

func TestNewSubmissionNormalises(t *testing.T) {
	s := newTestSubmission(t)
	assert.Equal(t, "SW1A 1AA", s.Qualification.Postcode)
	assert.Equal(t, "sam@example.com", s.Contact.Email)
	assert.Equal(t, "Sam Jones", s.Contact.FullName())
	assert.Equal(t, now, s.SubmittedAt)
	require.Len(t, s.PendingEvents(), 1)
	assert.Equal(t, "submission.created", s.PendingEvents()[0].EventName())
}

func TestNewSubmissionRequiresContact(t *testing.T) {
	for _, c := range []Contact{
		{LastName: "Jones", Email: "a@b.c", Phone: "1"},
		{FirstName: "Sam", Email: "a@b.c", Phone: "1"},
		{FirstName: "Sam", LastName: "Jones", Phone: "1"},
		{FirstName: "Sam", LastName: "Jones", Email: "a@b.c", Phone: "  "},
	} {
		_, err := NewSubmission(CreateParams{ID: "x", Contact: c, Now: now})
		assert.ErrorIs(t, err, ErrMissingContact)
	}
}

func TestNewSubmissionRejectsUnknownAnswers(t *testing.T) {
	_, err := NewSubmission(CreateParams{
		ID:            "x",
		Qualification: Qualification{FlueExitType: "chimney"},
		Contact:       Contact{FirstName: "Sam", LastName: "Jones", Email: "a@b.c", Phone: "1"},
		Now:           now,
	})
	require.ErrorIs(t, err, ErrInvalidAnswer)
	assert.Contains(t, err.Error(), "flueExitType")
}

func TestApplyPatch(t *testing.T) {
	s := newTestSubmission(t)
	s.ClearEvents()

	timing := TimingThisWeek
	status := PaymentRefunded
	phone := "07700 900001"
	require.NoError(t, s.Apply(Patch{ReplacementTiming: &timing, PaymentStatus: &status, Phone: &phone}, now.Add(time.Minute)))

	assert.Equal(t, TimingThisWeek, s.Qualification.ReplacementTiming)
	assert.Equal(t, FuelMainsGas, s.Qualification.FuelType)
	assert.Equal(t, PaymentRefunded, s.Payment.Status)
	assert.Equal(t, "07700 900001", s.Contact.Phone)
	assert.Equal(t, now.Add(time.Minute), s.UpdatedAt)
	assert.Equal(t, "submission.updated", s.PendingEvents()[0].EventName())
}

func TestApplyPatchIsAtomic(t *testing.T) {
	s := newTestSubmission(t)
	s.ClearEvents()

	timing := TimingASAP
	badStatus := PaymentStatus("authorised")
	assert.ErrorIs(t, s.Apply(Patch{ReplacementTiming: &timing, PaymentStatus: &badStatus}, now), ErrInvalidPayment)
	assert.Empty(t, s.Qualification.ReplacementTiming)

	blank := ""
	assert.ErrorIs(t, s.Apply(Patch{Email: &blank}, now), ErrMissingContact)
	assert.Equal(t, "sam@example.com", s.Contact.Email)
	assert.Empty(t, s.PendingEvents())
}

func TestSelectProductStoresRoundedQuote(t *testing.T) {
	s := newTestSubmission(t)
	quote, err := finance.QuoteFor(decimal.NewFromInt(2600), 0, finance.Option{Months: 48, APR: decimal.Zero})
	require.NoError(t, err)

	s.SelectProduct(SelectedProduct{ID: "p-1", Name: "Greenstar", Brand: "Worcester", Price: "£2,600"}, &quote, now)

	require.NotNil(t, s.Product)
	require.NotNil(t, s.Finance)
	assert.Equal(t, "54.17", s.Finance.MonthlyPayment.StringFixed(2))
	assert.Equal(t, "2600", s.Finance.TotalPayable.String())
	assert.Equal(t, 48, s.Finance.Months)

	s.SelectProduct(SelectedProduct{ID: "p-2", Price: "£1,999"}, nil, now)
	assert.Nil(t, s.Finance)
	assert.Equal(t, "p-2", s.Product.ID)
}

func TestAmountDueIncludesSurcharge(t *testing.T) {
	s := newTestSubmission(t)
	fallback := decimal.NewFromInt(2550)

	due, err := s.AmountDue(fallback)
	require.NoError(t, err)
	assert.True(t, due.Equal(fallback))

	s.SelectProduct(SelectedProduct{ID: "p-1", Price: "£2,600"}, nil, now)
	sel, err := booking.DefaultCalendar().Select(time.Date(2026, 11, 13, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NoError(t, s.BookInstall(sel, now))

	assert.Equal(t, "2026-11-13", s.Install.Date)
	due, err = s.AmountDue(fallback)
	require.NoError(t, err)
	assert.True(t, due.Equal(decimal.NewFromInt(2685)))
}

func TestBookInstallRequotesFinance(t *testing.T) {
	s := newTestSubmission(t)
	quote, err := finance.QuoteFor(decimal.NewFromInt(2600), 0, finance.Option{Months: 48, APR: decimal.Zero})
	require.NoError(t, err)
	s.SelectProduct(SelectedProduct{ID: "p-1", Price: "£2,600"}, &quote, now)
	assert.Equal(t, "54.17", s.Finance.MonthlyPayment.StringFixed(2))

	sel, err := booking.DefaultCalendar().Select(time.Date(2026, 11, 13, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NoError(t, s.BookInstall(sel, now))

	require.NotNil(t, s.Finance)
	assert.Equal(t, "55.94", s.Finance.MonthlyPayment.StringFixed(2))
	assert.Equal(t, "2685.00", s.Finance.TotalPayable.StringFixed(2))
	assert.Equal(t, 48, s.Finance.Months)
	assert.True(t, s.Finance.DepositAmount.IsZero())
}

func TestBookInstallRejectsUnpricedProduct(t *testing.T) {
	s := newTestSubmission(t)
	quote, err := finance.QuoteFor(decimal.NewFromInt(2600), 10, finance.Option{Months: 48, APR: decimal.Zero})
	require.NoError(t, err)
	s.SelectProduct(SelectedProduct{ID: "p-1", Price: "call us"}, &quote, now)
	sel, err := booking.DefaultCalendar().Select(time.Date(2026, 11, 13, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Error(t, s.BookInstall(sel, now))
	assert.Nil(t, s.Install)
	assert.Equal(t, "260", s.Finance.DepositAmount.String())
}

func TestCompletePayment(t *testing.T) {
	s := newTestSubmission(t)
	s.MarkPaymentPending("pi_123", now)
	assert.Equal(t, PaymentPending, s.Payment.Status)

	s.ClearEvents()
	s.CompletePayment("pi_123", decimal.RequireFromString("2685.00"), now)
	assert.Equal(t, PaymentCompleted, s.Payment.Status)
	require.NotNil(t, s.Payment.PaidAt)
	assert.Equal(t, "submission.payment_completed", s.PendingEvents()[0].EventName())
}
