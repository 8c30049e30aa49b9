package submissions

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"boilerfunnel/internal/domain/booking"
	"boilerfunnel/internal/domain/catalog"
	"boilerfunnel/internal/domain/finance"
	"boilerfunnel/internal/domain/shared/events"
	"boilerfunnel/internal/domain/shared/money"
)

var (
	ErrNotFound          = errors.New("submissions: form submission not found")
	ErrMissingContact    = errors.New("submissions: firstName, lastName, email, and phone are required")
	ErrInvalidAnswer     = errors.New("submissions: invalid answer")
	ErrInvalidPayment    = errors.New("submissions: invalid payment status")
	ErrNoProductSelected = errors.New("submissions: no product selected")
)

type SubmissionID string

type PaymentStatus string

const (
	PaymentNone      PaymentStatus = ""
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

func (s PaymentStatus) Valid() bool {
	return optionalOneOf(s, PaymentPending, PaymentCompleted, PaymentFailed, PaymentRefunded)
}

// SelectedProduct is a snapshot of the catalog entry at selection time.
type SelectedProduct struct {
	ID    string
	Name  string
	Brand string
	Price string
}

type FinanceDetails struct {
	DepositPercentage decimal.Decimal
	DepositAmount     decimal.Decimal
	Months            int
	APR               decimal.Decimal
	MonthlyPayment    decimal.Decimal
	TotalPayable      decimal.Decimal
}

// FinanceFromQuote stores the quote rounded to pence.
func FinanceFromQuote(q finance.Quote) FinanceDetails {
	return FinanceDetails{
		DepositPercentage: q.DepositPercent,
		DepositAmount:     q.DepositAmount.Round(2),
		Months:            q.TermMonths,
		APR:               q.APR,
		MonthlyPayment:    q.MonthlyPayment.Round(2),
		TotalPayable:      q.TotalPayable.Round(2),
	}
}

type InstallBooking struct {
	Date      string
	Surcharge decimal.Decimal
}

type Payment struct {
	Status   PaymentStatus
	IntentID string
	Amount   decimal.Decimal
	PaidAt   *time.Time
}

type Submission struct {
	ID            SubmissionID
	Qualification Qualification
	Contact       Contact
	Product       *SelectedProduct
	Finance       *FinanceDetails
	Install       *InstallBooking
	Payment       Payment
	SubmittedAt   time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
	events.EventRecorder
}

type Repository interface {
	ByID(ctx context.Context, id SubmissionID) (*Submission, error)
	List(ctx context.Context) ([]*Submission, error)
	Save(ctx context.Context, submission *Submission) error
	Delete(ctx context.Context, id SubmissionID) error
}

type CreateParams struct {
	ID            SubmissionID
	Qualification Qualification
	Contact       Contact
	Now           time.Time
}

func NewSubmission(params CreateParams) (*Submission, error) {
	if strings.TrimSpace(string(params.ID)) == "" {
		return nil, errors.New("submissions: id is required")
	}
	contact := params.Contact.normalized()
	if err := contact.Validate(); err != nil {
		return nil, err
	}
	answers := params.Qualification.normalized()
	if err := answers.Validate(); err != nil {
		return nil, err
	}
	now := params.Now.UTC()
	s := &Submission{
		ID:            params.ID,
		Qualification: answers,
		Contact:       contact,
		SubmittedAt:   now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	s.Record(SubmissionCreated{SubmissionID: s.ID, Email: contact.Email, Postcode: answers.Postcode, At: now})
	return s, nil
}

// Patch is a partial update of the wizard answers, contact details and
// payment status. Product, finance and install fields change only through
// their dedicated operations so the server can re-derive them.
type Patch struct {
	FuelType           *FuelType
	BoilerType         *catalog.BoilerType
	PropertyType       *PropertyType
	BedroomCount       *BedroomCount
	BathtubCount       *BathtubCount
	ShowerCubicleCount *ShowerCubicleCount
	FlueExitType       *FlueExitType
	ReplacementTiming  *ReplacementTiming
	Postcode           *string
	Address            *string
	FirstName          *string
	LastName           *string
	Email              *string
	Phone              *string
	PaymentStatus      *PaymentStatus
}

func (s *Submission) Apply(patch Patch, now time.Time) error {
	q := s.Qualification
	assign(&q.FuelType, patch.FuelType)
	assign(&q.BoilerType, patch.BoilerType)
	assign(&q.PropertyType, patch.PropertyType)
	assign(&q.BedroomCount, patch.BedroomCount)
	assign(&q.BathtubCount, patch.BathtubCount)
	assign(&q.ShowerCubicleCount, patch.ShowerCubicleCount)
	assign(&q.FlueExitType, patch.FlueExitType)
	assign(&q.ReplacementTiming, patch.ReplacementTiming)
	assign(&q.Postcode, patch.Postcode)
	assign(&q.Address, patch.Address)
	q = q.normalized()
	if err := q.Validate(); err != nil {
		return err
	}

	c := s.Contact
	assign(&c.FirstName, patch.FirstName)
	assign(&c.LastName, patch.LastName)
	assign(&c.Email, patch.Email)
	assign(&c.Phone, patch.Phone)
	c = c.normalized()
	if err := c.Validate(); err != nil {
		return err
	}

	payment := s.Payment.Status
	if patch.PaymentStatus != nil {
		if !patch.PaymentStatus.Valid() {
			return ErrInvalidPayment
		}
		payment = *patch.PaymentStatus
	}

	s.Qualification = q
	s.Contact = c
	s.Payment.Status = payment
	s.touch(now)
	s.Record(SubmissionUpdated{SubmissionID: s.ID, At: s.UpdatedAt})
	return nil
}

// SelectProduct stores the product snapshot and, when the customer chose
// finance, the quote computed for it.
func (s *Submission) SelectProduct(product SelectedProduct, quote *finance.Quote, now time.Time) {
	snapshot := product
	s.Product = &snapshot
	s.Finance = nil
	if quote != nil {
		details := FinanceFromQuote(*quote)
		s.Finance = &details
	}
	s.touch(now)
	s.Record(ProductSelected{SubmissionID: s.ID, ProductID: product.ID, Financed: quote != nil, At: s.UpdatedAt})
}

// BookInstall stores the install day and re-prices any finance quote on the
// product price plus the day's surcharge.
func (s *Submission) BookInstall(sel booking.Selection, now time.Time) error {
	install := &InstallBooking{Date: sel.ISO(), Surcharge: sel.Surcharge()}
	financed, err := s.refinanced(install)
	if err != nil {
		return err
	}
	s.Install = install
	s.Finance = financed
	s.touch(now)
	s.Record(InstallBooked{SubmissionID: s.ID, Date: install.Date, Surcharge: install.Surcharge, At: s.UpdatedAt})
	return nil
}

// InstallSurcharge is the surcharge of the booked install day, or zero.
func (s *Submission) InstallSurcharge() decimal.Decimal {
	if s.Install == nil {
		return decimal.Zero
	}
	return s.Install.Surcharge
}

func (s *Submission) refinanced(install *InstallBooking) (*FinanceDetails, error) {
	if s.Finance == nil || s.Product == nil {
		return s.Finance, nil
	}
	base, err := money.ParsePrice(s.Product.Price)
	if err != nil {
		return nil, err
	}
	f := s.Finance
	option := finance.Option{Months: f.Months, APR: f.APR}
	q, err := finance.QuoteFor(base.Add(install.Surcharge), int(f.DepositPercentage.IntPart()), option)
	if err != nil {
		return nil, err
	}
	details := FinanceFromQuote(q)
	return &details, nil
}

func (s *Submission) MarkPaymentPending(intentID string, now time.Time) {
	s.Payment.Status = PaymentPending
	s.Payment.IntentID = intentID
	s.touch(now)
}

func (s *Submission) CompletePayment(intentID string, amount decimal.Decimal, now time.Time) {
	paidAt := now.UTC()
	s.Payment = Payment{Status: PaymentCompleted, IntentID: intentID, Amount: amount, PaidAt: &paidAt}
	s.touch(now)
	s.Record(PaymentReceived{SubmissionID: s.ID, IntentID: intentID, Amount: amount, At: paidAt})
}

// BasePrice is the selected product's cash price, or fallback when no product
// is selected.
func (s *Submission) BasePrice(fallback decimal.Decimal) (decimal.Decimal, error) {
	if s.Product == nil {
		return fallback, nil
	}
	return money.ParsePrice(s.Product.Price)
}

// AmountDue is the base price plus any confirmed install surcharge.
func (s *Submission) AmountDue(fallback decimal.Decimal) (decimal.Decimal, error) {
	base, err := s.BasePrice(fallback)
	if err != nil {
		return decimal.Zero, err
	}
	return base.Add(s.InstallSurcharge()), nil
}

func (s *Submission) touch(now time.Time) {
	s.UpdatedAt = now.UTC()
}

func SortNewestFirst(items []*Submission) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
}

func assign[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
