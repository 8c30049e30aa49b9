package finance

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"boilerfunnel/internal/domain/shared/money"
)

var (
	ErrInvalidTerm         = errors.New("finance: term must be at least one month")
	ErrInvalidAPR          = errors.New("finance: apr must not be negative")
	ErrDepositOutOfRange   = errors.New("finance: deposit percentage must be between 0 and 50")
	ErrDepositExceedsPrice = errors.New("finance: deposit exceeds cash price")
	ErrUnknownOption       = errors.New("finance: unknown payment option")
)

const (
	MinDepositPercent = 0
	MaxDepositPercent = 50
)

var (
	twelve  = decimal.NewFromInt(12)
	hundred = decimal.NewFromInt(100)

	// annualRateFactor derives the "annual interest rate" figure shown beside
	// the APR. It is a display approximation, not a disclosure figure.
	annualRateFactor = decimal.RequireFromString("0.565")
)

// Quote is the full breakdown for one price, deposit and payment option.
type Quote struct {
	CashPrice          decimal.Decimal
	DepositPercent     decimal.Decimal
	DepositAmount      decimal.Decimal
	LoanAmount         decimal.Decimal
	TermMonths         int
	APR                decimal.Decimal
	MonthlyPayment     decimal.Decimal
	TotalPayable       decimal.Decimal
	InterestPayable    decimal.Decimal
	AnnualInterestRate decimal.Decimal
}

// Option returns the term/APR pair the quote was computed for.
func (q Quote) Option() Option {
	return Option{Months: q.TermMonths, APR: q.APR}
}

// MonthlyPayment returns the level monthly instalment that repays principal
// over termMonths at the nominal annual rate apr (a percentage, 11.9 = 11.9%).
// Zero-rate offers split the principal evenly. Nothing is rounded here.
func MonthlyPayment(principal decimal.Decimal, termMonths int, apr decimal.Decimal) (decimal.Decimal, error) {
	if termMonths <= 0 {
		return decimal.Zero, ErrInvalidTerm
	}
	if apr.IsNegative() {
		return decimal.Zero, ErrInvalidAPR
	}
	if !principal.IsPositive() {
		return decimal.Zero, nil
	}
	n := decimal.NewFromInt(int64(termMonths))
	monthlyRate := apr.Div(twelve).Div(hundred)
	if monthlyRate.IsZero() {
		return principal.Div(n), nil
	}
	// P * r * (1+r)^n / ((1+r)^n - 1); the power runs in float64, the money
	// multiplication stays in decimal.
	r := monthlyRate.InexactFloat64()
	factor := math.Pow(1+r, float64(termMonths))
	ratio := decimal.NewFromFloat(r * factor / (factor - 1))
	return principal.Mul(ratio), nil
}

// Details computes the finance breakdown for a cash price and an absolute
// deposit. Any term/APR pair is accepted; selection UIs restrict themselves to
// Options().
func Details(price, depositAmount decimal.Decimal, termMonths int, apr decimal.Decimal) (Quote, error) {
	if depositAmount.IsNegative() {
		return Quote{}, fmt.Errorf("%w: deposit %s", ErrDepositOutOfRange, depositAmount)
	}
	if depositAmount.GreaterThan(price) {
		return Quote{}, ErrDepositExceedsPrice
	}
	loan := price.Sub(depositAmount)
	monthly, err := MonthlyPayment(loan, termMonths, apr)
	if err != nil {
		return Quote{}, err
	}
	total := monthly.Mul(decimal.NewFromInt(int64(termMonths)))

	depositPct := decimal.Zero
	if price.IsPositive() {
		depositPct = depositAmount.Mul(hundred).Div(price).Round(2)
	}
	return Quote{
		CashPrice:          price,
		DepositPercent:     depositPct,
		DepositAmount:      depositAmount,
		LoanAmount:         loan,
		TermMonths:         termMonths,
		APR:                apr,
		MonthlyPayment:     monthly,
		TotalPayable:       total,
		InterestPayable:    total.Sub(loan),
		AnnualInterestRate: apr.Mul(annualRateFactor),
	}, nil
}

// QuoteFor derives the deposit from a whole percentage of the price (0-50) and
// computes the breakdown for the given option.
func QuoteFor(price decimal.Decimal, depositPercent int, opt Option) (Quote, error) {
	if err := ValidateDepositPercent(depositPercent); err != nil {
		return Quote{}, err
	}
	q, err := Details(price, money.Percent(price, depositPercent), opt.Months, opt.APR)
	if err != nil {
		return Quote{}, err
	}
	q.DepositPercent = decimal.NewFromInt(int64(depositPercent))
	return q, nil
}

// ValidateDepositPercent enforces the slider range of the finance calculator.
func ValidateDepositPercent(pct int) error {
	if pct < MinDepositPercent || pct > MaxDepositPercent {
		return fmt.Errorf("%w: got %d", ErrDepositOutOfRange, pct)
	}
	return nil
}
