package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// GBP is the only currency the funnel sells in.
const GBP = "GBP"

var (
	ErrInvalidCurrency  = errors.New("money: invalid currency code")
	ErrCurrencyMismatch = errors.New("money: currency mismatch")
	ErrMalformedPrice   = errors.New("money: malformed price string")
)

var (
	hundred      = decimal.NewFromInt(100)
	displayStrip = strings.NewReplacer("£", "", ",", "")
)

// Money keeps amounts in major units (pounds) as exact decimals. Conversion to
// minor units happens only at the payment gateway boundary.
type Money struct {
	Amount   decimal.Decimal
	Currency string
}

// New constructs a Money value validating minimal invariants.
func New(amount decimal.Decimal, currency string) (Money, error) {
	if len(currency) != 3 {
		return Money{}, ErrInvalidCurrency
	}
	return Money{Amount: amount, Currency: strings.ToUpper(currency)}, nil
}

// Must creates Money and panics if validation fails; useful in tests and fixtures.
func Must(amount decimal.Decimal, currency string) Money {
	m, err := New(amount, currency)
	if err != nil {
		panic(err)
	}
	return m
}

// Pounds is a shortcut for whole GBP amounts.
func Pounds(amount int64) Money {
	return Money{Amount: decimal.NewFromInt(amount), Currency: GBP}
}

// Add adds two money values ensuring currencies match.
func (m Money) Add(other Money) (Money, error) {
	if err := m.ensureSameCurrency(other); err != nil {
		return Money{}, err
	}
	return Money{Amount: m.Amount.Add(other.Amount), Currency: m.Currency}, nil
}

// Sub subtracts other from the receiver.
func (m Money) Sub(other Money) (Money, error) {
	if err := m.ensureSameCurrency(other); err != nil {
		return Money{}, err
	}
	return Money{Amount: m.Amount.Sub(other.Amount), Currency: m.Currency}, nil
}

// Multiply multiplies the amount by the provided factor.
func (m Money) Multiply(times int64) Money {
	return Money{Amount: m.Amount.Mul(decimal.NewFromInt(times)), Currency: m.Currency}
}

func (m Money) IsZero() bool {
	return m.Amount.IsZero()
}

// MinorUnits converts to the gateway's integer representation (pence for GBP).
func (m Money) MinorUnits() int64 {
	return MinorUnits(m.Amount)
}

// String renders GBP the way the funnel displays prices; other currencies fall
// back to a plain two-decimal form.
func (m Money) String() string {
	if m.Currency == GBP || m.Currency == "" {
		return FormatGBP(m.Amount)
	}
	return m.Amount.StringFixed(2) + " " + m.Currency
}

func (m Money) ensureSameCurrency(other Money) error {
	if m.Currency == "" || other.Currency == "" {
		return ErrInvalidCurrency
	}
	if m.Currency != other.Currency {
		return ErrCurrencyMismatch
	}
	return nil
}

// ParsePrice turns display strings such as "£2,340" or "£26.90" into a number.
// Anything that is not a plain number once the symbol and grouping separators
// are removed is rejected with ErrMalformedPrice.
func ParsePrice(display string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(displayStrip.Replace(strings.TrimSpace(display)))
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("%w: empty", ErrMalformedPrice)
	}
	value, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrMalformedPrice, display)
	}
	return value, nil
}

// FormatGBP renders an amount as whole pounds with en-GB grouping, e.g. £2,600.
// Halves round away from zero.
func FormatGBP(amount decimal.Decimal) string {
	whole := amount.Round(0).IntPart()
	p := message.NewPrinter(language.BritishEnglish)
	if whole < 0 {
		return "-£" + p.Sprintf("%d", -whole)
	}
	return "£" + p.Sprintf("%d", whole)
}

// Percent returns pct percent of amount.
func Percent(amount decimal.Decimal, pct int) decimal.Decimal {
	return amount.Mul(decimal.NewFromInt(int64(pct))).Div(hundred)
}

// MinorUnits converts a major-unit amount to minor units, rounding half up.
func MinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(hundred).Round(0).IntPart()
}

// FromMinorUnits converts a gateway amount back to major units.
func FromMinorUnits(units int64) decimal.Decimal {
	return decimal.New(units, -2)
}
