package finance

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Option is one selectable term/APR pair.
type Option struct {
	Months int
	APR    decimal.Decimal
}

func (o Option) Label() string {
	return fmt.Sprintf("%d months @ %s%% APR", o.Months, o.APR.String())
}

// InterestFree reports whether the option is a 0% APR offer.
func (o Option) InterestFree() bool {
	return o.APR.IsZero()
}

var catalog = []Option{
	{Months: 120, APR: decimal.RequireFromString("11.9")},
	{Months: 60, APR: decimal.RequireFromString("11.9")},
	{Months: 36, APR: decimal.RequireFromString("11.9")},
	{Months: 48, APR: decimal.Zero},
	{Months: 36, APR: decimal.Zero},
	{Months: 24, APR: decimal.Zero},
	{Months: 12, APR: decimal.Zero},
}

// Options lists the payment options offered to customers, in display order.
func Options() []Option {
	return append([]Option(nil), catalog...)
}

// LookupOption returns the catalog entry matching months and apr.
func LookupOption(months int, apr decimal.Decimal) (Option, error) {
	for _, opt := range catalog {
		if opt.Months == months && opt.APR.Equal(apr) {
			return opt, nil
		}
	}
	return Option{}, fmt.Errorf("%w: %d months @ %s%%", ErrUnknownOption, months, apr.String())
}

// DefaultOption is the option preselected by the calculator.
func DefaultOption() Option {
	return catalog[0]
}
