package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrice(t *testing.T) {
	cases := map[string]string{
		"£2,340":      "2340",
		"£26.90":      "26.9",
		" £1,234,567": "1234567",
		"2550":        "2550",
	}
	for input, want := range cases {
		got, err := ParsePrice(input)
		require.NoError(t, err, input)
		assert.True(t, got.Equal(decimal.RequireFromString(want)), "%s parsed as %s", input, got)
	}
}

func TestParsePriceRejectsMalformedInput(t *testing.T) {
	for _, input := range []string{"", "£", "price on request", "£2,340abc", "£1.2.3"} {
		_, err := ParsePrice(input)
		assert.ErrorIs(t, err, ErrMalformedPrice, input)
	}
}

func TestFormatGBP(t *testing.T) {
	assert.Equal(t, "£2,600", FormatGBP(decimal.NewFromInt(2600)))
	assert.Equal(t, "£54", FormatGBP(decimal.RequireFromString("54.1666")))
	assert.Equal(t, "£37", FormatGBP(decimal.RequireFromString("36.5")))
	assert.Equal(t, "£1,234,567", FormatGBP(decimal.NewFromInt(1234567)))
	assert.Equal(t, "£0", FormatGBP(decimal.Zero))
	assert.Equal(t, "-£85", FormatGBP(decimal.NewFromInt(-85)))
}

func TestMinorUnitsRoundsHalfUp(t *testing.T) {
	assert.Equal(t, int64(268500), MinorUnits(decimal.NewFromInt(2685)))
	assert.Equal(t, int64(2691), MinorUnits(decimal.RequireFromString("26.905")))
	assert.Equal(t, int64(2690), MinorUnits(decimal.RequireFromString("26.9049")))
	assert.True(t, FromMinorUnits(268500).Equal(decimal.NewFromInt(2685)))
}

func TestPercent(t *testing.T) {
	assert.True(t, Percent(decimal.NewFromInt(2600), 50).Equal(decimal.NewFromInt(1300)))
	assert.True(t, Percent(decimal.NewFromInt(2340), 0).IsZero())
	assert.True(t, Percent(decimal.NewFromInt(2550), 15).Equal(decimal.RequireFromString("382.5")))
}

func TestMoneyArithmetic(t *testing.T) {
	total, err := Pounds(2600).Add(Pounds(85))
	require.NoError(t, err)
	assert.Equal(t, "£2,685", total.String())

	_, err = Pounds(1).Add(Must(decimal.NewFromInt(1), "EUR"))
	assert.ErrorIs(t, err, ErrCurrencyMismatch)

	_, err = New(decimal.Zero, "pounds")
	assert.ErrorIs(t, err, ErrInvalidCurrency)

	assert.Equal(t, int64(8500), Pounds(85).MinorUnits())
	assert.True(t, Pounds(85).Multiply(2).Amount.Equal(decimal.NewFromInt(170)))
}
