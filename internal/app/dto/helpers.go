package dto

import "github.com/shopspring/decimal"

// Amount converts a money value to a JSON number rounded to pence.
func Amount(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return append([]string(nil), values...)
}
