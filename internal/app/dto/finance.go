package dto

import (
	"boilerfunnel/internal/domain/finance"
	"boilerfunnel/internal/domain/shared/money"
)

type FinanceOption struct {
	Months       int     `json:"months"`
	APR          float64 `json:"apr"`
	Label        string  `json:"label"`
	InterestFree bool    `json:"interestFree"`
}

func MapFinanceOptions(opts []finance.Option) []FinanceOption {
	out := make([]FinanceOption, 0, len(opts))
	for _, o := range opts {
		out = append(out, FinanceOption{
			Months:       o.Months,
			APR:          o.APR.InexactFloat64(),
			Label:        o.Label(),
			InterestFree: o.InterestFree(),
		})
	}
	return out
}

// QuoteDisplay mirrors the whole-pound figures shown on the product page.
type QuoteDisplay struct {
	CashPrice          string `json:"cashPrice"`
	DepositAmount      string `json:"depositAmount"`
	LoanAmount         string `json:"loanAmount"`
	MonthlyPayment     string `json:"monthlyPayment"`
	TotalPayable       string `json:"totalPayable"`
	InterestPayable    string `json:"interestPayable"`
	AnnualInterestRate string `json:"annualInterestRate"`
}

type Quote struct {
	CashPrice          float64       `json:"cashPrice"`
	DepositPercentage  float64       `json:"depositPercentage"`
	DepositAmount      float64       `json:"depositAmount"`
	LoanAmount         float64       `json:"loanAmount"`
	PaymentOption      PaymentOption `json:"paymentOption"`
	MonthlyPayment     float64       `json:"monthlyPayment"`
	TotalPayable       float64       `json:"totalPayable"`
	InterestPayable    float64       `json:"interestPayable"`
	AnnualInterestRate float64       `json:"annualInterestRate"`
	Display            QuoteDisplay  `json:"display"`
}

func MapQuote(q finance.Quote) Quote {
	return Quote{
		CashPrice:          Amount(q.CashPrice),
		DepositPercentage:  q.DepositPercent.InexactFloat64(),
		DepositAmount:      Amount(q.DepositAmount),
		LoanAmount:         Amount(q.LoanAmount),
		PaymentOption:      PaymentOption{Months: q.TermMonths, APR: q.APR.InexactFloat64()},
		MonthlyPayment:     Amount(q.MonthlyPayment),
		TotalPayable:       Amount(q.TotalPayable),
		InterestPayable:    Amount(q.InterestPayable),
		AnnualInterestRate: q.AnnualInterestRate.Round(2).InexactFloat64(),
		Display: QuoteDisplay{
			CashPrice:          money.FormatGBP(q.CashPrice),
			DepositAmount:      money.FormatGBP(q.DepositAmount),
			LoanAmount:         money.FormatGBP(q.LoanAmount),
			MonthlyPayment:     money.FormatGBP(q.MonthlyPayment),
			TotalPayable:       money.FormatGBP(q.TotalPayable),
			InterestPayable:    money.FormatGBP(q.InterestPayable),
			AnnualInterestRate: q.AnnualInterestRate.StringFixed(2) + "% APR",
		},
	}
}
