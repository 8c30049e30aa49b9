package policies

import (
	"time"

	"github.com/shopspring/decimal"

	"boilerfunnel/internal/domain/finance"
	"boilerfunnel/internal/domain/submissions"
)

// QuoteSheet is everything printed on a customer's quote document.
type QuoteSheet struct {
	Reference    string
	CustomerName string
	Email        string
	Phone        string
	Postcode     string
	Address      string
	ProductName  string
	ProductBrand string
	CashPrice    decimal.Decimal
	InstallDate  string
	Surcharge    decimal.Decimal
	Finance      *finance.Quote
	IssuedAt     time.Time
}

// Total is the cash price plus the install-day surcharge.
func (s QuoteSheet) Total() decimal.Decimal {
	return s.CashPrice.Add(s.Surcharge)
}

type DocumentRenderer interface {
	SubmissionsWorkbook(items []*submissions.Submission) ([]byte, error)
	QuotePDF(sheet QuoteSheet) ([]byte, error)
}
