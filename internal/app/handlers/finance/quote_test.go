package finance_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"boilerfunnel/internal/app/handlers/finance"
	"boilerfunnel/internal/domain/catalog"
	domainfinance "boilerfunnel/internal/domain/finance"
	"boilerfunnel/internal/domain/shared/money"
	"boilerfunnel/internal/infra/storage/memory"
)

func TestListOptions(t *testing.T) {
	opts, err := finance.ListOptionsHandler{}.Handle(context.Background(), finance.ListOptionsQuery{})
	require.NoError(t, err)
	require.Len(t, opts, 7)
	assert.Equal(t, 120, opts[0].Months)
	assert.Equal(t, 11.9, opts[0].APR)
	assert.False(t, opts[0].InterestFree)
	assert.Equal(t, 12, opts[6].Months)
	assert.True(t, opts[6].InterestFree)
}

func TestQuoteFromDisplayPrice(t *testing.T) {
	h := &finance.QuoteHandler{}

	q, err := h.Handle(context.Background(), finance.QuoteQuery{Price: "£2,340", Months: 60, APR: decimal.RequireFromString("11.9")})
	require.NoError(t, err)
	assert.Equal(t, 51.93, q.MonthlyPayment)
	assert.Equal(t, "£52", q.Display.MonthlyPayment)

	q, err = h.Handle(context.Background(), finance.QuoteQuery{Price: "£2,550"})
	require.NoError(t, err)
	assert.Equal(t, 120, q.PaymentOption.Months)
	assert.Equal(t, 36.44, q.MonthlyPayment)

	q, err = h.Handle(context.Background(), finance.QuoteQuery{Price: "2400", Months: 24, APR: decimal.Zero})
	require.NoError(t, err)
	assert.Equal(t, 100.0, q.MonthlyPayment)
	assert.Equal(t, 0.0, q.InterestPayable)

	_, err = h.Handle(context.Background(), finance.QuoteQuery{Price: "£2,3a0"})
	assert.ErrorIs(t, err, money.ErrMalformedPrice)

	_, err = h.Handle(context.Background(), finance.QuoteQuery{Price: "2340", Months: 60, APR: decimal.NewFromInt(3)})
	assert.ErrorIs(t, err, domainfinance.ErrUnknownOption)

	assert.ErrorIs(t, finance.QuoteQuery{DepositPercent: 55}.Validate(), domainfinance.ErrDepositOutOfRange)
}

func TestQuoteFromCatalogProduct(t *testing.T) {
	products := memory.NewProductRepository()
	product, err := catalog.NewProduct(catalog.CreateParams{
		ID: "greenstar", Name: "Greenstar", Brand: "Worcester", Description: "Combi",
		Price: "£2,340", Rating: 4.5, Category: catalog.CategoryBetter, Warranty: "10 years",
		ExpertOpinion: "Solid", Now: time.Now(),
	})
	require.NoError(t, err)
	require.NoError(t, products.Save(context.Background(), product))

	h := &finance.QuoteHandler{UoWFactory: memory.Factory{ProductsRepo: products, SubmissionsRepo: memory.NewSubmissionRepository()}}
	q, err := h.Handle(context.Background(), finance.QuoteQuery{ProductID: "greenstar", DepositPercent: 10, Months: 60, APR: decimal.RequireFromString("11.9")})
	require.NoError(t, err)
	assert.Equal(t, 2340.0, q.CashPrice)
	assert.Equal(t, 234.0, q.DepositAmount)
	assert.Equal(t, 2106.0, q.LoanAmount)
	assert.Equal(t, 46.74, q.MonthlyPayment)

	_, err = h.Handle(context.Background(), finance.QuoteQuery{ProductID: "nope"})
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}
