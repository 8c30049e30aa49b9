package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"boilerfunnel/internal/app/policies"
	"boilerfunnel/internal/domain/booking"
	"boilerfunnel/internal/domain/finance"
	"boilerfunnel/internal/domain/submissions"
)

func sampleSubmission(t *testing.T) *submissions.Submission {
	t.Helper()
	now := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	s, err := submissions.NewSubmission(submissions.CreateParams{
		ID:            "s1",
		Contact:       submissions.Contact{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Phone: "07700900000"},
		Qualification: submissions.Qualification{Postcode: "SW1A 1AA"},
		Now:           now,
	})
	require.NoError(t, err)
	quote, err := finance.QuoteFor(decimal.NewFromInt(2340), 10, finance.Option{Months: 60, APR: decimal.RequireFromString("11.9")})
	require.NoError(t, err)
	s.SelectProduct(submissions.SelectedProduct{ID: "p1", Name: "Greenstar 4000", Brand: "Worcester Bosch", Price: "£2,340"}, &quote, now)
	sel, err := booking.DefaultCalendar().Select(time.Date(2026, 11, 13, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NoError(t, s.BookInstall(sel, now))
	return s
}

func TestSubmissionsWorkbook(t *testing.T) {
	body, err := Renderer{}.SubmissionsWorkbook([]*submissions.Submission{sampleSubmission(t)})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(body))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SubmissionsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, submissionColumns, rows[0])
	assert.Equal(t, "s1", rows[1][0])
	assert.Equal(t, "ada@example.com", rows[1][4])
	assert.Equal(t, "Worcester Bosch Greenstar 4000", rows[1][16])
	assert.Equal(t, "48.44", rows[1][22])
	assert.Equal(t, "2026-11-13", rows[1][24])
	assert.Equal(t, "85", rows[1][25])
}

func TestSubmissionsWorkbookEmpty(t *testing.T) {
	body, err := Renderer{}.SubmissionsWorkbook(nil)
	require.NoError(t, err)
	f, err := excelize.OpenReader(bytes.NewReader(body))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(SubmissionsSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestQuotePDF(t *testing.T) {
	quote, err := finance.QuoteFor(decimal.NewFromInt(2340), 10, finance.Option{Months: 60, APR: decimal.RequireFromString("11.9")})
	require.NoError(t, err)

	body, err := Renderer{}.QuotePDF(policies.QuoteSheet{
		Reference:    "s1",
		CustomerName: "Ada Lovelace",
		ProductName:  "Greenstar 4000",
		ProductBrand: "Worcester Bosch",
		CashPrice:    decimal.NewFromInt(2340),
		InstallDate:  "2026-11-13",
		Surcharge:    decimal.NewFromInt(85),
		Finance:      &quote,
		IssuedAt:     time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF-")))
	assert.Greater(t, len(body), 500)
}
