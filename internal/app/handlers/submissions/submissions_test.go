package submissions_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"boilerfunnel/internal/app/handlers/submissions"
	"boilerfunnel/internal/app/outbox"
	"boilerfunnel/internal/app/policies"
	"boilerfunnel/internal/app/uow"
	"boilerfunnel/internal/domain/booking"
	"boilerfunnel/internal/domain/catalog"
	"boilerfunnel/internal/domain/finance"
	domainsubmissions "boilerfunnel/internal/domain/submissions"
	"boilerfunnel/internal/infra/storage/memory"
)

const productID = "greenstar"

type fixture struct {
	factory memory.Factory
	box     *memory.Outbox
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	f := fixture{
		factory: memory.Factory{ProductsRepo: memory.NewProductRepository(), SubmissionsRepo: memory.NewSubmissionRepository()},
		box:     memory.NewOutbox(),
	}
	product, err := catalog.NewProduct(catalog.CreateParams{
		ID:            productID,
		Name:          "Greenstar 4000",
		Brand:         "Worcester Bosch",
		Description:   "Combi",
		Price:         "£2,340",
		Rating:        4.8,
		Category:      catalog.CategoryBetter,
		Warranty:      "10 years",
		ExpertOpinion: "Reliable",
		Now:           time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.NoError(t, f.factory.ProductsRepo.Save(context.Background(), product))
	return f
}

func (f fixture) bind(t *testing.T) context.Context {
	t.Helper()
	unit, err := f.factory.Begin(context.Background(), uow.TxOptions{})
	require.NoError(t, err)
	return uow.Bind(context.Background(), unit)
}

func (f fixture) submit(t *testing.T, at time.Time) string {
	t.Helper()
	h := &submissions.SubmitFormHandler{Outbox: f.box, Encoder: outbox.JSONEventEncoder{}, Now: func() time.Time { return at }}
	res, err := h.Handle(f.bind(t), submissions.SubmitFormCommand{
		Qualification: domainsubmissions.Qualification{FuelType: domainsubmissions.FuelMainsGas, Postcode: "sw1a 1aa"},
		Contact:       domainsubmissions.Contact{FirstName: "Sam", LastName: "Taylor", Email: "sam@example.com", Phone: "0770"},
	})
	require.NoError(t, err)
	return res.ID
}

func TestSubmitFormValidation(t *testing.T) {
	cmd := submissions.SubmitFormCommand{Contact: domainsubmissions.Contact{FirstName: "Sam"}}
	assert.ErrorIs(t, cmd.Validate(), domainsubmissions.ErrMissingContact)
}

func TestSubmitListGetUpdateDelete(t *testing.T) {
	f := newFixture(t)
	first := f.submit(t, time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC))
	second := f.submit(t, time.Date(2026, 10, 2, 0, 0, 0, 0, time.UTC))

	list := &submissions.ListSubmissionsHandler{UoWFactory: f.factory}
	items, err := list.Handle(context.Background(), submissions.ListSubmissionsQuery{})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, second, items[0].ID)
	assert.Equal(t, first, items[1].ID)

	address := "1 High Street"
	status := domainsubmissions.PaymentFailed
	update := &submissions.UpdateSubmissionHandler{Outbox: f.box, Encoder: outbox.JSONEventEncoder{}}
	updated, err := update.Handle(f.bind(t), submissions.UpdateSubmissionCommand{
		ID:    first,
		Patch: domainsubmissions.Patch{Address: &address, PaymentStatus: &status},
	})
	require.NoError(t, err)
	assert.Equal(t, "1 High Street", updated.Address)
	require.NotNil(t, updated.PaymentStatus)
	assert.Equal(t, "failed", *updated.PaymentStatus)

	bogus := domainsubmissions.PaymentStatus("lost")
	_, err = update.Handle(f.bind(t), submissions.UpdateSubmissionCommand{ID: first, Patch: domainsubmissions.Patch{PaymentStatus: &bogus}})
	assert.ErrorIs(t, err, domainsubmissions.ErrInvalidPayment)

	get := &submissions.GetSubmissionHandler{UoWFactory: f.factory}
	got, err := get.Handle(context.Background(), submissions.GetSubmissionQuery{ID: first})
	require.NoError(t, err)
	assert.Equal(t, "SW1A 1AA", got.Postcode)

	del := &submissions.DeleteSubmissionHandler{}
	_, err = del.Handle(f.bind(t), submissions.DeleteSubmissionCommand{ID: first})
	require.NoError(t, err)
	_, err = get.Handle(context.Background(), submissions.GetSubmissionQuery{ID: first})
	assert.ErrorIs(t, err, domainsubmissions.ErrNotFound)

	assert.ErrorIs(t, submissions.GetSubmissionQuery{}.Validate(), submissions.ErrSubmissionIDRequired)
	assert.ErrorIs(t, submissions.DeleteSubmissionCommand{ID: "  "}.Validate(), submissions.ErrSubmissionIDRequired)
}

func TestSelectProductRecomputesQuote(t *testing.T) {
	f := newFixture(t)
	id := f.submit(t, time.Now())

	h := &submissions.SelectProductHandler{Outbox: f.box, Encoder: outbox.JSONEventEncoder{}}
	out, err := h.Handle(f.bind(t), submissions.SelectProductCommand{
		SubmissionID: id,
		ProductID:    productID,
		Finance:      &submissions.FinanceChoice{DepositPercent: 10, Months: 60, APR: decimal.RequireFromString("11.9")},
	})
	require.NoError(t, err)
	require.NotNil(t, out.SelectedProduct)
	assert.Equal(t, "£2,340", out.SelectedProduct.Price)
	require.NotNil(t, out.FinanceDetails)
	assert.Equal(t, 234.0, out.FinanceDetails.DepositAmount)
	assert.Equal(t, 46.74, out.FinanceDetails.MonthlyPayment)
	assert.Equal(t, 60, out.FinanceDetails.PaymentOption.Months)

	out, err = h.Handle(f.bind(t), submissions.SelectProductCommand{SubmissionID: id, ProductID: productID})
	require.NoError(t, err)
	assert.Nil(t, out.FinanceDetails)

	_, err = h.Handle(f.bind(t), submissions.SelectProductCommand{
		SubmissionID: id,
		ProductID:    productID,
		Finance:      &submissions.FinanceChoice{Months: 60, APR: decimal.RequireFromString("5")},
	})
	assert.ErrorIs(t, err, finance.ErrUnknownOption)

	_, err = h.Handle(f.bind(t), submissions.SelectProductCommand{SubmissionID: id, ProductID: "missing"})
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestSelectProductCommandValidation(t *testing.T) {
	assert.ErrorIs(t, submissions.SelectProductCommand{SubmissionID: "s"}.Validate(), submissions.ErrProductIDRequired)
	cmd := submissions.SelectProductCommand{
		SubmissionID: "s",
		ProductID:    "p",
		Finance:      &submissions.FinanceChoice{DepositPercent: 51},
	}
	assert.ErrorIs(t, cmd.Validate(), finance.ErrDepositOutOfRange)
}

func TestConfirmInstallDate(t *testing.T) {
	f := newFixture(t)
	id := f.submit(t, time.Now())
	h := &submissions.ConfirmInstallDateHandler{Calendar: booking.DefaultCalendar(), Outbox: f.box, Encoder: outbox.JSONEventEncoder{}}

	out, err := h.Handle(f.bind(t), submissions.ConfirmInstallDateCommand{SubmissionID: id, Date: "2026-11-13"})
	require.NoError(t, err)
	require.NotNil(t, out.InstallDate)
	assert.Equal(t, "2026-11-13", *out.InstallDate)
	assert.Equal(t, 85.0, out.DateSurcharge)

	out, err = h.Handle(f.bind(t), submissions.ConfirmInstallDateCommand{SubmissionID: id, Date: "2026-11-10"})
	require.NoError(t, err)
	assert.Equal(t, 0.0, out.DateSurcharge)

	for _, date := range []string{"2026-11-03", "2026-11-05", "2026-11-08"} {
		_, err = h.Handle(f.bind(t), submissions.ConfirmInstallDateCommand{SubmissionID: id, Date: date})
		assert.ErrorIs(t, err, booking.ErrDateNotSelectable, date)
	}
	assert.ErrorIs(t, submissions.ConfirmInstallDateCommand{SubmissionID: id, Date: "13/11/2026"}.Validate(), booking.ErrInvalidDate)
}

func TestInstallSurchargeIsFinanced(t *testing.T) {
	f := newFixture(t)
	interestFree := &submissions.FinanceChoice{DepositPercent: 0, Months: 48, APR: decimal.Zero}
	selectHandler := &submissions.SelectProductHandler{Outbox: f.box, Encoder: outbox.JSONEventEncoder{}}
	book := &submissions.ConfirmInstallDateHandler{Calendar: booking.DefaultCalendar(), Outbox: f.box, Encoder: outbox.JSONEventEncoder{}}

	productFirst := f.submit(t, time.Now())
	out, err := selectHandler.Handle(f.bind(t), submissions.SelectProductCommand{SubmissionID: productFirst, ProductID: productID, Finance: interestFree})
	require.NoError(t, err)
	assert.Equal(t, 48.75, out.FinanceDetails.MonthlyPayment)

	out, err = book.Handle(f.bind(t), submissions.ConfirmInstallDateCommand{SubmissionID: productFirst, Date: "2026-11-13"})
	require.NoError(t, err)
	require.NotNil(t, out.FinanceDetails)
	assert.Equal(t, 50.52, out.FinanceDetails.MonthlyPayment)
	assert.Equal(t, 2425.0, out.FinanceDetails.TotalPayable)

	out, err = book.Handle(f.bind(t), submissions.ConfirmInstallDateCommand{SubmissionID: productFirst, Date: "2026-11-10"})
	require.NoError(t, err)
	assert.Equal(t, 48.75, out.FinanceDetails.MonthlyPayment)

	dateFirst := f.submit(t, time.Now())
	_, err = book.Handle(f.bind(t), submissions.ConfirmInstallDateCommand{SubmissionID: dateFirst, Date: "2026-11-13"})
	require.NoError(t, err)
	out, err = selectHandler.Handle(f.bind(t), submissions.SelectProductCommand{SubmissionID: dateFirst, ProductID: productID, Finance: interestFree})
	require.NoError(t, err)
	assert.Equal(t, 50.52, out.FinanceDetails.MonthlyPayment)

	renderer := &stubRenderer{}
	quote := &submissions.QuoteDocumentHandler{UoWFactory: f.factory, Renderer: renderer}
	_, err = quote.Handle(context.Background(), submissions.QuoteDocumentQuery{SubmissionID: dateFirst})
	require.NoError(t, err)
	require.NotNil(t, renderer.sheet.Finance)
	assert.Equal(t, "2425", renderer.sheet.Finance.CashPrice.String())
	assert.Equal(t, "2425.00", renderer.sheet.Finance.TotalPayable.StringFixed(2))
}

type stubRenderer struct {
	items []*domainsubmissions.Submission
	sheet policies.QuoteSheet
}

func (r *stubRenderer) SubmissionsWorkbook(items []*domainsubmissions.Submission) ([]byte, error) {
	r.items = items
	return []byte("xlsx"), nil
}

func (r *stubRenderer) QuotePDF(sheet policies.QuoteSheet) ([]byte, error) {
	r.sheet = sheet
	return []byte("pdf"), nil
}

func TestDocuments(t *testing.T) {
	f := newFixture(t)
	id := f.submit(t, time.Now())
	renderer := &stubRenderer{}
	now := func() time.Time { return time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC) }

	quote := &submissions.QuoteDocumentHandler{UoWFactory: f.factory, Renderer: renderer, Now: now}
	_, err := quote.Handle(context.Background(), submissions.QuoteDocumentQuery{SubmissionID: id})
	assert.ErrorIs(t, err, domainsubmissions.ErrNoProductSelected)

	selectHandler := &submissions.SelectProductHandler{Outbox: f.box, Encoder: outbox.JSONEventEncoder{}}
	_, err = selectHandler.Handle(f.bind(t), submissions.SelectProductCommand{
		SubmissionID: id,
		ProductID:    productID,
		Finance:      &submissions.FinanceChoice{DepositPercent: 0, Months: 60, APR: decimal.RequireFromString("11.9")},
	})
	require.NoError(t, err)
	book := &submissions.ConfirmInstallDateHandler{Calendar: booking.DefaultCalendar(), Outbox: f.box, Encoder: outbox.JSONEventEncoder{}}
	_, err = book.Handle(f.bind(t), submissions.ConfirmInstallDateCommand{SubmissionID: id, Date: "2026-11-20"})
	require.NoError(t, err)

	doc, err := quote.Handle(context.Background(), submissions.QuoteDocumentQuery{SubmissionID: id})
	require.NoError(t, err)
	assert.Equal(t, "quote-"+id+".pdf", doc.Filename)
	assert.Equal(t, submissions.ContentTypePDF, doc.ContentType)
	assert.Equal(t, "Sam Taylor", renderer.sheet.CustomerName)
	assert.True(t, decimal.NewFromInt(2425).Equal(renderer.sheet.Total()))
	require.NotNil(t, renderer.sheet.Finance)
	assert.True(t, renderer.sheet.Total().Equal(renderer.sheet.Finance.CashPrice))
	assert.Equal(t, "53.82", renderer.sheet.Finance.MonthlyPayment.StringFixed(2))

	export := &submissions.ExportSubmissionsHandler{UoWFactory: f.factory, Renderer: renderer, Now: now}
	doc, err = export.Handle(context.Background(), submissions.ExportSubmissionsQuery{})
	require.NoError(t, err)
	assert.Equal(t, "submissions-20261018.xlsx", doc.Filename)
	assert.Equal(t, submissions.ContentTypeXLSX, doc.ContentType)
	assert.Len(t, renderer.items, 1)

	_, err = (&submissions.ExportSubmissionsHandler{UoWFactory: f.factory}).Handle(context.Background(), submissions.ExportSubmissionsQuery{})
	assert.ErrorIs(t, err, submissions.ErrRendererUnavailable)
}
