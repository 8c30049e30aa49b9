package submissions

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	handlersupport "boilerfunnel/internal/app/handlers/support"
	"boilerfunnel/internal/app/policies"
	"boilerfunnel/internal/app/queries"
	"boilerfunnel/internal/app/uow"
	"boilerfunnel/internal/domain/finance"
	domainsubmissions "boilerfunnel/internal/domain/submissions"
)

const (
	ExportSubmissionsKey = "submissions.export"
	QuoteDocumentKey     = "submissions.quote_document"
)

var ErrRendererUnavailable = errors.New("submissions: document renderer unavailable")

// Document is a rendered file ready to be streamed to a client.
type Document struct {
	Filename    string
	ContentType string
	Body        []byte
}

const (
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypePDF  = "application/pdf"
)

type ExportSubmissionsQuery struct{}

func (ExportSubmissionsQuery) Key() string { return ExportSubmissionsKey }

type ExportSubmissionsHandler struct {
	UoWFactory uow.UoWFactory
	Renderer   policies.DocumentRenderer
	Now        func() time.Time
}

func (h *ExportSubmissionsHandler) Handle(ctx context.Context, _ ExportSubmissionsQuery) (Document, error) {
	if h.Renderer == nil {
		return Document{}, ErrRendererUnavailable
	}
	items, err := loadAll(ctx, h.UoWFactory)
	if err != nil {
		return Document{}, err
	}
	body, err := h.Renderer.SubmissionsWorkbook(items)
	if err != nil {
		return Document{}, err
	}
	now := time.Now()
	if h.Now != nil {
		now = h.Now()
	}
	return Document{
		Filename:    "submissions-" + now.UTC().Format("20060102") + ".xlsx",
		ContentType: ContentTypeXLSX,
		Body:        body,
	}, nil
}

type QuoteDocumentQuery struct {
	SubmissionID string
}

func (QuoteDocumentQuery) Key() string { return QuoteDocumentKey }

func (q QuoteDocumentQuery) Validate() error { return requireID(q.SubmissionID) }

type QuoteDocumentHandler struct {
	UoWFactory uow.UoWFactory
	Renderer   policies.DocumentRenderer
	Now        func() time.Time
}

func (h *QuoteDocumentHandler) Handle(ctx context.Context, q QuoteDocumentQuery) (Document, error) {
	if h.Renderer == nil {
		return Document{}, ErrRendererUnavailable
	}
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return Document{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	submission, err := unit.Submissions().ByID(execCtx, domainsubmissions.SubmissionID(q.SubmissionID))
	if err != nil {
		return Document{}, err
	}
	now := time.Now()
	if h.Now != nil {
		now = h.Now()
	}
	sheet, err := BuildQuoteSheet(submission, now)
	if err != nil {
		return Document{}, err
	}
	body, err := h.Renderer.QuotePDF(sheet)
	if err != nil {
		return Document{}, err
	}
	return Document{
		Filename:    "quote-" + string(submission.ID) + ".pdf",
		ContentType: ContentTypePDF,
		Body:        body,
	}, nil
}

// BuildQuoteSheet assembles the printable quote for a submission that has a
// selected product. Finance figures are recomputed unrounded from the stored
// choice on the same total the sheet prints.
func BuildQuoteSheet(s *domainsubmissions.Submission, now time.Time) (policies.QuoteSheet, error) {
	if s.Product == nil {
		return policies.QuoteSheet{}, domainsubmissions.ErrNoProductSelected
	}
	price, err := s.BasePrice(decimal.Zero)
	if err != nil {
		return policies.QuoteSheet{}, err
	}
	sheet := policies.QuoteSheet{
		Reference:    string(s.ID),
		CustomerName: s.Contact.FullName(),
		Email:        s.Contact.Email,
		Phone:        s.Contact.Phone,
		Postcode:     s.Qualification.Postcode,
		Address:      s.Qualification.Address,
		ProductName:  s.Product.Name,
		ProductBrand: s.Product.Brand,
		CashPrice:    price,
		Surcharge:    decimal.Zero,
		IssuedAt:     now.UTC(),
	}
	if s.Install != nil {
		sheet.InstallDate = s.Install.Date
		sheet.Surcharge = s.Install.Surcharge
	}
	if f := s.Finance; f != nil {
		quote, err := finance.Details(sheet.Total(), f.DepositAmount, f.Months, f.APR)
		if err != nil {
			return policies.QuoteSheet{}, err
		}
		sheet.Finance = &quote
	}
	return sheet, nil
}

var (
	_ queries.Handler[ExportSubmissionsQuery, Document] = (*ExportSubmissionsHandler)(nil)
	_ queries.Handler[QuoteDocumentQuery, Document]     = (*QuoteDocumentHandler)(nil)
)
