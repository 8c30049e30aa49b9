package booking

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"boilerfunnel/internal/app/dto"
	handlersupport "boilerfunnel/internal/app/handlers/support"
	"boilerfunnel/internal/app/queries"
	"boilerfunnel/internal/app/uow"
	domainbooking "boilerfunnel/internal/domain/booking"
	domaincatalog "boilerfunnel/internal/domain/catalog"
	"boilerfunnel/internal/domain/shared/money"
	domainsubmissions "boilerfunnel/internal/domain/submissions"
)

const (
	CalendarKey = "booking.calendar"
	TotalKey    = "booking.total"
)

// CalendarQuery renders one month; an empty Month means the current one.
type CalendarQuery struct {
	Month string
}

func (CalendarQuery) Key() string { return CalendarKey }

type CalendarHandler struct {
	Calendar domainbooking.Calendar
	Now      func() time.Time
}

func (h *CalendarHandler) Handle(_ context.Context, q CalendarQuery) (dto.Calendar, error) {
	month, err := h.month(q.Month)
	if err != nil {
		return dto.Calendar{}, err
	}
	return dto.MapCalendar(month, h.Calendar.Days(month)), nil
}

func (h *CalendarHandler) month(raw string) (domainbooking.Month, error) {
	if raw = strings.TrimSpace(raw); raw != "" {
		return domainbooking.ParseMonth(raw)
	}
	now := time.Now()
	if h.Now != nil {
		now = h.Now()
	}
	return domainbooking.MonthOf(now), nil
}

// TotalQuery prices an installation on Date. The base price comes from the
// product, else the submission's selected product, else the default.
type TotalQuery struct {
	Date         string
	ProductID    string
	SubmissionID string
}

func (TotalQuery) Key() string { return TotalKey }

type TotalHandler struct {
	Calendar         domainbooking.Calendar
	DefaultBasePrice decimal.Decimal
	UoWFactory       uow.UoWFactory
}

func (h *TotalHandler) Handle(ctx context.Context, q TotalQuery) (dto.BookingTotal, error) {
	base, err := h.basePrice(ctx, q)
	if err != nil {
		return dto.BookingTotal{}, err
	}
	var selection *domainbooking.Selection
	if raw := strings.TrimSpace(q.Date); raw != "" {
		date, err := domainbooking.ParseDate(raw)
		if err != nil {
			return dto.BookingTotal{}, err
		}
		sel, err := h.Calendar.Select(date)
		if err != nil {
			return dto.BookingTotal{}, err
		}
		selection = &sel
	}
	total := domainbooking.TotalPrice(base, selection)
	out := dto.BookingTotal{
		BasePrice:    dto.Amount(base),
		Surcharge:    dto.Amount(total.Sub(base)),
		TotalPrice:   dto.Amount(total),
		DisplayTotal: money.FormatGBP(total),
	}
	if selection != nil {
		iso := selection.ISO()
		out.Date = &iso
		out.Status = string(selection.Status())
	}
	return out, nil
}

func (h *TotalHandler) basePrice(ctx context.Context, q TotalQuery) (decimal.Decimal, error) {
	productID := strings.TrimSpace(q.ProductID)
	submissionID := strings.TrimSpace(q.SubmissionID)
	if productID == "" && submissionID == "" {
		return h.DefaultBasePrice, nil
	}
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return decimal.Zero, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	if productID != "" {
		product, err := unit.Products().ByID(execCtx, domaincatalog.ProductID(productID))
		if err != nil {
			return decimal.Zero, err
		}
		return product.CashPrice()
	}
	submission, err := unit.Submissions().ByID(execCtx, domainsubmissions.SubmissionID(submissionID))
	if err != nil {
		return decimal.Zero, err
	}
	return submission.BasePrice(h.DefaultBasePrice)
}

var (
	_ queries.Handler[CalendarQuery, dto.Calendar]  = (*CalendarHandler)(nil)
	_ queries.Handler[TotalQuery, dto.BookingTotal] = (*TotalHandler)(nil)
)
