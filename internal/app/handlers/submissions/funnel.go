package submissions

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"boilerfunnel/internal/app/commands"
	"boilerfunnel/internal/app/dto"
	handlersupport "boilerfunnel/internal/app/handlers/support"
	"boilerfunnel/internal/app/outbox"
	"boilerfunnel/internal/domain/booking"
	domaincatalog "boilerfunnel/internal/domain/catalog"
	"boilerfunnel/internal/domain/finance"
	domainsubmissions "boilerfunnel/internal/domain/submissions"
)

const (
	SelectProductKey      = "submissions.select_product"
	ConfirmInstallDateKey = "submissions.confirm_install_date"
)

var ErrProductIDRequired = errors.New("submissions: product id is required")

// FinanceChoice is the customer's deposit and payment option selection.
type FinanceChoice struct {
	DepositPercent int
	Months         int
	APR            decimal.Decimal
}

type SelectProductCommand struct {
	SubmissionID string
	ProductID    string
	Finance      *FinanceChoice
}

func (SelectProductCommand) Key() string { return SelectProductKey }

func (c SelectProductCommand) Validate() error {
	if err := requireID(c.SubmissionID); err != nil {
		return err
	}
	if strings.TrimSpace(c.ProductID) == "" {
		return ErrProductIDRequired
	}
	if c.Finance != nil {
		return finance.ValidateDepositPercent(c.Finance.DepositPercent)
	}
	return nil
}

type SelectProductHandler struct {
	Outbox  outbox.Outbox
	Encoder outbox.EventEncoder
	Logger  *slog.Logger
}

// Handle snapshots the product and recomputes the finance quote from the
// catalog price, plus any booked install surcharge, rather than trusting
// client figures.
func (h *SelectProductHandler) Handle(ctx context.Context, cmd SelectProductCommand) (*dto.Submission, error) {
	unit, err := handlersupport.UnitFrom(ctx)
	if err != nil {
		return nil, err
	}
	submission, err := unit.Submissions().ByID(ctx, domainsubmissions.SubmissionID(cmd.SubmissionID))
	if err != nil {
		return nil, err
	}
	product, err := unit.Products().ByID(ctx, domaincatalog.ProductID(cmd.ProductID))
	if err != nil {
		return nil, err
	}

	var quote *finance.Quote
	if cmd.Finance != nil {
		price, err := product.CashPrice()
		if err != nil {
			return nil, fmt.Errorf("product %s: %w", product.ID, err)
		}
		option, err := finance.LookupOption(cmd.Finance.Months, cmd.Finance.APR)
		if err != nil {
			return nil, err
		}
		q, err := finance.QuoteFor(price.Add(submission.InstallSurcharge()), cmd.Finance.DepositPercent, option)
		if err != nil {
			return nil, err
		}
		quote = &q
	}

	submission.SelectProduct(domainsubmissions.SelectedProduct{
		ID:    string(product.ID),
		Name:  product.Name,
		Brand: product.Brand,
		Price: product.Price,
	}, quote, time.Now())

	out, err := saveAndMap(ctx, unit, h.Outbox, h.Encoder, submission)
	if err != nil {
		return nil, err
	}
	if h.Logger != nil {
		h.Logger.Info("product selected", "submission_id", submission.ID, "product_id", product.ID, "financed", quote != nil)
	}
	return out, nil
}

type ConfirmInstallDateCommand struct {
	SubmissionID string
	Date         string
}

func (ConfirmInstallDateCommand) Key() string { return ConfirmInstallDateKey }

func (c ConfirmInstallDateCommand) Validate() error {
	if err := requireID(c.SubmissionID); err != nil {
		return err
	}
	_, err := booking.ParseDate(strings.TrimSpace(c.Date))
	return err
}

type ConfirmInstallDateHandler struct {
	Calendar booking.Calendar
	Outbox   outbox.Outbox
	Encoder  outbox.EventEncoder
	Logger   *slog.Logger
}

// Handle re-derives the day's status and surcharge server-side. A financed
// submission is re-quoted on the surcharged price.
func (h *ConfirmInstallDateHandler) Handle(ctx context.Context, cmd ConfirmInstallDateCommand) (*dto.Submission, error) {
	unit, err := handlersupport.UnitFrom(ctx)
	if err != nil {
		return nil, err
	}
	date, err := booking.ParseDate(strings.TrimSpace(cmd.Date))
	if err != nil {
		return nil, err
	}
	selection, err := h.Calendar.Select(date)
	if err != nil {
		return nil, err
	}
	submission, err := unit.Submissions().ByID(ctx, domainsubmissions.SubmissionID(cmd.SubmissionID))
	if err != nil {
		return nil, err
	}
	if err := submission.BookInstall(selection, time.Now()); err != nil {
		return nil, err
	}

	out, err := saveAndMap(ctx, unit, h.Outbox, h.Encoder, submission)
	if err != nil {
		return nil, err
	}
	if h.Logger != nil {
		h.Logger.Info("install date booked", "submission_id", submission.ID, "date", selection.ISO(), "surcharge", selection.Surcharge().String())
	}
	return out, nil
}

var (
	_ commands.Handler[SelectProductCommand, *dto.Submission]      = (*SelectProductHandler)(nil)
	_ commands.Handler[ConfirmInstallDateCommand, *dto.Submission] = (*ConfirmInstallDateHandler)(nil)
)
