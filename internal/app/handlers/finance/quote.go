package finance

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"boilerfunnel/internal/app/dto"
	handlersupport "boilerfunnel/internal/app/handlers/support"
	"boilerfunnel/internal/app/queries"
	"boilerfunnel/internal/app/uow"
	domaincatalog "boilerfunnel/internal/domain/catalog"
	domainfinance "boilerfunnel/internal/domain/finance"
	"boilerfunnel/internal/domain/shared/money"
)

const (
	ListOptionsKey = "finance.options.list"
	QuoteKey       = "finance.quote"
)

type ListOptionsQuery struct{}

func (ListOptionsQuery) Key() string { return ListOptionsKey }

type ListOptionsHandler struct{}

func (ListOptionsHandler) Handle(context.Context, ListOptionsQuery) ([]dto.FinanceOption, error) {
	return dto.MapFinanceOptions(domainfinance.Options()), nil
}

// QuoteQuery prices either a catalog product or a display price string.
// A zero Months selects the default option.
type QuoteQuery struct {
	ProductID      string
	Price          string
	DepositPercent int
	Months         int
	APR            decimal.Decimal
}

func (QuoteQuery) Key() string { return QuoteKey }

func (q QuoteQuery) Validate() error {
	return domainfinance.ValidateDepositPercent(q.DepositPercent)
}

type QuoteHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *QuoteHandler) Handle(ctx context.Context, q QuoteQuery) (dto.Quote, error) {
	price, err := h.price(ctx, q)
	if err != nil {
		return dto.Quote{}, err
	}
	option := domainfinance.DefaultOption()
	if q.Months != 0 {
		option, err = domainfinance.LookupOption(q.Months, q.APR)
		if err != nil {
			return dto.Quote{}, err
		}
	}
	quote, err := domainfinance.QuoteFor(price, q.DepositPercent, option)
	if err != nil {
		return dto.Quote{}, err
	}
	return dto.MapQuote(quote), nil
}

func (h *QuoteHandler) price(ctx context.Context, q QuoteQuery) (decimal.Decimal, error) {
	if id := strings.TrimSpace(q.ProductID); id != "" {
		unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
		if err != nil {
			return decimal.Zero, err
		}
		if cleanup != nil {
			defer cleanup()
		}
		product, err := unit.Products().ByID(execCtx, domaincatalog.ProductID(id))
		if err != nil {
			return decimal.Zero, err
		}
		return product.CashPrice()
	}
	return money.ParsePrice(q.Price)
}

var (
	_ queries.Handler[ListOptionsQuery, []dto.FinanceOption] = ListOptionsHandler{}
	_ queries.Handler[QuoteQuery, dto.Quote]                 = (*QuoteHandler)(nil)
)
