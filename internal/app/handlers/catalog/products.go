package catalog

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"boilerfunnel/internal/app/dto"
	handlersupport "boilerfunnel/internal/app/handlers/support"
	"boilerfunnel/internal/app/queries"
	"boilerfunnel/internal/app/uow"
	domaincatalog "boilerfunnel/internal/domain/catalog"
)

const (
	ListProductsKey = "catalog.products.list"
	GetProductKey   = "catalog.products.get"
)

var ErrProductIDRequired = errors.New("catalog: product id is required")

type ListProductsQuery struct{}

func (ListProductsQuery) Key() string { return ListProductsKey }

type ListProductsHandler struct {
	UoWFactory uow.UoWFactory
	Logger     *slog.Logger
}

func (h *ListProductsHandler) Handle(ctx context.Context, _ ListProductsQuery) ([]dto.Product, error) {
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	items, err := unit.Products().List(execCtx)
	if err != nil {
		return nil, err
	}
	domaincatalog.SortNewestFirst(items)
	if h.Logger != nil {
		h.Logger.Debug("products listed", "count", len(items))
	}
	return dto.MapProducts(items), nil
}

type GetProductQuery struct {
	ID string
}

func (GetProductQuery) Key() string { return GetProductKey }

func (q GetProductQuery) Validate() error {
	if strings.TrimSpace(q.ID) == "" {
		return ErrProductIDRequired
	}
	return nil
}

type GetProductHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *GetProductHandler) Handle(ctx context.Context, q GetProductQuery) (dto.Product, error) {
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.Product{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	product, err := unit.Products().ByID(execCtx, domaincatalog.ProductID(strings.TrimSpace(q.ID)))
	if err != nil {
		return dto.Product{}, err
	}
	return dto.MapProduct(product), nil
}

var (
	_ queries.Handler[ListProductsQuery, []dto.Product] = (*ListProductsHandler)(nil)
	_ queries.Handler[GetProductQuery, dto.Product]     = (*GetProductHandler)(nil)
)
