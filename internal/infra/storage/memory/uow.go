package memory

import (
	"context"
	"errors"

	"boilerfunnel/internal/app/uow"
	"boilerfunnel/internal/domain/catalog"
	"boilerfunnel/internal/domain/submissions"
)

var ErrFactoryMisconfigured = errors.New("memory: unit of work factory misconfigured")

// Factory hands out units over shared in-memory repositories. Units provide
// no isolation; Rollback only drops the unit's staged outbox records.
type Factory struct {
	ProductsRepo    catalog.Repository
	SubmissionsRepo submissions.Repository
	Outbox          *Outbox
}

func (f Factory) Begin(_ context.Context, _ uow.TxOptions) (uow.UnitOfWork, error) {
	if f.ProductsRepo == nil || f.SubmissionsRepo == nil {
		return nil, ErrFactoryMisconfigured
	}
	return &Unit{products: f.ProductsRepo, submissions: f.SubmissionsRepo, outbox: f.Outbox}, nil
}

type Unit struct {
	products    catalog.Repository
	submissions submissions.Repository
	outbox      *Outbox
}

func (u *Unit) Products() catalog.Repository        { return u.products }
func (u *Unit) Submissions() submissions.Repository { return u.submissions }
func (u *Unit) Commit(context.Context) error        { return nil }

func (u *Unit) Rollback(context.Context) error {
	if u.outbox != nil {
		u.outbox.discard(u)
	}
	return nil
}

var _ uow.UoWFactory = Factory{}
