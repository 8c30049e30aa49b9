package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"boilerfunnel/internal/app/uow"
	"boilerfunnel/internal/domain/catalog"
	"boilerfunnel/internal/domain/submissions"
)

var ErrUnitOfWorkNotConfigured = errors.New("mongo: unit of work factory missing database")

// Factory wires Mongo sessions into the generic UnitOfWork interface.
// Multi-document transactions need a replica set, so they are opt-in;
// without them each write commits on its own.
type Factory struct {
	DB           *mongo.Database
	Transactions bool

	ProductsRepo    catalog.Repository
	SubmissionsRepo submissions.Repository
}

func (f Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.DB == nil || f.ProductsRepo == nil || f.SubmissionsRepo == nil {
		return nil, ErrUnitOfWorkNotConfigured
	}
	unit := &Unit{products: f.ProductsRepo, submissions: f.SubmissionsRepo}
	if !f.Transactions || opts.ReadOnly {
		return unit, nil
	}
	session, err := f.DB.Client().StartSession()
	if err != nil {
		return nil, err
	}
	txnOpts := options.Transaction().SetReadConcern(f.DB.ReadConcern()).SetWriteConcern(f.DB.WriteConcern())
	if err := session.StartTransaction(txnOpts); err != nil {
		session.EndSession(ctx)
		return nil, err
	}
	unit.session = session
	return unit, nil
}

type Unit struct {
	session mongo.Session

	products    catalog.Repository
	submissions submissions.Repository
}

func (u *Unit) Products() catalog.Repository {
	return u.products
}

func (u *Unit) Submissions() submissions.Repository {
	return u.submissions
}

func (u *Unit) Commit(ctx context.Context) error {
	if u.session == nil {
		return nil
	}
	defer u.session.EndSession(ctx)
	return u.session.CommitTransaction(ctx)
}

func (u *Unit) Rollback(ctx context.Context) error {
	if u.session == nil {
		return nil
	}
	defer u.session.EndSession(ctx)
	return u.session.AbortTransaction(ctx)
}

// InjectContext ensures the Mongo session is available in context for downstream repos.
func (u *Unit) InjectContext(ctx context.Context) context.Context {
	if u.session == nil {
		return ctx
	}
	return mongo.NewSessionContext(ctx, u.session)
}

var (
	_ uow.UoWFactory      = Factory{}
	_ uow.ContextInjector = (*Unit)(nil)
)
