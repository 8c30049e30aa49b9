package memory

import (
	"context"
	"sync"

	"boilerfunnel/internal/domain/catalog"
	"boilerfunnel/internal/domain/shared/events"
	"boilerfunnel/internal/domain/submissions"
)

// ProductRepository keeps products in memory. Values are copied on the way in
// and out so callers never share state with the store.
type ProductRepository struct {
	mu    sync.RWMutex
	items map[catalog.ProductID]*catalog.Product
}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{items: make(map[catalog.ProductID]*catalog.Product)}
}

func (r *ProductRepository) ByID(_ context.Context, id catalog.ProductID) (*catalog.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.items[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	return cloneProduct(p), nil
}

func (r *ProductRepository) List(_ context.Context) ([]*catalog.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*catalog.Product, 0, len(r.items))
	for _, p := range r.items {
		out = append(out, cloneProduct(p))
	}
	catalog.SortNewestFirst(out)
	return out, nil
}

func (r *ProductRepository) Save(_ context.Context, product *catalog.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[product.ID] = cloneProduct(product)
	return nil
}

func (r *ProductRepository) Delete(_ context.Context, id catalog.ProductID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return catalog.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

type SubmissionRepository struct {
	mu    sync.RWMutex
	items map[submissions.SubmissionID]*submissions.Submission
}

func NewSubmissionRepository() *SubmissionRepository {
	return &SubmissionRepository{items: make(map[submissions.SubmissionID]*submissions.Submission)}
}

func (r *SubmissionRepository) ByID(_ context.Context, id submissions.SubmissionID) (*submissions.Submission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.items[id]
	if !ok {
		return nil, submissions.ErrNotFound
	}
	return cloneSubmission(s), nil
}

func (r *SubmissionRepository) List(_ context.Context) ([]*submissions.Submission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*submissions.Submission, 0, len(r.items))
	for _, s := range r.items {
		out = append(out, cloneSubmission(s))
	}
	submissions.SortNewestFirst(out)
	return out, nil
}

func (r *SubmissionRepository) Save(_ context.Context, s *submissions.Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[s.ID] = cloneSubmission(s)
	return nil
}

func (r *SubmissionRepository) Delete(_ context.Context, id submissions.SubmissionID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return submissions.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func cloneProduct(p *catalog.Product) *catalog.Product {
	c := *p
	c.EventRecorder = events.EventRecorder{}
	c.Features = append([]string(nil), p.Features...)
	c.SuitableBedrooms = append([]string(nil), p.SuitableBedrooms...)
	return &c
}

func cloneSubmission(s *submissions.Submission) *submissions.Submission {
	c := *s
	c.EventRecorder = events.EventRecorder{}
	if s.Product != nil {
		p := *s.Product
		c.Product = &p
	}
	if s.Finance != nil {
		f := *s.Finance
		c.Finance = &f
	}
	if s.Install != nil {
		i := *s.Install
		c.Install = &i
	}
	if s.Payment.PaidAt != nil {
		t := *s.Payment.PaidAt
		c.Payment.PaidAt = &t
	}
	return &c
}

var (
	_ catalog.Repository     = (*ProductRepository)(nil)
	_ submissions.Repository = (*SubmissionRepository)(nil)
)
