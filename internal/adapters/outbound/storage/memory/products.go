// Package memory holds map-backed stores for tests and the zero-setup
// development server. Each store guards its state with one RWMutex and hands
// out copies, so callers never alias stored records.
package memory

import (
	"context"
	"maps"
	"sort"
	"sync"

	"github.com/abdidvp/kraftstore/internal/domain"
	"github.com/google/uuid"
)

type productRecord struct {
	seq     uint64
	product domain.Product
}

// ProductStore implements domain.ProductRepository.
type ProductStore struct {
	mu       sync.RWMutex
	seq      uint64
	products map[string]*productRecord
}

func NewProductStore() *ProductStore {
	return &ProductStore{products: make(map[string]*productRecord)}
}

func cloneProduct(p domain.Product) *domain.Product {
	out := p
	out.Images = append([]string(nil), p.Images...)
	if p.Specifications != nil {
		out.Specifications = maps.Clone(p.Specifications)
	}
	return &out
}

func (s *ProductStore) Create(_ context.Context, p *domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	s.seq++
	s.products[p.ID] = &productRecord{seq: s.seq, product: *cloneProduct(*p)}
	return nil
}

func (s *ProductStore) GetByID(_ context.Context, id string) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return cloneProduct(rec.product), nil
}

func (s *ProductStore) List(_ context.Context, f domain.ProductFilter) ([]*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	recs := make([]*productRecord, 0, len(s.products))
	for _, rec := range s.products {
		if f.Matches(&rec.product) {
			recs = append(recs, rec)
		}
	}
	sort.Slice(recs, func(i, j int) bool {
		a, b := recs[i], recs[j]
		if !a.product.CreatedAt.Equal(b.product.CreatedAt) {
			return a.product.CreatedAt.After(b.product.CreatedAt)
		}
		return a.seq > b.seq
	})
	out := make([]*domain.Product, 0, len(recs))
	for _, rec := range recs {
		out = append(out, cloneProduct(rec.product))
	}
	return out, nil
}

func (s *ProductStore) Update(_ context.Context, p *domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.products[p.ID]
	if !ok {
		return domain.ErrProductNotFound
	}
	rec.product = *cloneProduct(*p)
	return nil
}

func (s *ProductStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(s.products, id)
	return nil
}

func (s *ProductStore) DecrementStock(_ context.Context, id string, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.products[id]
	if !ok {
		return domain.ErrProductNotFound
	}
	if rec.product.Stock < qty {
		return &domain.StockError{
			ProductID:   id,
			ProductName: rec.product.Name,
			Requested:   qty,
			Available:   rec.product.Stock,
		}
	}
	rec.product.Stock -= qty
	return nil
}

func (s *ProductStore) RestoreStock(_ context.Context, id string, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.products[id]
	if !ok {
		return domain.ErrProductNotFound
	}
	rec.product.Stock += qty
	return nil
}
