package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/abdidvp/kraftstore/internal/domain"
	"github.com/google/uuid"
)

type orderRecord struct {
	seq   uint64
	order domain.Order
}

// OrderStore implements domain.OrderRepository.
type OrderStore struct {
	mu     sync.RWMutex
	seq    uint64
	orders map[string]*orderRecord
}

func NewOrderStore() *OrderStore {
	return &OrderStore{orders: make(map[string]*orderRecord)}
}

func cloneOrder(o domain.Order) *domain.Order {
	out := o
	out.Items = append([]domain.OrderLine(nil), o.Items...)
	return &out
}

func (s *OrderStore) Create(_ context.Context, o *domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	s.seq++
	s.orders[o.ID] = &orderRecord{seq: s.seq, order: *cloneOrder(*o)}
	return nil
}

func (s *OrderStore) GetByID(_ context.Context, id string) (*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return cloneOrder(rec.order), nil
}

func (s *OrderStore) List(_ context.Context, userID string) ([]*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	recs := make([]*orderRecord, 0, len(s.orders))
	for _, rec := range s.orders {
		if userID == "" || rec.order.UserID == userID {
			recs = append(recs, rec)
		}
	}
	sort.Slice(recs, func(i, j int) bool {
		a, b := recs[i], recs[j]
		if !a.order.CreatedAt.Equal(b.order.CreatedAt) {
			return a.order.CreatedAt.After(b.order.CreatedAt)
		}
		return a.seq > b.seq
	})
	out := make([]*domain.Order, 0, len(recs))
	for _, rec := range recs {
		out = append(out, cloneOrder(rec.order))
	}
	return out, nil
}

func (s *OrderStore) UpdateStatus(_ context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	rec.order.Status = status
	rec.order.UpdatedAt = now()
	return cloneOrder(rec.order), nil
}
