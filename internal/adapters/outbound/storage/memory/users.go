package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/abdidvp/kraftstore/internal/domain"
	"github.com/google/uuid"
)

func now() time.Time { return time.Now().UTC() }

type userRecord struct {
	seq  uint64
	user domain.User
}

// UserStore implements domain.UserRepository with a unique email index.
type UserStore struct {
	mu      sync.RWMutex
	seq     uint64
	users   map[string]*userRecord
	byEmail map[string]string // email → ID
}

func NewUserStore() *UserStore {
	return &UserStore{
		users:   make(map[string]*userRecord),
		byEmail: make(map[string]string),
	}
}

func cloneUser(u domain.User) *domain.User {
	out := u
	if u.Address != nil {
		addr := *u.Address
		out.Address = &addr
	}
	return &out
}

func (s *UserStore) Create(_ context.Context, u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	email := domain.NormalizeEmail(u.Email)
	if _, taken := s.byEmail[email]; taken {
		return domain.ErrDuplicateEmail
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.Email = email
	s.seq++
	s.users[u.ID] = &userRecord{seq: s.seq, user: *cloneUser(*u)}
	s.byEmail[email] = u.ID
	return nil
}

func (s *UserStore) GetByID(_ context.Context, id string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(rec.user), nil
}

func (s *UserStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byEmail[domain.NormalizeEmail(email)]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(s.users[id].user), nil
}

func (s *UserStore) List(_ context.Context) ([]*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	recs := make([]*userRecord, 0, len(s.users))
	for _, rec := range s.users {
		recs = append(recs, rec)
	}
	sort.Slice(recs, func(i, j int) bool {
		a, b := recs[i], recs[j]
		if !a.user.CreatedAt.Equal(b.user.CreatedAt) {
			return a.user.CreatedAt.After(b.user.CreatedAt)
		}
		return a.seq > b.seq
	})
	out := make([]*domain.User, 0, len(recs))
	for _, rec := range recs {
		out = append(out, cloneUser(rec.user))
	}
	return out, nil
}

func (s *UserStore) Update(_ context.Context, u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.users[u.ID]
	if !ok {
		return domain.ErrUserNotFound
	}
	email := domain.NormalizeEmail(u.Email)
	if owner, taken := s.byEmail[email]; taken && owner != u.ID {
		return domain.ErrDuplicateEmail
	}
	delete(s.byEmail, rec.user.Email)
	u.Email = email
	rec.user = *cloneUser(*u)
	s.byEmail[email] = u.ID
	return nil
}

func (s *UserStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	delete(s.byEmail, rec.user.Email)
	delete(s.users, id)
	return nil
}
