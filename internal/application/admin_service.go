package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/abdidvp/kraftstore/internal/domain"
	"github.com/shopspring/decimal"
)

// AdminService is the back office's account management. Every operation
// re-checks that the actor may manage users.
type AdminService struct {
	users  domain.UserRepository
	orders domain.OrderRepository
	hasher domain.PasswordHasher
	now    func() time.Time
}

func NewAdminService(
	users domain.UserRepository,
	orders domain.OrderRepository,
	hasher domain.PasswordHasher,
) *AdminService {
	return &AdminService{users: users, orders: orders, hasher: hasher, now: time.Now}
}

func authorizeUserAdmin(actor domain.SessionClaims) error {
	if actor.ID == "" {
		return domain.ErrUnauthorized
	}
	if !domain.CanManageUsers(actor.Role) {
		return domain.ErrForbidden
	}
	return nil
}

// ListUsers returns every account, newest first, with its order count and
// lifetime spend.
func (s *AdminService) ListUsers(ctx context.Context, actor domain.SessionClaims) ([]domain.UserStats, error) {
	if err := authorizeUserAdmin(actor); err != nil {
		return nil, err
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	orders, err := s.orders.List(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}

	counts := make(map[string]int)
	spent := make(map[string]decimal.Decimal)
	for _, o := range orders {
		counts[o.UserID]++
		spent[o.UserID] = spent[o.UserID].Add(o.TotalAmount)
	}

	stats := make([]domain.UserStats, 0, len(users))
	for _, u := range users {
		stats = append(stats, domain.UserStats{
			User:       u,
			OrderCount: counts[u.ID],
			TotalSpent: spent[u.ID],
		})
	}
	return stats, nil
}

// GetUser returns one account.
func (s *AdminService) GetUser(ctx context.Context, actor domain.SessionClaims, id string) (*domain.User, error) {
	if err := authorizeUserAdmin(actor); err != nil {
		return nil, err
	}
	return s.users.GetByID(ctx, id)
}

// CreateUser creates an account with an explicit role.
func (s *AdminService) CreateUser(
	ctx context.Context,
	actor domain.SessionClaims,
	name, email, password string,
	role domain.Role,
) (*domain.User, error) {
	if err := authorizeUserAdmin(actor); err != nil {
		return nil, err
	}
	return createAccount(ctx, s.users, s.hasher, s.now(), name, email, password, role)
}

// UpdateUser applies an admin edit. Admins cannot lower their own role.
func (s *AdminService) UpdateUser(
	ctx context.Context,
	actor domain.SessionClaims,
	id string,
	update domain.UserUpdate,
) (*domain.User, error) {
	if err := authorizeUserAdmin(actor); err != nil {
		return nil, err
	}
	if id == actor.ID && update.Role != nil && *update.Role != domain.RoleAdmin {
		return nil, fmt.Errorf("%w: cannot change your own admin role", domain.ErrSelfModification)
	}
	if update.Name != nil && strings.TrimSpace(*update.Name) == "" {
		return nil, domain.Invalidf("name cannot be empty")
	}
	if update.Email != nil && domain.NormalizeEmail(*update.Email) == "" {
		return nil, domain.Invalidf("email cannot be empty")
	}

	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	update.Apply(u)
	u.UpdatedAt = s.now().UTC()
	if err := s.users.Update(ctx, u); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) || errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("saving user: %w", err)
	}
	return u, nil
}

// DeleteUser hard-deletes an account. Admins cannot delete themselves.
func (s *AdminService) DeleteUser(ctx context.Context, actor domain.SessionClaims, id string) error {
	if err := authorizeUserAdmin(actor); err != nil {
		return err
	}
	if id == actor.ID {
		return fmt.Errorf("%w: cannot delete your own account", domain.ErrSelfModification)
	}
	return s.users.Delete(ctx, id)
}
