package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/abdidvp/kraftstore/internal/domain"
)

// IdentityService registers accounts, verifies credentials and issues the
// session tokens every other operation authorizes against.
type IdentityService struct {
	users      domain.UserRepository
	hasher     domain.PasswordHasher
	tokens     domain.TokenIssuer
	adminEmail string
	now        func() time.Time
}

func NewIdentityService(
	users domain.UserRepository,
	hasher domain.PasswordHasher,
	tokens domain.TokenIssuer,
	adminEmail string,
) *IdentityService {
	return &IdentityService{
		users:      users,
		hasher:     hasher,
		tokens:     tokens,
		adminEmail: domain.NormalizeEmail(adminEmail),
		now:        time.Now,
	}
}

// Register creates a user account. The account is an admin only when its
// email is the configured administrator address.
func (s *IdentityService) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	role := domain.RoleUser
	if s.adminEmail != "" && domain.NormalizeEmail(email) == s.adminEmail {
		role = domain.RoleAdmin
	}
	return createAccount(ctx, s.users, s.hasher, s.now(), name, email, password, role)
}

// Authenticate verifies credentials and returns the session claims. Unknown
// emails, wrong passwords and deactivated accounts all fail with the same
// ErrInvalidCredentials.
func (s *IdentityService) Authenticate(ctx context.Context, email, password string) (domain.SessionClaims, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return domain.SessionClaims{}, domain.ErrInvalidCredentials
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.SessionClaims{}, domain.ErrInvalidCredentials
		}
		return domain.SessionClaims{}, fmt.Errorf("looking up user: %w", err)
	}
	if err := s.hasher.Compare(u.PasswordHash, password); err != nil {
		return domain.SessionClaims{}, domain.ErrInvalidCredentials
	}
	if !u.IsActive {
		return domain.SessionClaims{}, domain.ErrInvalidCredentials
	}

	u.LastLogin = s.now().UTC()
	if err := s.users.Update(ctx, u); err != nil {
		return domain.SessionClaims{}, fmt.Errorf("recording last login: %w", err)
	}
	return domain.ClaimsFor(u), nil
}

// RefreshClaims applies an explicit session update, such as the new name
// after a profile edit, without re-authenticating.
func (s *IdentityService) RefreshClaims(c domain.SessionClaims, update domain.SessionUpdate) domain.SessionClaims {
	return c.Refresh(update)
}

// IssueToken signs claims into a session token.
func (s *IdentityService) IssueToken(c domain.SessionClaims) (string, error) {
	return s.tokens.Issue(c)
}

// VerifyToken validates a session token and returns its claims.
func (s *IdentityService) VerifyToken(token string) (domain.SessionClaims, error) {
	return s.tokens.Parse(token)
}

// Profile returns the caller's own account.
func (s *IdentityService) Profile(ctx context.Context, actor domain.SessionClaims) (*domain.User, error) {
	if actor.ID == "" {
		return nil, domain.ErrUnauthorized
	}
	return s.users.GetByID(ctx, actor.ID)
}

// UpdateProfile applies the caller's edit to their own account.
func (s *IdentityService) UpdateProfile(
	ctx context.Context,
	actor domain.SessionClaims,
	update domain.ProfileUpdate,
) (*domain.User, error) {
	if actor.ID == "" {
		return nil, domain.ErrUnauthorized
	}
	if update.Name != nil && strings.TrimSpace(*update.Name) == "" {
		return nil, domain.Invalidf("name cannot be empty")
	}
	u, err := s.users.GetByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	update.Apply(u)
	u.UpdatedAt = s.now().UTC()
	if err := s.users.Update(ctx, u); err != nil {
		return nil, fmt.Errorf("saving profile: %w", err)
	}
	return u, nil
}

// createAccount validates, hashes and stores a new account. Shared by
// self-registration and admin account creation.
func createAccount(
	ctx context.Context,
	users domain.UserRepository,
	hasher domain.PasswordHasher,
	now time.Time,
	name, email, password string,
	role domain.Role,
) (*domain.User, error) {
	name = strings.TrimSpace(name)
	email = domain.NormalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return nil, domain.Invalidf("missing required fields")
	}
	if !role.Valid() {
		return nil, domain.Invalidf("invalid role")
	}

	if _, err := users.GetByEmail(ctx, email); err == nil {
		return nil, domain.ErrDuplicateEmail
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("checking email: %w", err)
	}

	hash, err := hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	now = now.UTC()
	u := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
		LastLogin:    now,
		Preferences:  domain.DefaultPreferences(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := users.Create(ctx, u); err != nil {
		// the unique index catches a racing registration
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, err
		}
		return nil, fmt.Errorf("saving user: %w", err)
	}
	return u, nil
}
