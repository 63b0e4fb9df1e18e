package pgstore

import (
	"context"
	"errors"

	"github.com/abdidvp/kraftstore/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = `id, name, email, password, role, is_active, last_login, address, phone, preferences, created_at, updated_at`

// UserStore implements domain.UserRepository.
type UserStore struct {
	pool *pgxpool.Pool
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var (
		u    domain.User
		role string
	)
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &role, &u.IsActive, &u.LastLogin,
		&u.Address, &u.Phone, &u.Preferences, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if u.Role, err = domain.ParseRole(role); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *UserStore) Create(ctx context.Context, u *domain.User) error {
	id := uuid.NewString()
	email := domain.NormalizeEmail(u.Email)
	_, err := s.pool.Exec(ctx, `
		INSERT INTO users (id, name, email, password, role, is_active, last_login, address, phone, preferences, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		id, u.Name, email, u.PasswordHash, u.Role.String(), u.IsActive, u.LastLogin,
		u.Address, u.Phone, u.Preferences, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateEmail
		}
		return err
	}
	u.ID = id
	u.Email = email
	return nil
}

func (s *UserStore) get(ctx context.Context, where string, arg any) (*domain.User, error) {
	u, err := scanUser(s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE `+where, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	return u, err
}

func (s *UserStore) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return s.get(ctx, "id = $1", id)
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.get(ctx, "email = $1", domain.NormalizeEmail(email))
}

func (s *UserStore) List(ctx context.Context) ([]*domain.User, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC, seq DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*domain.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (s *UserStore) Update(ctx context.Context, u *domain.User) error {
	email := domain.NormalizeEmail(u.Email)
	tag, err := s.pool.Exec(ctx, `
		UPDATE users SET name = $2, email = $3, password = $4, role = $5, is_active = $6, last_login = $7,
			address = $8, phone = $9, preferences = $10, updated_at = $11
		WHERE id = $1`,
		u.ID, u.Name, email, u.PasswordHash, u.Role.String(), u.IsActive, u.LastLogin,
		u.Address, u.Phone, u.Preferences, u.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateEmail
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	u.Email = email
	return nil
}

func (s *UserStore) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
