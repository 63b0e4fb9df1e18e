package pgstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/abdidvp/kraftstore/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const productColumns = `id, name, description, price::text, category, images, stock, featured, specifications, created_at, updated_at`

// ProductStore implements domain.ProductRepository.
type ProductStore struct {
	pool *pgxpool.Pool
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var (
		p     domain.Product
		price string
	)
	err := row.Scan(&p.ID, &p.Name, &p.Description, &price, &p.Category, &p.Images,
		&p.Stock, &p.Featured, &p.Specifications, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if p.Price, err = parseNumeric(price); err != nil {
		return nil, err
	}
	return &p, nil
}

// productWhere translates f into a WHERE clause and its arguments.
func productWhere(f domain.ProductFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Category != "" {
		conds = append(conds, "category = "+arg(f.Category))
	}
	if f.MinPrice != nil {
		conds = append(conds, "price >= "+arg(f.MinPrice.String())+"::numeric")
	}
	if f.MaxPrice != nil {
		conds = append(conds, "price <= "+arg(f.MaxPrice.String())+"::numeric")
	}
	if f.Search != "" {
		p := arg(containsPattern(f.Search))
		conds = append(conds, fmt.Sprintf("(name ILIKE %s OR description ILIKE %s)", p, p))
	}
	if f.Featured != nil {
		conds = append(conds, "featured = "+arg(*f.Featured))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (s *ProductStore) Create(ctx context.Context, p *domain.Product) error {
	id := uuid.NewString()
	images := p.Images
	if images == nil {
		images = []string{}
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO products (id, name, description, price, category, images, stock, featured, specifications, created_at, updated_at)
		VALUES ($1, $2, $3, $4::numeric, $5, $6, $7, $8, $9, $10, $11)`,
		id, p.Name, p.Description, p.Price.String(), p.Category, images, p.Stock, p.Featured,
		p.Specifications, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return err
	}
	p.ID = id
	return nil
}

func (s *ProductStore) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	p, err := scanProduct(s.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrProductNotFound
	}
	return p, err
}

func (s *ProductStore) List(ctx context.Context, f domain.ProductFilter) ([]*domain.Product, error) {
	where, args := productWhere(f)
	rows, err := s.pool.Query(ctx, `SELECT `+productColumns+` FROM products`+where+` ORDER BY created_at DESC, seq DESC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *ProductStore) Update(ctx context.Context, p *domain.Product) error {
	images := p.Images
	if images == nil {
		images = []string{}
	}
	tag, err := s.pool.Exec(ctx, `
		UPDATE products SET name = $2, description = $3, price = $4::numeric, category = $5, images = $6,
			stock = $7, featured = $8, specifications = $9, updated_at = $10
		WHERE id = $1`,
		p.ID, p.Name, p.Description, p.Price.String(), p.Category, images, p.Stock, p.Featured,
		p.Specifications, p.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (s *ProductStore) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// DecrementStock is one conditional UPDATE; the row lock it takes serializes
// concurrent decrements of the same product.
func (s *ProductStore) DecrementStock(ctx context.Context, id string, qty int) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE products SET stock = stock - $2, updated_at = now() WHERE id = $1 AND stock >= $2`, id, qty)
	if err != nil {
		return fmt.Errorf("decrementing stock: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	current, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return &domain.StockError{
		ProductID:   id,
		ProductName: current.Name,
		Requested:   qty,
		Available:   current.Stock,
	}
}

func (s *ProductStore) RestoreStock(ctx context.Context, id string, qty int) error {
	tag, err := s.pool.Exec(ctx, `UPDATE products SET stock = stock + $2 WHERE id = $1`, id, qty)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}
