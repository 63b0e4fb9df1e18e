package pgstore

import (
	"context"
	"errors"

	"github.com/abdidvp/kraftstore/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const orderColumns = `id, user_id, total_amount::text, shipping_address, payment_method, status, order_date, created_at, updated_at`

// OrderStore implements domain.OrderRepository. Lines live in order_items.
type OrderStore struct {
	pool *pgxpool.Pool
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var (
		o      domain.Order
		total  string
		status string
	)
	err := row.Scan(&o.ID, &o.UserID, &total, &o.ShippingAddress, &o.PaymentMethod, &status,
		&o.OrderDate, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	o.Status = domain.OrderStatus(status)
	if o.TotalAmount, err = parseNumeric(total); err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *OrderStore) Create(ctx context.Context, o *domain.Order) error {
	id := uuid.NewString()
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO orders (id, user_id, total_amount, shipping_address, payment_method, status, order_date, created_at, updated_at)
			VALUES ($1, $2, $3::numeric, $4, $5, $6, $7, $8, $9)`,
			id, o.UserID, o.TotalAmount.String(), o.ShippingAddress, o.PaymentMethod, string(o.Status),
			o.OrderDate, o.CreatedAt, o.UpdatedAt)
		if err != nil {
			return err
		}

		batch := &pgx.Batch{}
		for i, it := range o.Items {
			batch.Queue(`INSERT INTO order_items (order_id, position, product_id, quantity, price) VALUES ($1, $2, $3, $4, $5::numeric)`,
				id, i, it.ProductID, it.Quantity, it.Price.String())
		}
		return tx.SendBatch(ctx, batch).Close()
	})
	if err != nil {
		return err
	}
	o.ID = id
	return nil
}

// loadItems fills the lines of every order in one query.
func (s *OrderStore) loadItems(ctx context.Context, orders []*domain.Order) error {
	if len(orders) == 0 {
		return nil
	}
	byID := make(map[string]*domain.Order, len(orders))
	ids := make([]string, 0, len(orders))
	for _, o := range orders {
		byID[o.ID] = o
		ids = append(ids, o.ID)
		o.Items = []domain.OrderLine{}
	}

	rows, err := s.pool.Query(ctx, `
		SELECT order_id, product_id, quantity, price::text FROM order_items
		WHERE order_id = ANY($1) ORDER BY order_id, position`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			orderID, price string
			line           domain.OrderLine
		)
		if err := rows.Scan(&orderID, &line.ProductID, &line.Quantity, &price); err != nil {
			return err
		}
		if line.Price, err = parseNumeric(price); err != nil {
			return err
		}
		byID[orderID].Items = append(byID[orderID].Items, line)
	}
	return rows.Err()
}

func (s *OrderStore) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	o, err := scanOrder(s.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := s.loadItems(ctx, []*domain.Order{o}); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *OrderStore) List(ctx context.Context, userID string) ([]*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders`
	var args []any
	if userID != "" {
		query += ` WHERE user_id = $1`
		args = append(args, userID)
	}
	query += ` ORDER BY created_at DESC, seq DESC`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	out := []*domain.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		out = append(out, o)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.loadItems(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *OrderStore) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	tag, err := s.pool.Exec(ctx, `UPDATE orders SET status = $2, updated_at = now() WHERE id = $1`, id, string(status))
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, domain.ErrOrderNotFound
	}
	return s.GetByID(ctx, id)
}
