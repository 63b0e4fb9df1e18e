package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/abdidvp/kraftstore/internal/domain"
)

// OrderService places orders and manages their lifecycle:
// validate lines → capture prices → conditionally decrement stock → persist.
type OrderService struct {
	products domain.ProductRepository
	orders   domain.OrderRepository
	users    domain.UserRepository
	now      func() time.Time
}

func NewOrderService(
	products domain.ProductRepository,
	orders domain.OrderRepository,
	users domain.UserRepository,
) *OrderService {
	return &OrderService{
		products: products,
		orders:   orders,
		users:    users,
		now:      time.Now,
	}
}

// PlaceOrder creates a pending cash-on-delivery order for userID. Either
// every line is placed and every product's stock is decremented, or nothing
// changes.
func (s *OrderService) PlaceOrder(
	ctx context.Context,
	userID string,
	lines []domain.LineRequest,
	shipping domain.ShippingAddress,
) (*domain.OrderView, error) {
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	if len(lines) == 0 {
		return nil, domain.Invalidf("order must contain at least one item")
	}

	// 1. Validate every line against the current catalog and capture prices.
	captured := make([]domain.OrderLine, 0, len(lines))
	for _, l := range lines {
		if l.Quantity <= 0 {
			return nil, domain.Invalidf("quantity for product %s must be positive", l.ProductID)
		}
		p, err := s.products.GetByID(ctx, l.ProductID)
		if err != nil {
			if errors.Is(err, domain.ErrProductNotFound) {
				return nil, &domain.ProductNotFoundError{ProductID: l.ProductID}
			}
			return nil, fmt.Errorf("loading product %s: %w", l.ProductID, err)
		}
		if !p.InStock(l.Quantity) {
			return nil, &domain.StockError{
				ProductID:   p.ID,
				ProductName: p.Name,
				Requested:   l.Quantity,
				Available:   p.Stock,
			}
		}
		captured = append(captured, domain.OrderLine{ProductID: p.ID, Quantity: l.Quantity, Price: p.Price})
	}

	// 2. Decrement stock. A decrement that loses a race with another order
	// undoes the ones already applied for this request.
	applied := make([]domain.OrderLine, 0, len(captured))
	for _, line := range captured {
		if err := s.products.DecrementStock(ctx, line.ProductID, line.Quantity); err != nil {
			if rerr := s.restoreStock(ctx, applied); rerr != nil {
				err = errors.Join(err, rerr)
			}
			if errors.Is(err, domain.ErrInsufficientStock) || errors.Is(err, domain.ErrProductNotFound) {
				return nil, err
			}
			return nil, fmt.Errorf("decrementing stock: %w", err)
		}
		applied = append(applied, line)
	}

	// 3. Persist the order.
	now := s.now().UTC()
	order := &domain.Order{
		UserID:          userID,
		Items:           captured,
		TotalAmount:     domain.LinesTotal(captured),
		ShippingAddress: shipping,
		PaymentMethod:   domain.PaymentCashOnDelivery,
		Status:          domain.StatusPending,
		OrderDate:       now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		if rerr := s.restoreStock(ctx, applied); rerr != nil {
			err = errors.Join(err, rerr)
		}
		return nil, fmt.Errorf("saving order: %w", err)
	}

	return s.view(ctx, order, newResolver(s.products, s.users), false)
}

func (s *OrderService) restoreStock(ctx context.Context, lines []domain.OrderLine) error {
	var errs []error
	for _, line := range lines {
		if err := s.products.RestoreStock(ctx, line.ProductID, line.Quantity); err != nil {
			errs = append(errs, fmt.Errorf("restoring stock of %s: %w", line.ProductID, err))
		}
	}
	return errors.Join(errs...)
}

// ListOrders returns every order for admins and the caller's own orders for
// everyone else, newest first.
func (s *OrderService) ListOrders(ctx context.Context, actor domain.SessionClaims) ([]*domain.OrderView, error) {
	if actor.ID == "" {
		return nil, domain.ErrUnauthorized
	}
	all := domain.IsAllowed(actor.Role, domain.RoleAdmin)
	owner := actor.ID
	if all {
		owner = ""
	}

	orders, err := s.orders.List(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}

	res := newResolver(s.products, s.users)
	views := make([]*domain.OrderView, 0, len(orders))
	for _, o := range orders {
		v, err := s.view(ctx, o, res, all)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, nil
}

// GetOrder returns one order. Only its owner and admins may read it.
func (s *OrderService) GetOrder(ctx context.Context, actor domain.SessionClaims, id string) (*domain.OrderView, error) {
	if actor.ID == "" {
		return nil, domain.ErrUnauthorized
	}
	o, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.UserID != actor.ID && !domain.IsAllowed(actor.Role, domain.RoleAdmin) {
		return nil, domain.ErrForbidden
	}
	return s.view(ctx, o, newResolver(s.products, s.users), true)
}

// UpdateStatus sets an order's status. Any of the five statuses may be set
// at any time; only admins may do it.
func (s *OrderService) UpdateStatus(
	ctx context.Context,
	actor domain.SessionClaims,
	id, status string,
) (*domain.OrderView, error) {
	if !domain.IsAllowed(actor.Role, domain.RoleAdmin) {
		return nil, domain.ErrForbidden
	}
	st, err := domain.ParseOrderStatus(status)
	if err != nil {
		return nil, err
	}
	o, err := s.orders.UpdateStatus(ctx, id, st)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, o, newResolver(s.products, s.users), false)
}

func (s *OrderService) view(ctx context.Context, o *domain.Order, res *resolver, withOwner bool) (*domain.OrderView, error) {
	v := &domain.OrderView{Order: *o, Items: make([]domain.OrderLineView, 0, len(o.Items))}
	for _, line := range o.Items {
		p, err := res.product(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}
		v.Items = append(v.Items, domain.OrderLineView{OrderLine: line, Product: p})
	}
	if withOwner {
		owner, err := res.owner(ctx, o.UserID)
		if err != nil {
			return nil, err
		}
		v.User = owner
	}
	return v, nil
}

// resolver looks up the products and owners referenced by orders, once each
// per call.
type resolver struct {
	products domain.ProductRepository
	users    domain.UserRepository
	prod     map[string]*domain.ProductSummary
	own      map[string]*domain.OwnerSummary
}

func newResolver(products domain.ProductRepository, users domain.UserRepository) *resolver {
	return &resolver{
		products: products,
		users:    users,
		prod:     make(map[string]*domain.ProductSummary),
		own:      make(map[string]*domain.OwnerSummary),
	}
}

// product returns nil, nil for products deleted since the order was placed.
func (r *resolver) product(ctx context.Context, id string) (*domain.ProductSummary, error) {
	if p, ok := r.prod[id]; ok {
		return p, nil
	}
	p, err := r.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			r.prod[id] = nil
			return nil, nil
		}
		return nil, fmt.Errorf("resolving product %s: %w", id, err)
	}
	sum := p.Summary()
	r.prod[id] = &sum
	return &sum, nil
}

// owner returns nil, nil for accounts deleted since the order was placed.
func (r *resolver) owner(ctx context.Context, id string) (*domain.OwnerSummary, error) {
	if o, ok := r.own[id]; ok {
		return o, nil
	}
	u, err := r.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			r.own[id] = nil
			return nil, nil
		}
		return nil, fmt.Errorf("resolving user %s: %w", id, err)
	}
	o := &domain.OwnerSummary{ID: u.ID, Name: u.Name, Email: u.Email}
	r.own[id] = o
	return o, nil
}
