package application

import (
	"context"
	"fmt"

	"github.com/abdidvp/kraftstore/internal/domain"
	"github.com/shopspring/decimal"
)

// CartService applies cart operations to a locally persisted cart, saving
// after every mutation. It never talks to the catalog: stock is checked at
// checkout.
type CartService struct {
	repo domain.CartRepository
}

func NewCartService(repo domain.CartRepository) *CartService {
	return &CartService{repo: repo}
}

// Items returns the stored cart.
func (s *CartService) Items(ctx context.Context) (domain.Cart, error) {
	c, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading cart: %w", err)
	}
	return c, nil
}

// Add puts item in the cart, merging with an existing entry for the same product.
func (s *CartService) Add(ctx context.Context, item domain.CartItem) (domain.Cart, error) {
	if item.ProductID == "" {
		return nil, domain.Invalidf("product id is required")
	}
	if item.Quantity <= 0 {
		return nil, domain.Invalidf("quantity must be positive")
	}
	return s.mutate(ctx, func(c domain.Cart) domain.Cart { return c.Add(item) })
}

// UpdateQuantity sets a product's quantity; zero or less removes it.
func (s *CartService) UpdateQuantity(ctx context.Context, productID string, quantity int) (domain.Cart, error) {
	return s.mutate(ctx, func(c domain.Cart) domain.Cart { return c.UpdateQuantity(productID, quantity) })
}

// Remove drops a product from the cart.
func (s *CartService) Remove(ctx context.Context, productID string) (domain.Cart, error) {
	return s.mutate(ctx, func(c domain.Cart) domain.Cart { return c.Remove(productID) })
}

// Clear empties the cart.
func (s *CartService) Clear(ctx context.Context) (domain.Cart, error) {
	empty := domain.Cart{}
	if err := s.repo.Save(ctx, empty); err != nil {
		return nil, fmt.Errorf("saving cart: %w", err)
	}
	return empty, nil
}

// Total returns the snapshot-priced total of the stored cart.
func (s *CartService) Total(ctx context.Context) (decimal.Decimal, error) {
	c, err := s.Items(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return c.Total(), nil
}

func (s *CartService) mutate(ctx context.Context, fn func(domain.Cart) domain.Cart) (domain.Cart, error) {
	c, err := s.Items(ctx)
	if err != nil {
		return nil, err
	}
	c = fn(c)
	if err := s.repo.Save(ctx, c); err != nil {
		return nil, fmt.Errorf("saving cart: %w", err)
	}
	return c, nil
}
