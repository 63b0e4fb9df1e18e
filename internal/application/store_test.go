package application_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/abdidvp/kraftstore/internal/adapters/outbound/auth"
	"github.com/abdidvp/kraftstore/internal/adapters/outbound/storage/memory"
	"github.com/abdidvp/kraftstore/internal/application"
	"github.com/abdidvp/kraftstore/internal/domain"
)

const adminEmail = "admin@kraftstore.test"

// store wires every service over fresh in-memory repositories.
type store struct {
	products *memory.ProductStore
	orders   *memory.OrderStore
	users    *memory.UserStore
	hasher   *auth.BcryptHasher

	catalog  *application.CatalogService
	ordering *application.OrderService
	identity *application.IdentityService
	admin    *application.AdminService
}

func newStore(t *testing.T) *store {
	t.Helper()
	tokens, err := auth.NewJWTIssuer("test-secret", time.Hour)
	require.NoError(t, err)

	s := &store{
		products: memory.NewProductStore(),
		orders:   memory.NewOrderStore(),
		users:    memory.NewUserStore(),
		hasher:   auth.NewBcryptHasher(bcrypt.MinCost),
	}
	s.catalog = application.NewCatalogService(s.products)
	s.ordering = application.NewOrderService(s.products, s.orders, s.users)
	s.identity = application.NewIdentityService(s.users, s.hasher, tokens, adminEmail)
	s.admin = application.NewAdminService(s.users, s.orders, s.hasher)
	return s
}

func (s *store) addProduct(t *testing.T, name, category, price string, stock int) *domain.Product {
	t.Helper()
	p := &domain.Product{
		Name:        name,
		Description: name + " description",
		Price:       decimal.RequireFromString(price),
		Category:    category,
		Stock:       stock,
		CreatedAt:   time.Now(),
	}
	require.NoError(t, s.products.Create(context.Background(), p))
	return p
}

func (s *store) register(t *testing.T, name, email string) domain.SessionClaims {
	t.Helper()
	u, err := s.identity.Register(context.Background(), name, email, "password")
	require.NoError(t, err)
	return domain.ClaimsFor(u)
}

func (s *store) stockOf(t *testing.T, id string) int {
	t.Helper()
	p, err := s.products.GetByID(context.Background(), id)
	require.NoError(t, err)
	return p.Stock
}

var shipping = domain.ShippingAddress{
	Name:    "Jane Doe",
	Street:  "1 Main St",
	City:    "Springfield",
	State:   "IL",
	ZipCode: "62701",
	Country: "US",
	Phone:   "555-0100",
}

// failingOrders rejects every new order.
type failingOrders struct {
	*memory.OrderStore
}

func (failingOrders) Create(context.Context, *domain.Order) error {
	return errors.New("disk full")
}

// soldOutAfter lets the first allow decrements through and then reports the
// product as sold out, as if another order had taken the remaining units.
type soldOutAfter struct {
	*memory.ProductStore
	allow int
}

func (r *soldOutAfter) DecrementStock(ctx context.Context, id string, qty int) error {
	if r.allow == 0 {
		return &domain.StockError{ProductID: id, ProductName: id, Requested: qty}
	}
	r.allow--
	return r.ProductStore.DecrementStock(ctx, id, qty)
}
