package application_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdidvp/kraftstore/internal/application"
	"github.com/abdidvp/kraftstore/internal/domain"
)

func TestOrderService_PlaceOrder(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	jane := s.register(t, "Jane", "jane@example.com")
	lamp := s.addProduct(t, "Lamp", "Lighting", "19.99", 5)
	chair := s.addProduct(t, "Chair", "Furniture", "45.00", 2)

	view, err := s.ordering.PlaceOrder(ctx, jane.ID, []domain.LineRequest{
		{ProductID: lamp.ID, Quantity: 2},
		{ProductID: chair.ID, Quantity: 1},
	}, shipping)
	require.NoError(t, err)

	assert.NotEmpty(t, view.ID)
	assert.Equal(t, jane.ID, view.UserID)
	assert.Equal(t, domain.StatusPending, view.Status)
	assert.Equal(t, domain.PaymentCashOnDelivery, view.PaymentMethod)
	assert.True(t, view.TotalAmount.Equal(decimal.RequireFromString("84.98")), "got %s", view.TotalAmount)
	require.Len(t, view.Items, 2)
	require.NotNil(t, view.Items[0].Product)
	assert.Equal(t, "Lamp", view.Items[0].Product.Name)

	assert.Equal(t, 3, s.stockOf(t, lamp.ID))
	assert.Equal(t, 1, s.stockOf(t, chair.ID))
}

func TestOrderService_PriceCapturedAtPlacement(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	admin := s.register(t, "Admin", adminEmail)
	jane := s.register(t, "Jane", "jane@example.com")
	lamp := s.addProduct(t, "Lamp", "Lighting", "10.00", 5)

	placed, err := s.ordering.PlaceOrder(ctx, jane.ID, []domain.LineRequest{{ProductID: lamp.ID, Quantity: 1}}, shipping)
	require.NoError(t, err)

	edit := *lamp
	edit.Price = decimal.RequireFromString("99.00")
	_, err = s.catalog.UpdateProduct(ctx, admin, lamp.ID, &edit)
	require.NoError(t, err)

	got, err := s.ordering.GetOrder(ctx, jane, placed.ID)
	require.NoError(t, err)
	assert.True(t, got.Items[0].Price.Equal(decimal.RequireFromString("10.00")))
	assert.True(t, got.TotalAmount.Equal(decimal.RequireFromString("10.00")))
}

func TestOrderService_InsufficientStockChangesNothing(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	jane := s.register(t, "Jane", "jane@example.com")
	lamp := s.addProduct(t, "Lamp", "Lighting", "10.00", 3)
	chair := s.addProduct(t, "Chair", "Furniture", "45.00", 10)

	_, err := s.ordering.PlaceOrder(ctx, jane.ID, []domain.LineRequest{
		{ProductID: chair.ID, Quantity: 1},
		{ProductID: lamp.ID, Quantity: 5},
	}, shipping)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Contains(t, err.Error(), "Lamp")

	assert.Equal(t, 3, s.stockOf(t, lamp.ID))
	assert.Equal(t, 10, s.stockOf(t, chair.ID))
	orders, err := s.orders.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestOrderService_RejectsBadLines(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	jane := s.register(t, "Jane", "jane@example.com")
	lamp := s.addProduct(t, "Lamp", "Lighting", "10.00", 3)

	_, err := s.ordering.PlaceOrder(ctx, jane.ID, nil, shipping)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = s.ordering.PlaceOrder(ctx, jane.ID, []domain.LineRequest{{ProductID: lamp.ID, Quantity: 0}}, shipping)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = s.ordering.PlaceOrder(ctx, jane.ID, []domain.LineRequest{{ProductID: "ghost", Quantity: 1}}, shipping)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
	assert.Contains(t, err.Error(), "ghost")

	_, err = s.ordering.PlaceOrder(ctx, "", []domain.LineRequest{{ProductID: lamp.ID, Quantity: 1}}, shipping)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	assert.Equal(t, 3, s.stockOf(t, lamp.ID))
}

func TestOrderService_RestoresStockWhenSaveFails(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	lamp := s.addProduct(t, "Lamp", "Lighting", "10.00", 3)
	svc := application.NewOrderService(s.products, failingOrders{s.orders}, s.users)

	_, err := svc.PlaceOrder(ctx, "u1", []domain.LineRequest{{ProductID: lamp.ID, Quantity: 2}}, shipping)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, 3, s.stockOf(t, lamp.ID))
}

func TestOrderService_UndoesEarlierLinesWhenLaterLineRunsOut(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	jane := s.register(t, "Jane", "jane@example.com")
	lamp := s.addProduct(t, "Lamp", "Lighting", "10.00", 3)

	// each line fits on its own, together they do not
	_, err := s.ordering.PlaceOrder(ctx, jane.ID, []domain.LineRequest{
		{ProductID: lamp.ID, Quantity: 2},
		{ProductID: lamp.ID, Quantity: 2},
	}, shipping)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Contains(t, err.Error(), "Lamp")

	assert.Equal(t, 3, s.stockOf(t, lamp.ID))
	orders, err := s.orders.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestOrderService_UndoesEarlierLinesWhenRaceIsLost(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	lamp := s.addProduct(t, "Lamp", "Lighting", "10.00", 5)
	chair := s.addProduct(t, "Chair", "Furniture", "45.00", 4)
	desk := s.addProduct(t, "Desk", "Furniture", "120.00", 2)
	products := &soldOutAfter{ProductStore: s.products, allow: 2}
	svc := application.NewOrderService(products, s.orders, s.users)

	_, err := svc.PlaceOrder(ctx, "u1", []domain.LineRequest{
		{ProductID: lamp.ID, Quantity: 1},
		{ProductID: chair.ID, Quantity: 2},
		{ProductID: desk.ID, Quantity: 1},
	}, shipping)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Contains(t, err.Error(), desk.ID)

	assert.Equal(t, 5, s.stockOf(t, lamp.ID))
	assert.Equal(t, 4, s.stockOf(t, chair.ID))
	assert.Equal(t, 2, s.stockOf(t, desk.ID))
	orders, err := s.orders.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestOrderService_LastUnitSoldOnce(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	lamp := s.addProduct(t, "Lamp", "Lighting", "10.00", 1)

	const buyers = 8
	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		succeeded  int
		outOfStock int
	)
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.ordering.PlaceOrder(ctx, "buyer", []domain.LineRequest{{ProductID: lamp.ID, Quantity: 1}}, shipping)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				succeeded++
			} else if errors.Is(err, domain.ErrInsufficientStock) {
				outOfStock++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, buyers-1, outOfStock)
	assert.Equal(t, 0, s.stockOf(t, lamp.ID))
}

func TestOrderService_ListOrders(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	admin := s.register(t, "Admin", adminEmail)
	jane := s.register(t, "Jane", "jane@example.com")
	bob := s.register(t, "Bob", "bob@example.com")
	lamp := s.addProduct(t, "Lamp", "Lighting", "10.00", 10)

	for _, buyer := range []domain.SessionClaims{jane, bob, jane} {
		_, err := s.ordering.PlaceOrder(ctx, buyer.ID, []domain.LineRequest{{ProductID: lamp.ID, Quantity: 1}}, shipping)
		require.NoError(t, err)
	}

	mine, err := s.ordering.ListOrders(ctx, jane)
	require.NoError(t, err)
	assert.Len(t, mine, 2)
	for _, o := range mine {
		assert.Equal(t, jane.ID, o.UserID)
		assert.Nil(t, o.User)
	}

	all, err := s.ordering.ListOrders(ctx, admin)
	require.NoError(t, err)
	require.Len(t, all, 3)
	for _, o := range all {
		require.NotNil(t, o.User)
		assert.NotEmpty(t, o.User.Email)
	}

	_, err = s.ordering.ListOrders(ctx, domain.SessionClaims{})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestOrderService_GetOrderOwnership(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	admin := s.register(t, "Admin", adminEmail)
	jane := s.register(t, "Jane", "jane@example.com")
	bob := s.register(t, "Bob", "bob@example.com")
	lamp := s.addProduct(t, "Lamp", "Lighting", "10.00", 10)

	placed, err := s.ordering.PlaceOrder(ctx, jane.ID, []domain.LineRequest{{ProductID: lamp.ID, Quantity: 1}}, shipping)
	require.NoError(t, err)

	_, err = s.ordering.GetOrder(ctx, jane, placed.ID)
	assert.NoError(t, err)
	_, err = s.ordering.GetOrder(ctx, admin, placed.ID)
	assert.NoError(t, err)
	_, err = s.ordering.GetOrder(ctx, bob, placed.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = s.ordering.GetOrder(ctx, jane, "missing")
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestOrderService_DeletedProductResolvesToNil(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	admin := s.register(t, "Admin", adminEmail)
	jane := s.register(t, "Jane", "jane@example.com")
	lamp := s.addProduct(t, "Lamp", "Lighting", "10.00", 10)

	placed, err := s.ordering.PlaceOrder(ctx, jane.ID, []domain.LineRequest{{ProductID: lamp.ID, Quantity: 1}}, shipping)
	require.NoError(t, err)
	require.NoError(t, s.catalog.DeleteProduct(ctx, admin, lamp.ID))

	got, err := s.ordering.GetOrder(ctx, jane, placed.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Nil(t, got.Items[0].Product)
	assert.Equal(t, lamp.ID, got.Items[0].ProductID)
}

func TestOrderService_UpdateStatus(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	admin := s.register(t, "Admin", adminEmail)
	jane := s.register(t, "Jane", "jane@example.com")
	lamp := s.addProduct(t, "Lamp", "Lighting", "10.00", 10)

	placed, err := s.ordering.PlaceOrder(ctx, jane.ID, []domain.LineRequest{{ProductID: lamp.ID, Quantity: 1}}, shipping)
	require.NoError(t, err)

	_, err = s.ordering.UpdateStatus(ctx, jane, placed.ID, "shipped")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	got, err := s.ordering.UpdateStatus(ctx, admin, placed.ID, "delivered")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDelivered, got.Status)

	// any status may follow any other
	got, err = s.ordering.UpdateStatus(ctx, admin, placed.ID, "pending")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, got.Status)

	_, err = s.ordering.UpdateStatus(ctx, admin, placed.ID, "lost")
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = s.ordering.UpdateStatus(ctx, admin, "missing", "shipped")
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}
