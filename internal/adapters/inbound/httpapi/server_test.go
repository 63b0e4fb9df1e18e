package httpapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/abdidvp/kraftstore/internal/adapters/inbound/httpapi"
	"github.com/abdidvp/kraftstore/internal/adapters/outbound/auth"
	"github.com/abdidvp/kraftstore/internal/adapters/outbound/storage/memory"
	"github.com/abdidvp/kraftstore/internal/application"
	"github.com/abdidvp/kraftstore/internal/domain"
)

const adminEmail = "admin@kraftstore.test"

type harness struct {
	t        *testing.T
	server   *httpapi.Server
	products *memory.ProductStore
	identity *application.IdentityService
}

func newHarness(t *testing.T, opts httpapi.Options) *harness {
	t.Helper()
	products := memory.NewProductStore()
	orders := memory.NewOrderStore()
	users := memory.NewUserStore()
	hasher := auth.NewBcryptHasher(bcrypt.MinCost)
	tokens, err := auth.NewJWTIssuer("test-secret", time.Hour)
	require.NoError(t, err)

	identity := application.NewIdentityService(users, hasher, tokens, adminEmail)
	svc := httpapi.Services{
		Catalog:  application.NewCatalogService(products),
		Orders:   application.NewOrderService(products, orders, users),
		Identity: identity,
		Admin:    application.NewAdminService(users, orders, hasher),
	}
	return &harness{t: t, server: httpapi.New(svc, opts), products: products, identity: identity}
}

// do sends a JSON request and decodes the JSON response into out when out is
// non-nil.
func (h *harness) do(method, path, token string, body any, out any) int {
	h.t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(h.t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := h.server.App().Test(req, -1)
	require.NoError(h.t, err)
	defer resp.Body.Close()

	if out != nil {
		data, err := io.ReadAll(resp.Body)
		require.NoError(h.t, err)
		require.NoError(h.t, json.Unmarshal(data, out), "body: %s", data)
	}
	return resp.StatusCode
}

// signup registers an account and returns its token.
func (h *harness) signup(name, email string) (string, domain.SessionClaims) {
	h.t.Helper()
	status := h.do(http.MethodPost, "/auth/register", "", map[string]string{
		"name": name, "email": email, "password": "password",
	}, nil)
	require.Equal(h.t, http.StatusCreated, status)

	var resp struct {
		Token string               `json:"token"`
		User  domain.SessionClaims `json:"user"`
	}
	status = h.do(http.MethodPost, "/auth/login", "", map[string]string{
		"email": email, "password": "password",
	}, &resp)
	require.Equal(h.t, http.StatusOK, status)
	return resp.Token, resp.User
}

func (h *harness) addProduct(name string, stock int, price string) *domain.Product {
	h.t.Helper()
	p := &domain.Product{
		Name: name, Description: name, Category: "Misc",
		Price: decimal.RequireFromString(price), Stock: stock, CreatedAt: time.Now(),
	}
	require.NoError(h.t, h.products.Create(context.Background(), p))
	return p
}

type errorResponse struct {
	Error string `json:"error"`
}

func TestHealth(t *testing.T) {
	h := newHarness(t, httpapi.Options{Version: "1.2.3", Commit: "abc"})
	var resp map[string]string
	assert.Equal(t, http.StatusOK, h.do(http.MethodGet, "/healthz", "", nil, &resp))
	assert.Equal(t, "ok", resp["status"])
	assert.Equal(t, "1.2.3", resp["version"])

	down := newHarness(t, httpapi.Options{Ping: func(context.Context) error { return errors.New("down") }})
	assert.Equal(t, http.StatusServiceUnavailable, down.do(http.MethodGet, "/healthz", "", nil, &resp))
	assert.Equal(t, "unavailable", resp["status"])
}

func TestRegisterAndLogin(t *testing.T) {
	h := newHarness(t, httpapi.Options{})

	var msg map[string]string
	status := h.do(http.MethodPost, "/auth/register", "", map[string]string{
		"name": "Jane", "email": "jane@example.com", "password": "pw",
	}, &msg)
	assert.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "User created successfully", msg["message"])

	var e errorResponse
	status = h.do(http.MethodPost, "/auth/register", "", map[string]string{
		"name": "Jane", "email": "JANE@example.com", "password": "pw",
	}, &e)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "user already exists", e.Error)

	status = h.do(http.MethodPost, "/auth/register", "", map[string]string{"name": "X"}, &e)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "missing required fields", e.Error)

	status = h.do(http.MethodPost, "/auth/login", "", map[string]string{
		"email": "jane@example.com", "password": "wrong",
	}, &e)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "invalid credentials", e.Error)
}

func TestRefreshToken(t *testing.T) {
	h := newHarness(t, httpapi.Options{})
	token, _ := h.signup("Jane", "jane@example.com")

	var resp struct {
		Token string               `json:"token"`
		User  domain.SessionClaims `json:"user"`
	}
	status := h.do(http.MethodPost, "/auth/refresh", token, map[string]string{"name": "Janet"}, &resp)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Janet", resp.User.Name)

	claims, err := h.identity.VerifyToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "Janet", claims.Name)

	assert.Equal(t, http.StatusUnauthorized, h.do(http.MethodPost, "/auth/refresh", "", nil, nil))
}

func TestProducts_PublicListingAndFilters(t *testing.T) {
	h := newHarness(t, httpapi.Options{})
	h.addProduct("Desk Lamp", 3, "20")
	h.addProduct("Chair", 3, "45")

	var all []domain.Product
	require.Equal(t, http.StatusOK, h.do(http.MethodGet, "/products", "", nil, &all))
	assert.Len(t, all, 2)

	var cheap []domain.Product
	require.Equal(t, http.StatusOK, h.do(http.MethodGet, "/products?maxPrice=30&search=lamp", "", nil, &cheap))
	require.Len(t, cheap, 1)
	assert.Equal(t, "Desk Lamp", cheap[0].Name)

	var e errorResponse
	assert.Equal(t, http.StatusBadRequest, h.do(http.MethodGet, "/products?minPrice=abc", "", nil, &e))
	assert.Equal(t, http.StatusBadRequest, h.do(http.MethodGet, "/products?minPrice=50&maxPrice=10", "", nil, &e))

	assert.Equal(t, http.StatusNotFound, h.do(http.MethodGet, "/products/missing", "", nil, &e))
}

func TestProducts_AdminOnlyWrites(t *testing.T) {
	h := newHarness(t, httpapi.Options{})
	adminToken, _ := h.signup("Admin", adminEmail)
	userToken, _ := h.signup("Jane", "jane@example.com")

	body := map[string]any{
		"name": "Lamp", "description": "A lamp", "category": "Lighting", "price": 12.5, "stock": 4,
	}
	assert.Equal(t, http.StatusUnauthorized, h.do(http.MethodPost, "/products", "", body, nil))
	assert.Equal(t, http.StatusForbidden, h.do(http.MethodPost, "/products", userToken, body, nil))

	var created domain.Product
	require.Equal(t, http.StatusCreated, h.do(http.MethodPost, "/products", adminToken, body, &created))
	assert.True(t, created.Price.Equal(decimal.RequireFromString("12.5")))

	body["stock"] = 9
	var updated domain.Product
	require.Equal(t, http.StatusOK, h.do(http.MethodPut, "/products/"+created.ID, adminToken, body, &updated))
	assert.Equal(t, 9, updated.Stock)

	assert.Equal(t, http.StatusOK, h.do(http.MethodDelete, "/products/"+created.ID, adminToken, nil, nil))
	assert.Equal(t, http.StatusNotFound, h.do(http.MethodDelete, "/products/"+created.ID, adminToken, nil, nil))
}

func TestCategories(t *testing.T) {
	h := newHarness(t, httpapi.Options{})
	h.addProduct("A", 1, "1")
	h.addProduct("B", 1, "1")

	var cats []struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}
	require.Equal(t, http.StatusOK, h.do(http.MethodGet, "/categories", "", nil, &cats))
	require.Len(t, cats, 1)
	assert.Equal(t, 2, cats[0].Count)
}

func TestOrders_PlaceAndRead(t *testing.T) {
	h := newHarness(t, httpapi.Options{})
	token, claims := h.signup("Jane", "jane@example.com")
	otherToken, _ := h.signup("Bob", "bob@example.com")
	lamp := h.addProduct("Lamp", 3, "19.99")

	order := map[string]any{
		"items":           []map[string]any{{"productId": lamp.ID, "quantity": 2}},
		"shippingAddress": map[string]string{"name": "Jane", "city": "Springfield"},
	}
	assert.Equal(t, http.StatusUnauthorized, h.do(http.MethodPost, "/orders", "", order, nil))

	var placed domain.OrderView
	require.Equal(t, http.StatusCreated, h.do(http.MethodPost, "/orders", token, order, &placed))
	assert.Equal(t, claims.ID, placed.UserID)
	assert.Equal(t, domain.StatusPending, placed.Status)
	assert.True(t, placed.TotalAmount.Equal(decimal.RequireFromString("39.98")))

	var mine []domain.OrderView
	require.Equal(t, http.StatusOK, h.do(http.MethodGet, "/orders", token, nil, &mine))
	assert.Len(t, mine, 1)

	require.Equal(t, http.StatusOK, h.do(http.MethodGet, "/orders", otherToken, nil, &mine))
	assert.Empty(t, mine)

	assert.Equal(t, http.StatusOK, h.do(http.MethodGet, "/orders/"+placed.ID, token, nil, nil))
	assert.Equal(t, http.StatusForbidden, h.do(http.MethodGet, "/orders/"+placed.ID, otherToken, nil, nil))
	assert.Equal(t, http.StatusNotFound, h.do(http.MethodGet, "/orders/missing", token, nil, nil))
}

func TestOrders_FailuresNameTheProduct(t *testing.T) {
	h := newHarness(t, httpapi.Options{})
	token, _ := h.signup("Jane", "jane@example.com")
	lamp := h.addProduct("Lamp", 1, "10")

	var e errorResponse
	status := h.do(http.MethodPost, "/orders", token, map[string]any{
		"items": []map[string]any{{"productId": lamp.ID, "quantity": 5}},
	}, &e)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "insufficient stock for Lamp", e.Error)

	status = h.do(http.MethodPost, "/orders", token, map[string]any{
		"items": []map[string]any{{"productId": "ghost", "quantity": 1}},
	}, &e)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "product ghost not found", e.Error)
}

func TestOrders_StatusUpdateIsAdminOnly(t *testing.T) {
	h := newHarness(t, httpapi.Options{})
	adminToken, _ := h.signup("Admin", adminEmail)
	token, _ := h.signup("Jane", "jane@example.com")
	lamp := h.addProduct("Lamp", 5, "10")

	var placed domain.OrderView
	require.Equal(t, http.StatusCreated, h.do(http.MethodPost, "/orders", token, map[string]any{
		"items": []map[string]any{{"productId": lamp.ID, "quantity": 1}},
	}, &placed))

	path := "/orders/" + placed.ID
	assert.Equal(t, http.StatusForbidden, h.do(http.MethodPut, path, token, map[string]string{"status": "shipped"}, nil))

	var updated domain.OrderView
	require.Equal(t, http.StatusOK, h.do(http.MethodPut, path, adminToken, map[string]string{"status": "shipped"}, &updated))
	assert.Equal(t, domain.StatusShipped, updated.Status)

	assert.Equal(t, http.StatusBadRequest, h.do(http.MethodPut, path, adminToken, map[string]string{"status": "lost"}, nil))
	assert.Equal(t, http.StatusNotFound, h.do(http.MethodPut, "/orders/missing", adminToken, map[string]string{"status": "shipped"}, nil))
}

func TestProfile(t *testing.T) {
	h := newHarness(t, httpapi.Options{})
	token, _ := h.signup("Jane", "jane@example.com")

	var u map[string]any
	require.Equal(t, http.StatusOK, h.do(http.MethodGet, "/profile", token, nil, &u))
	assert.Equal(t, "jane@example.com", u["email"])
	assert.NotContains(t, u, "password")
	assert.NotContains(t, u, "passwordHash")

	require.Equal(t, http.StatusOK, h.do(http.MethodPut, "/profile", token, map[string]any{
		"phone": "555-0100",
	}, &u))
	assert.Equal(t, "555-0100", u["phone"])
}

func TestAdminUsers(t *testing.T) {
	h := newHarness(t, httpapi.Options{})
	adminToken, admin := h.signup("Admin", adminEmail)
	userToken, jane := h.signup("Jane", "jane@example.com")

	assert.Equal(t, http.StatusForbidden, h.do(http.MethodGet, "/admin/users", userToken, nil, nil))
	assert.Equal(t, http.StatusUnauthorized, h.do(http.MethodGet, "/admin/users", "", nil, nil))
	assert.Equal(t, http.StatusUnauthorized, h.do(http.MethodGet, "/admin/users", "garbage", nil, nil))

	var list []map[string]any
	require.Equal(t, http.StatusOK, h.do(http.MethodGet, "/admin/users", adminToken, nil, &list))
	require.Len(t, list, 2)
	assert.Contains(t, list[0], "orderCount")
	assert.Contains(t, list[0], "totalSpent")

	var created map[string]any
	require.Equal(t, http.StatusCreated, h.do(http.MethodPost, "/admin/users", adminToken, map[string]string{
		"name": "Mo", "email": "mo@example.com", "password": "pw", "role": "moderator",
	}, &created))
	assert.Equal(t, "moderator", created["role"])

	var e errorResponse
	assert.Equal(t, http.StatusBadRequest, h.do(http.MethodPut, "/admin/users/"+admin.ID, adminToken,
		map[string]string{"role": "user"}, &e))
	assert.Contains(t, e.Error, "cannot change your own admin role")

	var updated map[string]any
	require.Equal(t, http.StatusOK, h.do(http.MethodPut, "/admin/users/"+jane.ID, adminToken,
		map[string]any{"isActive": false}, &updated))
	assert.Equal(t, false, updated["isActive"])

	assert.Equal(t, http.StatusBadRequest, h.do(http.MethodDelete, "/admin/users/"+admin.ID, adminToken, nil, &e))
	assert.Contains(t, e.Error, "cannot delete your own account")

	assert.Equal(t, http.StatusOK, h.do(http.MethodDelete, "/admin/users/"+jane.ID, adminToken, nil, nil))
	assert.Equal(t, http.StatusNotFound, h.do(http.MethodGet, "/admin/users/"+jane.ID, adminToken, nil, nil))
}

func TestMalformedAuthorizationHeader(t *testing.T) {
	h := newHarness(t, httpapi.Options{})
	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	req.Header.Set("Authorization", "Token abc")
	resp, err := h.server.App().Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
