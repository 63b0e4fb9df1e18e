package apiclient_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdidvp/kraftstore/internal/adapters/outbound/apiclient"
	"github.com/abdidvp/kraftstore/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestClient_Login(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/login", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body["password"] != "secret" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"token": "tok",
			"user":  map[string]string{"id": "u1", "email": body["email"], "name": "Jane", "role": "user"},
		})
	}))
	defer srv.Close()

	c := apiclient.New(srv.URL + "/")
	s, err := c.Login("jane@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "tok", s.Token)
	assert.Equal(t, "u1", s.User.ID)
	assert.Equal(t, domain.RoleUser, s.User.Role)

	_, err = c.Login("jane@example.com", "wrong")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Contains(t, err.Error(), "invalid credentials")
}

func TestClient_ProductsSendsFilter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Lighting", r.URL.Query().Get("category"))
		assert.Equal(t, "30", r.URL.Query().Get("maxPrice"))
		assert.Equal(t, "true", r.URL.Query().Get("featured"))
		writeJSON(w, http.StatusOK, []map[string]any{{"id": "p1", "name": "Lamp", "price": 19.99}})
	}))
	defer srv.Close()

	max := decimal.RequireFromString("30")
	featured := true
	products, err := apiclient.New(srv.URL).Products(domain.ProductFilter{
		Category: "Lighting", MaxPrice: &max, Featured: &featured,
	})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.True(t, products[0].Price.Equal(decimal.RequireFromString("19.99")))
}

func TestClient_PlaceOrderSendsBearer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			return
		}
		var body struct {
			Items []domain.LineRequest `json:"items"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body.Items[0].Quantity > 1 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "insufficient stock for Lamp"})
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"id": "o1", "status": "pending", "totalAmount": 10})
	}))
	defer srv.Close()

	lines := []domain.LineRequest{{ProductID: "p1", Quantity: 1}}
	_, err := apiclient.New(srv.URL).PlaceOrder(lines, domain.ShippingAddress{})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	c := apiclient.New(srv.URL).WithToken("tok")
	o, err := c.PlaceOrder(lines, domain.ShippingAddress{Name: "Jane"})
	require.NoError(t, err)
	assert.Equal(t, "o1", o.ID)
	assert.Equal(t, domain.StatusPending, o.Status)

	_, err = c.PlaceOrder([]domain.LineRequest{{ProductID: "p1", Quantity: 3}}, domain.ShippingAddress{})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "insufficient stock for Lamp")
}

func TestClient_Unreachable(t *testing.T) {
	_, err := apiclient.New("http://127.0.0.1:1").Orders()
	assert.Error(t, err)
}

func TestTokenFile(t *testing.T) {
	f := apiclient.NewTokenFile(filepath.Join(t.TempDir(), "nested", "session.json"))

	s, err := f.Load()
	require.NoError(t, err)
	assert.Nil(t, s)

	require.NoError(t, f.Save(&apiclient.Session{Token: "tok", User: domain.SessionClaims{ID: "u1", Role: domain.RoleAdmin}}))
	s, err = f.Load()
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, "tok", s.Token)
	assert.Equal(t, domain.RoleAdmin, s.User.Role)

	require.NoError(t, f.Clear())
	s, err = f.Load()
	require.NoError(t, err)
	assert.Nil(t, s)
}
