// Package apiclient is the terminal client's view of the kraftstore HTTP API.
package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/abdidvp/kraftstore/internal/domain"
	"github.com/gofiber/fiber/v2"
)

const defaultTimeout = 10 * time.Second

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api returned %d", e.Status)
	}
	return fmt.Sprintf("%s (%d)", e.Message, e.Status)
}

// Is lets callers match API answers against the domain sentinels.
func (e *APIError) Is(target error) bool {
	switch e.Status {
	case fiber.StatusUnauthorized:
		return target == domain.ErrUnauthorized
	case fiber.StatusForbidden:
		return target == domain.ErrForbidden
	case fiber.StatusNotFound:
		return target == domain.ErrNotFound
	case fiber.StatusBadRequest:
		return target == domain.ErrValidation
	}
	return false
}

type Client struct {
	baseURL string
	token   string
	timeout time.Duration
}

func New(baseURL string) *Client {
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), timeout: defaultTimeout}
}

// WithToken returns a copy of c that authenticates with token.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

func (c *Client) url(path string) string {
	return c.baseURL + path
}

func (c *Client) do(a *fiber.Agent, out any) error {
	if c.token != "" {
		a.Set(fiber.HeaderAuthorization, "Bearer "+c.token)
	}
	a.Timeout(c.timeout)

	code, body, errs := a.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("calling %s: %w", c.baseURL, errors.Join(errs...))
	}
	if code >= fiber.StatusBadRequest {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(body, &e)
		return &APIError{Status: code, Message: e.Error}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// Session is what a successful login returns.
type Session struct {
	Token string               `json:"token"`
	User  domain.SessionClaims `json:"user"`
}

func (c *Client) Login(email, password string) (*Session, error) {
	a := fiber.Post(c.url("/auth/login")).JSON(map[string]string{"email": email, "password": password})
	var s Session
	if err := c.do(a, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) Register(name, email, password string) error {
	a := fiber.Post(c.url("/auth/register")).JSON(map[string]string{
		"name": name, "email": email, "password": password,
	})
	return c.do(a, nil)
}

func filterQuery(f domain.ProductFilter) string {
	q := url.Values{}
	if f.Category != "" {
		q.Set("category", f.Category)
	}
	if f.MinPrice != nil {
		q.Set("minPrice", f.MinPrice.String())
	}
	if f.MaxPrice != nil {
		q.Set("maxPrice", f.MaxPrice.String())
	}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.Featured != nil {
		q.Set("featured", strconv.FormatBool(*f.Featured))
	}
	return q.Encode()
}

func (c *Client) Products(f domain.ProductFilter) ([]*domain.Product, error) {
	a := fiber.Get(c.url("/products")).QueryString(filterQuery(f))
	var out []*domain.Product
	if err := c.do(a, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Product(id string) (*domain.Product, error) {
	var p domain.Product
	if err := c.do(fiber.Get(c.url("/products/"+url.PathEscape(id))), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) PlaceOrder(lines []domain.LineRequest, shipping domain.ShippingAddress) (*domain.OrderView, error) {
	a := fiber.Post(c.url("/orders")).JSON(map[string]any{
		"items":           lines,
		"shippingAddress": shipping,
	})
	var o domain.OrderView
	if err := c.do(a, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (c *Client) Orders() ([]*domain.OrderView, error) {
	var out []*domain.OrderView
	if err := c.do(fiber.Get(c.url("/orders")), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Categories() ([]domain.Category, error) {
	var out []domain.Category
	if err := c.do(fiber.Get(c.url("/categories")), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) UpdateOrderStatus(id, status string) (*domain.OrderView, error) {
	a := fiber.Put(c.url("/orders/" + url.PathEscape(id))).JSON(map[string]string{"status": status})
	var o domain.OrderView
	if err := c.do(a, &o); err != nil {
		return nil, err
	}
	return &o, nil
}
