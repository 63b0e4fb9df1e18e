package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the fulfilment state of an order.
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusConfirmed OrderStatus = "confirmed"
	StatusShipped   OrderStatus = "shipped"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
)

// ValidOrderStatuses enumerates every status an order may be set to.
var ValidOrderStatuses = []OrderStatus{
	StatusPending, StatusConfirmed, StatusShipped, StatusDelivered, StatusCancelled,
}

// ParseOrderStatus validates a status name. Transitions are not checked:
// an order may move to any status at any time.
func ParseOrderStatus(s string) (OrderStatus, error) {
	st := OrderStatus(strings.ToLower(strings.TrimSpace(s)))
	for _, v := range ValidOrderStatuses {
		if st == v {
			return st, nil
		}
	}
	return "", Invalidf("unknown order status %q", s)
}

// PaymentCashOnDelivery is the only supported payment method.
const PaymentCashOnDelivery = "cash-on-delivery"

// ShippingAddress is the delivery snapshot captured with an order.
type ShippingAddress struct {
	Name    string `json:"name" bson:"name"`
	Street  string `json:"street" bson:"street"`
	City    string `json:"city" bson:"city"`
	State   string `json:"state" bson:"state"`
	ZipCode string `json:"zipCode" bson:"zipCode"`
	Country string `json:"country" bson:"country"`
	Phone   string `json:"phone" bson:"phone"`
}

// LineRequest is one (product, quantity) pair asked for at checkout.
type LineRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// OrderLine is a placed line. Price is the unit price captured when the order
// was placed and does not follow later catalog changes.
type OrderLine struct {
	ProductID string          `json:"productId"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// Subtotal returns quantity × captured price.
func (l OrderLine) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Order is a placed purchase.
type Order struct {
	ID              string          `json:"id"`
	UserID          string          `json:"userId"`
	Items           []OrderLine     `json:"items"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string          `json:"paymentMethod"`
	Status          OrderStatus     `json:"status"`
	OrderDate       time.Time       `json:"orderDate"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// LinesTotal sums the subtotals of lines.
func LinesTotal(lines []OrderLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// OrderLineView is an order line with its product resolved for display.
// Product is nil when the product has since been deleted.
type OrderLineView struct {
	OrderLine
	Product *ProductSummary `json:"product,omitempty"`
}

// OwnerSummary identifies the account that placed an order.
type OwnerSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// OrderView is an order with product and owner references resolved.
type OrderView struct {
	Order
	Items []OrderLineView `json:"items"`
	User  *OwnerSummary   `json:"user,omitempty"`
}
