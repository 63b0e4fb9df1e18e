package domain

import "github.com/shopspring/decimal"

// CartItem is one line of a client-local cart. Product is the snapshot taken
// when the item was added; totals use its price, not a live lookup.
type CartItem struct {
	ProductID string  `json:"productId"`
	Product   Product `json:"product"`
	Quantity  int     `json:"quantity"`
}

// Cart is an ordered list of cart items with at most one entry per product.
// Its methods return the updated cart and never mutate the receiver's
// backing array in place.
type Cart []CartItem

func (c Cart) index(productID string) int {
	for i, it := range c {
		if it.ProductID == productID {
			return i
		}
	}
	return -1
}

func (c Cart) clone() Cart {
	out := make(Cart, len(c))
	copy(out, c)
	return out
}

// Add appends item, or increases the quantity of the existing entry for the
// same product.
func (c Cart) Add(item CartItem) Cart {
	out := c.clone()
	if i := out.index(item.ProductID); i >= 0 {
		out[i].Quantity += item.Quantity
		return out
	}
	return append(out, item)
}

// UpdateQuantity sets the quantity of productID's entry. A quantity of zero
// or less removes the entry. Unknown products leave the cart unchanged.
func (c Cart) UpdateQuantity(productID string, quantity int) Cart {
	if quantity <= 0 {
		return c.Remove(productID)
	}
	out := c.clone()
	if i := out.index(productID); i >= 0 {
		out[i].Quantity = quantity
	}
	return out
}

// Remove drops productID's entry.
func (c Cart) Remove(productID string) Cart {
	out := make(Cart, 0, len(c))
	for _, it := range c {
		if it.ProductID != productID {
			out = append(out, it)
		}
	}
	return out
}

// Contains reports whether the cart has an entry for productID.
func (c Cart) Contains(productID string) bool {
	return c.index(productID) >= 0
}

// Total sums snapshot price × quantity over every entry.
func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range c {
		total = total.Add(it.Product.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}

// Lines converts the cart into checkout line requests.
func (c Cart) Lines() []LineRequest {
	lines := make([]LineRequest, 0, len(c))
	for _, it := range c {
		lines = append(lines, LineRequest{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return lines
}
