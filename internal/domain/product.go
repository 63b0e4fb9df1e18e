package domain

import (
	"strings"
	"time"

	"github.com/fatih/camelcase"
	"github.com/shopspring/decimal"
)

func init() {
	// Prices travel as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Product is a sellable catalog entry.
type Product struct {
	ID             string            `json:"id"`
	Name           string            `json:"name"`
	Description    string            `json:"description"`
	Price          decimal.Decimal   `json:"price"`
	Category       string            `json:"category"`
	Images         []string          `json:"images"`
	Stock          int               `json:"stock"`
	Featured       bool              `json:"featured"`
	Specifications map[string]string `json:"specifications,omitempty"`
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`
}

// Validate checks the fields an admin must supply when creating or editing a
// product.
func (p *Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return Invalidf("product name is required")
	}
	if strings.TrimSpace(p.Description) == "" {
		return Invalidf("product description is required")
	}
	if strings.TrimSpace(p.Category) == "" {
		return Invalidf("product category is required")
	}
	if p.Price.IsNegative() {
		return Invalidf("price must be non-negative")
	}
	if !p.Price.Equal(p.Price.Truncate(2)) {
		return Invalidf("price may have at most two decimal places")
	}
	if p.Stock < 0 {
		return Invalidf("stock must be non-negative")
	}
	return nil
}

// InStock reports whether at least qty units are available.
func (p *Product) InStock(qty int) bool {
	return qty <= p.Stock
}

// ProductSummary is the slice of a product resolved into order views.
type ProductSummary struct {
	ID     string          `json:"id"`
	Name   string          `json:"name"`
	Price  decimal.Decimal `json:"price"`
	Images []string        `json:"images"`
}

// Summary returns the display subset of p.
func (p *Product) Summary() ProductSummary {
	return ProductSummary{ID: p.ID, Name: p.Name, Price: p.Price, Images: p.Images}
}

// ProductFilter selects catalog entries. Zero-valued fields do not filter.
type ProductFilter struct {
	Category string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Search   string
	Featured *bool
}

// Matches reports whether p satisfies every set criterion.
func (f ProductFilter) Matches(p *Product) bool {
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if f.MinPrice != nil && p.Price.LessThan(*f.MinPrice) {
		return false
	}
	if f.MaxPrice != nil && p.Price.GreaterThan(*f.MaxPrice) {
		return false
	}
	if f.Featured != nil && p.Featured != *f.Featured {
		return false
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(p.Name), needle) &&
			!strings.Contains(strings.ToLower(p.Description), needle) {
			return false
		}
	}
	return true
}

// Category groups the products sharing one category label.
type Category struct {
	Name     string     `json:"name"`
	Count    int        `json:"count"`
	Products []*Product `json:"products"`
}

// SpecLabel turns a camel-cased specification key such as "batteryLife" into
// a display label ("Battery Life"). Keys that already contain spaces are
// returned unchanged.
func SpecLabel(key string) string {
	if key == "" || strings.ContainsRune(key, ' ') {
		return key
	}
	words := camelcase.Split(key)
	parts := make([]string, 0, len(words))
	for _, w := range words {
		if w == "_" || w == "-" {
			continue
		}
		parts = append(parts, strings.ToUpper(w[:1])+w[1:])
	}
	return strings.Join(parts, " ")
}
