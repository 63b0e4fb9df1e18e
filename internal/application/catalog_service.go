package application

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/abdidvp/kraftstore/internal/domain"
)

// CatalogService reads and filters the product catalog and lets admins edit it.
type CatalogService struct {
	products domain.ProductRepository
	now      func() time.Time
}

func NewCatalogService(products domain.ProductRepository) *CatalogService {
	return &CatalogService{products: products, now: time.Now}
}

// ListProducts returns the products matching every criterion of f, newest first.
func (s *CatalogService) ListProducts(ctx context.Context, f domain.ProductFilter) ([]*domain.Product, error) {
	if f.MinPrice != nil && f.MaxPrice != nil && f.MinPrice.GreaterThan(*f.MaxPrice) {
		return nil, domain.Invalidf("minPrice %s exceeds maxPrice %s", f.MinPrice, f.MaxPrice)
	}
	products, err := s.products.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	return products, nil
}

// GetProduct returns one product.
func (s *CatalogService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return s.products.GetByID(ctx, id)
}

// Categories groups the catalog by category, largest group first and then by
// name.
func (s *CatalogService) Categories(ctx context.Context) ([]domain.Category, error) {
	products, err := s.products.List(ctx, domain.ProductFilter{})
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}

	index := make(map[string]int)
	var cats []domain.Category
	for _, p := range products {
		i, ok := index[p.Category]
		if !ok {
			i = len(cats)
			index[p.Category] = i
			cats = append(cats, domain.Category{Name: p.Category})
		}
		cats[i].Products = append(cats[i].Products, p)
		cats[i].Count++
	}

	sort.SliceStable(cats, func(i, j int) bool {
		if cats[i].Count != cats[j].Count {
			return cats[i].Count > cats[j].Count
		}
		return cats[i].Name < cats[j].Name
	})
	return cats, nil
}

func authorizeCatalogAdmin(actor domain.SessionClaims) error {
	if actor.ID == "" {
		return domain.ErrUnauthorized
	}
	if !domain.CanManageProducts(actor.Role) {
		return domain.ErrForbidden
	}
	return nil
}

// CreateProduct adds a product to the catalog.
func (s *CatalogService) CreateProduct(
	ctx context.Context,
	actor domain.SessionClaims,
	p *domain.Product,
) (*domain.Product, error) {
	if err := authorizeCatalogAdmin(actor); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	now := s.now().UTC()
	p.ID = ""
	p.CreatedAt = now
	p.UpdatedAt = now
	if err := s.products.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("saving product: %w", err)
	}
	return p, nil
}

// UpdateProduct replaces the editable fields of product id with those of p.
func (s *CatalogService) UpdateProduct(
	ctx context.Context,
	actor domain.SessionClaims,
	id string,
	p *domain.Product,
) (*domain.Product, error) {
	if err := authorizeCatalogAdmin(actor); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	existing, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	existing.Name = p.Name
	existing.Description = p.Description
	existing.Price = p.Price
	existing.Category = p.Category
	existing.Images = p.Images
	existing.Stock = p.Stock
	existing.Featured = p.Featured
	existing.Specifications = p.Specifications
	existing.UpdatedAt = s.now().UTC()

	if err := s.products.Update(ctx, existing); err != nil {
		return nil, fmt.Errorf("saving product: %w", err)
	}
	return existing, nil
}

// DeleteProduct removes a product. Orders keep their captured lines.
func (s *CatalogService) DeleteProduct(ctx context.Context, actor domain.SessionClaims, id string) error {
	if err := authorizeCatalogAdmin(actor); err != nil {
		return err
	}
	return s.products.Delete(ctx, id)
}
