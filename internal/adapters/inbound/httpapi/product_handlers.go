package httpapi

import (
	"strconv"

	"github.com/abdidvp/kraftstore/internal/domain"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/shopspring/decimal"
)

// productFilter reads ?category&minPrice&maxPrice&search&featured.
func productFilter(c *fiber.Ctx) (domain.ProductFilter, error) {
	f := domain.ProductFilter{
		Category: c.Query("category"),
		Search:   c.Query("search"),
	}
	for _, p := range []struct {
		key string
		dst **decimal.Decimal
	}{{"minPrice", &f.MinPrice}, {"maxPrice", &f.MaxPrice}} {
		raw := c.Query(p.key)
		if raw == "" {
			continue
		}
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return f, domain.Invalidf("%s must be a number", p.key)
		}
		*p.dst = &d
	}
	if raw := c.Query("featured"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return f, domain.Invalidf("featured must be true or false")
		}
		f.Featured = &b
	}
	return f, nil
}

func (s *Server) listProducts(c *fiber.Ctx) error {
	f, err := productFilter(c)
	if err != nil {
		return err
	}
	products, err := s.svc.Catalog.ListProducts(c.UserContext(), f)
	if err != nil {
		return err
	}
	return c.JSON(products)
}

func (s *Server) getProduct(c *fiber.Ctx) error {
	p, err := s.svc.Catalog.GetProduct(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(p)
}

func (s *Server) categories(c *fiber.Ctx) error {
	cats, err := s.svc.Catalog.Categories(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(cats)
}

func (s *Server) createProduct(c *fiber.Ctx) error {
	var p domain.Product
	if err := parseBody(c, &p); err != nil {
		return err
	}
	created, err := s.svc.Catalog.CreateProduct(c.UserContext(), sessionOf(c), &p)
	if err != nil {
		return err
	}
	log.Infow("product created", "product", created.ID, "by", sessionOf(c).ID)
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (s *Server) updateProduct(c *fiber.Ctx) error {
	var p domain.Product
	if err := parseBody(c, &p); err != nil {
		return err
	}
	updated, err := s.svc.Catalog.UpdateProduct(c.UserContext(), sessionOf(c), c.Params("id"), &p)
	if err != nil {
		return err
	}
	return c.JSON(updated)
}

func (s *Server) deleteProduct(c *fiber.Ctx) error {
	if err := s.svc.Catalog.DeleteProduct(c.UserContext(), sessionOf(c), c.Params("id")); err != nil {
		return err
	}
	log.Infow("product deleted", "product", c.Params("id"), "by", sessionOf(c).ID)
	return c.JSON(messageResponse{Message: "Product deleted successfully"})
}
