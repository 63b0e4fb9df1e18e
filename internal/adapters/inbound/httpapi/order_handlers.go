package httpapi

import (
	"github.com/abdidvp/kraftstore/internal/domain"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

type placeOrderRequest struct {
	Items           []domain.LineRequest   `json:"items"`
	ShippingAddress domain.ShippingAddress `json:"shippingAddress"`
}

type statusRequest struct {
	Status string `json:"status"`
}

func (s *Server) listOrders(c *fiber.Ctx) error {
	orders, err := s.svc.Orders.ListOrders(c.UserContext(), sessionOf(c))
	if err != nil {
		return err
	}
	return c.JSON(orders)
}

func (s *Server) placeOrder(c *fiber.Ctx) error {
	var req placeOrderRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	actor := sessionOf(c)
	order, err := s.svc.Orders.PlaceOrder(c.UserContext(), actor.ID, req.Items, req.ShippingAddress)
	if err != nil {
		return err
	}
	log.Infow("order placed", "order", order.ID, "user", actor.ID, "total", order.TotalAmount.String())
	return c.Status(fiber.StatusCreated).JSON(order)
}

func (s *Server) getOrder(c *fiber.Ctx) error {
	order, err := s.svc.Orders.GetOrder(c.UserContext(), sessionOf(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(order)
}

func (s *Server) updateOrderStatus(c *fiber.Ctx) error {
	var req statusRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	order, err := s.svc.Orders.UpdateStatus(c.UserContext(), sessionOf(c), c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	log.Infow("order status changed", "order", order.ID, "status", string(order.Status))
	return c.JSON(order)
}
