package httpapi

import (
	"github.com/abdidvp/kraftstore/internal/domain"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string               `json:"token"`
	User  domain.SessionClaims `json:"user"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func parseBody(c *fiber.Ctx, v any) error {
	if err := c.BodyParser(v); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	return nil
}

func (s *Server) register(c *fiber.Ctx) error {
	var req registerRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	u, err := s.svc.Identity.Register(c.UserContext(), req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}
	log.Infow("user registered", "user", u.ID, "role", u.Role.String())
	return c.Status(fiber.StatusCreated).JSON(messageResponse{Message: "User created successfully"})
}

func (s *Server) login(c *fiber.Ctx) error {
	var req loginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	claims, err := s.svc.Identity.Authenticate(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return s.issue(c, claims)
}

// refresh re-signs the caller's session with updated display fields.
func (s *Server) refresh(c *fiber.Ctx) error {
	var req domain.SessionUpdate
	if len(c.Body()) > 0 {
		if err := parseBody(c, &req); err != nil {
			return err
		}
	}
	return s.issue(c, s.svc.Identity.RefreshClaims(sessionOf(c), req))
}

func (s *Server) issue(c *fiber.Ctx, claims domain.SessionClaims) error {
	token, err := s.svc.Identity.IssueToken(claims)
	if err != nil {
		return err
	}
	return c.JSON(tokenResponse{Token: token, User: claims})
}
