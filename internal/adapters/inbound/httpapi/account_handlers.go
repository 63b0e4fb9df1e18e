package httpapi

import (
	"github.com/abdidvp/kraftstore/internal/domain"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

type createUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (s *Server) profile(c *fiber.Ctx) error {
	u, err := s.svc.Identity.Profile(c.UserContext(), sessionOf(c))
	if err != nil {
		return err
	}
	return c.JSON(u)
}

func (s *Server) updateProfile(c *fiber.Ctx) error {
	var req domain.ProfileUpdate
	if err := parseBody(c, &req); err != nil {
		return err
	}
	u, err := s.svc.Identity.UpdateProfile(c.UserContext(), sessionOf(c), req)
	if err != nil {
		return err
	}
	return c.JSON(u)
}

func (s *Server) listUsers(c *fiber.Ctx) error {
	stats, err := s.svc.Admin.ListUsers(c.UserContext(), sessionOf(c))
	if err != nil {
		return err
	}
	return c.JSON(stats)
}

func (s *Server) getUser(c *fiber.Ctx) error {
	u, err := s.svc.Admin.GetUser(c.UserContext(), sessionOf(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(u)
}

func (s *Server) createUser(c *fiber.Ctx) error {
	var req createUserRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	role := domain.RoleUser
	if req.Role != "" {
		r, err := domain.ParseRole(req.Role)
		if err != nil {
			return err
		}
		role = r
	}
	u, err := s.svc.Admin.CreateUser(c.UserContext(), sessionOf(c), req.Name, req.Email, req.Password, role)
	if err != nil {
		return err
	}
	log.Infow("user created", "user", u.ID, "role", u.Role.String(), "by", sessionOf(c).ID)
	return c.Status(fiber.StatusCreated).JSON(u)
}

func (s *Server) updateUser(c *fiber.Ctx) error {
	var req domain.UserUpdate
	if err := parseBody(c, &req); err != nil {
		return err
	}
	u, err := s.svc.Admin.UpdateUser(c.UserContext(), sessionOf(c), c.Params("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(u)
}

func (s *Server) deleteUser(c *fiber.Ctx) error {
	if err := s.svc.Admin.DeleteUser(c.UserContext(), sessionOf(c), c.Params("id")); err != nil {
		return err
	}
	log.Infow("user deleted", "user", c.Params("id"), "by", sessionOf(c).ID)
	return c.JSON(messageResponse{Message: "User deleted successfully"})
}
