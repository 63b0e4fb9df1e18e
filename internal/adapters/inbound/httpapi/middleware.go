package httpapi

import (
	"strings"

	"github.com/abdidvp/kraftstore/internal/domain"
	"github.com/gofiber/fiber/v2"
)

const sessionKey = "session"

// authenticate verifies a Bearer token when one is sent and stores its claims
// in Locals. Requests without a header pass through anonymous; a malformed or
// invalid token is rejected outright.
func (s *Server) authenticate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return c.Next()
		}

		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid authorization header format")
		}

		claims, err := s.svc.Identity.VerifyToken(strings.TrimSpace(token))
		if err != nil {
			return domain.ErrUnauthorized
		}
		c.Locals(sessionKey, claims)
		return c.Next()
	}
}

// sessionOf returns the authenticated claims, or the zero value for an
// anonymous request.
func sessionOf(c *fiber.Ctx) domain.SessionClaims {
	claims, _ := c.Locals(sessionKey).(domain.SessionClaims)
	return claims
}

func requireSession() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if sessionOf(c).ID == "" {
			return domain.ErrUnauthorized
		}
		return c.Next()
	}
}

// requireRole answers 401 without a session and 403 when the session's role
// is below role.
func requireRole(role domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := sessionOf(c)
		if claims.ID == "" {
			return domain.ErrUnauthorized
		}
		if !domain.IsAllowed(claims.Role, role) {
			return domain.ErrForbidden
		}
		return c.Next()
	}
}
