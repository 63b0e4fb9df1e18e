package httpapi

import (
	"github.com/gofiber/fiber/v2"
)

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Commit  string `json:"commit,omitempty"`
}

func (s *Server) health(c *fiber.Ctx) error {
	resp := healthResponse{Status: "ok", Version: s.opts.Version, Commit: s.opts.Commit}
	if s.opts.Ping != nil {
		if err := s.opts.Ping(c.UserContext()); err != nil {
			resp.Status = "unavailable"
			return c.Status(fiber.StatusServiceUnavailable).JSON(resp)
		}
	}
	return c.JSON(resp)
}
