package httpapi

import (
	"errors"

	"github.com/abdidvp/kraftstore/internal/domain"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

type errorBody struct {
	Error string `json:"error"`
}

// errorHandler turns every error a handler returns into an {"error": msg}
// body with the matching status.
func errorHandler(c *fiber.Ctx, err error) error {
	status, msg := classify(err)
	if status >= fiber.StatusInternalServerError {
		log.Errorw("request failed", "method", c.Method(), "path", c.Path(), "error", err)
	}
	return c.Status(status).JSON(errorBody{Error: msg})
}

func classify(err error) (int, string) {
	var (
		fe       *fiber.Error
		notFound *domain.ProductNotFoundError
	)
	switch {
	case errors.As(err, &fe):
		return fe.Code, fe.Message
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, "unauthorized"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return fiber.StatusUnauthorized, err.Error()
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, "forbidden"
	// an order line naming a missing product is a bad request, not a
	// missing resource
	case errors.As(err, &notFound):
		return fiber.StatusBadRequest, notFound.Error()
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, err.Error()
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInsufficientStock),
		errors.Is(err, domain.ErrDuplicateEmail),
		errors.Is(err, domain.ErrSelfModification):
		return fiber.StatusBadRequest, err.Error()
	default:
		return fiber.StatusInternalServerError, "internal server error"
	}
}
