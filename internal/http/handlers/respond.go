package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"bookswap/internal/domain"
	applog "bookswap/internal/log"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict
	case errors.Is(err, domain.ErrInvalidState), errors.Is(err, domain.ErrInvalidRequest):
		return fiber.StatusBadRequest
	}
	return fiber.StatusInternalServerError
}

// fail maps a domain error to its JSON response. Unclassified errors are
// logged and masked.
func fail(c *fiber.Ctx, action string, err error) error {
	code := statusFor(err)
	if code == fiber.StatusInternalServerError {
		applog.Error(c, action, err, nil)
		return c.Status(code).JSON(fiber.Map{"error": "internal error"})
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}
