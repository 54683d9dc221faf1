package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	applog "bookswap/internal/log"
	"bookswap/internal/services"
)

func bearerToken(c *fiber.Ctx) string {
	h := c.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(h, "Bearer ")
}

// RequireUser verifies the bearer token and stores the caller's id in
// Locals("userID").
func RequireUser(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tok := bearerToken(c)
		if tok == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "access token required"})
		}
		uid, err := auth.VerifyToken(tok)
		if err != nil {
			applog.Security(c, "auth.token.invalid", nil)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid or expired token"})
		}
		c.Locals("userID", uid)
		return c.Next()
	}
}

// OptionalUser attaches the caller's id when a valid token is present and
// lets anonymous requests through. The feed uses it for viewer-relative
// annotations.
func OptionalUser(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if tok := bearerToken(c); tok != "" {
			if uid, err := auth.VerifyToken(tok); err == nil {
				c.Locals("userID", uid)
			}
		}
		return c.Next()
	}
}

func callerID(c *fiber.Ctx) string {
	uid, _ := c.Locals("userID").(string)
	return uid
}
