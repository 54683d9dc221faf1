package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "bookswap/internal/log"
	"bookswap/internal/services"
	"bookswap/internal/validate"
)

type AuthHandler struct {
	Auth *services.AuthService
}

type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req signupRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	username, ok := validate.Username(req.Username)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "username is required"})
	}
	email, ok := validate.Email(req.Email)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "a valid email is required"})
	}
	if !validate.Password(req.Password) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "password must be at least 6 characters long"})
	}

	tok, u, err := h.Auth.Signup(username, email, req.Password)
	if err != nil {
		return fail(c, "auth.signup", err)
	}
	applog.Audit(c, "auth.signup", map[string]any{"user_id": u.ID})
	return c.JSON(fiber.Map{"token": tok, "user": u.Public()})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.Email == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "email and password are required"})
	}
	tok, u, err := h.Auth.Login(req.Email, req.Password)
	if err != nil {
		applog.Security(c, "auth.login.fail", map[string]any{"email": req.Email})
		return fail(c, "auth.login", err)
	}
	applog.Audit(c, "auth.login.success", map[string]any{"user_id": u.ID})
	return c.JSON(fiber.Map{"token": tok, "user": u.Public()})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	tok := bearerToken(c)
	if tok == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "access token required"})
	}
	u, err := h.Auth.CurrentUser(tok)
	if err != nil {
		return fail(c, "auth.me", err)
	}
	return c.JSON(u.Public())
}
