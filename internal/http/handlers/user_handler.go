package handlers

import (
	"github.com/gofiber/fiber/v2"

	"bookswap/internal/domain"
	applog "bookswap/internal/log"
	"bookswap/internal/services"
	"bookswap/internal/validate"
)

type UserHandler struct {
	Users *services.UserService
}

func (h *UserHandler) Get(c *fiber.Ctx) error {
	u, err := h.Users.Get(c.Params("userID"))
	if err != nil {
		return fail(c, "user.get", err)
	}
	return c.JSON(u.Public())
}

type profileRequest struct {
	Username        *string                 `json:"username"`
	ShippingAddress *domain.ShippingAddress `json:"shippingAddress"`
}

func (h *UserHandler) Update(c *fiber.Ctx) error {
	var req profileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	upd := services.ProfileUpdate{Address: req.ShippingAddress}
	if req.Username != nil {
		name, ok := validate.Username(*req.Username)
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid username"})
		}
		upd.Username = &name
	}
	if req.ShippingAddress != nil {
		if _, ok := validate.Zip(req.ShippingAddress.Zip); !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid zip code"})
		}
	}

	u, err := h.Users.UpdateProfile(c.Params("userID"), callerID(c), upd)
	if err != nil {
		return fail(c, "user.update", err)
	}
	applog.Audit(c, "user.update", map[string]any{"target": u.ID})
	return c.JSON(u.Public())
}
