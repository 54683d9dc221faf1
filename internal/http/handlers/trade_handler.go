package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "bookswap/internal/log"
	"bookswap/internal/services"
	"bookswap/internal/validate"
)

type TradeHandler struct {
	Trades *services.TradeService
}

type createTradeRequest struct {
	ToUserID   string  `json:"toUserId"`
	FromBookID *string `json:"fromBookId"` // nil offers any of the sender's books
	ToBookID   string  `json:"toBookId"`
	Message    string  `json:"message"`
}

func (h *TradeHandler) Create(c *fiber.Ctx) error {
	var req createTradeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if _, ok := validate.ID(req.ToUserID); !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "toUserId is required"})
	}
	if _, ok := validate.ID(req.ToBookID); !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "toBookId is required"})
	}

	t, err := h.Trades.Create(callerID(c), req.ToUserID, req.FromBookID, req.ToBookID, req.Message)
	if err != nil {
		return fail(c, "trade.create", err)
	}
	applog.Audit(c, "trade.create", map[string]any{"trade_id": t.ID})
	return c.JSON(t)
}

// ListActive returns every pending/accepted/completed trade; the frontend
// loads these in one request to annotate the feed.
func (h *TradeHandler) ListActive(c *fiber.Ctx) error {
	trades, err := h.Trades.ListActive()
	if err != nil {
		return fail(c, "trade.list", err)
	}
	return c.JSON(trades)
}

func (h *TradeHandler) ListForUser(c *fiber.Ctx) error {
	trades, err := h.Trades.ListForUser(c.Params("userID"))
	if err != nil {
		return fail(c, "trade.list_user", err)
	}
	return c.JSON(trades)
}

type acceptRequest struct {
	FromBookID *string `json:"fromBookId"` // required when the offer was any-book
}

func (h *TradeHandler) Accept(c *fiber.Ctx) error {
	var req acceptRequest
	// Body is optional for fixed-book offers.
	_ = c.BodyParser(&req)
	t, err := h.Trades.Accept(c.Params("tradeID"), callerID(c), req.FromBookID)
	if err != nil {
		return fail(c, "trade.accept", err)
	}
	applog.Audit(c, "trade.accept", map[string]any{"trade_id": t.ID})
	return c.JSON(t)
}

func (h *TradeHandler) Decline(c *fiber.Ctx) error {
	t, err := h.Trades.Decline(c.Params("tradeID"), callerID(c))
	if err != nil {
		return fail(c, "trade.decline", err)
	}
	applog.Audit(c, "trade.decline", map[string]any{"trade_id": t.ID})
	return c.JSON(t)
}

func (h *TradeHandler) Cancel(c *fiber.Ctx) error {
	t, err := h.Trades.Cancel(c.Params("tradeID"), callerID(c))
	if err != nil {
		return fail(c, "trade.cancel", err)
	}
	applog.Audit(c, "trade.cancel", map[string]any{"trade_id": t.ID})
	return c.JSON(t)
}

func (h *TradeHandler) MarkMailed(c *fiber.Ctx) error {
	t, err := h.Trades.MarkMailed(c.Params("tradeID"), callerID(c))
	if err != nil {
		return fail(c, "trade.mark_mailed", err)
	}
	applog.Audit(c, "trade.mark_mailed", map[string]any{"trade_id": t.ID})
	return c.JSON(t)
}

func (h *TradeHandler) MarkReceived(c *fiber.Ctx) error {
	t, err := h.Trades.MarkReceived(c.Params("tradeID"), callerID(c))
	if err != nil {
		return fail(c, "trade.mark_received", err)
	}
	applog.Audit(c, "trade.mark_received", map[string]any{
		"trade_id": t.ID, "status": t.Status,
	})
	return c.JSON(t)
}

func (h *TradeHandler) Relist(c *fiber.Ctx) error {
	b, err := h.Trades.Relist(c.Params("tradeID"), callerID(c))
	if err != nil {
		return fail(c, "trade.relist", err)
	}
	applog.Audit(c, "trade.relist", map[string]any{"book_id": b.ID})
	return c.JSON(b)
}
