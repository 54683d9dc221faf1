package handlers

import (
	"io"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"

	applog "bookswap/internal/log"
	"bookswap/internal/services"
	"bookswap/internal/validate"
)

type BookHandler struct {
	Books *services.BookService
	Feeds *services.FeedService
}

// Feed serves the public listing feed, annotated for the viewer when a
// token is present.
func (h *BookHandler) Feed(c *fiber.Ctx) error {
	books, err := h.Feeds.Feed(callerID(c))
	if err != nil {
		return fail(c, "feed.list", err)
	}
	return c.JSON(books)
}

func (h *BookHandler) Get(c *fiber.Ctx) error {
	b, err := h.Books.Get(c.Params("bookID"))
	if err != nil {
		return fail(c, "book.get", err)
	}
	return c.JSON(b)
}

// Shelf lists a user's books, filterable with ?status=current|previous.
func (h *BookHandler) Shelf(c *fiber.Ctx) error {
	status := c.Query("status")
	if status != "" && status != "current" && status != "previous" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "status must be current or previous"})
	}
	books, err := h.Feeds.Shelf(c.Params("userID"), status)
	if err != nil {
		return fail(c, "shelf.list", err)
	}
	return c.JSON(books)
}

func readImage(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func (h *BookHandler) bookInput(c *fiber.Ctx) (services.BookInput, error) {
	in := services.BookInput{
		Title:       c.FormValue("title"),
		Author:      c.FormValue("author"),
		Description: c.FormValue("description"),
		Condition:   validate.Condition(c.FormValue("condition")),
	}
	if fh, err := c.FormFile("image"); err == nil && fh != nil {
		data, err := readImage(fh)
		if err != nil {
			return in, err
		}
		in.Image = data
		in.ImageName = fh.Filename
		in.ImageMIME = fh.Header.Get("Content-Type")
	}
	return in, nil
}

func (h *BookHandler) Add(c *fiber.Ctx) error {
	userID := c.Params("userID")
	if userID != callerID(c) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "you can only add books to your own shelf"})
	}
	in, err := h.bookInput(c)
	if err != nil {
		return fail(c, "book.add", err)
	}
	if _, ok := validate.Title(in.Title); !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "title is required"})
	}
	b, err := h.Books.Add(userID, in)
	if err != nil {
		return fail(c, "book.add", err)
	}
	applog.Audit(c, "book.add", map[string]any{"book_id": b.ID})
	return c.JSON(b)
}

func (h *BookHandler) Update(c *fiber.Ctx) error {
	in, err := h.bookInput(c)
	if err != nil {
		return fail(c, "book.update", err)
	}
	b, err := h.Books.Update(c.Params("bookID"), callerID(c), in)
	if err != nil {
		return fail(c, "book.update", err)
	}
	applog.Audit(c, "book.update", map[string]any{"book_id": b.ID})
	return c.JSON(b)
}

func (h *BookHandler) Delete(c *fiber.Ctx) error {
	bookID := c.Params("bookID")
	if err := h.Books.Delete(bookID, callerID(c)); err != nil {
		return fail(c, "book.delete", err)
	}
	applog.Audit(c, "book.delete", map[string]any{"book_id": bookID})
	return c.JSON(fiber.Map{"success": true})
}
