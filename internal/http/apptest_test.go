package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"bookswap/internal/blob"
	"bookswap/internal/domain"
	"bookswap/internal/http/handlers"
	"bookswap/internal/repos"
	"bookswap/internal/services"
)

// newTestApp wires the real handlers against an in-memory database,
// mirroring the route table in cmd/bookswap.
func newTestApp(t *testing.T) (*fiber.App, *sqlx.DB) {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	blobs, err := blob.NewDiskStore(t.TempDir(), "/media")
	if err != nil {
		t.Fatalf("blob store: %v", err)
	}
	authSvc := services.NewAuthService(repos.NewUserRepo(db), "test-secret")
	deps := handlers.NewDeps(db, blobs, authSvc)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
		},
	})
	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/signup", deps.AuthHandler.Signup)
	auth.Post("/login", deps.AuthHandler.Login)
	auth.Get("/me", deps.AuthHandler.Me)

	api.Get("/books", handlers.OptionalUser(authSvc), deps.BookHandler.Feed)
	api.Get("/books/:bookID", deps.BookHandler.Get)
	api.Put("/books/:bookID", handlers.RequireUser(authSvc), deps.BookHandler.Update)
	api.Delete("/books/:bookID", handlers.RequireUser(authSvc), deps.BookHandler.Delete)

	api.Get("/users/:userID", deps.UserHandler.Get)
	api.Put("/users/:userID", handlers.RequireUser(authSvc), deps.UserHandler.Update)
	api.Get("/users/:userID/books", handlers.OptionalUser(authSvc), deps.BookHandler.Shelf)
	api.Post("/users/:userID/books", handlers.RequireUser(authSvc), deps.BookHandler.Add)
	api.Get("/users/:userID/trades", handlers.RequireUser(authSvc), deps.TradeHandler.ListForUser)

	api.Post("/trades", handlers.RequireUser(authSvc), deps.TradeHandler.Create)
	api.Get("/trades", deps.TradeHandler.ListActive)
	trades := api.Group("/trades/:tradeID", handlers.RequireUser(authSvc))
	trades.Put("/accept", deps.TradeHandler.Accept)
	trades.Put("/decline", deps.TradeHandler.Decline)
	trades.Put("/cancel", deps.TradeHandler.Cancel)
	trades.Put("/mark-mailed", deps.TradeHandler.MarkMailed)
	trades.Put("/mark-received", deps.TradeHandler.MarkReceived)
	trades.Put("/relist", deps.TradeHandler.Relist)

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	})
	return app, db
}

func jsonReq(method, path, token string, body any) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func decode(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

// signup registers a user through the API and returns its token and id.
func signup(t *testing.T, app *fiber.App, username string) (token, userID string) {
	t.Helper()
	resp, err := app.Test(jsonReq("POST", "/api/auth/signup", "", fiber.Map{
		"username": username,
		"email":    username + "@example.test",
		"password": "hunter22",
	}))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("signup %s: status %d", username, resp.StatusCode)
	}
	var body struct {
		Token string `json:"token"`
		User  struct {
			ID string `json:"userId"`
		} `json:"user"`
	}
	decode(t, resp, &body)
	return body.Token, body.User.ID
}

func seedBook(t *testing.T, db *sqlx.DB, userID, title string) string {
	t.Helper()
	b := domain.Book{
		ID:     uuid.NewString(),
		UserID: userID,
		Title:  title,
		Author: "Anonymous",
		Status: domain.BookCurrent,
	}
	if err := repos.NewBookRepo(db).Create(b); err != nil {
		t.Fatalf("seed book %s: %v", title, err)
	}
	return b.ID
}
