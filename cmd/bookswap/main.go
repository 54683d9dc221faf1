package main

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"bookswap/internal/blob"
	"bookswap/internal/config"
	"bookswap/internal/http/handlers"
	applog "bookswap/internal/log"
	"bookswap/internal/repos"
	"bookswap/internal/services"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			mw := io.MultiWriter(os.Stdout, f)
			log.SetOutput(mw)
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	blobs, err := blob.NewDiskStore(cfg.MediaDir, "/media")
	if err != nil {
		log.Fatal(err)
	}

	userRepo := repos.NewUserRepo(db)
	authSvc := services.NewAuthService(userRepo, cfg.JWTSecret)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Error(c, "server.error", err, nil)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
		},
	})
	// Book covers go through multipart upload; cap bodies at 5 MiB.
	app.Server().MaxRequestBodySize = 5 << 20

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use("/api", limiter.New(limiter.Config{
		Max:        100,
		Expiration: 15 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.api.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "too many requests, please try again later"})
		},
	}))
	authLimiter := limiter.New(limiter.Config{
		Max:        5,
		Expiration: 15 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|auth"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.auth.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "too many authentication attempts, please try again later"})
		},
	})

	// ---------- Static assets ----------
	mediaDir := cfg.MediaDir
	if !filepath.IsAbs(mediaDir) {
		if abs, err := filepath.Abs(mediaDir); err == nil {
			mediaDir = abs
		}
	}
	app.Static("/", "./public")
	// Guarded media to avoid traversal
	app.Get("/media/*", func(c *fiber.Ctx) error {
		path := c.Params("*")
		rawLower := strings.ToLower(path)
		if strings.Contains(rawLower, "..") || strings.Contains(rawLower, "%2e") || strings.Contains(rawLower, "\x00") {
			applog.Security(c, "media.traversal.block", map[string]any{"path": path})
			return c.SendStatus(fiber.StatusNotFound)
		}
		clean := filepath.Clean(path)
		if clean == "." || strings.Contains(clean, "..") || filepath.IsAbs(clean) {
			applog.Security(c, "media.traversal.block", map[string]any{"path": path})
			return c.SendStatus(fiber.StatusNotFound)
		}
		return c.SendFile(filepath.Join(mediaDir, clean), true)
	})

	// ---------- API ----------
	deps := handlers.NewDeps(db, blobs, authSvc)
	api := app.Group("/api")

	auth := api.Group("/auth", authLimiter)
	auth.Post("/signup", deps.AuthHandler.Signup)
	auth.Post("/login", deps.AuthHandler.Login)
	auth.Get("/me", deps.AuthHandler.Me)

	// Books & feed
	api.Get("/books", handlers.OptionalUser(authSvc), deps.BookHandler.Feed)
	api.Get("/books/:bookID", deps.BookHandler.Get)
	api.Put("/books/:bookID", handlers.RequireUser(authSvc), deps.BookHandler.Update)
	api.Delete("/books/:bookID", handlers.RequireUser(authSvc), deps.BookHandler.Delete)

	// Users
	api.Get("/users/:userID", deps.UserHandler.Get)
	api.Put("/users/:userID", handlers.RequireUser(authSvc), deps.UserHandler.Update)
	api.Get("/users/:userID/books", handlers.OptionalUser(authSvc), deps.BookHandler.Shelf)
	api.Post("/users/:userID/books", handlers.RequireUser(authSvc), deps.BookHandler.Add)
	api.Get("/users/:userID/trades", handlers.RequireUser(authSvc), deps.TradeHandler.ListForUser)

	// Trades
	api.Post("/trades", handlers.RequireUser(authSvc), deps.TradeHandler.Create)
	api.Get("/trades", deps.TradeHandler.ListActive)
	trades := api.Group("/trades/:tradeID", handlers.RequireUser(authSvc))
	trades.Put("/accept", deps.TradeHandler.Accept)
	trades.Put("/decline", deps.TradeHandler.Decline)
	trades.Put("/cancel", deps.TradeHandler.Cancel)
	trades.Put("/mark-mailed", deps.TradeHandler.MarkMailed)
	trades.Put("/mark-received", deps.TradeHandler.MarkReceived)
	trades.Put("/relist", deps.TradeHandler.Relist)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}
