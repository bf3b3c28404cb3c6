package main

import (
	"io"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/jared-chavez/ChavezTorresPinedoAcostaDWISHUnidad4-sub000/internal/config"
	"github.com/jared-chavez/ChavezTorresPinedoAcostaDWISHUnidad4-sub000/internal/http/handlers"
	applog "github.com/jared-chavez/ChavezTorresPinedoAcostaDWISHUnidad4-sub000/internal/log"
	"github.com/jared-chavez/ChavezTorresPinedoAcostaDWISHUnidad4-sub000/internal/repos"
	"github.com/jared-chavez/ChavezTorresPinedoAcostaDWISHUnidad4-sub000/internal/services"
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

	// Auth wiring
	userRepo := repos.NewUserRepo(db)
	authSvc := &services.AuthService{Users: userRepo}
	authH := &handlers.AuthHandler{Auth: authSvc}

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Error(c, "server.error", err, nil)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
		},
	})
	// Spreadsheet uploads can get large
	app.Server().MaxRequestBodySize = 8 << 20

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(handlers.WithPrincipal(authSvc))
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
	}))

	// ---------- App handlers ----------
	deps := handlers.NewDeps(db, cfg)

	// Auth (login throttled)
	app.Post("/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "too many attempts, try again later"})
		},
	}), authH.Login)
	app.Post("/logout", authH.Logout)

	// Inventory reads
	app.Get("/vehicles", deps.VehicleHandler.List)
	app.Get("/vehicles/:id", deps.VehicleHandler.Get)

	// Sales ledger
	sales := app.Group("/sales", handlers.RequirePrincipal())
	sales.Get("/", deps.SaleHandler.List)
	sales.Post("/", deps.SaleHandler.Create)
	sales.Post("/import", deps.ImportHandler.Upload)
	sales.Get("/:id", deps.SaleHandler.Get)
	sales.Put("/:id", deps.SaleHandler.Update)
	sales.Delete("/:id", deps.SaleHandler.Delete)

	// Buyer checkout
	app.Post("/checkout/process", handlers.RequirePrincipal(), deps.CheckoutHandler.Process)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}
