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

	"airdee/internal/config"
	"airdee/internal/email"
	"airdee/internal/http/handlers"
	applog "airdee/internal/log"
	"airdee/internal/metrics"
	"airdee/internal/repos"
	"airdee/internal/services"
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
	mail := email.NewService(cfg)
	authSvc := &services.AuthService{
		Users:       userRepo,
		Mail:        mail,
		SigningKey:  cfg.JWTSigningKey,
		TokenTTL:    time.Duration(cfg.JWTExpirationHours) * time.Hour,
		CountryCode: cfg.OTPCountryCode,
		BaseURL:     cfg.BaseURL,
	}
	authH := &handlers.AuthHandler{Auth: authSvc}

	// Admin data cache, warmed at startup and refreshed when an admin signs in
	adminCache := services.NewAdminCache(
		repos.NewProductRepo(db),
		repos.NewBookingRepo(db),
		repos.NewStockLogRepo(db),
	)
	if err := adminCache.Load(); err != nil {
		log.Printf("[warn] admin cache warm-up failed: %v", err)
	}

	// No persisted token at boot; the holder starts resolved as signed out.
	holder := services.NewSessionHolder(authSvc, "")
	defer holder.Close()
	holder.OnChange(func(s *services.Session) {
		if s == nil || s.User == nil || s.User.Role != "ADMIN" {
			return
		}
		if err := adminCache.Load(); err != nil {
			log.Printf("[warn] admin cache refresh failed: %v", err)
		}
	})

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Log and answer a generic message; never leak internals
			applog.Error(c, "server.error", err, nil)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "something went wrong, please try again",
			})
		},
	})
	// Global body size guard
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(metrics.Middleware())
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/metrics" || c.Path() == "/healthz"
		},
	}))

	// ---------- App handlers ----------
	deps := handlers.NewDeps(db, cfg, adminCache)

	api := app.Group("/api/v1")
	api.Get("/products", deps.ProductHandler.List)
	api.Get("/products/:id", deps.ProductHandler.Detail)
	api.Get("/settings", deps.SettingsHandler.Get)

	// Cart
	api.Get("/cart", deps.CartHandler.View)
	api.Post("/cart", deps.CartHandler.Add)
	api.Post("/cart/quantity", deps.CartHandler.SetQuantity)
	api.Post("/cart/remove", deps.CartHandler.Remove)
	api.Post("/cart/clear", deps.CartHandler.Clear)

	// Comparison
	api.Get("/compare", deps.CompareHandler.View)
	api.Post("/compare", deps.CompareHandler.Add)
	api.Post("/compare/remove", deps.CompareHandler.Remove)

	// Public booking requests; signed-in customers can list their own
	api.Post("/bookings", deps.BookingHandler.Create)
	api.Get("/me/bookings", handlers.RequireUser(authSvc), deps.BookingHandler.Mine)

	// Auth (login/OTP throttled)
	auth := app.Group("/auth")
	loginLimiter := limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "too many attempts, try again later"})
		},
	})
	auth.Post("/login", loginLimiter, authH.Login)
	auth.Post("/signup", authH.Signup)
	auth.Post("/otp/send", limiter.New(limiter.Config{Max: 3, Expiration: 10 * time.Minute}), authH.SendOTP)
	auth.Post("/otp/verify", loginLimiter, authH.VerifyOTP)
	auth.Post("/reset", authH.Reset)
	auth.Post("/password", authH.UpdatePassword)
	auth.Post("/refresh", authH.Refresh)
	auth.Post("/logout", authH.Logout)
	auth.Get("/session", authH.Session)

	// Admin console
	admin := app.Group("/admin", handlers.RequireAdmin(authSvc))
	admin.Get("/products", deps.AdminHandler.Products)
	admin.Post("/products", deps.AdminHandler.CreateProduct)
	admin.Put("/products/:id", deps.AdminHandler.UpdateProduct)
	admin.Delete("/products/:id", deps.AdminHandler.DeleteProduct)
	admin.Post("/products/:id/stock", deps.AdminHandler.AdjustStock)
	admin.Get("/stock-movements", deps.AdminHandler.StockMovements)
	admin.Get("/bookings", deps.AdminHandler.Bookings)
	admin.Post("/bookings/:id/status", deps.AdminHandler.SetBookingStatus)
	admin.Post("/bookings/:id/technician", deps.AdminHandler.AssignTechnician)
	admin.Post("/settings", deps.AdminHandler.UpdateSetting)

	// Health, metrics & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Get("/metrics", metrics.Handler())
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}
