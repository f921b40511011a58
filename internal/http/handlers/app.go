package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"

	"github.com/engYuns/rengintech/internal/domain"
	applog "github.com/engYuns/rengintech/internal/log"
	"github.com/engYuns/rengintech/web"
)

type AppOptions struct {
	AccessLog    bool
	BodyLimit    int
	LoginLimit   int // attempts per IP per 10 minutes
	SubmitLimit  int // public review/booking posts per IP per minute
	SecureCookie bool
}

// NewApp builds the fiber application with middlewares and all routes.
func NewApp(d *Deps, opts AppOptions) *fiber.App {
	if opts.BodyLimit <= 0 {
		opts.BodyLimit = 6 << 20
	}
	if opts.LoginLimit <= 0 {
		opts.LoginLimit = 5
	}
	if opts.SubmitLimit <= 0 {
		opts.SubmitLimit = 10
	}

	engine := html.NewFileSystem(http.FS(web.Templates()), ".html")
	engine.AddFunc("serviceLabel", func(v string) string {
		if label, ok := domain.ServiceLabel(v); ok {
			return label
		}
		return v
	})

	app := fiber.New(fiber.Config{
		Views:        engine,
		BodyLimit:    opts.BodyLimit,
		ErrorHandler: errorHandler,
	})

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	if opts.AccessLog {
		app.Use(logger.New(logger.Config{Output: log.Writer()}))
	}
	app.Use(helmet.New())

	d.AuthHandler.SecureCookie = opts.SecureCookie
	requireAdmin := RequireAdmin(d.Auth)
	loginLimiter := limiter.New(limiter.Config{
		Max:        opts.LoginLimit,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "Too many attempts. Please try again later."})
		},
	})
	submitLimiter := limiter.New(limiter.Config{
		Max:        opts.SubmitLimit,
		Expiration: time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|submit"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.submit.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
		},
	})

	// ---------- Pages ----------
	app.Get("/", d.PageHandler.Home)
	app.Get("/admin/login", d.AuthHandler.LoginForm)
	app.Post("/admin/login", loginLimiter, d.AuthHandler.LoginSubmit)
	app.Post("/admin/logout", d.AuthHandler.LogoutSubmit)
	app.Get("/admin", requireAdmin, d.PageHandler.Dashboard)
	app.Get("/uploads/*", d.ClientHandler.Logo)

	// ---------- API ----------
	api := app.Group("/api")

	api.Post("/admin/login", loginLimiter, d.AuthHandler.Login)
	api.Post("/admin/logout", d.AuthHandler.Logout)
	api.Get("/admin/session", requireAdmin, d.AuthHandler.Session)

	api.Get("/clients", d.ClientHandler.List)
	api.Get("/clients/:id", d.ClientHandler.Get)
	api.Post("/clients", requireAdmin, d.ClientHandler.Create)
	api.Patch("/clients/:id", requireAdmin, d.ClientHandler.Update)
	api.Delete("/clients/:id", requireAdmin, d.ClientHandler.Delete)

	api.Get("/reviews", d.ReviewHandler.Approved)
	api.Get("/reviews/all", requireAdmin, d.ReviewHandler.All)
	api.Post("/reviews", submitLimiter, d.ReviewHandler.Create)
	api.Patch("/reviews/:id/approve", requireAdmin, d.ReviewHandler.Approve)
	api.Delete("/reviews/:id", requireAdmin, d.ReviewHandler.Delete)

	api.Post("/bookings", submitLimiter, d.BookingHandler.Create)
	api.Get("/bookings", requireAdmin, d.BookingHandler.List)
	api.Patch("/bookings/:id/read", requireAdmin, d.BookingHandler.MarkRead)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		if strings.HasPrefix(c.Path(), "/api/") {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Not found"})
		}
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Page not found"})
	})

	return app
}

// errorHandler logs unexpected failures and answers without leaking internals.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := "Something went wrong. Please try again."
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		if code < fiber.StatusInternalServerError {
			msg = fe.Message
		}
	}
	if code >= fiber.StatusInternalServerError {
		applog.Error(c, "server.error", err, nil)
	}
	if strings.HasPrefix(c.Path(), "/api/") {
		return c.Status(code).JSON(fiber.Map{"error": msg})
	}
	if rerr := c.Status(code).Render("notfound", fiber.Map{"Message": msg}); rerr != nil {
		return c.Status(code).SendString(msg)
	}
	return nil
}
