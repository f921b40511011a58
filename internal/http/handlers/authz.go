package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	applog "github.com/engYuns/rengintech/internal/log"
	"github.com/engYuns/rengintech/internal/services"
)

// bearer returns the session token from the Authorization header or the cookie.
func bearer(c *fiber.Ctx) string {
	if h := c.Get(fiber.HeaderAuthorization); len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return c.Cookies(TokenCookie)
}

// RequireAdmin rejects requests without a valid admin session. API callers get
// 401 JSON; page requests are sent to the login form.
func RequireAdmin(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := auth.Verify(bearer(c))
		if err != nil {
			applog.Security(c, "access.denied.admin", nil)
			if strings.HasPrefix(c.Path(), "/api/") {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
			}
			return c.Redirect("/admin/login")
		}
		c.Locals("session", sess)
		c.Locals(applog.AdminKey, sess.Username)
		return c.Next()
	}
}
