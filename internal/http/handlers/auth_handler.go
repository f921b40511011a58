package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	applog "github.com/engYuns/rengintech/internal/log"
	"github.com/engYuns/rengintech/internal/services"
)

// TokenCookie carries the signed admin session.
const TokenCookie = "admin_token"

type AuthHandler struct {
	Auth         *services.AuthService
	SecureCookie bool
}

func (h *AuthHandler) setToken(c *fiber.Ctx, token string, expires time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     TokenCookie,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   h.SecureCookie,
	})
}

func (h *AuthHandler) clearToken(c *fiber.Ctx) {
	h.setToken(c, "", time.Now().Add(-1*time.Hour))
}

// login runs the credential check shared by the JSON and form endpoints.
func (h *AuthHandler) login(c *fiber.Ctx) (string, services.Session, bool, error) {
	in, err := input(c)
	if err != nil {
		return "", services.Session{}, false, nil
	}
	username, _ := in["username"].(string)
	password, _ := in["password"].(string)
	token, sess, err := h.Auth.Login(c.UserContext(), username, password)
	if errors.Is(err, services.ErrBadCreds) {
		applog.Security(c, "auth.login.fail", map[string]any{"username": username})
		return "", services.Session{}, false, nil
	}
	if err != nil {
		return "", services.Session{}, false, err
	}
	h.setToken(c, token, sess.ExpiresAt)
	c.Locals(applog.AdminKey, sess.Username)
	applog.Audit(c, "auth.login.success", nil)
	return token, sess, true, nil
}

// POST /api/admin/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	token, sess, ok, err := h.login(c)
	if err != nil {
		applog.Error(c, "auth.login.error", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Login failed"})
	}
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid password"})
	}
	return c.JSON(fiber.Map{
		"success":   true,
		"token":     token,
		"username":  sess.Username,
		"expiresAt": sess.ExpiresAt.UTC(),
	})
}

// POST /api/admin/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.clearToken(c)
	applog.Audit(c, "auth.logout", nil)
	return c.JSON(fiber.Map{"success": true})
}

// GET /api/admin/session (behind RequireAdmin)
func (h *AuthHandler) Session(c *fiber.Ctx) error {
	sess, _ := c.Locals("session").(services.Session)
	return c.JSON(fiber.Map{
		"authenticated": true,
		"username":      sess.Username,
		"expiresAt":     sess.ExpiresAt.UTC(),
	})
}

// GET /admin/login
func (h *AuthHandler) LoginForm(c *fiber.Ctx) error {
	return render(c, "login", fiber.Map{"Err": ""})
}

// POST /admin/login (form)
func (h *AuthHandler) LoginSubmit(c *fiber.Ctx) error {
	_, _, ok, err := h.login(c)
	if err != nil {
		applog.Error(c, "auth.login.error", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("login", fiber.Map{"Err": "Login failed. Please try again."})
	}
	if !ok {
		return c.Status(fiber.StatusUnauthorized).Render("login", fiber.Map{"Err": "Invalid username or password"})
	}
	return c.Redirect("/admin")
}

// POST /admin/logout (form)
func (h *AuthHandler) LogoutSubmit(c *fiber.Ctx) error {
	h.clearToken(c)
	applog.Audit(c, "auth.logout", nil)
	return c.Redirect("/")
}
