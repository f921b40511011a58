package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/engYuns/rengintech/internal/domain"
	applog "github.com/engYuns/rengintech/internal/log"
)

func render(c *fiber.Ctx, tmpl string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	if name, ok := c.Locals(applog.AdminKey).(string); ok && name != "" {
		data["Admin"] = name
	}
	data["Services"] = domain.Services
	data["Year"] = time.Now().Year()
	return c.Render(tmpl, data)
}
