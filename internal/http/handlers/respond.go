package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	applog "github.com/engYuns/rengintech/internal/log"
	"github.com/engYuns/rengintech/internal/repos"
	"github.com/engYuns/rengintech/internal/validate"
)

var errBadBody = errors.New("malformed request body")

// input flattens the request body into a validate.Input: JSON objects as
// decoded, form posts as first-value strings.
func input(c *fiber.Ctx) (validate.Input, error) {
	in := validate.Input{}
	ct := strings.ToLower(string(c.Request().Header.ContentType()))
	switch {
	case strings.HasPrefix(ct, fiber.MIMEMultipartForm):
		form, err := c.MultipartForm()
		if err != nil {
			return nil, errBadBody
		}
		for k, v := range form.Value {
			if len(v) > 0 {
				in[k] = v[0]
			}
		}
	case strings.HasPrefix(ct, fiber.MIMEApplicationForm):
		c.Request().PostArgs().VisitAll(func(k, v []byte) {
			in[string(k)] = string(v)
		})
	default:
		body := c.Body()
		if len(strings.TrimSpace(string(body))) == 0 {
			return in, nil
		}
		if err := c.App().Config().JSONDecoder(body, &in); err != nil {
			return nil, errBadBody
		}
		if in == nil {
			in = validate.Input{}
		}
	}
	return in, nil
}

// idParam validates the :id path parameter; a malformed id cannot match a record.
func idParam(c *fiber.Ctx) (string, bool) {
	return validate.ID(c.Params("id"))
}

// fail maps an error to its status code and JSON body. entity names the record
// kind for messages; what is the 500 message.
func fail(c *fiber.Ctx, action, entity, what string, err error) error {
	var ve *validate.ValidationError
	switch {
	case errors.Is(err, errBadBody):
		applog.Security(c, "validation.fail", map[string]any{"action": action, "reason": "body"})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid " + entity + " data"})
	case errors.As(err, &ve):
		applog.Security(c, "validation.fail", map[string]any{"action": action, "fields": ve.Fields})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid " + entity + " data", "fields": ve.Fields})
	case errors.Is(err, repos.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": title(entity) + " not found"})
	case errors.Is(err, repos.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": title(entity) + " already exists"})
	default:
		applog.Error(c, action+".fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": what})
	}
}

func notFound(c *fiber.Ctx, entity string) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": title(entity) + " not found"})
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
