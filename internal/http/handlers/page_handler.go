package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "github.com/engYuns/rengintech/internal/log"
	"github.com/engYuns/rengintech/internal/repos"
)

// PageHandler serves the server-rendered public site and admin dashboard.
type PageHandler struct {
	Store repos.Storage
}

// GET /
func (h *PageHandler) Home(c *fiber.Ctx) error {
	ctx := c.UserContext()
	clients, err := h.Store.GetAllClients(ctx)
	if err != nil {
		applog.Error(c, "home.clients.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not load the portfolio"})
	}
	reviews, err := h.Store.GetApprovedReviews(ctx)
	if err != nil {
		applog.Error(c, "home.reviews.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not load reviews"})
	}
	return render(c, "index", fiber.Map{"Clients": clients, "Reviews": reviews})
}

// GET /admin
func (h *PageHandler) Dashboard(c *fiber.Ctx) error {
	ctx := c.UserContext()
	clients, err := h.Store.GetAllClients(ctx)
	if err != nil {
		applog.Error(c, "admin.clients.list.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not load clients"})
	}
	reviews, err := h.Store.GetAllReviews(ctx)
	if err != nil {
		applog.Error(c, "admin.reviews.list.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not load reviews"})
	}
	bookings, err := h.Store.GetAllBookings(ctx)
	if err != nil {
		applog.Error(c, "admin.bookings.list.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not load bookings"})
	}
	unread := 0
	for _, b := range bookings {
		if !b.Read {
			unread++
		}
	}
	return render(c, "admin_dashboard", fiber.Map{
		"Clients":  clients,
		"Reviews":  reviews,
		"Bookings": bookings,
		"Unread":   unread,
	})
}
