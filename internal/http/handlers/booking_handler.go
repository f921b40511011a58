package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "github.com/engYuns/rengintech/internal/log"
	"github.com/engYuns/rengintech/internal/repos"
	"github.com/engYuns/rengintech/internal/validate"
)

type BookingHandler struct {
	Store repos.Storage
}

// POST /api/bookings, submitted by the public contact form.
func (h *BookingHandler) Create(c *fiber.Ctx) error {
	in, err := input(c)
	if err != nil {
		return fail(c, "bookings.create", "booking", "Failed to create booking", err)
	}
	payload, err := validate.Booking(in)
	if err != nil {
		return fail(c, "bookings.create", "booking", "Failed to create booking", err)
	}
	booking, err := h.Store.CreateBooking(c.UserContext(), payload)
	if err != nil {
		return fail(c, "bookings.create", "booking", "Failed to create booking", err)
	}
	applog.Info(c, "bookings.create", map[string]any{"booking_id": booking.ID, "service": booking.Service})
	return c.JSON(booking)
}

// GET /api/bookings
func (h *BookingHandler) List(c *fiber.Ctx) error {
	bookings, err := h.Store.GetAllBookings(c.UserContext())
	if err != nil {
		return fail(c, "bookings.list", "booking", "Failed to fetch bookings", err)
	}
	return c.JSON(bookings)
}

// PATCH /api/bookings/:id/read
func (h *BookingHandler) MarkRead(c *fiber.Ctx) error {
	id, ok := idParam(c)
	if !ok {
		return notFound(c, "booking")
	}
	booking, err := h.Store.MarkBookingAsRead(c.UserContext(), id)
	if err != nil {
		return fail(c, "bookings.read", "booking", "Failed to update booking", err)
	}
	applog.Audit(c, "bookings.read", map[string]any{"booking_id": id})
	return c.JSON(booking)
}
