package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "github.com/engYuns/rengintech/internal/log"
	"github.com/engYuns/rengintech/internal/repos"
	"github.com/engYuns/rengintech/internal/validate"
)

type ReviewHandler struct {
	Store repos.Storage
}

// GET /api/reviews returns approved reviews only.
func (h *ReviewHandler) Approved(c *fiber.Ctx) error {
	reviews, err := h.Store.GetApprovedReviews(c.UserContext())
	if err != nil {
		return fail(c, "reviews.list", "review", "Failed to fetch reviews", err)
	}
	return c.JSON(reviews)
}

// GET /api/reviews/all
func (h *ReviewHandler) All(c *fiber.Ctx) error {
	reviews, err := h.Store.GetAllReviews(c.UserContext())
	if err != nil {
		return fail(c, "reviews.list_all", "review", "Failed to fetch reviews", err)
	}
	return c.JSON(reviews)
}

// POST /api/reviews
func (h *ReviewHandler) Create(c *fiber.Ctx) error {
	in, err := input(c)
	if err != nil {
		return fail(c, "reviews.create", "review", "Failed to create review", err)
	}
	payload, err := validate.Review(in)
	if err != nil {
		return fail(c, "reviews.create", "review", "Failed to create review", err)
	}
	review, err := h.Store.CreateReview(c.UserContext(), payload)
	if err != nil {
		return fail(c, "reviews.create", "review", "Failed to create review", err)
	}
	applog.Info(c, "reviews.create", map[string]any{"review_id": review.ID, "rating": review.Rating})
	return c.JSON(review)
}

// PATCH /api/reviews/:id/approve
func (h *ReviewHandler) Approve(c *fiber.Ctx) error {
	id, ok := idParam(c)
	if !ok {
		return notFound(c, "review")
	}
	review, err := h.Store.ApproveReview(c.UserContext(), id)
	if err != nil {
		return fail(c, "reviews.approve", "review", "Failed to approve review", err)
	}
	applog.Audit(c, "reviews.approve", map[string]any{"review_id": id})
	return c.JSON(review)
}

// DELETE /api/reviews/:id
func (h *ReviewHandler) Delete(c *fiber.Ctx) error {
	id, ok := idParam(c)
	if !ok {
		return notFound(c, "review")
	}
	removed, err := h.Store.DeleteReview(c.UserContext(), id)
	if err != nil {
		return fail(c, "reviews.delete", "review", "Failed to delete review", err)
	}
	if !removed {
		return notFound(c, "review")
	}
	applog.Audit(c, "reviews.delete", map[string]any{"review_id": id})
	return c.JSON(fiber.Map{"success": true})
}
