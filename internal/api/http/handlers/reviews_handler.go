package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/parts-store/internal/service"
)

// ReviewsHandler exposes customer reviews.
type ReviewsHandler struct {
	catalog *service.CatalogService
}

// NewReviewsHandler constructs handler.
func NewReviewsHandler(catalog *service.CatalogService) *ReviewsHandler {
	return &ReviewsHandler{catalog: catalog}
}

// List GET /reviews.
func (h *ReviewsHandler) List(c *fiber.Ctx) error {
	reviews, err := h.catalog.ListReviews(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(reviews)
}

// Create POST /reviews.
func (h *ReviewsHandler) Create(c *fiber.Ctx) error {
	review, err := parseDocument(c)
	if err != nil {
		return err
	}
	result, err := h.catalog.AddReview(c.UserContext(), review)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(result)
}
