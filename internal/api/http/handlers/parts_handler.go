package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/parts-store/internal/api/dto"
	"github.com/spec-kit/parts-store/internal/service"
	apperrors "github.com/spec-kit/parts-store/pkg/util"
)

// PartsHandler exposes the parts catalog.
type PartsHandler struct {
	catalog *service.CatalogService
}

// NewPartsHandler constructs handler.
func NewPartsHandler(catalog *service.CatalogService) *PartsHandler {
	return &PartsHandler{catalog: catalog}
}

// List GET /car-parts.
func (h *PartsHandler) List(c *fiber.Ctx) error {
	parts, err := h.catalog.ListParts(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(parts)
}

// Get GET /car-parts/:id.
func (h *PartsHandler) Get(c *fiber.Ctx) error {
	id, err := pathParam(c, "id")
	if err != nil {
		return err
	}
	part, err := h.catalog.GetPart(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(part)
}

// Create POST /car-part.
func (h *PartsHandler) Create(c *fiber.Ctx) error {
	part, err := parseDocument(c)
	if err != nil {
		return err
	}
	result, err := h.catalog.AddPart(c.UserContext(), part)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(result)
}

// UpdateQuantity PUT /car-parts/:id.
func (h *PartsHandler) UpdateQuantity(c *fiber.Ctx) error {
	id, err := pathParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.PartQuantityRequest
	if err := c.BodyParser(&req); err != nil || req.Quantity == nil {
		return apperrors.NewValidationError("quantity required", nil)
	}
	result, err := h.catalog.SetPartQuantity(c.UserContext(), id, *req.Quantity)
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// Delete DELETE /car-parts/:id.
func (h *PartsHandler) Delete(c *fiber.Ctx) error {
	id, err := pathParam(c, "id")
	if err != nil {
		return err
	}
	result, err := h.catalog.DeletePart(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(result)
}
