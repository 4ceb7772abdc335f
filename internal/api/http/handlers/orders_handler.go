package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/parts-store/internal/api/dto"
	"github.com/spec-kit/parts-store/internal/service"
	apperrors "github.com/spec-kit/parts-store/pkg/util"
)

// OrdersHandler manages order endpoints.
type OrdersHandler struct {
	orders *service.OrderService
}

// NewOrdersHandler constructs handler.
func NewOrdersHandler(orders *service.OrderService) *OrdersHandler {
	return &OrdersHandler{orders: orders}
}

// List GET /orders.
func (h *OrdersHandler) List(c *fiber.Ctx) error {
	orders, err := h.orders.ListOrders(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(orders)
}

// ListMine GET /order?user=. The guard has already matched the user parameter
// against the verified identity.
func (h *OrdersHandler) ListMine(c *fiber.Ctx) error {
	caller, err := identity(c)
	if err != nil {
		return err
	}
	orders, err := h.orders.ListOrdersFor(c.UserContext(), caller.Email)
	if err != nil {
		return err
	}
	return c.JSON(orders)
}

// Get GET /order/:id.
func (h *OrdersHandler) Get(c *fiber.Ctx) error {
	id, err := pathParam(c, "id")
	if err != nil {
		return err
	}
	order, err := h.orders.GetOrder(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(order)
}

// Create POST /order.
func (h *OrdersHandler) Create(c *fiber.Ctx) error {
	order, err := parseDocument(c)
	if err != nil {
		return err
	}
	result, err := h.orders.PlaceOrder(c.UserContext(), order)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(result)
}

// Pay PATCH /order/:id.
func (h *OrdersHandler) Pay(c *fiber.Ctx) error {
	caller, err := identity(c)
	if err != nil {
		return err
	}
	id, err := pathParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.OrderPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	result, err := h.orders.MarkPaid(c.UserContext(), caller, id, req.TransactionID)
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// Ship PUT /order/:id.
func (h *OrdersHandler) Ship(c *fiber.Ctx) error {
	caller, err := identity(c)
	if err != nil {
		return err
	}
	id, err := pathParam(c, "id")
	if err != nil {
		return err
	}
	result, err := h.orders.MarkShipped(c.UserContext(), caller, id)
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// Delete DELETE /order/:id.
func (h *OrdersHandler) Delete(c *fiber.Ctx) error {
	id, err := pathParam(c, "id")
	if err != nil {
		return err
	}
	result, err := h.orders.DeleteOrder(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(result)
}
