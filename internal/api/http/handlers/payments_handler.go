package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/parts-store/internal/api/dto"
	"github.com/spec-kit/parts-store/internal/service"
	apperrors "github.com/spec-kit/parts-store/pkg/util"
)

// PaymentsHandler creates payment intents for checkout.
type PaymentsHandler struct {
	payments *service.PaymentService
}

// NewPaymentsHandler constructs handler.
func NewPaymentsHandler(payments *service.PaymentService) *PaymentsHandler {
	return &PaymentsHandler{payments: payments}
}

// CreateIntent POST /create-payment-intent.
func (h *PaymentsHandler) CreateIntent(c *fiber.Ctx) error {
	var req dto.PaymentIntentRequest
	if err := c.BodyParser(&req); err != nil || req.Price == nil {
		return apperrors.NewValidationError("price required", nil)
	}
	secret, err := h.payments.CreateIntent(c.UserContext(), *req.Price)
	if err != nil {
		return err
	}
	return c.JSON(dto.PaymentIntentResponse{ClientSecret: secret})
}
