package service

import (
	"context"
	"math"

	"github.com/spec-kit/parts-store/internal/config"
	apperrors "github.com/spec-kit/parts-store/pkg/util"
)

// PaymentProvider creates payment intents with an external processor.
type PaymentProvider interface {
	CreatePaymentIntent(ctx context.Context, amount int64, currency string) (string, error)
}

// PaymentService converts checkout prices into provider payment intents.
type PaymentService struct {
	provider PaymentProvider
	currency string
}

// NewPaymentService constructs the service.
func NewPaymentService(provider PaymentProvider, cfg config.PaymentConfig) *PaymentService {
	currency := cfg.Currency
	if currency == "" {
		currency = "usd"
	}
	return &PaymentService{provider: provider, currency: currency}
}

// CreateIntent charges price (major currency units) and returns the client secret.
func (s *PaymentService) CreateIntent(ctx context.Context, price float64) (string, error) {
	if math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		return "", apperrors.NewValidationError("price must be a positive number", nil)
	}
	amount := int64(math.Round(price * 100))
	if amount <= 0 {
		return "", apperrors.NewValidationError("price must be at least one minor unit", nil)
	}

	if s.provider == nil {
		return "", apperrors.NewUpstreamFailure("payment provider", nil)
	}
	secret, err := s.provider.CreatePaymentIntent(ctx, amount, s.currency)
	if err != nil {
		return "", apperrors.NewUpstreamFailure("payment provider", err)
	}
	return secret, nil
}
