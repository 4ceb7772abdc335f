package payment

import (
	"context"
	"errors"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// ErrNotConfigured is returned when no provider secret key was supplied.
var ErrNotConfigured = errors.New("payment provider not configured")

// StripeProvider creates card payment intents through the Stripe API.
type StripeProvider struct {
	api *client.API
}

// NewStripeProvider builds a provider for the given secret key.
func NewStripeProvider(secretKey string) *StripeProvider {
	if secretKey == "" {
		return &StripeProvider{}
	}
	return &StripeProvider{api: client.New(secretKey, nil)}
}

// Configured reports whether a secret key was supplied.
func (p *StripeProvider) Configured() bool {
	return p != nil && p.api != nil
}

// CreatePaymentIntent registers an intent for amount (in the currency's minor
// unit) and returns its client secret.
func (p *StripeProvider) CreatePaymentIntent(ctx context.Context, amount int64, currency string) (string, error) {
	if !p.Configured() {
		return "", ErrNotConfigured
	}
	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(amount),
		Currency:           stripe.String(currency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	params.Context = ctx

	intent, err := p.api.PaymentIntents.New(params)
	if err != nil {
		return "", err
	}
	return intent.ClientSecret, nil
}
