package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/parts-store/internal/config"
	"github.com/spec-kit/parts-store/internal/events"
)

// NotificationService tells customers and the shop's webhook about order and
// account changes. Delivery is stubbed out as log lines.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{dispatcher: dispatcher, logger: logger, cfg: cfg}
}

// RegisterHandlers subscribes to storefront events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventOrderPlaced, n.onOrderPlaced)
	n.dispatcher.Subscribe(events.EventOrderPaid, n.onOrderPaid)
	n.dispatcher.Subscribe(events.EventOrderShipped, n.onOrderShipped)
	n.dispatcher.Subscribe(events.EventUserPromoted, n.onUserPromoted)
}

func (n *NotificationService) onOrderPlaced(ctx context.Context, event events.Event) error {
	payload, _ := event.Payload.(events.OrderPlacedPayload)
	n.logger.Info("order placed",
		zap.String("order_id", event.Subject),
		zap.String("customer", payload.Customer),
		zap.Int("items", payload.Items))
	n.emailCustomer(ctx, payload.Customer, "We received your order "+event.Subject)
	return nil
}

func (n *NotificationService) onOrderPaid(ctx context.Context, event events.Event) error {
	payload, _ := event.Payload.(events.OrderPaidPayload)
	n.logger.Info("order paid",
		zap.String("order_id", event.Subject),
		zap.String("customer", payload.Customer),
		zap.String("transaction_id", payload.TransactionID),
		zap.String("recorded_by", event.Actor))
	n.emailCustomer(ctx, payload.Customer, "Payment "+payload.TransactionID+" received for order "+event.Subject)
	n.postWebhook(ctx, event)
	return nil
}

func (n *NotificationService) onOrderShipped(ctx context.Context, event events.Event) error {
	payload, _ := event.Payload.(events.OrderShippedPayload)
	n.logger.Info("order shipped",
		zap.String("order_id", event.Subject),
		zap.String("customer", payload.Customer),
		zap.String("shipped_by", event.Actor))
	n.emailCustomer(ctx, payload.Customer, "Order "+event.Subject+" is on its way")
	return nil
}

func (n *NotificationService) onUserPromoted(ctx context.Context, event events.Event) error {
	payload, _ := event.Payload.(events.UserPromotedPayload)
	n.logger.Info("user promoted",
		zap.String("email", event.Subject),
		zap.String("role", payload.Role),
		zap.String("promoted_by", event.Actor))
	n.postWebhook(ctx, event)
	return nil
}

// emailCustomer stands in for a mail provider call.
func (n *NotificationService) emailCustomer(_ context.Context, to, subject string) {
	from := strings.TrimSpace(n.cfg.EmailFrom)
	if from == "" || to == "" {
		return
	}
	n.logger.Debug("email queued",
		zap.String("from", from),
		zap.String("to", to),
		zap.String("subject", subject))
}

// postWebhook stands in for a POST of the event to the shop's webhook.
func (n *NotificationService) postWebhook(_ context.Context, event events.Event) {
	url := strings.TrimSpace(n.cfg.WebhookURL)
	if url == "" {
		return
	}
	n.logger.Debug("webhook queued",
		zap.String("url", url),
		zap.String("event_type", string(event.Type)),
		zap.String("event_id", event.ID),
		zap.Any("payload", event.Payload))
}
