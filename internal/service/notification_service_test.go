package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/parts-store/internal/auth"
	"github.com/spec-kit/parts-store/internal/config"
	"github.com/spec-kit/parts-store/internal/domain"
	"github.com/spec-kit/parts-store/internal/events"
	"github.com/spec-kit/parts-store/internal/repository"
	"github.com/spec-kit/parts-store/internal/service"
	"github.com/spec-kit/parts-store/internal/worker"
)

func newNotifiedOrders(t *testing.T, cfg config.NotificationConfig) (*service.OrderService, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	dispatcher := events.NewInMemoryDispatcher()
	worker.StartNotificationWorker(service.NewNotificationService(dispatcher, zap.New(core), cfg))

	orders := service.NewOrderService(service.OrderDependencies{
		Orders:     repository.NewMemoryStore().Collection(domain.CollectionOrders),
		Upsert:     allUpserts,
		Dispatcher: dispatcher,
	})
	return orders, logs
}

func fieldsOf(entry observer.LoggedEntry) map[string]any {
	return entry.ContextMap()
}

func TestNotificationService_OrderLifecycleReachesCustomer(t *testing.T) {
	orders, logs := newNotifiedOrders(t, config.NotificationConfig{
		EmailFrom:  "shop@x.com",
		WebhookURL: "https://hooks.example.com/orders",
	})
	ctx := context.Background()
	admin := auth.Identity{Email: "root@x.com"}

	placed, err := orders.PlaceOrder(ctx, repository.Document{
		domain.FieldUser:  "a@x.com",
		domain.FieldItems: []any{"p-1", "p-2"},
	})
	require.NoError(t, err)
	_, err = orders.MarkPaid(ctx, admin, placed.InsertedID, "tx-77")
	require.NoError(t, err)
	_, err = orders.MarkShipped(ctx, admin, placed.InsertedID)
	require.NoError(t, err)

	placedLog := logs.FilterMessage("order placed").All()
	require.Len(t, placedLog, 1)
	assert.Equal(t, "a@x.com", fieldsOf(placedLog[0])["customer"])
	assert.Equal(t, int64(2), fieldsOf(placedLog[0])["items"])

	paidLog := logs.FilterMessage("order paid").All()
	require.Len(t, paidLog, 1)
	assert.Equal(t, "a@x.com", fieldsOf(paidLog[0])["customer"])
	assert.Equal(t, "tx-77", fieldsOf(paidLog[0])["transaction_id"])
	assert.Equal(t, "root@x.com", fieldsOf(paidLog[0])["recorded_by"])

	shippedLog := logs.FilterMessage("order shipped").All()
	require.Len(t, shippedLog, 1)
	assert.Equal(t, "a@x.com", fieldsOf(shippedLog[0])["customer"])

	emails := logs.FilterMessage("email queued").All()
	require.Len(t, emails, 3)
	for _, email := range emails {
		assert.Equal(t, "a@x.com", fieldsOf(email)["to"])
	}
	assert.Equal(t, 1, logs.FilterMessage("webhook queued").Len())
}

func TestNotificationService_SkipsUnconfiguredChannels(t *testing.T) {
	orders, logs := newNotifiedOrders(t, config.NotificationConfig{})

	_, err := orders.PlaceOrder(context.Background(), repository.Document{domain.FieldUser: "a@x.com"})
	require.NoError(t, err)

	assert.Equal(t, 1, logs.FilterMessage("order placed").Len())
	assert.Zero(t, logs.FilterMessage("email queued").Len())
	assert.Zero(t, logs.FilterMessage("webhook queued").Len())
}

func TestNotificationService_AnonymousOrderSendsNoEmail(t *testing.T) {
	orders, logs := newNotifiedOrders(t, config.NotificationConfig{EmailFrom: "shop@x.com"})

	_, err := orders.PlaceOrder(context.Background(), repository.Document{domain.FieldItems: []any{"p-1"}})
	require.NoError(t, err)

	assert.Equal(t, 1, logs.FilterMessage("order placed").Len())
	assert.Zero(t, logs.FilterMessage("email queued").Len())
}

func TestNotificationService_UserPromotion(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	dispatcher := events.NewInMemoryDispatcher()
	worker.StartNotificationWorker(service.NewNotificationService(dispatcher, zap.New(core), config.NotificationConfig{
		WebhookURL: "https://hooks.example.com/accounts",
	}))

	err := dispatcher.Publish(context.Background(), events.Event{
		Type:    events.EventUserPromoted,
		Subject: "bob@x.com",
		Actor:   "root@x.com",
		Payload: events.UserPromotedPayload{Role: domain.RoleAdmin},
	})
	require.NoError(t, err)

	promoted := logs.FilterMessage("user promoted").All()
	require.Len(t, promoted, 1)
	assert.Equal(t, "admin", fieldsOf(promoted[0])["role"])
	assert.Equal(t, 1, logs.FilterMessage("webhook queued").Len())
}
