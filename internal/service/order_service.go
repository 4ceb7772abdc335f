package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/spec-kit/parts-store/internal/auth"
	"github.com/spec-kit/parts-store/internal/config"
	"github.com/spec-kit/parts-store/internal/domain"
	"github.com/spec-kit/parts-store/internal/events"
	"github.com/spec-kit/parts-store/internal/repository"
	apperrors "github.com/spec-kit/parts-store/pkg/util"
)

// OrderService coordinates order placement, payment and shipping.
type OrderService struct {
	orders repository.Collection
	upsert config.UpsertConfig
	events publisher
}

// OrderDependencies bundles collaborators for the order service.
type OrderDependencies struct {
	Orders     repository.Collection
	Upsert     config.UpsertConfig
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewOrderService constructs the service.
func NewOrderService(deps OrderDependencies) *OrderService {
	return &OrderService{
		orders: deps.Orders,
		upsert: deps.Upsert,
		events: publisher{dispatcher: deps.Dispatcher, logger: deps.Logger},
	}
}

// ListOrders returns every order.
func (s *OrderService) ListOrders(ctx context.Context) ([]repository.Document, error) {
	orders, err := s.orders.Find(ctx, nil)
	if err != nil {
		return nil, storeError(err)
	}
	return orders, nil
}

// ListOrdersFor returns the orders placed by user.
func (s *OrderService) ListOrdersFor(ctx context.Context, user string) ([]repository.Document, error) {
	orders, err := s.orders.Find(ctx, repository.Filter{domain.FieldUser: user})
	if err != nil {
		return nil, storeError(err)
	}
	return orders, nil
}

// GetOrder returns one order by id.
func (s *OrderService) GetOrder(ctx context.Context, id string) (repository.Document, error) {
	order, err := s.orders.FindOne(ctx, repository.ByID(id))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewNotFound("order", map[string]any{"id": id})
	}
	if err != nil {
		return nil, storeError(err)
	}
	return order, nil
}

// PlaceOrder inserts a new order. Payment and shipping state can only be set
// through MarkPaid and MarkShipped.
func (s *OrderService) PlaceOrder(ctx context.Context, order repository.Document) (*repository.InsertResult, error) {
	doc := repository.Document{}
	for k, v := range order {
		doc[k] = v
	}
	delete(doc, domain.FieldPaid)
	delete(doc, domain.FieldTransactionID)
	delete(doc, domain.FieldStatus)

	result, err := s.orders.InsertOne(ctx, doc)
	if err != nil {
		return nil, storeError(err)
	}
	user, _ := doc[domain.FieldUser].(string)
	items, _ := doc[domain.FieldItems].([]any)
	s.events.publish(ctx, events.EventOrderPlaced, result.InsertedID, user, events.OrderPlacedPayload{
		Customer: user,
		Items:    len(items),
	})
	return result, nil
}

// MarkPaid records the payment transaction on an order.
func (s *OrderService) MarkPaid(ctx context.Context, actor auth.Identity, id, transactionID string) (*repository.UpdateResult, error) {
	if transactionID == "" {
		return nil, apperrors.NewValidationError("transactionId required", nil)
	}
	result, err := s.orders.UpdateOne(ctx,
		repository.ByID(id),
		repository.Document{domain.FieldPaid: true, domain.FieldTransactionID: transactionID},
		repository.UpdateOptions{Upsert: s.upsert.OrderPayment},
	)
	if err != nil {
		return nil, storeError(err)
	}
	if changed(result) {
		s.events.publish(ctx, events.EventOrderPaid, id, actor.Email, events.OrderPaidPayload{
			Customer:      s.customerOf(ctx, id),
			TransactionID: transactionID,
		})
	}
	return result, nil
}

// MarkShipped sets the shipped status on an order.
func (s *OrderService) MarkShipped(ctx context.Context, actor auth.Identity, id string) (*repository.UpdateResult, error) {
	result, err := s.orders.UpdateOne(ctx,
		repository.ByID(id),
		repository.Document{domain.FieldStatus: domain.OrderStatusShipped},
		repository.UpdateOptions{Upsert: s.upsert.OrderStatus},
	)
	if err != nil {
		return nil, storeError(err)
	}
	if changed(result) {
		s.events.publish(ctx, events.EventOrderShipped, id, actor.Email, events.OrderShippedPayload{
			Customer: s.customerOf(ctx, id),
			Status:   domain.OrderStatusShipped,
		})
	}
	return result, nil
}

// DeleteOrder removes an order by id.
func (s *OrderService) DeleteOrder(ctx context.Context, id string) (*repository.DeleteResult, error) {
	result, err := s.orders.DeleteOne(ctx, repository.ByID(id))
	if err != nil {
		return nil, storeError(err)
	}
	return result, nil
}

// customerOf returns the email an order was placed for, or "" when unknown.
func (s *OrderService) customerOf(ctx context.Context, id string) string {
	order, err := s.orders.FindOne(ctx, repository.ByID(id))
	if err != nil {
		return ""
	}
	user, _ := order[domain.FieldUser].(string)
	return user
}
