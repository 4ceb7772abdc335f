package events

import "time"

// EventType names a storefront event.
type EventType string

const (
	EventOrderPlaced  EventType = "order_placed"
	EventOrderPaid    EventType = "order_paid"
	EventOrderShipped EventType = "order_shipped"
	EventUserPromoted EventType = "user_promoted"
)

// Event is published after a write to the document store succeeded. Subject is
// the order id or user email the event is about; Actor is the verified caller.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Subject   string    `json:"subject"`
	Actor     string    `json:"actor,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload,omitempty"`
}

// OrderPlacedPayload describes a new order.
type OrderPlacedPayload struct {
	Customer string `json:"customer,omitempty"`
	Items    int    `json:"items"`
}

// OrderPaidPayload describes a recorded payment.
type OrderPaidPayload struct {
	Customer      string `json:"customer,omitempty"`
	TransactionID string `json:"transactionId"`
}

// OrderShippedPayload describes a dispatched order.
type OrderShippedPayload struct {
	Customer string `json:"customer,omitempty"`
	Status   string `json:"status"`
}

// UserPromotedPayload describes a role change.
type UserPromotedPayload struct {
	Role string `json:"role"`
}
