package domain

// CollectionOrders holds customer orders.
const CollectionOrders = "orders"

// OrderStatusShipped marks an order an admin has dispatched.
const OrderStatusShipped = "shipped"

// Order document fields written by the service.
const (
	FieldUser          = "user"
	FieldItems         = "items"
	FieldPaid          = "paid"
	FieldTransactionID = "transactionId"
	FieldStatus        = "status"
)
