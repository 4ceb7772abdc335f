package dto

// OrderPaymentRequest records a completed payment on an order.
type OrderPaymentRequest struct {
	TransactionID string `json:"transactionId"`
}

// PartQuantityRequest overwrites the stock count of a part.
type PartQuantityRequest struct {
	Quantity *int64 `json:"quantity"`
}

// PaymentIntentRequest asks for an intent charging price.
type PaymentIntentRequest struct {
	Price *float64 `json:"price"`
}

// PaymentIntentResponse carries the secret the client confirms the payment with.
type PaymentIntentResponse struct {
	ClientSecret string `json:"clientSecret"`
}
