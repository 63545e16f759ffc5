package orders

import (
	"encoding/json"
	"time"
)

const (
	EventOrderCreated = "OrderCreated"
	EventOrderPaid    = "OrderPaid"
)

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // order id
	Payload       json.RawMessage `json:"payload"`
}

type OrderCreatedPayload struct {
	OrderID       string      `json:"order_id"`
	UserID        string      `json:"user_id"`
	Items         []OrderItem `json:"items"`
	SubtotalCents int64       `json:"subtotal_cents"`
	TotalCents    int64       `json:"total_cents"`
}

type OrderPaidPayload struct {
	OrderID         string    `json:"order_id"`
	UserID          string    `json:"user_id"`
	PaymentIntentID string    `json:"payment_intent_id"`
	TotalCents      int64     `json:"total_cents"`
	PaidAt          time.Time `json:"paid_at"`
}
