package orders

import "time"

// CartItem is the untrusted client submission. Only the product reference and
// quantity are read; any price the client sends has nowhere to land.
type CartItem struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

// OrderItem is the trusted snapshot taken from the catalog at creation time.
// It is never recomputed, even if the product price changes later.
type OrderItem struct {
	ProductID      string `json:"product_id"`
	Quantity       int64  `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price"`
	Name           string `json:"name"`
	Image          string `json:"image"`
}

type Order struct {
	ID               string      `json:"id"`
	UserID           string      `json:"user_id"`
	Items            []OrderItem `json:"items"`
	SubtotalCents    int64       `json:"subtotal"`
	TaxCents         int64       `json:"tax"`
	ShippingFeeCents int64       `json:"shipping_fee"`
	TotalCents       int64       `json:"total"`
	ClientSecret     string      `json:"client_secret,omitempty"`
	PaymentIntentID  string      `json:"payment_intent_id,omitempty"`
	Status           Status      `json:"status"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}
