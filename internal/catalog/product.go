package catalog

import (
	"context"
	"time"
)

type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	PriceCents  int64     `json:"price"`
	Image       string    `json:"image"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Lookup is the read side the pricing engine depends on. Implemented by Repo
// and by Cache wrapping it.
type Lookup interface {
	FindByID(ctx context.Context, id string) (Product, error)
}
