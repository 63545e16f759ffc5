package orders

import (
	"context"

	"github.com/arkade-dev/storefront-api/internal/apperr"
	"github.com/arkade-dev/storefront-api/internal/catalog"
)

// Pricer recomputes cart pricing from the catalog. Client-submitted prices
// are never consulted.
type Pricer struct {
	Catalog catalog.Lookup
}

// PriceCart resolves every cart item against the catalog and returns the
// order-item snapshots, in submission order, plus the subtotal in cents.
// The first unresolvable product aborts the whole cart.
func (p *Pricer) PriceCart(ctx context.Context, items []CartItem) ([]OrderItem, int64, error) {
	if len(items) == 0 {
		return nil, 0, apperr.Validationf("no cart items provided")
	}

	out := make([]OrderItem, 0, len(items))
	var subtotal int64
	for _, it := range items {
		if it.Quantity < 1 {
			return nil, 0, apperr.Validationf("invalid quantity for product %s", it.ProductID)
		}
		prod, err := p.Catalog.FindByID(ctx, it.ProductID)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, OrderItem{
			ProductID:      prod.ID,
			Quantity:       it.Quantity,
			UnitPriceCents: prod.PriceCents,
			Name:           prod.Name,
			Image:          prod.Image,
		})
		subtotal += prod.PriceCents * it.Quantity
	}
	return out, subtotal, nil
}
