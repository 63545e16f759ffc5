package catalog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/arkade-dev/storefront-api/internal/redisx"
)

// Cache is a read-through redis cache over another Lookup. Pricing hits it on
// every cart item, so product reads dominate the workload. Misses and redis
// errors fall through to the wrapped Lookup; only "not found" from the
// wrapped Lookup is never cached.
type Cache struct {
	Next  Lookup
	Redis *redis.Client
}

func (c *Cache) FindByID(ctx context.Context, id string) (Product, error) {
	key := fmt.Sprintf(redisx.KeyProduct, id)
	if b, err := c.Redis.Get(ctx, key).Bytes(); err == nil {
		var p Product
		if err := json.Unmarshal(b, &p); err == nil {
			return p, nil
		}
	}

	p, err := c.Next.FindByID(ctx, id)
	if err != nil {
		return Product{}, err
	}
	if b, err := json.Marshal(p); err == nil {
		_ = c.Redis.Set(ctx, key, b, redisx.TTLProductCache).Err()
	}
	return p, nil
}

// Invalidate drops the cached entry. Called after product update/delete so a
// later order snapshots the fresh price.
func (c *Cache) Invalidate(ctx context.Context, id string) {
	_ = c.Redis.Del(ctx, fmt.Sprintf(redisx.KeyProduct, id)).Err()
}
