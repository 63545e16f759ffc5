package redisx

import "time"

const (
	// Session token -> identity JSON: session:{token}
	KeySession = "session:%s"

	// Product cache: product:{product_id} -> product JSON
	KeyProduct = "product:%s"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLSession      = 24 * time.Hour
	TTLProductCache = 5 * time.Minute
	TTLDedup        = 48 * time.Hour
)
