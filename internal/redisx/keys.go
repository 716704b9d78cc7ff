package redisx

import "time"

const (
	// Namespace for blob.Store keys: storefront:blob:{key}
	KeyPrefix = "storefront:blob:"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"

	// Units sold per product: hash sold:units {product_id} -> qty
	KeySoldUnits = "sold:units"

	// Orders recorded by the receipt ledger
	KeyOrdersTotal = "sold:orders"
)

var (
	TTLDedup = 48 * time.Hour
)
