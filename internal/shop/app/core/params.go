package core

import "time"

const (
	// WaitTime bounds a single request's work, in seconds.
	WaitTime = 10

	// MaxItemQuantity guards against fat-finger and overflow abuse.
	MaxItemQuantity = 1000

	MinPasswordLen = 6

	// DefaultPaymentMethod is the only supported payment method.
	DefaultPaymentMethod = "COD"

	// CatalogCacheTTL bounds staleness of the public catalog reads.
	CatalogCacheTTL = 60 * time.Second
)

// ShopParams are the CLI-tunable knobs of the API service.
type ShopParams struct {
	Port int
}
