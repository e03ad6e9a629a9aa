package environment

import (
	"context"
)

// Source abstracts the remote environmental-data endpoint.
// Fetch returns the raw response body of a successful call; non-success
// statuses and transport failures are reported as common.ErrNetwork.
type Source interface {
	Fetch(ctx context.Context, latitude, longitude float64) ([]byte, error)
}

// KeyValueStore is the persistence contract the gateway needs.
// Get must return store.ErrNotFound when the key holds nothing.
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}
