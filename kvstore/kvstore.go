package kvstore

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by Get when a key has no value
var ErrKeyNotFound = errors.New("key not found")

// Store is a durable JSON key-value map. Values are marshaled by the caller
// through the helpers below so every backend stores the same byte shape.
type Store interface {
	// Get returns the raw JSON value for a key
	Get(ctx context.Context, key string) ([]byte, error)

	// Set writes the raw JSON value for a key, replacing any existing value
	Set(ctx context.Context, key string, value []byte) error

	// GetByPrefix returns the raw JSON values of all keys with the prefix,
	// in unspecified order
	GetByPrefix(ctx context.Context, prefix string) ([][]byte, error)
}
