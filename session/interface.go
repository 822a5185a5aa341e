package session

import "context"

// Store defines the key-value operations the session manager needs.
// Values are opaque JSON documents.
type Store interface {
	// Get retrieves the value stored under key.
	// Returns nil if the key is not found (not an error).
	Get(ctx context.Context, key string) ([]byte, error)

	// Set overwrites the value stored under key.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes the given keys. Missing keys are ignored.
	Delete(ctx context.Context, keys ...string) error

	// Close closes the store and releases any resources.
	Close() error
}
