package store

import "context"

// Store is durable key-value storage for client state. It stands in for the
// browser's per-profile storage: values live until removed or until the
// backing file/database is wiped, with no TTL.
type Store interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set overwrites the value for key.
	Set(ctx context.Context, key, value string) error
	// Remove deletes key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error

	Close() error
}
