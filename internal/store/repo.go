package store

import (
	"context"
)

// KV is a flat string key-value store. Values are opaque to the store;
// callers serialize their own records.
type KV interface {
	// Get returns the value for key. ok is false if the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error

	// Keys returns all keys with the given prefix in ascending order.
	Keys(ctx context.Context, prefix string) ([]string, error)
}
