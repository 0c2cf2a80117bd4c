// Package credentials persists per-client settings such as the provider key.
package credentials

import (
	"context"
	"errors"
)

// APIKey is the fixed key the provider credential is stored under.
const APIKey = "anthropic_api_key"

var ErrNotFound = errors.New("setting not found")

// Store is a key/value surface scoped to one client.
type Store interface {
	Get(ctx context.Context, clientID, key string) (string, error)
	Put(ctx context.Context, clientID, key, value string) error
	Delete(ctx context.Context, clientID, key string) error
}

// Lookup returns the stored value or "" when none is stored.
func Lookup(ctx context.Context, store Store, clientID, key string) (string, error) {
	if store == nil {
		return "", nil
	}
	val, err := store.Get(ctx, clientID, key)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	return val, err
}

// Save writes value, deleting the entry when value is empty.
func Save(ctx context.Context, store Store, clientID, key, value string) error {
	if store == nil {
		return nil
	}
	if value == "" {
		return store.Delete(ctx, clientID, key)
	}
	return store.Put(ctx, clientID, key, value)
}
