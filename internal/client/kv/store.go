// Package kv provides string key-value persistence for client-side state.
// The draft store sits on top of it with a fixed slot key; the interface
// exists so a per-user-keyed or purely in-memory implementation is a
// drop-in alternative.
package kv

import "context"

// Store is a minimal fallible key-value surface. GetItem returns
// common.ErrNotFound when the key is absent; any call may fail when the
// underlying storage is unavailable.
type Store interface {
	GetItem(ctx context.Context, key string) (string, error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
}
