// Package storage holds backup snapshots in an S3-compatible object store.
package storage

import "context"

// ObjectStore is the payload store for backup snapshots. Metadata stays in
// the database; the store only sees opaque bytes under a key.
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}
