// Package ports defines the interfaces the domain consumes but does not
// implement: the key-value persistence backend and the chat-message source.
package ports

import "context"

// Store is the key-value persistence port. Collections are stored as
// JSON-serialized blobs under string keys; the domain reads, transforms, and
// writes back whole blobs per call. Callers must serialize calls against a
// given key: there is no locking and the later write wins in full.
type Store interface {
	// GetItem returns the blob stored under key, or (nil, nil) when the key
	// is absent.
	GetItem(ctx context.Context, key string) ([]byte, error)

	// SetItem stores the blob under key, replacing any previous value.
	SetItem(ctx context.Context, key string, value []byte) error

	// RemoveItem deletes the key. Removing an absent key is not an error.
	RemoveItem(ctx context.Context, key string) error
}
