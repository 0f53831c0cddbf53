package store

import (
	"context"
	"errors"
)

// DocumentStore persists whole collections as single JSON documents under
// fixed keys. Every save rewrites the full document; there are no partial
// updates.
// Consumers define how documents are shaped, the store only moves bytes.
type DocumentStore interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
}

var ErrNotFound = errors.New("document not found")
