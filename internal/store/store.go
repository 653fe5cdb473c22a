package store

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned by Get when the key does not exist.
var ErrNotFound = errors.New("object not found")

// ObjectStore is the contract the pipeline needs from a blob service.
// All mutation is additive put/copy followed by batched delete; callers
// never overwrite a differently-keyed object in place.
type ObjectStore interface {
	// List returns all keys under the given prefix.
	List(ctx context.Context, prefix string) ([]string, error)

	// Get retrieves an object. Returns ErrNotFound (possibly wrapped) if
	// the key does not exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put stores an object, overwriting any existing object at the key.
	Put(ctx context.Context, key string, data []byte) error

	// Copy duplicates srcKey to dstKey without transferring through the client.
	Copy(ctx context.Context, srcKey, dstKey string) error

	// DeleteMany removes the given keys in a single batch.
	DeleteMany(ctx context.Context, keys []string) error
}

// StoreError represents a failed object-store operation.
type StoreError struct {
	Op  string
	Key string
	Err error
}

func (e *StoreError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("store: %s failed: %s", e.Op, e.Err)
	}
	return fmt.Sprintf("store: %s %s failed: %s", e.Op, e.Key, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
