// Package store defines the storage contract shared by all key-value backends.
package store

import (
	"context"
	"errors"
	"io"
)

// Sentinel errors for well-defined backend conditions.
var (
	// ErrNotFound is returned when a key does not exist in the store.
	ErrNotFound = errors.New("store: key not found")

	// ErrNotImplemented is returned when a store does not support an
	// optional operation such as Copy.
	ErrNotImplemented = errors.New("store: operation not implemented")
)

// Store defines the interface for key-value storage backends.
// Keys are opaque strings; values are opaque byte sequences.
// Implementations handle key layout and storage details internally.
//
// Any error that is not ErrNotFound or ErrNotImplemented (matched with
// errors.Is) is treated as a backend failure by callers.
type Store interface {
	// Get returns the value stored at key.
	// Returns ErrNotFound if the key does not exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put stores value at key, overwriting any existing value.
	// It returns a store-defined identifier, usually the key itself.
	Put(ctx context.Context, key string, value []byte) (string, error)

	// GetStream writes the value stored at key into w.
	// Returns ErrNotFound if the key does not exist. Bytes may have been
	// written to w before an error is reported.
	GetStream(ctx context.Context, key string, w io.Writer) error

	// PutStream stores the bytes read from r at key.
	// It returns a store-defined identifier, usually the key itself.
	PutStream(ctx context.Context, key string, r io.Reader) (string, error)

	// OpenStream returns a reader for the value stored at key.
	// The caller must close the returned reader.
	// Returns ErrNotFound if the key does not exist.
	OpenStream(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes key from the store.
	// Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Copy duplicates the value at src to dst within the store.
	// It returns a store-defined identifier for dst.
	// Returns ErrNotFound if src does not exist and ErrNotImplemented if
	// the store does not support copying.
	Copy(ctx context.Context, src, dst string) (string, error)

	// Keys returns all keys starting with prefix. An empty prefix matches
	// every key. Order is store-defined.
	Keys(ctx context.Context, prefix string) ([]string, error)

	// Close releases any resources held by the store.
	Close() error
}
