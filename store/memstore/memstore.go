// Package memstore provides an in-memory store implementation.
// It is primarily useful for testing and as a cache backend with no bound.
package memstore

import (
	"bytes"
	"context"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/blobkv/blobkv/store"
)

// Compile-time check that Store implements store.Store.
var _ store.Store = (*Store)(nil)

// Store is a thread-safe in-memory store.
type Store struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		values: make(map[string][]byte),
	}
}

// Get returns the value stored at key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.values[key]
	if !ok {
		return nil, store.ErrNotFound
	}
	return clone(value), nil
}

// Put stores value at key. The value is copied to prevent caller mutations
// from affecting the store.
func (s *Store) Put(ctx context.Context, key string, value []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = clone(value)
	return key, nil
}

// GetStream writes the value stored at key into w.
func (s *Store) GetStream(ctx context.Context, key string, w io.Writer) error {
	value, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	_, err = w.Write(value)
	return err
}

// PutStream stores the bytes read from r at key.
func (s *Store) PutStream(ctx context.Context, key string, r io.Reader) (string, error) {
	value, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return s.Put(ctx, key, value)
}

// OpenStream returns a reader for the value stored at key.
func (s *Store) OpenStream(ctx context.Context, key string) (io.ReadCloser, error) {
	value, err := s.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(value)), nil
}

// Delete removes key. Deleting an absent key is a no-op.
func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.values, key)
	return nil
}

// Copy duplicates the value at src to dst.
func (s *Store) Copy(ctx context.Context, src, dst string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	value, ok := s.values[src]
	if !ok {
		return "", store.ErrNotFound
	}
	s.values[dst] = clone(value)
	return dst, nil
}

// Keys returns all keys starting with prefix, sorted.
func (s *Store) Keys(ctx context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Len returns the number of stored keys.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values)
}

// Close is a no-op for the memory store.
func (s *Store) Close() error {
	return nil
}

func clone(b []byte) []byte {
	copied := make([]byte, len(b))
	copy(copied, b)
	return copied
}
