// Package lrustore implements a bounded in-memory store with LRU eviction.
// It is intended as the cache side of a caching store; entries vanish under
// capacity pressure, which a cache layer treats as an ordinary miss.
package lrustore

import (
	"bytes"
	"context"
	"io"
	"sort"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/blobkv/blobkv/store"
)

// Compile-time check that Store implements store.Store.
var _ store.Store = (*Store)(nil)

// Store is a thread-safe bounded in-memory store with LRU eviction.
type Store struct {
	cache *lru.Cache[string, []byte]
}

// New creates a new LRU store holding at most capacity entries.
func New(capacity int) (*Store, error) {
	c, err := lru.New[string, []byte](capacity)
	if err != nil {
		return nil, err
	}
	return &Store{cache: c}, nil
}

// Get returns the value stored at key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	value, ok := s.cache.Get(key)
	if !ok {
		return nil, store.ErrNotFound
	}
	return value, nil
}

// Put stores value at key, possibly evicting the least recently used entry.
func (s *Store) Put(ctx context.Context, key string, value []byte) (string, error) {
	copied := make([]byte, len(value))
	copy(copied, value)
	s.cache.Add(key, copied)
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
	s.cache.Add(key, value)
	return key, nil
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
	s.cache.Remove(key)
	return nil
}

// Copy is not supported; cached entries are recreated from the backing store
// on demand.
func (s *Store) Copy(ctx context.Context, src, dst string) (string, error) {
	return "", store.ErrNotImplemented
}

// Keys returns the currently resident keys starting with prefix, sorted.
// The set reflects eviction and is not a full key listing.
func (s *Store) Keys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	for _, k := range s.cache.Keys() {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Len returns the number of resident entries.
func (s *Store) Len() int {
	return s.cache.Len()
}

// Close is a no-op for the LRU store.
func (s *Store) Close() error {
	return nil
}
