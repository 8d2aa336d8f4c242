// Package cachingstore provides a write-through caching wrapper that composes
// two Store implementations into one.
//
// Reads consult the cache first and fall back to the backing store on a miss,
// repopulating the cache on the way out. Writes, deletes and copies go to the
// backing store first and then invalidate the affected key in the cache. The
// backing store is authoritative: its errors are never suppressed, and the
// cache holds a disposable shadow of a subset of its keys.
//
// The wrapper keeps no state beyond its two store references, so it takes no
// locks of its own. Concurrent reads of the same missing key may both fall
// through and repopulate the cache; the overwrite is idempotent and benign. A
// lagging read may also repopulate a key that a concurrent write just
// invalidated. This race is accepted; eviction within the cache backend is
// that backend's business.
package cachingstore

import (
	"context"
	"errors"
	"io"

	"go.uber.org/zap"

	"github.com/blobkv/blobkv/stats"
	"github.com/blobkv/blobkv/store"
)

// Compile-time check that Store implements store.Store.
var _ store.Store = (*Store)(nil)

// Store composes a cache store and an authoritative backing store.
type Store struct {
	cache   store.Store
	backing store.Store
	stats   stats.Collector
	logger  *zap.Logger
}

// New creates a caching store reading through cache into backing.
// Both stores are borrowed; the caller manages their lifetimes and Close on
// the returned store closes neither.
func New(cache, backing store.Store, opts ...Option) *Store {
	s := &Store{
		cache:   cache,
		backing: backing,
		stats:   stats.NewNoop(),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger. If not set, a no-op logger is used.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		s.logger = l
	}
}

// WithStats sets the stats collector. If not set, a no-op collector is used.
func WithStats(c stats.Collector) Option {
	return func(s *Store) {
		s.stats = c
	}
}

// Get returns the value for key, consulting the cache first.
//
// On a cache miss the value is fetched from the backing store, stored in the
// cache and returned; a failure while repopulating the cache propagates. On
// any other cache error the cache is ignored and the backing store serves the
// read directly.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := s.cache.Get(ctx, key)
	if err == nil {
		s.stats.IncCounter(stats.MetricCacheHits, 1)
		return value, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		// Cache backend failure on a side-effect-free read: bypass the
		// cache entirely.
		s.stats.IncCounter(stats.MetricCacheBypasses, 1)
		s.logger.Debug("cache bypassed", zap.String("key", key), zap.Error(err))
		return s.backing.Get(ctx, key)
	}

	s.stats.IncCounter(stats.MetricCacheMisses, 1)
	value, err = s.backing.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if _, err := s.cache.Put(ctx, key, value); err != nil {
		return nil, err
	}
	return value, nil
}

// GetStream writes the value for key into w, consulting the cache first.
//
// On a cache miss the value is streamed from the backing store into the cache
// and then served from the cache. Any other cache error propagates without a
// fallback: w may already hold partial bytes, and replaying the value from
// the backing store would corrupt or duplicate its contents.
func (s *Store) GetStream(ctx context.Context, key string, w io.Writer) error {
	err := s.cache.GetStream(ctx, key, w)
	if err == nil {
		s.stats.IncCounter(stats.MetricCacheHits, 1)
		return nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	s.stats.IncCounter(stats.MetricCacheMisses, 1)
	src, err := s.backing.OpenStream(ctx, key)
	if err != nil {
		return err
	}
	defer src.Close()

	if _, err := s.cache.PutStream(ctx, key, src); err != nil {
		return err
	}
	return s.cache.GetStream(ctx, key, w)
}

// OpenStream returns a reader for the value at key, consulting the cache
// first.
//
// On a cache miss the value is streamed from the backing store into the cache
// and a fresh handle is opened on the cache. On any other cache error the
// cache is ignored and a handle on the backing store is returned directly;
// unlike GetStream this is safe because no bytes have reached the caller yet.
func (s *Store) OpenStream(ctx context.Context, key string) (io.ReadCloser, error) {
	rc, err := s.cache.OpenStream(ctx, key)
	if err == nil {
		s.stats.IncCounter(stats.MetricCacheHits, 1)
		return rc, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		s.stats.IncCounter(stats.MetricCacheBypasses, 1)
		s.logger.Debug("cache bypassed", zap.String("key", key), zap.Error(err))
		return s.backing.OpenStream(ctx, key)
	}

	s.stats.IncCounter(stats.MetricCacheMisses, 1)
	src, err := s.backing.OpenStream(ctx, key)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	if _, err := s.cache.PutStream(ctx, key, src); err != nil {
		return nil, err
	}
	return s.cache.OpenStream(ctx, key)
}

// Put stores value at key in the backing store and invalidates the cache
// entry for key. The invalidation runs whether or not the write succeeded; an
// invalidation failure takes precedence over the write's result.
func (s *Store) Put(ctx context.Context, key string, value []byte) (string, error) {
	id, err := s.backing.Put(ctx, key, value)
	if ierr := s.invalidate(ctx, key); ierr != nil {
		return "", ierr
	}
	if err != nil {
		return "", err
	}
	return id, nil
}

// PutStream stores the bytes read from r at key in the backing store and
// invalidates the cache entry for key, with the same guarantees as Put.
func (s *Store) PutStream(ctx context.Context, key string, r io.Reader) (string, error) {
	id, err := s.backing.PutStream(ctx, key, r)
	if ierr := s.invalidate(ctx, key); ierr != nil {
		return "", ierr
	}
	if err != nil {
		return "", err
	}
	return id, nil
}

// Delete removes key from the backing store and from the cache. Both deletes
// are always attempted; if both fail, the backing store's error is returned.
func (s *Store) Delete(ctx context.Context, key string) error {
	err := s.backing.Delete(ctx, key)
	ierr := s.invalidate(ctx, key)
	if err != nil {
		return err
	}
	return ierr
}

// Copy duplicates src to dst within the backing store and invalidates the
// cache entry for dst, with the same guarantees as Put. The cache entry for
// src is left alone. Returns ErrNotImplemented if the backing store does not
// support copying.
func (s *Store) Copy(ctx context.Context, src, dst string) (string, error) {
	id, err := s.backing.Copy(ctx, src, dst)
	if ierr := s.invalidate(ctx, dst); ierr != nil {
		return "", ierr
	}
	if err != nil {
		return "", err
	}
	return id, nil
}

// Keys lists keys from the backing store; the cache holds only a partial
// shadow and is not consulted.
func (s *Store) Keys(ctx context.Context, prefix string) ([]string, error) {
	return s.backing.Keys(ctx, prefix)
}

// Close is a no-op: both stores are borrowed and remain open.
func (s *Store) Close() error {
	return nil
}

func (s *Store) invalidate(ctx context.Context, key string) error {
	if err := s.cache.Delete(ctx, key); err != nil {
		s.logger.Warn("cache invalidation failed", zap.String("key", key), zap.Error(err))
		return err
	}
	s.stats.IncCounter(stats.MetricCacheInvalidations, 1)
	return nil
}
