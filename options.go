package blobkv

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/blobkv/blobkv/codec/zstdcodec"
	"github.com/blobkv/blobkv/stats"
	"github.com/blobkv/blobkv/store"
	"github.com/blobkv/blobkv/store/cachingstore"
	"github.com/blobkv/blobkv/store/diskstore"
)

// Option configures a Client.
type Option interface {
	apply(*options)
}

// options holds the client configuration.
type options struct {
	store  store.Store
	cache  store.Store
	stats  stats.Collector
	logger *zap.Logger
}

// defaultOptions returns the default configuration.
func defaultOptions() options {
	return options{
		stats:  stats.NewNoop(),
		logger: zap.NewNop(),
	}
}

// newCachingStore wires the configured cache in front of the backing store.
func (o *options) newCachingStore(cache, backing store.Store) store.Store {
	return cachingstore.New(cache, backing,
		cachingstore.WithLogger(o.logger.Named("cache")),
		cachingstore.WithStats(o.stats),
	)
}

// optionFunc wraps a function to implement Option.
type optionFunc func(*options)

// Compile-time check that optionFunc implements Option.
var _ Option = optionFunc(nil)

func (f optionFunc) apply(o *options) { f(o) }

// WithStore sets the backing store to use.
func WithStore(s store.Store) Option {
	return optionFunc(func(o *options) {
		o.store = s
	})
}

// WithCache sets a cache store to read through. Reads consult it first and
// fall back to the backing store; writes invalidate it.
// If not set, all operations go directly to the backing store.
func WithCache(s store.Store) Option {
	return optionFunc(func(o *options) {
		o.cache = s
	})
}

// WithStats sets the stats collector.
// If not set, a no-op collector is used.
func WithStats(c stats.Collector) Option {
	return optionFunc(func(o *options) {
		o.stats = c
	})
}

// WithLogger sets the logger.
// If not set, a no-op logger is used.
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(o *options) {
		o.logger = l
	})
}

// WithDataDir configures a disk-backed store rooted at dir with zstd
// compression. This is the recommended way to create a client for local data.
func WithDataDir(dir string) (Option, error) {
	st, err := diskstore.New(dir, zstdcodec.New())
	if err != nil {
		return nil, fmt.Errorf("creating store: %w", err)
	}
	return optionFunc(func(o *options) {
		o.store = st
	}), nil
}
