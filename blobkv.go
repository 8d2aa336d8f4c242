// Package blobkv composes pluggable key-value storage backends behind a
// single client, optionally reading through a write-through cache.
//
// Example usage:
//
//	backing, err := diskstore.New("/path/to/data", zstdcodec.New())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	cache, err := lrustore.New(1024)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	client, err := blobkv.New(
//	    blobkv.WithStore(backing),
//	    blobkv.WithCache(cache),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	value, err := client.Get(ctx, "some-key")
package blobkv

import (
	"context"
	"errors"
	"io"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/blobkv/blobkv/stats"
	"github.com/blobkv/blobkv/store"
)

// Sentinel errors for well-defined error conditions.
var (
	// ErrClosed indicates the client has been closed.
	ErrClosed = errors.New("blobkv: client closed")

	// ErrNoStore indicates no backing store was provided.
	ErrNoStore = errors.New("blobkv: no store provided")
)

// Client provides access to a key-value store, optionally through a cache.
// A Client is safe for concurrent use by multiple goroutines to the extent
// its backends are; it adds no locking of its own.
type Client struct {
	store   store.Store
	backing store.Store
	cache   store.Store
	stats   stats.Collector
	logger  *zap.Logger
	closed  atomic.Bool
}

// New creates a new Client with the given options.
// A backing store is required; everything else has defaults.
func New(opts ...Option) (*Client, error) {
	cfg := defaultOptions()
	for _, opt := range opts {
		opt.apply(&cfg)
	}

	if cfg.store == nil {
		return nil, ErrNoStore
	}

	c := &Client{
		store:   cfg.store,
		backing: cfg.store,
		cache:   cfg.cache,
		stats:   cfg.stats,
		logger:  cfg.logger,
	}

	if cfg.cache != nil {
		c.store = cfg.newCachingStore(cfg.cache, cfg.store)
	}

	c.logger.Debug("client initialized",
		zap.Bool("cached", cfg.cache != nil),
	)

	return c, nil
}

// Get returns the value stored at key.
// Returns store.ErrNotFound if the key does not exist.
func (c *Client) Get(ctx context.Context, key string) ([]byte, error) {
	if c.closed.Load() {
		return nil, ErrClosed
	}
	c.stats.IncCounter(stats.MetricGets, 1)
	return c.store.Get(ctx, key)
}

// Put stores value at key and returns the store-defined identifier.
func (c *Client) Put(ctx context.Context, key string, value []byte) (string, error) {
	if c.closed.Load() {
		return "", ErrClosed
	}
	c.stats.IncCounter(stats.MetricPuts, 1)
	return c.store.Put(ctx, key, value)
}

// GetStream writes the value stored at key into w.
func (c *Client) GetStream(ctx context.Context, key string, w io.Writer) error {
	if c.closed.Load() {
		return ErrClosed
	}
	c.stats.IncCounter(stats.MetricGets, 1)
	return c.store.GetStream(ctx, key, w)
}

// PutStream stores the bytes read from r at key.
func (c *Client) PutStream(ctx context.Context, key string, r io.Reader) (string, error) {
	if c.closed.Load() {
		return "", ErrClosed
	}
	c.stats.IncCounter(stats.MetricPuts, 1)
	return c.store.PutStream(ctx, key, r)
}

// OpenStream returns a reader for the value stored at key.
// The caller must close the returned reader.
func (c *Client) OpenStream(ctx context.Context, key string) (io.ReadCloser, error) {
	if c.closed.Load() {
		return nil, ErrClosed
	}
	c.stats.IncCounter(stats.MetricGets, 1)
	return c.store.OpenStream(ctx, key)
}

// Delete removes key. Deleting an absent key is not an error.
func (c *Client) Delete(ctx context.Context, key string) error {
	if c.closed.Load() {
		return ErrClosed
	}
	c.stats.IncCounter(stats.MetricDeletes, 1)
	return c.store.Delete(ctx, key)
}

// Copy duplicates the value at src to dst.
// Returns store.ErrNotImplemented if the backing store cannot copy.
func (c *Client) Copy(ctx context.Context, src, dst string) (string, error) {
	if c.closed.Load() {
		return "", ErrClosed
	}
	c.stats.IncCounter(stats.MetricCopies, 1)
	return c.store.Copy(ctx, src, dst)
}

// Keys returns all keys starting with prefix.
func (c *Client) Keys(ctx context.Context, prefix string) ([]string, error) {
	if c.closed.Load() {
		return nil, ErrClosed
	}
	return c.store.Keys(ctx, prefix)
}

// Close releases the backing store and, if one was configured, the cache.
// After Close, the client should not be used.
func (c *Client) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}

	c.logger.Debug("client closing")

	err := c.backing.Close()
	if c.cache != nil {
		if cerr := c.cache.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
