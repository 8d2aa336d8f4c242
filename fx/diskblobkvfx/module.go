// Package diskblobkvfx provides an fx module for a disk-backed blobkv client
// with an in-memory LRU cache.
package diskblobkvfx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/blobkv/blobkv"
	"github.com/blobkv/blobkv/codec/zstdcodec"
	"github.com/blobkv/blobkv/stats"
	"github.com/blobkv/blobkv/stats/logger"
	"github.com/blobkv/blobkv/store/diskstore"
	"github.com/blobkv/blobkv/store/lrustore"
)

// Config holds configuration for the disk-backed blobkv client.
type Config struct {
	// DataDir is the directory holding the store's values.
	DataDir string

	// CacheSize is the number of values to cache in memory.
	// Default is 100.
	CacheSize int
}

// Module provides a disk-backed blobkv client.
// Requires a *zap.Logger to be provided.
var Module = fx.Module("diskblobkv",
	fx.Provide(
		newStatsCollector,
		newClient,
	),
)

func newStatsCollector(log *zap.Logger) stats.Collector {
	return logger.New(log.Named("blobkv.stats"))
}

// Params holds dependencies for creating the client.
type Params struct {
	fx.In

	Config    Config
	Logger    *zap.Logger
	Collector stats.Collector
	Lifecycle fx.Lifecycle
}

// Result holds the provided client.
type Result struct {
	fx.Out

	Client *blobkv.Client
}

func newClient(p Params) (Result, error) {
	cacheSize := p.Config.CacheSize
	if cacheSize <= 0 {
		cacheSize = 100
	}

	backing, err := diskstore.New(p.Config.DataDir, zstdcodec.New())
	if err != nil {
		return Result{}, err
	}

	cache, err := lrustore.New(cacheSize)
	if err != nil {
		return Result{}, err
	}

	client, err := blobkv.New(
		blobkv.WithStore(backing),
		blobkv.WithCache(cache),
		blobkv.WithStats(p.Collector),
		blobkv.WithLogger(p.Logger.Named("blobkv")),
	)
	if err != nil {
		return Result{}, err
	}

	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})

	return Result{Client: client}, nil
}
