// Package memoryblobkvfx provides an fx module for an in-memory blobkv client.
// Useful for testing.
package memoryblobkvfx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/blobkv/blobkv"
	"github.com/blobkv/blobkv/stats"
	"github.com/blobkv/blobkv/stats/logger"
	"github.com/blobkv/blobkv/store/memstore"
)

// Module provides an in-memory blobkv client for testing.
// Requires a *zap.Logger to be provided.
var Module = fx.Module("memoryblobkv",
	fx.Provide(
		newStatsCollector,
		newMemStore,
		newClient,
	),
)

func newStatsCollector(log *zap.Logger) stats.Collector {
	return logger.New(log.Named("blobkv.stats"))
}

func newMemStore() *memstore.Store {
	return memstore.New()
}

// Params holds dependencies for creating the client.
type Params struct {
	fx.In

	Logger    *zap.Logger
	Collector stats.Collector
	Store     *memstore.Store
	Lifecycle fx.Lifecycle
}

// Result holds the provided client and store.
type Result struct {
	fx.Out

	Client *blobkv.Client
	Store  *memstore.Store // Exposed for test setup
}

func newClient(p Params) (Result, error) {
	client, err := blobkv.New(
		blobkv.WithStore(p.Store),
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

	return Result{
		Client: client,
		Store:  p.Store,
	}, nil
}
