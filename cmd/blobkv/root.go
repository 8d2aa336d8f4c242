package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/blobkv/blobkv"
	"github.com/blobkv/blobkv/codec/zstdcodec"
	"github.com/blobkv/blobkv/store/diskstore"
	"github.com/blobkv/blobkv/store/lrustore"
)

var (
	// Global flags.
	dataDir   string
	cacheSize int
	verbose   bool
)

var rootCmd = &cobra.Command{
	Use:   "blobkv",
	Short: "Manage and query a disk-backed key-value store",
	Long: `blobkv is a CLI tool for a disk-backed key-value store with
zstd compression and an in-memory read cache.

Examples:
  # Store a value from stdin
  echo -n "hello" | blobkv put greeting

  # Read it back
  blobkv get greeting

  # Copy, list and delete
  blobkv copy greeting greeting-backup
  blobkv keys
  blobkv delete greeting`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&dataDir, "data-dir", "d", "./data", "directory holding the store's values")
	rootCmd.PersistentFlags().IntVar(&cacheSize, "cache-size", 100, "number of values to cache in memory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
}

// openClient wires a disk store behind an LRU cache and returns the client.
// The caller must Close it.
func openClient() (*blobkv.Client, error) {
	if _, err := os.Stat(dataDir); os.IsNotExist(err) {
		if err := os.MkdirAll(dataDir, 0o755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}

	backing, err := diskstore.New(dataDir, zstdcodec.New())
	if err != nil {
		return nil, fmt.Errorf("opening data directory: %w", err)
	}

	cache, err := lrustore.New(cacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating cache: %w", err)
	}

	opts := []blobkv.Option{
		blobkv.WithStore(backing),
		blobkv.WithCache(cache),
	}
	if verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			return nil, fmt.Errorf("creating logger: %w", err)
		}
		opts = append(opts, blobkv.WithLogger(logger))
	}

	client, err := blobkv.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("creating client: %w", err)
	}
	return client, nil
}
