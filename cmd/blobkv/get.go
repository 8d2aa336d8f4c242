package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/blobkv/blobkv/store"
)

var getCmd = &cobra.Command{
	Use:   "get [KEY]",
	Short: "Read the value stored at a key",
	Long: `Read the value stored at a key and write it to stdout.

Examples:
  blobkv get greeting
  blobkv get config/app.json > app.json`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

var showTiming bool

func init() {
	getCmd.Flags().BoolVar(&showTiming, "timing", false, "show read timing on stderr")
	rootCmd.AddCommand(getCmd)
}

func runGet(cmd *cobra.Command, args []string) error {
	key := args[0]

	client, err := openClient()
	if err != nil {
		return err
	}
	defer client.Close()

	ctx := context.Background()
	start := time.Now()
	err = client.GetStream(ctx, key, os.Stdout)
	elapsed := time.Since(start)

	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("key %q not found", key)
	}
	if err != nil {
		return fmt.Errorf("reading %q: %w", key, err)
	}

	if showTiming {
		fmt.Fprintf(os.Stderr, "read in %v\n", elapsed)
	}
	return nil
}
