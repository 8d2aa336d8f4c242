package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var keysCmd = &cobra.Command{
	Use:   "keys [PREFIX]",
	Short: "List keys in the store",
	Long: `List all keys in the store, optionally filtered by prefix.

Examples:
  blobkv keys
  blobkv keys config/`,
	Args: cobra.MaximumNArgs(1),
	RunE: runKeys,
}

func init() {
	rootCmd.AddCommand(keysCmd)
}

func runKeys(cmd *cobra.Command, args []string) error {
	prefix := ""
	if len(args) == 1 {
		prefix = args[0]
	}

	client, err := openClient()
	if err != nil {
		return err
	}
	defer client.Close()

	keys, err := client.Keys(context.Background(), prefix)
	if err != nil {
		return fmt.Errorf("listing keys: %w", err)
	}

	for _, key := range keys {
		fmt.Println(key)
	}
	return nil
}
