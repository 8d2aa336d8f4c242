package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete [KEY]",
	Short: "Remove the value stored at a key",
	Long: `Remove the value stored at a key.

Deleting an absent key is not an error.`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	key := args[0]

	client, err := openClient()
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.Delete(context.Background(), key); err != nil {
		return fmt.Errorf("deleting %q: %w", key, err)
	}
	return nil
}
