package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blobkv/blobkv/store"
)

var copyCmd = &cobra.Command{
	Use:   "copy [SOURCE] [DEST]",
	Short: "Duplicate the value at one key to another",
	Args:  cobra.ExactArgs(2),
	RunE:  runCopy,
}

func init() {
	rootCmd.AddCommand(copyCmd)
}

func runCopy(cmd *cobra.Command, args []string) error {
	src, dst := args[0], args[1]

	client, err := openClient()
	if err != nil {
		return err
	}
	defer client.Close()

	id, err := client.Copy(context.Background(), src, dst)
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("key %q not found", src)
	}
	if err != nil {
		return fmt.Errorf("copying %q to %q: %w", src, dst, err)
	}

	fmt.Println(id)
	return nil
}
