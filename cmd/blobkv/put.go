package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var putCmd = &cobra.Command{
	Use:   "put [KEY] [FILE]",
	Short: "Store a value at a key",
	Long: `Store a value at a key, reading it from FILE or from stdin.

Examples:
  echo -n "hello" | blobkv put greeting
  blobkv put config/app.json app.json`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runPut,
}

func init() {
	rootCmd.AddCommand(putCmd)
}

func runPut(cmd *cobra.Command, args []string) error {
	key := args[0]

	source := os.Stdin
	if len(args) == 2 {
		f, err := os.Open(args[1])
		if err != nil {
			return fmt.Errorf("opening %q: %w", args[1], err)
		}
		defer f.Close()
		source = f
	}

	client, err := openClient()
	if err != nil {
		return err
	}
	defer client.Close()

	id, err := client.PutStream(context.Background(), key, source)
	if err != nil {
		return fmt.Errorf("writing %q: %w", key, err)
	}

	fmt.Println(id)
	return nil
}
