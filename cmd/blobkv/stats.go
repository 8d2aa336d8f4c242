package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show statistics about the store",
	Long: `Display statistics about the store including:
- Number of stored values
- Total size on disk`,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	valuesDir := filepath.Join(dataDir, "values")

	// Check if the values directory exists.
	if _, err := os.Stat(valuesDir); os.IsNotExist(err) {
		return fmt.Errorf("data directory %q does not exist; run 'blobkv put' first", dataDir)
	}

	entries, err := os.ReadDir(valuesDir)
	if err != nil {
		return fmt.Errorf("reading values directory: %w", err)
	}

	var count int
	var totalSize int64
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		count++
		info, err := entry.Info()
		if err != nil {
			continue
		}
		totalSize += info.Size()
	}

	if count == 0 {
		fmt.Println("No values stored.")
		return nil
	}

	fmt.Printf("Values:     %d\n", count)
	fmt.Printf("Total size: %s\n", formatBytes(totalSize))
	return nil
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
