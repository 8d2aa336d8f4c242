// Package main provides the blobkv CLI tool for managing and querying a
// disk-backed key-value store.
package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
