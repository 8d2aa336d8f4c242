//go:build e2e

package blobkv_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/blobkv/blobkv"
	"github.com/blobkv/blobkv/codec/zstdcodec"
	"github.com/blobkv/blobkv/store"
	"github.com/blobkv/blobkv/store/diskstore"
	"github.com/blobkv/blobkv/store/lrustore"
)

func TestE2E_FullStack(t *testing.T) {
	dataDir := t.TempDir()

	backing, err := diskstore.New(dataDir, zstdcodec.New())
	if err != nil {
		t.Fatalf("Error opening disk store: %v", err)
	}

	cache, err := lrustore.New(100)
	if err != nil {
		t.Fatalf("Error creating cache: %v", err)
	}

	client, err := blobkv.New(
		blobkv.WithStore(backing),
		blobkv.WithCache(cache),
	)
	if err != nil {
		t.Fatalf("Error creating client: %v", err)
	}
	defer client.Close()

	ctx := context.Background()

	// Step 1: Write a batch of values.
	const n = 500
	t.Logf("Writing %d values...", n)
	start := time.Now()
	for i := 0; i < n; i++ {
		key := fmt.Sprintf("e2e/key-%04d", i)
		value := bytes.Repeat([]byte{byte(i)}, 256)
		if _, err := client.Put(ctx, key, value); err != nil {
			t.Fatalf("Put(%q): %v", key, err)
		}
	}
	t.Logf("   Wrote %d values in %v", n, time.Since(start))

	// Step 2: Cold reads go to disk and populate the cache.
	t.Log("Cold reads...")
	start = time.Now()
	for i := 0; i < n; i++ {
		key := fmt.Sprintf("e2e/key-%04d", i)
		got, err := client.Get(ctx, key)
		if err != nil {
			t.Fatalf("Get(%q): %v", key, err)
		}
		want := bytes.Repeat([]byte{byte(i)}, 256)
		if !bytes.Equal(got, want) {
			t.Fatalf("Get(%q) returned wrong value", key)
		}
	}
	coldTime := time.Since(start)
	t.Logf("   Cold reads in %v", coldTime)

	// Step 3: Warm reads for recent keys are served from the cache.
	t.Log("Warm reads...")
	start = time.Now()
	for i := n - 100; i < n; i++ {
		key := fmt.Sprintf("e2e/key-%04d", i)
		if _, err := client.Get(ctx, key); err != nil {
			t.Fatalf("warm Get(%q): %v", key, err)
		}
	}
	t.Logf("   Warm reads in %v", time.Since(start))

	// Step 4: Key listing sees everything.
	keys, err := client.Keys(ctx, "e2e/")
	if err != nil {
		t.Fatalf("Keys: %v", err)
	}
	if len(keys) != n {
		t.Errorf("Keys returned %d keys, want %d", len(keys), n)
	}

	// Step 5: Copy and delete round trip.
	if _, err := client.Copy(ctx, "e2e/key-0000", "e2e/copied"); err != nil {
		t.Fatalf("Copy: %v", err)
	}
	got, err := client.Get(ctx, "e2e/copied")
	if err != nil {
		t.Fatalf("Get after Copy: %v", err)
	}
	if !bytes.Equal(got, bytes.Repeat([]byte{0}, 256)) {
		t.Error("copied value does not match source")
	}

	if err := client.Delete(ctx, "e2e/copied"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := client.Get(ctx, "e2e/copied"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Get after Delete: err = %v, want ErrNotFound", err)
	}
}
