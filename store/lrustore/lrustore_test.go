package lrustore

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/blobkv/blobkv/store"
)

func TestStore_PutGet(t *testing.T) {
	s, err := New(10)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ctx := context.Background()

	if _, err := s.Put(ctx, "k", []byte("value")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, err := s.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(got) != "value" {
		t.Errorf("Get() = %q, want %q", got, "value")
	}
}

func TestStore_Eviction(t *testing.T) {
	s, err := New(2)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		s.Put(ctx, fmt.Sprintf("k%d", i), []byte("v"))
	}

	if s.Len() != 2 {
		t.Errorf("Len() = %d, want 2", s.Len())
	}
	// Oldest entry is evicted and reads as a miss.
	if _, err := s.Get(ctx, "k0"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Get(k0) error = %v, want ErrNotFound", err)
	}
}

func TestStore_Copy_NotImplemented(t *testing.T) {
	s, _ := New(10)

	_, err := s.Copy(context.Background(), "a", "b")
	if !errors.Is(err, store.ErrNotImplemented) {
		t.Errorf("Copy() error = %v, want ErrNotImplemented", err)
	}
}

func TestStore_Delete_Idempotent(t *testing.T) {
	s, _ := New(10)
	ctx := context.Background()

	s.Put(ctx, "k", []byte("v"))
	if err := s.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := s.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete() second call error = %v", err)
	}
}

func TestStore_Keys(t *testing.T) {
	s, _ := New(10)
	ctx := context.Background()

	s.Put(ctx, "a/1", []byte("v"))
	s.Put(ctx, "b/1", []byte("v"))

	keys, err := s.Keys(ctx, "a/")
	if err != nil {
		t.Fatalf("Keys() error = %v", err)
	}
	if len(keys) != 1 || keys[0] != "a/1" {
		t.Errorf("Keys() = %v, want [a/1]", keys)
	}
}
