package memstore

import (
	"bytes"
	"context"
	"errors"
	"io"
	"reflect"
	"strings"
	"testing"

	"github.com/blobkv/blobkv/store"
)

func TestStore_PutGet(t *testing.T) {
	s := New()
	ctx := context.Background()

	id, err := s.Put(ctx, "k", []byte("value"))
	if err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if id != "k" {
		t.Errorf("Put() = %q, want %q", id, "k")
	}

	got, err := s.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(got) != "value" {
		t.Errorf("Get() = %q, want %q", got, "value")
	}
}

func TestStore_Get_NotFound(t *testing.T) {
	s := New()

	_, err := s.Get(context.Background(), "absent")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestStore_Get_CopiesValue(t *testing.T) {
	s := New()
	ctx := context.Background()

	original := []byte("value")
	s.Put(ctx, "k", original)
	original[0] = 'X' // Caller mutation must not leak into the store.

	got, _ := s.Get(ctx, "k")
	if string(got) != "value" {
		t.Errorf("Get() = %q, want %q", got, "value")
	}

	got[0] = 'Y'
	again, _ := s.Get(ctx, "k")
	if string(again) != "value" {
		t.Errorf("Get() after mutation = %q, want %q", again, "value")
	}
}

func TestStore_Delete_Idempotent(t *testing.T) {
	s := New()
	ctx := context.Background()

	s.Put(ctx, "k", []byte("value"))
	if err := s.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	// Deleting again must not fail.
	if err := s.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete() second call error = %v", err)
	}

	if _, err := s.Get(ctx, "k"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Get() after delete error = %v, want ErrNotFound", err)
	}
}

func TestStore_Copy(t *testing.T) {
	s := New()
	ctx := context.Background()

	s.Put(ctx, "src", []byte("value"))

	id, err := s.Copy(ctx, "src", "dst")
	if err != nil {
		t.Fatalf("Copy() error = %v", err)
	}
	if id != "dst" {
		t.Errorf("Copy() = %q, want %q", id, "dst")
	}

	got, err := s.Get(ctx, "dst")
	if err != nil {
		t.Fatalf("Get(dst) error = %v", err)
	}
	if string(got) != "value" {
		t.Errorf("Get(dst) = %q, want %q", got, "value")
	}

	if _, err := s.Copy(ctx, "absent", "dst"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Copy(absent) error = %v, want ErrNotFound", err)
	}
}

func TestStore_Streams(t *testing.T) {
	s := New()
	ctx := context.Background()

	if _, err := s.PutStream(ctx, "k", strings.NewReader("streamed")); err != nil {
		t.Fatalf("PutStream() error = %v", err)
	}

	var sink bytes.Buffer
	if err := s.GetStream(ctx, "k", &sink); err != nil {
		t.Fatalf("GetStream() error = %v", err)
	}
	if sink.String() != "streamed" {
		t.Errorf("GetStream() wrote %q, want %q", sink.String(), "streamed")
	}

	rc, err := s.OpenStream(ctx, "k")
	if err != nil {
		t.Fatalf("OpenStream() error = %v", err)
	}
	defer rc.Close()
	got, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if string(got) != "streamed" {
		t.Errorf("OpenStream() read %q, want %q", got, "streamed")
	}
}

func TestStore_Keys(t *testing.T) {
	s := New()
	ctx := context.Background()

	s.Put(ctx, "a/1", []byte("1"))
	s.Put(ctx, "a/2", []byte("2"))
	s.Put(ctx, "b/1", []byte("3"))

	keys, err := s.Keys(ctx, "a/")
	if err != nil {
		t.Fatalf("Keys() error = %v", err)
	}
	want := []string{"a/1", "a/2"}
	if !reflect.DeepEqual(keys, want) {
		t.Errorf("Keys() = %v, want %v", keys, want)
	}

	all, err := s.Keys(ctx, "")
	if err != nil {
		t.Fatalf("Keys() error = %v", err)
	}
	if len(all) != 3 {
		t.Errorf("Keys(\"\") returned %d keys, want 3", len(all))
	}
}
