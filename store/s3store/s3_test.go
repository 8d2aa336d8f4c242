package s3store

import (
	"testing"

	"github.com/blobkv/blobkv/codec/noopcodec"
	"github.com/blobkv/blobkv/codec/zstdcodec"
)

func TestWithPrefix(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"prefix", "prefix/"},
		{"prefix/", "prefix/"},
		{"a/b/c", "a/b/c/"},
		{"a/b/c/", "a/b/c/"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			s := &Store{}
			opt := WithPrefix(tt.input)
			if err := opt(s); err != nil {
				t.Fatalf("WithPrefix() error = %v", err)
			}
			if s.prefix != tt.want {
				t.Errorf("prefix = %q, want %q", s.prefix, tt.want)
			}
		})
	}
}

func TestStore_objectKey(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
		key    string
		want   string
	}{
		{"no prefix", "", "k", "k.zst"},
		{"with prefix", "data/v1/", "k", "data/v1/k.zst"},
		{"slashed key", "", "a/b", "a/b.zst"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Store{codec: zstdcodec.New(), prefix: tt.prefix}
			if got := s.objectKey(tt.key); got != tt.want {
				t.Errorf("objectKey(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestStore_objectKey_NoExtension(t *testing.T) {
	s := &Store{codec: noopcodec.New()}
	if got := s.objectKey("k"); got != "k" {
		t.Errorf("objectKey(k) = %q, want %q", got, "k")
	}
}

func TestStore_keyFromObject(t *testing.T) {
	s := &Store{codec: zstdcodec.New(), prefix: "data/"}

	tests := []struct {
		object string
		want   string
		ok     bool
	}{
		{"data/k.zst", "k", true},
		{"data/a/b.zst", "a/b", true},
		{"other/k.zst", "", false}, // foreign prefix
		{"data/k.gz", "", false},   // foreign extension
	}

	for _, tt := range tests {
		got, ok := s.keyFromObject(tt.object)
		if got != tt.want || ok != tt.ok {
			t.Errorf("keyFromObject(%q) = (%q, %v), want (%q, %v)", tt.object, got, ok, tt.want, tt.ok)
		}
	}
}

func TestStore_Close(t *testing.T) {
	s := &Store{}
	if err := s.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}
