// Package diskstore implements a disk-based filesystem storage backend.
package diskstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/blobkv/blobkv/codec"
	"github.com/blobkv/blobkv/store"
)

// Compile-time check that Store implements store.Store.
var _ store.Store = (*Store)(nil)

// Store is a disk-based filesystem storage backend.
// Values live as one file per key under <root>/values, compressed by the
// configured codec. Keys are percent-escaped to form safe filenames.
type Store struct {
	root  string
	codec codec.Codec
}

// New creates a new disk store rooted at the given directory.
// The directory must exist. The codec handles compression/decompression.
func New(root string, c codec.Codec) (*Store, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat root directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}
	if err := os.MkdirAll(filepath.Join(root, "values"), 0o755); err != nil {
		return nil, fmt.Errorf("creating values directory: %w", err)
	}

	return &Store{
		root:  root,
		codec: c,
	}, nil
}

// Get reads and decompresses the value stored at key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	// Check for cancellation before starting I/O.
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	compressed, err := os.ReadFile(s.valuePath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("reading value: %w", err)
	}

	reader, err := s.codec.Reader(bytes.NewReader(compressed))
	if err != nil {
		return nil, fmt.Errorf("creating decompressor: %w", err)
	}
	defer reader.Close()

	value, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("decompressing value: %w", err)
	}

	return value, nil
}

// Put compresses and stores value at key.
// The file is written to a temp name and renamed into place, so readers never
// observe a partially written value.
func (s *Store) Put(ctx context.Context, key string, value []byte) (string, error) {
	return s.PutStream(ctx, key, bytes.NewReader(value))
}

// GetStream decompresses the value stored at key into w.
func (s *Store) GetStream(ctx context.Context, key string, w io.Writer) error {
	rc, err := s.OpenStream(ctx, key)
	if err != nil {
		return err
	}
	defer rc.Close()

	if _, err := io.Copy(w, rc); err != nil {
		return fmt.Errorf("streaming value: %w", err)
	}
	return nil
}

// PutStream compresses and stores the bytes read from r at key.
func (s *Store) PutStream(ctx context.Context, key string, r io.Reader) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	dir := filepath.Join(s.root, "values")
	tmp, err := os.CreateTemp(dir, ".put-*")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	writer, err := s.codec.Writer(tmp)
	if err != nil {
		tmp.Close()
		return "", fmt.Errorf("creating compressor: %w", err)
	}
	if _, err := io.Copy(writer, r); err != nil {
		writer.Close()
		tmp.Close()
		return "", fmt.Errorf("writing value: %w", err)
	}
	if err := writer.Close(); err != nil {
		tmp.Close()
		return "", fmt.Errorf("flushing compressor: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.valuePath(key)); err != nil {
		return "", fmt.Errorf("renaming value into place: %w", err)
	}
	return key, nil
}

// OpenStream returns a decompressing reader for the value stored at key.
func (s *Store) OpenStream(ctx context.Context, key string) (io.ReadCloser, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	f, err := os.Open(s.valuePath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("opening value: %w", err)
	}

	reader, err := s.codec.Reader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("creating decompressor: %w", err)
	}
	return &fileStream{reader: reader, file: f}, nil
}

// Delete removes the value stored at key. Absent keys are a no-op.
func (s *Store) Delete(ctx context.Context, key string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if err := os.Remove(s.valuePath(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing value: %w", err)
	}
	return nil
}

// Copy duplicates the value at src to dst as a raw file copy; both sides use
// the same codec, so no recompression is needed.
func (s *Store) Copy(ctx context.Context, src, dst string) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	in, err := os.Open(s.valuePath(src))
	if err != nil {
		if os.IsNotExist(err) {
			return "", store.ErrNotFound
		}
		return "", fmt.Errorf("opening source: %w", err)
	}
	defer in.Close()

	dir := filepath.Join(s.root, "values")
	tmp, err := os.CreateTemp(dir, ".copy-*")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, in); err != nil {
		tmp.Close()
		return "", fmt.Errorf("copying value: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.valuePath(dst)); err != nil {
		return "", fmt.Errorf("renaming value into place: %w", err)
	}
	return dst, nil
}

// Keys returns all keys starting with prefix, sorted.
func (s *Store) Keys(ctx context.Context, prefix string) ([]string, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	entries, err := os.ReadDir(filepath.Join(s.root, "values"))
	if err != nil {
		return nil, fmt.Errorf("reading values directory: %w", err)
	}

	var keys []string
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		key, ok := s.keyFromName(entry.Name())
		if !ok {
			continue
		}
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Close releases any resources held by the store.
func (s *Store) Close() error {
	return nil
}

// valuePath returns the filesystem path for a key.
func (s *Store) valuePath(key string) string {
	name := url.PathEscape(key)
	if ext := s.codec.Extension(); ext != "" {
		name += "." + ext
	}
	return filepath.Join(s.root, "values", name)
}

// keyFromName reverses valuePath's filename mapping.
func (s *Store) keyFromName(name string) (string, bool) {
	if ext := s.codec.Extension(); ext != "" {
		var ok bool
		name, ok = strings.CutSuffix(name, "."+ext)
		if !ok {
			return "", false
		}
	}
	key, err := url.PathUnescape(name)
	if err != nil {
		return "", false
	}
	return key, true
}

// fileStream closes both the decompressor and the underlying file.
type fileStream struct {
	reader io.ReadCloser
	file   *os.File
}

func (f *fileStream) Read(p []byte) (int, error) {
	return f.reader.Read(p)
}

func (f *fileStream) Close() error {
	err := f.reader.Close()
	if cerr := f.file.Close(); err == nil {
		err = cerr
	}
	return err
}
