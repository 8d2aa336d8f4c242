// Package gcsstore implements a Google Cloud Storage backend.
package gcsstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"

	"github.com/blobkv/blobkv/codec"
	"github.com/blobkv/blobkv/store"
)

// Compile-time check that Store implements store.Store.
var _ store.Store = (*Store)(nil)

// Store is a Google Cloud Storage backend.
type Store struct {
	client *storage.Client
	bucket *storage.BucketHandle
	prefix string
	codec  codec.Codec
}

// New creates a new GCS store.
// The bucket must already exist.
// The codec handles compression/decompression.
func New(ctx context.Context, bucketName string, c codec.Codec, opts ...Option) (*Store, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating GCS client: %w", err)
	}

	s := &Store{
		client: client,
		bucket: client.Bucket(bucketName),
		codec:  c,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Option configures a Store.
type Option func(*Store)

// WithPrefix sets a key prefix for all operations.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = strings.TrimSuffix(prefix, "/")
		if s.prefix != "" {
			s.prefix += "/"
		}
	}
}

// Get reads and decompresses the value stored at key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	rc, err := s.OpenStream(ctx, key)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	value, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("reading value: %w", err)
	}
	return value, nil
}

// Put compresses and stores value at key.
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
// GCS object writes are atomic; the object becomes visible only when the
// writer is closed without error.
func (s *Store) PutStream(ctx context.Context, key string, r io.Reader) (string, error) {
	obj := s.bucket.Object(s.objectKey(key))
	w := obj.NewWriter(ctx)

	compressor, err := s.codec.Writer(w)
	if err != nil {
		w.Close()
		return "", fmt.Errorf("creating compressor: %w", err)
	}
	if _, err := io.Copy(compressor, r); err != nil {
		compressor.Close()
		w.Close()
		return "", fmt.Errorf("writing value: %w", err)
	}
	if err := compressor.Close(); err != nil {
		w.Close()
		return "", fmt.Errorf("flushing compressor: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("committing object: %w", err)
	}
	return key, nil
}

// OpenStream returns a decompressing reader for the value stored at key.
func (s *Store) OpenStream(ctx context.Context, key string) (io.ReadCloser, error) {
	// Check for cancellation before starting.
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	obj := s.bucket.Object(s.objectKey(key))

	reader, err := obj.NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("creating reader: %w", err)
	}

	decompressor, err := s.codec.Reader(reader)
	if err != nil {
		reader.Close()
		return nil, fmt.Errorf("creating decompressor: %w", err)
	}
	return &objectStream{reader: decompressor, object: reader}, nil
}

// Delete removes the value stored at key. Absent keys are a no-op.
func (s *Store) Delete(ctx context.Context, key string) error {
	err := s.bucket.Object(s.objectKey(key)).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("deleting value: %w", err)
	}
	return nil
}

// Copy duplicates the value at src to dst using a server-side copy.
func (s *Store) Copy(ctx context.Context, src, dst string) (string, error) {
	srcObj := s.bucket.Object(s.objectKey(src))
	dstObj := s.bucket.Object(s.objectKey(dst))

	if _, err := dstObj.CopierFrom(srcObj).Run(ctx); err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return "", store.ErrNotFound
		}
		return "", fmt.Errorf("copying value: %w", err)
	}
	return dst, nil
}

// Keys returns all keys starting with prefix.
func (s *Store) Keys(ctx context.Context, prefix string) ([]string, error) {
	it := s.bucket.Objects(ctx, &storage.Query{Prefix: s.prefix + prefix})

	var keys []string
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("listing objects: %w", err)
		}
		key, ok := s.keyFromObject(attrs.Name)
		if !ok {
			continue
		}
		keys = append(keys, key)
	}
	return keys, nil
}

// Close releases resources.
func (s *Store) Close() error {
	return s.client.Close()
}

// objectKey returns the full GCS object name for a store key.
func (s *Store) objectKey(key string) string {
	name := s.prefix + key
	if ext := s.codec.Extension(); ext != "" {
		name += "." + ext
	}
	return name
}

// keyFromObject reverses objectKey's mapping.
func (s *Store) keyFromObject(name string) (string, bool) {
	name, ok := strings.CutPrefix(name, s.prefix)
	if !ok {
		return "", false
	}
	if ext := s.codec.Extension(); ext != "" {
		name, ok = strings.CutSuffix(name, "."+ext)
		if !ok {
			return "", false
		}
	}
	return name, true
}

// objectStream closes both the decompressor and the underlying object reader.
type objectStream struct {
	reader io.ReadCloser
	object io.ReadCloser
}

func (o *objectStream) Read(p []byte) (int, error) {
	return o.reader.Read(p)
}

func (o *objectStream) Close() error {
	err := o.reader.Close()
	if cerr := o.object.Close(); err == nil {
		err = cerr
	}
	return err
}
