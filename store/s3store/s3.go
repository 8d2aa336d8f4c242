// Package s3store implements an AWS S3 storage backend.
package s3store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/blobkv/blobkv/codec"
	"github.com/blobkv/blobkv/store"
)

// Compile-time check that Store implements store.Store.
var _ store.Store = (*Store)(nil)

// Store is an AWS S3 storage backend.
type Store struct {
	client *s3.Client
	bucket string
	prefix string
	codec  codec.Codec
}

// New creates a new S3 store.
// The bucket must already exist.
// The codec handles compression/decompression.
func New(ctx context.Context, bucketName string, c codec.Codec, opts ...Option) (*Store, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	s := &Store{
		client: s3.NewFromConfig(cfg),
		bucket: bucketName,
		codec:  c,
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Option configures a Store.
type Option func(*Store) error

// WithPrefix sets a key prefix for all operations.
func WithPrefix(prefix string) Option {
	return func(s *Store) error {
		s.prefix = strings.TrimSuffix(prefix, "/")
		if s.prefix != "" {
			s.prefix += "/"
		}
		return nil
	}
}

// WithRegion sets the AWS region.
func WithRegion(region string) Option {
	return func(s *Store) error {
		cfg, err := config.LoadDefaultConfig(context.Background(), config.WithRegion(region))
		if err != nil {
			return fmt.Errorf("loading AWS config with region: %w", err)
		}
		s.client = s3.NewFromConfig(cfg)
		return nil
	}
}

// WithEndpoint sets a custom endpoint (for S3-compatible services like MinIO).
func WithEndpoint(endpoint string) Option {
	return func(s *Store) error {
		cfg, err := config.LoadDefaultConfig(context.Background())
		if err != nil {
			return fmt.Errorf("loading AWS config for endpoint: %w", err)
		}
		s.client = s3.NewFromConfig(cfg, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		})
		return nil
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
// The value is buffered locally first: S3 needs a seekable body for retries
// and signing.
func (s *Store) PutStream(ctx context.Context, key string, r io.Reader) (string, error) {
	var buf bytes.Buffer
	writer, err := s.codec.Writer(&buf)
	if err != nil {
		return "", fmt.Errorf("creating compressor: %w", err)
	}
	if _, err := io.Copy(writer, r); err != nil {
		return "", fmt.Errorf("compressing value: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("flushing compressor: %w", err)
	}

	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(key)),
		Body:   bytes.NewReader(buf.Bytes()),
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("writing value: %w", err)
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

	input := &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(key)),
	}

	result, err := s.client.GetObject(ctx, input)
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("reading value: %w", err)
	}

	decompressor, err := s.codec.Reader(result.Body)
	if err != nil {
		result.Body.Close()
		return nil, fmt.Errorf("creating decompressor: %w", err)
	}
	return &bodyStream{reader: decompressor, body: result.Body}, nil
}

// Delete removes the value stored at key. S3 deletes are idempotent.
func (s *Store) Delete(ctx context.Context, key string) error {
	input := &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.objectKey(key)),
	}
	if _, err := s.client.DeleteObject(ctx, input); err != nil {
		return fmt.Errorf("deleting value: %w", err)
	}
	return nil
}

// Copy duplicates the value at src to dst using a server-side copy.
func (s *Store) Copy(ctx context.Context, src, dst string) (string, error) {
	input := &s3.CopyObjectInput{
		Bucket:     aws.String(s.bucket),
		Key:        aws.String(s.objectKey(dst)),
		CopySource: aws.String(s.bucket + "/" + url.PathEscape(s.objectKey(src))),
	}
	if _, err := s.client.CopyObject(ctx, input); err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return "", store.ErrNotFound
		}
		return "", fmt.Errorf("copying value: %w", err)
	}
	return dst, nil
}

// Keys returns all keys starting with prefix.
func (s *Store) Keys(ctx context.Context, prefix string) ([]string, error) {
	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.prefix + prefix),
	}

	var keys []string
	paginator := s3.NewListObjectsV2Paginator(s.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing objects: %w", err)
		}
		for _, obj := range page.Contents {
			key, ok := s.keyFromObject(aws.ToString(obj.Key))
			if !ok {
				continue
			}
			keys = append(keys, key)
		}
	}
	return keys, nil
}

// Close releases resources. The S3 client needs no explicit closing.
func (s *Store) Close() error {
	return nil
}

// objectKey returns the full S3 object key for a store key.
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

// bodyStream closes both the decompressor and the underlying response body.
type bodyStream struct {
	reader io.ReadCloser
	body   io.ReadCloser
}

func (b *bodyStream) Read(p []byte) (int, error) {
	return b.reader.Read(p)
}

func (b *bodyStream) Close() error {
	err := b.reader.Close()
	if cerr := b.body.Close(); err == nil {
		err = cerr
	}
	return err
}
