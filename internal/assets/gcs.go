package assets

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"

	"cloud.google.com/go/storage"
)

// Bucket reads assets from a GCS bucket under an optional prefix.
type Bucket struct {
	client *storage.Client
	bucket string
	prefix string
}

func NewBucket(client *storage.Client, bucket, prefix string) *Bucket {
	return &Bucket{
		client: client,
		bucket: strings.TrimSpace(bucket),
		prefix: strings.Trim(strings.TrimSpace(prefix), "/"),
	}
}

func (b *Bucket) objectName(name string) string {
	if b.prefix == "" {
		return name
	}
	return path.Join(b.prefix, name)
}

func (b *Bucket) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	r, err := b.client.Bucket(b.bucket).Object(b.objectName(name)).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) || errors.Is(err, storage.ErrBucketNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return r, nil
}

func (b *Bucket) Close() error { return b.client.Close() }
