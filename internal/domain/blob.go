package domain

import "context"

// BlobStore holds raw evidence bytes, addressed by a content hash plus a
// disambiguating path. The chain component only needs the returned locator;
// the storage backend is out of scope.
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Get(ctx context.Context, key string) ([]byte, error)
}
