// Package storage abstracts the blob store that holds uploaded knowledge
// files. The database keeps only the key and public URL; the bytes live here.
package storage

import "context"

// BlobStore stores and removes uploaded file bytes. Implementations return a
// stable key for later deletion and a URL the file is served from.
type BlobStore interface {
	Put(ctx context.Context, name string, data []byte) (key string, url string, err error)
	Delete(ctx context.Context, key string) error
}
