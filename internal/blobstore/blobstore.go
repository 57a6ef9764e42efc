// Package blobstore abstracts the storage of raw file bytes behind opaque
// references. Implementations stream content in both directions; nothing
// here buffers a whole blob in memory.
package blobstore

import (
	"context"
	"io"
)

// Store is the blob store collaborator. Put writes a new blob and returns
// its reference; Get resolves a reference to a readable stream. Get returns
// an error matching common.ErrNotFound for a dangling reference.
type Store interface {
	Put(ctx context.Context, r io.Reader, size int64) (string, error)
	Get(ctx context.Context, ref string) (io.ReadCloser, error)
}
