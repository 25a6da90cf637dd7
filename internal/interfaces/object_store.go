// Package interfaces defines the service contracts between vigil's
// components. Handlers and services depend on these, never on concrete
// implementations.
package interfaces

import (
	"context"
	"io"
)

// ObjectStore is the thin blob-store surface the bulk pipeline needs:
// stream an object in, write a JSON artifact out. The production
// implementation is S3-compatible; tests use an in-memory store.
type ObjectStore interface {
	// Read opens the object at bucket/key for streaming. The caller must
	// close the reader.
	Read(ctx context.Context, bucket, key string) (io.ReadCloser, error)

	// WriteJSON marshals v and writes it to bucket/key with a JSON
	// content type.
	WriteJSON(ctx context.Context, bucket, key string, v any) error
}
