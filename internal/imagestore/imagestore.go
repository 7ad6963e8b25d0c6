package imagestore

import (
	"context"
	"io"
)

// ImageStore persists product images. Keys are opaque; the product row holds
// the key of its uploaded image.
type ImageStore interface {
	Save(ctx context.Context, prefix, mimeType string, r io.Reader) (storageKey string, err error)
	Get(ctx context.Context, storageKey string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, storageKey string) error
}
