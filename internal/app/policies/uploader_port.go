package policies

import (
	"context"
	"io"
)

// Uploader stores product images and returns their public URL.
type Uploader interface {
	Upload(ctx context.Context, objectKey string, body io.Reader, size int64, contentType string) (string, error)
}
