package storage

import (
	"context"
	"io"
)

// Uploader stores bytes under objectName and returns a durable locator for
// them. Callers keep the locator; they never read the bytes back.
type Uploader interface {
	Upload(ctx context.Context, objectName string, contentType string, r io.Reader) (locator string, err error)
}

// Remover drops an object, used to clean up after a failed insert.
type Remover interface {
	Remove(ctx context.Context, objectName string) error
}
