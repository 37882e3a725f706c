// Package media stores uploaded image bytes in an S3-compatible backend and
// hands back durable references.
package media

import (
	"context"
	"io"
)

// Object is the durable reference returned for an uploaded image.
type Object struct {
	Key string
	URL string
}

// Store saves image bytes and deletes them again. Upload must complete before
// the caller persists any record referencing the returned Object.
type Store interface {
	Upload(ctx context.Context, body io.Reader, contentType string) (*Object, error)
	Delete(ctx context.Context, key string) error
}
