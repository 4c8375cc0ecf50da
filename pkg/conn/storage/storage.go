// Package storage stores photo originals and derivatives as objects.
package storage

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned when the object does not exist.
var ErrNotFound = errors.New("object not found")

type Storage interface {
	// Put stores the object with key. An existing object is overwritten.
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error

	// Get opens the object. Callers should close it.
	//
	// # Returns
	//
	// - error: ErrNotFound when the object does not exist.
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes the object. Deleting missing objects succeeds.
	Delete(ctx context.Context, key string) error

	// URL returns the URL where browsers can fetch the object.
	URL(ctx context.Context, key string) (string, error)
}
