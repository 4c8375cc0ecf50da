// Package vision detects what is in photos.
package vision

import "context"

// Label is a thing detected in an image.
type Label struct {
	Name string

	// in percent, [0, 100]
	Confidence float64
}

type Labeler interface {
	// Labels detects labels in the image.
	Labels(ctx context.Context, image []byte) ([]Label, error)
}
