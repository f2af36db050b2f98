// Package vision defines the interfaces for image understanding capabilities.
package vision

import "context"

// Labeler detects labels describing the content of an image.
type Labeler interface {
	// Labels returns lower-cased label descriptions, best match first.
	// An image with nothing recognizable yields an empty, non-nil slice.
	Labels(ctx context.Context, image []byte) ([]string, error)

	Close() error
}

// Captioner generates natural-language captions for an image.
type Captioner interface {
	// Captions describes either the image bytes or, when image is empty,
	// the publicly reachable imageURL.
	Captions(ctx context.Context, image []byte, imageURL string) ([]string, error)

	Close() error
}
