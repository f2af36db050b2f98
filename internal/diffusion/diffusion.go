// Package diffusion defines the interface for image-to-image generation.
package diffusion

import "context"

// Generator transforms an input image guided by a text prompt.
type Generator interface {
	// ImageToImage returns the generated image as PNG bytes.
	ImageToImage(ctx context.Context, image []byte, prompt string) ([]byte, error)
}
