// Package stt defines the interface for speech-to-text transcription.
package stt

import (
	"context"
	"errors"
)

// ErrNoResults is returned when the service recognized no speech at all.
var ErrNoResults = errors.New("no transcription results")

// Transcriber converts audio to text.
type Transcriber interface {
	// Name returns the backend identifier (e.g., "google", "whisper").
	Name() string

	// Transcribe returns the transcript of the most likely alternative.
	// contentType is the MIME type reported by the uploader and may be empty.
	Transcribe(ctx context.Context, audio []byte, contentType string) (string, error)

	// Close releases any resources held by the transcriber.
	Close() error
}
