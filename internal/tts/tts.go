// Package tts defines the interface for text-to-speech synthesis.
//
// The /text-to-speech route streams the synthesized audio back to the caller
// in the container format the caller asked for.
package tts

import (
	"context"
	"fmt"
	"strings"
)

// Format is an output audio format accepted by the /text-to-speech route.
type Format string

const (
	FormatWAV   Format = "wav"
	FormatMP3   Format = "mp3"
	FormatOGG   Format = "ogg"
	FormatMULAW Format = "mulaw"
	FormatALAW  Format = "alaw"
)

// ParseFormat normalizes a caller-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "wav", "wave", "linear16", "pcm":
		return FormatWAV, nil
	case "mp3", "mpeg":
		return FormatMP3, nil
	case "ogg", "opus", "ogg_opus":
		return FormatOGG, nil
	case "mulaw", "ulaw":
		return FormatMULAW, nil
	case "alaw":
		return FormatALAW, nil
	default:
		return "", fmt.Errorf("unsupported output format %q", s)
	}
}

// ContentType returns the MIME type of audio in this format.
func (f Format) ContentType() string {
	switch f {
	case FormatMP3:
		return "audio/mpeg"
	case FormatOGG:
		return "audio/ogg"
	case FormatMULAW:
		return "audio/basic"
	case FormatALAW:
		return "audio/x-alaw-basic"
	default:
		return "audio/wav"
	}
}

// SynthesizeOpts controls synthesis behavior.
type SynthesizeOpts struct {
	// Format is the requested output container/encoding.
	Format Format

	// Language is a BCP-47 or ISO-639-1 code used to select the voice.
	Language string

	// Voice overrides automatic language-based voice selection.
	Voice string
}

// Synthesizer converts text to audio.
type Synthesizer interface {
	// Name returns the backend identifier (e.g., "google", "piper").
	Name() string

	// Synthesize generates audio in opts.Format from the given text.
	Synthesize(ctx context.Context, text string, opts SynthesizeOpts) (*SynthesizeResult, error)

	// Close releases any resources held by the synthesizer.
	Close() error
}

// SynthesizeResult holds the output of TTS synthesis.
type SynthesizeResult struct {
	// Audio is the synthesized audio, ready to stream.
	Audio []byte

	// ContentType is the MIME type of the audio (e.g., "audio/mpeg").
	ContentType string
}
