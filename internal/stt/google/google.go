// Package google implements stt.Transcriber with Cloud Speech-to-Text.
//
// Audio is sent inline with a synchronous Recognize call and is assumed to be
// LINEAR16 PCM at the configured sample rate (16 kHz by default).
package google

import (
	"context"
	"fmt"
	"log/slog"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	"google.golang.org/api/option"

	"github.com/nadzzz/aigateway/internal/config"
	"github.com/nadzzz/aigateway/internal/stt"
)

// Transcriber wraps a shared speech client.
type Transcriber struct {
	client       *speech.Client
	languageCode string
	sampleRate   int32
}

// New dials the Speech-to-Text API.
func New(ctx context.Context, cfg config.STTConfig, opts ...option.ClientOption) (*Transcriber, error) {
	client, err := speech.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating speech client: %w", err)
	}
	lang := cfg.LanguageCode
	if lang == "" {
		lang = "en-US"
	}
	rate := cfg.SampleRate
	if rate == 0 {
		rate = 16000
	}
	return &Transcriber{client: client, languageCode: lang, sampleRate: rate}, nil
}

// Name returns the backend identifier.
func (t *Transcriber) Name() string { return "google" }

// Transcribe runs a synchronous recognition and returns the first alternative
// of the first result.
func (t *Transcriber) Transcribe(ctx context.Context, audio []byte, _ string) (string, error) {
	resp, err := t.client.Recognize(ctx, &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:        speechpb.RecognitionConfig_LINEAR16,
			SampleRateHertz: t.sampleRate,
			LanguageCode:    t.languageCode,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: audio},
		},
	})
	if err != nil {
		return "", fmt.Errorf("speech recognize: %w", err)
	}

	results := resp.GetResults()
	if len(results) == 0 || len(results[0].GetAlternatives()) == 0 {
		return "", stt.ErrNoResults
	}

	transcript := results[0].GetAlternatives()[0].GetTranscript()
	slog.Debug("speech recognition complete", "text_length", len(transcript), "results", len(results))
	return transcript, nil
}

// Close releases the underlying gRPC connection.
func (t *Transcriber) Close() error { return t.client.Close() }
