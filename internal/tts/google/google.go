// Package google implements tts.Synthesizer with Cloud Text-to-Speech.
package google

import (
	"context"
	"fmt"
	"log/slog"

	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	"cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
	"google.golang.org/api/option"

	"github.com/nadzzz/aigateway/internal/config"
	"github.com/nadzzz/aigateway/internal/tts"
)

var encodings = map[tts.Format]texttospeechpb.AudioEncoding{
	tts.FormatWAV:   texttospeechpb.AudioEncoding_LINEAR16,
	tts.FormatMP3:   texttospeechpb.AudioEncoding_MP3,
	tts.FormatOGG:   texttospeechpb.AudioEncoding_OGG_OPUS,
	tts.FormatMULAW: texttospeechpb.AudioEncoding_MULAW,
	tts.FormatALAW:  texttospeechpb.AudioEncoding_ALAW,
}

// Synthesizer wraps a shared Text-to-Speech client.
type Synthesizer struct {
	client       *texttospeech.Client
	languageCode string
	voice        string
}

// New dials the Text-to-Speech API.
func New(ctx context.Context, cfg config.TTSConfig, opts ...option.ClientOption) (*Synthesizer, error) {
	client, err := texttospeech.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating text-to-speech client: %w", err)
	}
	lang := cfg.LanguageCode
	if lang == "" {
		lang = "en-US"
	}
	return &Synthesizer{client: client, languageCode: lang, voice: cfg.Voice}, nil
}

// Name returns the backend identifier.
func (s *Synthesizer) Name() string { return "google" }

// Synthesize renders text with a neutral voice in the requested encoding.
func (s *Synthesizer) Synthesize(ctx context.Context, text string, opts tts.SynthesizeOpts) (*tts.SynthesizeResult, error) {
	encoding, ok := encodings[opts.Format]
	if !ok {
		return nil, fmt.Errorf("unsupported output format %q", opts.Format)
	}

	lang := opts.Language
	if lang == "" {
		lang = s.languageCode
	}
	voice := opts.Voice
	if voice == "" {
		voice = s.voice
	}

	resp, err := s.client.SynthesizeSpeech(ctx, &texttospeechpb.SynthesizeSpeechRequest{
		Input: &texttospeechpb.SynthesisInput{
			InputSource: &texttospeechpb.SynthesisInput_Text{Text: text},
		},
		Voice: &texttospeechpb.VoiceSelectionParams{
			LanguageCode: lang,
			Name:         voice,
			SsmlGender:   texttospeechpb.SsmlVoiceGender_NEUTRAL,
		},
		AudioConfig: &texttospeechpb.AudioConfig{
			AudioEncoding: encoding,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("synthesize speech: %w", err)
	}

	slog.Debug("speech synthesis complete", "format", opts.Format, "audio_bytes", len(resp.GetAudioContent()))
	return &tts.SynthesizeResult{
		Audio:       resp.GetAudioContent(),
		ContentType: opts.Format.ContentType(),
	}, nil
}

// Close releases the underlying gRPC connection.
func (s *Synthesizer) Close() error { return s.client.Close() }
