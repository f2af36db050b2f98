package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nadzzz/aigateway/internal/chat"
	localchat "github.com/nadzzz/aigateway/internal/chat/local"
	openaichat "github.com/nadzzz/aigateway/internal/chat/openai"
	"github.com/nadzzz/aigateway/internal/config"
	"github.com/nadzzz/aigateway/internal/diffusion/stability"
	"github.com/nadzzz/aigateway/internal/gcloud"
	"github.com/nadzzz/aigateway/internal/language/comprehend"
	"github.com/nadzzz/aigateway/internal/media"
	"github.com/nadzzz/aigateway/internal/storage"
	"github.com/nadzzz/aigateway/internal/stt"
	googlestt "github.com/nadzzz/aigateway/internal/stt/google"
	"github.com/nadzzz/aigateway/internal/stt/whisper"
	httptransport "github.com/nadzzz/aigateway/internal/transport/http"
	"github.com/nadzzz/aigateway/internal/tts"
	googletts "github.com/nadzzz/aigateway/internal/tts/google"
	"github.com/nadzzz/aigateway/internal/tts/piper"
	"github.com/nadzzz/aigateway/internal/vision/azure"
	googlevision "github.com/nadzzz/aigateway/internal/vision/google"
)

// closer releases a backend on shutdown.
type closer interface{ Close() error }

// backends is everything built from config: the router dependencies plus
// the clients that hold connections.
type backends struct {
	deps    httptransport.Dependencies
	closers []closer
}

func (b *backends) enable(capability, backend string) {
	if b.deps.Backends == nil {
		b.deps.Backends = make(map[string]string)
	}
	b.deps.Backends[capability] = backend
}

// capabilities lists the enabled capability names for /readyz.
func (b *backends) capabilities() []string {
	names := make([]string, 0, len(b.deps.Backends))
	for name := range b.deps.Backends {
		names = append(names, name)
	}
	return names
}

func (b *backends) Close() {
	for _, c := range b.closers {
		if err := c.Close(); err != nil {
			slog.Error("backend close error", "error", err)
		}
	}
}

// buildBackends constructs one adapter per configured capability. A
// capability with an empty backend name is skipped and its route stays
// unregistered.
func buildBackends(ctx context.Context, cfg *config.Config) (*backends, error) {
	b := &backends{deps: httptransport.Dependencies{
		TTSLanguage:    cfg.TTS.LanguageCode,
		TTSVoice:       cfg.TTS.Voice,
		DefaultPrompt:  cfg.Diffusion.DefaultPrompt,
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
	}}
	gopts := gcloud.ClientOptions(cfg.Google)

	// Chat.
	var responder chat.Responder
	switch cfg.Chat.Backend {
	case "openai":
		responder = openaichat.New(cfg.OpenAI)
		slog.Info("using OpenAI chat", "model", cfg.OpenAI.CompletionModel)
	case "local":
		responder = localchat.New(cfg.Local, cfg.OpenAI.SystemPrompt)
		slog.Info("using local chat", "llm", cfg.Local.LLMEndpoint, "model", cfg.Local.LLMModel)
	}
	if responder != nil {
		b.deps.Chat = responder
		b.closers = append(b.closers, responder)
		b.enable("chat", responder.Name())
	}

	// Speech-to-text.
	var transcriber stt.Transcriber
	switch cfg.STT.Backend {
	case "google":
		t, err := googlestt.New(ctx, cfg.STT, gopts...)
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("speech-to-text: %w", err)
		}
		transcriber = t
	case "whisper":
		transcriber = whisper.New(whisperOptions(cfg))
	}
	if transcriber != nil {
		b.deps.Transcriber = transcriber
		b.closers = append(b.closers, transcriber)
		b.enable("stt", transcriber.Name())
	}

	// Text-to-speech.
	var synth tts.Synthesizer
	switch cfg.TTS.Backend {
	case "google":
		s, err := googletts.New(ctx, cfg.TTS, gopts...)
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("text-to-speech: %w", err)
		}
		synth = s
	case "piper":
		synth = piper.New(cfg.Piper)
	}
	if synth != nil {
		b.deps.Synthesizer = synth
		b.closers = append(b.closers, synth)
		b.enable("tts", synth.Name())
	}

	// Vision.
	if cfg.Vision.Labels == "google" {
		l, err := googlevision.New(ctx, cfg.Vision.MaxLabels, gopts...)
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("image labels: %w", err)
		}
		b.deps.Labeler = l
		b.closers = append(b.closers, l)
		b.enable("vision.labels", "google")
	}
	if cfg.Vision.Captions == "azure" {
		c := azure.New(cfg.Azure)
		b.deps.Captioner = c
		b.closers = append(b.closers, c)
		b.enable("vision.captions", "azure")
	}

	// Language.
	if cfg.Language.Backend == "comprehend" {
		a, err := comprehend.New(ctx, cfg.AWS, cfg.Language)
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("language: %w", err)
		}
		b.deps.Entities = a
		b.deps.Sentiment = a
		b.enable("language.entities", "comprehend")
		b.enable("language.sentiment", "comprehend")
	}

	// Media.
	if cfg.Media.Enabled {
		tool, err := media.New(cfg.Media.FFmpegPath, cfg.Media.FFprobePath, cfg.Media.Root, nil)
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("media: %w", err)
		}
		b.deps.Converter = tool
		b.deps.Frames = tool
		b.enable("media.convert", "ffmpeg")
		b.enable("media.frames", "ffprobe")
	}

	// Diffusion and the artifact store it writes to.
	if cfg.Diffusion.Backend == "stability" {
		store, err := storage.New(cfg.Storage)
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("artifact storage: %w", err)
		}
		b.deps.Diffusion = stability.New(cfg.Stability)
		b.deps.Artifacts = store
		b.enable("diffusion", "stability")
		b.enable("storage", cfg.Storage.Backend)
	}

	return b, nil
}

// whisperOptions targets the self-hosted endpoint when one is configured and
// the OpenAI Audio API otherwise.
func whisperOptions(cfg *config.Config) whisper.Options {
	if cfg.Local.WhisperEndpoint != "" {
		slog.Info("using self-hosted whisper", "endpoint", cfg.Local.WhisperEndpoint)
		return whisper.Options{
			Endpoint: cfg.Local.WhisperEndpoint,
			Language: cfg.Local.Language,
		}
	}
	slog.Info("using OpenAI transcription", "model", cfg.OpenAI.TranscriptionModel)
	return whisper.Options{
		Endpoint: strings.TrimRight(cfg.OpenAI.BaseURL, "/") + "/audio/transcriptions",
		APIKey:   cfg.OpenAI.APIKey,
		Model:    cfg.OpenAI.TranscriptionModel,
		Language: primaryLanguage(cfg.STT.LanguageCode),
	}
}

// primaryLanguage reduces a BCP-47 tag like "en-US" to "en".
func primaryLanguage(tag string) string {
	if i := strings.IndexAny(tag, "-_"); i > 0 {
		return strings.ToLower(tag[:i])
	}
	return strings.ToLower(tag)
}
