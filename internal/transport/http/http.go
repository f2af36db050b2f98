// Package http implements the HTTP transport for aigateway.
//
// Each capability is exposed as its own POST route. Routes whose backend is
// not configured are left unregistered, so callers get a 404 rather than a
// half-working endpoint.
package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/nadzzz/aigateway/internal/chat"
	"github.com/nadzzz/aigateway/internal/diffusion"
	"github.com/nadzzz/aigateway/internal/language"
	"github.com/nadzzz/aigateway/internal/media"
	"github.com/nadzzz/aigateway/internal/metrics"
	"github.com/nadzzz/aigateway/internal/storage"
	"github.com/nadzzz/aigateway/internal/stt"
	"github.com/nadzzz/aigateway/internal/tts"
	"github.com/nadzzz/aigateway/internal/vision"
)

// DefaultMaxUploadBytes bounds request bodies when Dependencies leaves it unset.
const DefaultMaxUploadBytes = 25 << 20

// Dependencies holds the capability backends served by the router. A nil
// field disables the routes that need it.
type Dependencies struct {
	Chat        chat.Responder
	Transcriber stt.Transcriber
	Synthesizer tts.Synthesizer
	Labeler     vision.Labeler
	Captioner   vision.Captioner
	Entities    language.EntityExtractor
	Sentiment   language.SentimentAnalyzer
	Converter   media.Converter
	Frames      media.FrameCounter
	Diffusion   diffusion.Generator
	Artifacts   storage.Store

	// Backends maps a capability name to the backend label recorded in
	// metrics and logs.
	Backends map[string]string

	// TTSLanguage and TTSVoice are passed to every synthesis call.
	TTSLanguage string
	TTSVoice    string

	// DefaultPrompt is used by /stable-diffusion when the form has no prompt.
	DefaultPrompt string

	MaxUploadBytes int64
}

// Server serves the capability routes.
type Server struct {
	port   int
	deps   Dependencies
	server *http.Server
}

// New creates a new HTTP server on the given port.
func New(port int, deps Dependencies) *Server {
	if deps.MaxUploadBytes <= 0 {
		deps.MaxUploadBytes = DefaultMaxUploadBytes
	}
	return &Server{port: port, deps: deps}
}

// Name returns the transport identifier.
func (s *Server) Name() string { return "http" }

// Handler builds the routed, instrumented handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.routes(mux)

	// metrics.Middleware must see the request the mux annotated with its
	// pattern, so it wraps the mux directly.
	return chain(metrics.Middleware(mux),
		withRequestID,
		withRecovery,
		withLogging,
		withBodyLimit(s.deps.MaxUploadBytes),
	)
}

func (s *Server) routes(mux *http.ServeMux) {
	d := s.deps

	mux.HandleFunc("GET /{$}", s.handleIndex)

	if d.Chat != nil {
		mux.HandleFunc("POST /chatbot", s.handleChatbot)
		mux.HandleFunc("POST /get-response", s.handleGetResponse)
	}
	if d.Labeler != nil {
		mux.HandleFunc("POST /image_recognition", s.handleImageRecognition)
	}
	if d.Captioner != nil {
		mux.HandleFunc("POST /image_captioning", s.handleImageCaptioning)
	}
	if d.Entities != nil {
		mux.HandleFunc("POST /named_entity_recognition", s.handleNamedEntityRecognition)
	}
	if d.Sentiment != nil {
		mux.HandleFunc("POST /sentiment_analysis", s.handleSentimentAnalysis)
	}
	if d.Synthesizer != nil {
		mux.HandleFunc("POST /text-to-speech", s.handleTextToSpeech)
	}
	if d.Converter != nil {
		mux.HandleFunc("POST /audio-conversion", s.handleAudioConversion)
	}
	if d.Transcriber != nil {
		mux.HandleFunc("POST /speech-to-text", s.handleSpeechToText)
	}
	if d.Diffusion != nil && d.Artifacts != nil {
		mux.HandleFunc("POST /stable-diffusion", s.handleStableDiffusion)
	}
	if d.Frames != nil {
		mux.HandleFunc("POST /video-animation", s.handleVideoAnimation)
	}

	mux.Handle("GET /metrics", promhttp.Handler())
	mux.Handle("GET /swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
}

// Listen starts the HTTP server and blocks until ctx is cancelled or the
// listener fails.
func (s *Server) Listen(ctx context.Context) error {
	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("http server listening", "port", s.port)

	go func() {
		<-ctx.Done()
		slog.Info("http server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	if err := s.server.ListenAndServe(); err != http.ErrServerClosed {
		return fmt.Errorf("http listen: %w", err)
	}
	return nil
}

// Close gracefully shuts down the HTTP server.
func (s *Server) Close() error {
	if s.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.server.Shutdown(ctx)
	}
	return nil
}

// backend returns the metrics label for a capability.
func (s *Server) backend(capability string) string {
	if b, ok := s.deps.Backends[capability]; ok && b != "" {
		return b
	}
	return "unknown"
}

// observe records one backend call and logs failures with the request ID.
func (s *Server) observe(ctx context.Context, capability string, start time.Time, err error) {
	backend := s.backend(capability)
	metrics.ObserveCall(capability, backend, start, err)
	if err != nil {
		slog.ErrorContext(ctx, "capability call failed",
			"request_id", RequestIDFromContext(ctx),
			"capability", capability,
			"backend", backend,
			"error", err)
	}
}
