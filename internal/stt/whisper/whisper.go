// Package whisper implements stt.Transcriber against any OpenAI-compatible
// transcription endpoint: the OpenAI Audio API itself, whisper.cpp server,
// faster-whisper, or speaches.
package whisper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
)

// Options configures a Transcriber.
type Options struct {
	// Endpoint is the full transcription URL (e.g. https://api.openai.com/v1/audio/transcriptions).
	Endpoint string
	// APIKey is sent as a bearer token when non-empty.
	APIKey string
	// Model is the transcription model name; omitted when empty.
	Model string
	// Language is the ISO-639-1 hint; omitted when empty.
	Language string
}

// Transcriber uploads audio as multipart form data.
type Transcriber struct {
	opts   Options
	client *http.Client
}

// New creates a new whisper transcriber.
func New(opts Options) *Transcriber {
	return &Transcriber{opts: opts, client: &http.Client{}}
}

// Name returns the backend identifier.
func (t *Transcriber) Name() string { return "whisper" }

// Transcribe posts the audio and returns the recognized text.
func (t *Transcriber) Transcribe(ctx context.Context, audio []byte, contentType string) (string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", "audio"+extFromContentType(contentType))
	if err != nil {
		return "", fmt.Errorf("creating form file: %w", err)
	}
	if _, err := io.Copy(part, bytes.NewReader(audio)); err != nil {
		return "", fmt.Errorf("writing audio: %w", err)
	}
	if t.opts.Model != "" {
		_ = writer.WriteField("model", t.opts.Model)
	}
	if t.opts.Language != "" {
		_ = writer.WriteField("language", t.opts.Language)
	}
	_ = writer.WriteField("response_format", "json")
	writer.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.opts.Endpoint, body)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if t.opts.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+t.opts.APIKey)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("transcription request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", fmt.Errorf("transcription failed (status %d): %s", resp.StatusCode, respBody)
	}

	var result struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decoding transcription: %w", err)
	}

	text := strings.TrimSpace(result.Text)
	slog.Debug("whisper transcription complete", "text_length", len(text))
	return text, nil
}

// Close is a no-op for the whisper transcriber.
func (t *Transcriber) Close() error { return nil }

func extFromContentType(ct string) string {
	switch {
	case strings.Contains(ct, "wav"):
		return ".wav"
	case strings.Contains(ct, "ogg"):
		return ".ogg"
	case strings.Contains(ct, "mp3"), strings.Contains(ct, "mpeg"):
		return ".mp3"
	case strings.Contains(ct, "flac"):
		return ".flac"
	case strings.Contains(ct, "webm"):
		return ".webm"
	case strings.Contains(ct, "m4a"), strings.Contains(ct, "mp4"):
		return ".m4a"
	default:
		return ".wav"
	}
}
