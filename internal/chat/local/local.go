// Package local implements chat.Responder using a self-hosted model.
//
// It supports Ollama's /api/generate endpoint and any OpenAI-compatible chat
// endpoint (e.g., Ollama /v1/chat/completions, vLLM, llama.cpp server).
package local

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/nadzzz/aigateway/internal/config"
)

// Responder uses a self-hosted LLM for chat replies.
type Responder struct {
	llmEndpoint  string
	llmModel     string
	systemPrompt string
	client       *http.Client
}

// New creates a new local responder from config. The system prompt is shared
// with the OpenAI backend.
func New(cfg config.LocalConfig, systemPrompt string) *Responder {
	model := cfg.LLMModel
	if model == "" {
		model = "llama3"
	}
	return &Responder{
		llmEndpoint:  cfg.LLMEndpoint,
		llmModel:     model,
		systemPrompt: systemPrompt,
		client:       &http.Client{},
	}
}

// Name returns the backend identifier.
func (r *Responder) Name() string { return "local" }

// Respond sends message to the local LLM endpoint.
func (r *Responder) Respond(ctx context.Context, message string) (string, error) {
	var reqBody map[string]any
	if strings.HasSuffix(r.llmEndpoint, "/api/generate") {
		reqBody = map[string]any{
			"model":  r.llmModel,
			"system": r.systemPrompt,
			"prompt": message,
			"stream": false,
		}
	} else {
		messages := []map[string]string{}
		if r.systemPrompt != "" {
			messages = append(messages, map[string]string{"role": "system", "content": r.systemPrompt})
		}
		messages = append(messages, map[string]string{"role": "user", "content": message})
		reqBody = map[string]any{
			"model":    r.llmModel,
			"messages": messages,
			"stream":   false,
		}
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshalling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.llmEndpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("local LLM request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", fmt.Errorf("local LLM failed (status %d): %s", resp.StatusCode, respBody)
	}

	respData, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading LLM response: %w", err)
	}

	content := extractContent(respData)
	if content == "" {
		return "", fmt.Errorf("empty response from local LLM")
	}

	slog.Debug("local chat completion", "model", r.llmModel, "reply_length", len(content))
	return content, nil
}

// Close is a no-op for the local responder.
func (r *Responder) Close() error { return nil }

func extractContent(data []byte) string {
	// OpenAI-compatible: {"choices": [{"message": {"content": "..."}}]}
	var chatResp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(data, &chatResp); err == nil && len(chatResp.Choices) > 0 {
		return chatResp.Choices[0].Message.Content
	}

	// Ollama: {"response": "..."}
	var ollamaResp struct {
		Response string `json:"response"`
	}
	if err := json.Unmarshal(data, &ollamaResp); err == nil && ollamaResp.Response != "" {
		return ollamaResp.Response
	}

	return strings.TrimSpace(string(data))
}
