// Package openai implements chat.Responder using OpenAI's Chat Completions API.
package openai

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

// Responder calls the Chat Completions API with a fixed system prompt.
type Responder struct {
	baseURL      string
	apiKey       string
	model        string
	systemPrompt string
	client       *http.Client
}

// New creates a new OpenAI responder from config.
func New(cfg config.OpenAIConfig) *Responder {
	return &Responder{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:       cfg.APIKey,
		model:        cfg.CompletionModel,
		systemPrompt: cfg.SystemPrompt,
		client:       &http.Client{},
	}
}

// Name returns the backend identifier.
func (r *Responder) Name() string { return "openai" }

// Respond sends message to the Chat Completions API and returns the first choice.
func (r *Responder) Respond(ctx context.Context, message string) (string, error) {
	messages := make([]chatMessage, 0, 2)
	if r.systemPrompt != "" {
		messages = append(messages, chatMessage{Role: "system", Content: r.systemPrompt})
	}
	messages = append(messages, chatMessage{Role: "user", Content: message})

	bodyBytes, err := json.Marshal(chatRequest{Model: r.model, Messages: messages})
	if err != nil {
		return "", fmt.Errorf("marshalling chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/chat/completions", bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating chat request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+r.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", fmt.Errorf("chat failed (status %d): %s", resp.StatusCode, respBody)
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("decoding chat response: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned from chat API")
	}

	content := chatResp.Choices[0].Message.Content
	slog.Debug("chat completion", "model", r.model, "reply_length", len(content))
	return content, nil
}

// Close is a no-op for the OpenAI responder.
func (r *Responder) Close() error { return nil }

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}
