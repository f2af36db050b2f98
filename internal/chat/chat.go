// Package chat defines the interface for conversational text completion.
//
// A Responder takes a single user message and returns the assistant reply.
// aigateway ships with two backends: OpenAI (cloud) and Local (self-hosted
// via Ollama or any OpenAI-compatible server).
package chat

import "context"

// Responder produces a reply to a single user message.
type Responder interface {
	// Name returns the backend identifier (e.g., "openai", "local").
	Name() string

	// Respond returns the assistant reply to message.
	Respond(ctx context.Context, message string) (string, error)

	// Close releases any resources held by the responder.
	Close() error
}
