package domain

import "context"

// LLMProvider is the interface for any hosted chat-completion backend.
// The classifier and responders depend on this capability, never on a
// concrete client, so tests can substitute a fake.
type LLMProvider interface {
	// Chat sends a request and returns a complete response.
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
	// Name returns the provider's identifier (e.g., "openai").
	Name() string
}
