// Package provider defines the chat-completion transport interface and the
// message types shared by the session controller, the context engine, and
// the relay.
package provider

import "context"

// Provider is the interface for a chat-completion backend. Concrete
// implementations live in separate packages (internal/upstream for the
// OpenAI-compatible router, internal/relay for the relay JSON shape).
type Provider interface {
	// Complete sends a completion request and returns the full reply.
	// Implementations must honor ctx cancellation and deadlines.
	Complete(ctx context.Context, req CompletionRequest) (CompletionResponse, error)

	// ModelName returns the identifier of the default model, used when a
	// request does not name one.
	ModelName() string
}
