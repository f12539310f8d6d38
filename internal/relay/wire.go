package relay

import (
	"unicode/utf8"

	"github.com/tardislabs/tardis/internal/provider"
)

// Request-shape caps. Oversized payloads are clipped, not rejected, so a
// chatty client degrades gracefully instead of erroring.
const (
	// maxMessages is the structured-shape cap; only the most recent
	// messages are forwarded.
	maxMessages = 40

	// maxContentChars truncates each structured message's content.
	maxContentChars = 8000

	// maxRoleChars truncates role strings.
	maxRoleChars = 20

	// maxLegacyChars clips the legacy system and message fields.
	maxLegacyChars = 4000

	// defaultMaxNewTokens is used when the client does not cap the reply.
	defaultMaxNewTokens = 220
)

// defaultTemperature is used when the client does not set one.
var defaultTemperature = 0.6

// ChatRequest is the relay's inbound JSON shape. Two request styles are
// accepted: the structured messages array, and the legacy single-message
// form (system + message) which is normalized into one or two messages.
type ChatRequest struct {
	Model    string             `json:"model,omitempty"`
	Messages []provider.Message `json:"messages,omitempty"`

	// Legacy shape.
	System  string `json:"system,omitempty"`
	Message string `json:"message,omitempty"`

	MaxTokens    int      `json:"max_tokens,omitempty"`
	MaxNewTokens int      `json:"max_new_tokens,omitempty"`
	Temperature  *float64 `json:"temperature,omitempty"`
}

// ChatResponse is the relay's success JSON shape.
type ChatResponse struct {
	Reply string `json:"reply"`
}

// ErrorResponse is the relay's failure JSON shape.
type ErrorResponse struct {
	Error  string `json:"error"`
	Status int    `json:"status,omitempty"`
	Detail string `json:"detail,omitempty"`
}

// Normalize converts a ChatRequest into the upstream completion request,
// applying the payload caps. It returns false when the request carries no
// usable message in either shape.
func Normalize(req ChatRequest) (provider.CompletionRequest, bool) {
	var messages []provider.Message

	switch {
	case len(req.Messages) > 0:
		messages = clipMessages(req.Messages)
	case req.Message != "":
		if system := clip(req.System, maxLegacyChars); system != "" {
			messages = append(messages, provider.Message{
				Role:    provider.MessageRoleSystem,
				Content: system,
			})
		}
		messages = append(messages, provider.Message{
			Role:    provider.MessageRoleUser,
			Content: clip(req.Message, maxLegacyChars),
		})
	default:
		return provider.CompletionRequest{}, false
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = req.MaxNewTokens
	}
	if maxTokens == 0 {
		maxTokens = defaultMaxNewTokens
	}

	temperature := req.Temperature
	if temperature == nil {
		temperature = &defaultTemperature
	}

	return provider.CompletionRequest{
		Model:       req.Model,
		Messages:    messages,
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}, true
}

// clipMessages keeps the most recent maxMessages entries and truncates
// role and content fields in the copy; the caller's slice is untouched.
func clipMessages(in []provider.Message) []provider.Message {
	if len(in) > maxMessages {
		in = in[len(in)-maxMessages:]
	}
	out := make([]provider.Message, len(in))
	for i, m := range in {
		out[i] = provider.Message{
			Role:    provider.MessageRole(clip(string(m.Role), maxRoleChars)),
			Content: clip(m.Content, maxContentChars),
		}
	}
	return out
}

// clip truncates s to at most limit bytes, backing off to a rune
// boundary so a clipped message never carries invalid UTF-8 upstream.
func clip(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit]
}
