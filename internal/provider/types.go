package provider

// MessageRole identifies the sender of a message in a conversation.
type MessageRole string

// MessageRole constants for conversation messages.
const (
	MessageRoleSystem    MessageRole = "system"
	MessageRoleUser      MessageRole = "user"
	MessageRoleAssistant MessageRole = "assistant"
)

// Message represents a single turn in a conversation. Ordering within a
// slice of Messages is chronological and significant.
type Message struct {
	Role    MessageRole `json:"role"`
	Content string      `json:"content"`
}

// CompletionRequest is the input to a Provider.Complete call.
type CompletionRequest struct {
	Model       string    `json:"model,omitempty"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature *float64  `json:"temperature,omitempty"`
}

// CompletionResponse is the output of a Provider.Complete call.
type CompletionResponse struct {
	Reply string `json:"reply"`
}

// CharLen returns the cumulative character length of the content fields.
func CharLen(messages []Message) int {
	total := 0
	for i := range messages {
		total += len(messages[i].Content)
	}
	return total
}

// CountRole returns the number of messages authored by the given role.
func CountRole(messages []Message, role MessageRole) int {
	n := 0
	for i := range messages {
		if messages[i].Role == role {
			n++
		}
	}
	return n
}
