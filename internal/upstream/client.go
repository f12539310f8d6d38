// Package upstream implements the chat-completions transport against an
// OpenAI-compatible API (the Hugging Face router by default, or anything
// else speaking the same shape via base_url).
package upstream

import "net/http"

// OpenAI-compatible wire types for JSON serialization.

type oaiRequest struct {
	Model       string       `json:"model"`
	Messages    []oaiMessage `json:"messages"`
	MaxTokens   int          `json:"max_tokens,omitempty"`
	Temperature *float64     `json:"temperature,omitempty"`
}

type oaiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type oaiResponse struct {
	Choices []oaiChoice `json:"choices"`
}

type oaiChoice struct {
	Message oaiMessage `json:"message"`
	Text    string     `json:"text"`
}

// maxErrorBodySize caps how much of an error response body is read.
const maxErrorBodySize = 4096

// Client is a provider.Provider talking to an OpenAI-compatible endpoint.
type Client struct {
	config Config
	client *http.Client
}

// New creates a Client from cfg.
func New(cfg Config) (*Client, error) {
	cfg.defaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Client{
		config: cfg,
		// Response-header timeout instead of a global client timeout so a
		// slow body read is governed by the request context alone.
		client: &http.Client{
			Transport: &http.Transport{ResponseHeaderTimeout: cfg.Timeout},
		},
	}, nil
}

// ModelName implements provider.Provider.
func (c *Client) ModelName() string {
	return c.config.Model
}
