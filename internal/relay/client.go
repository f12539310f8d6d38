package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/tardislabs/tardis/internal/provider"
)

// Client is a provider.Provider that speaks the relay's JSON shape.
// It lets the chat CLI sit behind a deployed relay instead of holding
// upstream credentials itself.
type Client struct {
	baseURL string
	model   string
	client  *http.Client
}

// NewClient creates a Client for the relay at baseURL.
func NewClient(baseURL, model string, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		client: &http.Client{
			Transport: &http.Transport{ResponseHeaderTimeout: timeout},
		},
	}
}

// Complete implements provider.Provider.
func (c *Client) Complete(ctx context.Context, req provider.CompletionRequest) (provider.CompletionResponse, error) {
	payload, err := json.Marshal(ChatRequest{
		Model:       req.Model,
		Messages:    req.Messages,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		return provider.CompletionResponse{}, fmt.Errorf("relay: marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(payload))
	if err != nil {
		return provider.CompletionResponse{}, fmt.Errorf("relay: create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return provider.CompletionResponse{}, ctx.Err()
		}
		return provider.CompletionResponse{}, fmt.Errorf("%w: %w", provider.ErrUpstreamDown, err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	if resp.StatusCode != http.StatusOK {
		var errResp ErrorResponse
		if decodeErr := json.NewDecoder(resp.Body).Decode(&errResp); decodeErr == nil && errResp.Error != "" {
			return provider.CompletionResponse{}, fmt.Errorf("%w: %s: %s", provider.ErrUpstreamDown, errResp.Error, errResp.Detail)
		}
		return provider.CompletionResponse{}, fmt.Errorf("%w: HTTP %d", provider.ErrUpstreamDown, resp.StatusCode)
	}

	var chatResp ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return provider.CompletionResponse{}, fmt.Errorf("relay: decode response: %w", err)
	}

	return provider.CompletionResponse{Reply: chatResp.Reply}, nil
}

// ModelName implements provider.Provider.
func (c *Client) ModelName() string {
	return c.model
}

// Compile-time interface assertion.
var _ provider.Provider = (*Client)(nil)
