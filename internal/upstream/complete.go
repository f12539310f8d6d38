package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/tardislabs/tardis/internal/provider"
)

// Complete implements provider.Provider.
func (c *Client) Complete(ctx context.Context, req provider.CompletionRequest) (provider.CompletionResponse, error) {
	resp, err := c.doRequest(ctx, c.buildRequest(req))
	if err != nil {
		return provider.CompletionResponse{}, err
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	if resp.StatusCode != http.StatusOK {
		return provider.CompletionResponse{}, handleErrorResponse(resp)
	}

	var oaiResp oaiResponse
	if err := json.NewDecoder(resp.Body).Decode(&oaiResp); err != nil {
		return provider.CompletionResponse{}, fmt.Errorf("upstream: decode response: %w", err)
	}

	return parseResponse(oaiResp), nil
}

// buildRequest converts a provider.CompletionRequest into the wire shape,
// filling the configured default model when the request omits one.
func (c *Client) buildRequest(req provider.CompletionRequest) oaiRequest {
	messages := make([]oaiMessage, len(req.Messages))
	for i, m := range req.Messages {
		messages[i] = oaiMessage{Role: string(m.Role), Content: m.Content}
	}

	model := req.Model
	if model == "" {
		model = c.config.Model
	}

	return oaiRequest{
		Model:       model,
		Messages:    messages,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}
}

// parseResponse extracts the reply from the OpenAI-compatible shape:
// choices[0].message.content, falling back to the legacy choices[0].text.
func parseResponse(resp oaiResponse) provider.CompletionResponse {
	if len(resp.Choices) == 0 {
		return provider.CompletionResponse{}
	}
	choice := resp.Choices[0]
	reply := choice.Message.Content
	if reply == "" {
		reply = choice.Text
	}
	return provider.CompletionResponse{Reply: reply}
}

// doRequest executes an HTTP POST to the chat completions endpoint.
func (c *Client) doRequest(ctx context.Context, body oaiRequest) (*http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("upstream: marshal request: %w", err)
	}

	endpoint := c.config.BaseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("upstream: create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.resolveKey())

	resp, err := c.client.Do(req)
	if err != nil {
		// Caller cancellation is not an upstream failure.
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %w", provider.ErrUpstreamDown, err)
	}

	return resp, nil
}

// handleErrorResponse maps HTTP error status codes to sentinel errors.
func handleErrorResponse(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", provider.ErrRateLimit, body)
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: HTTP %d: %s", provider.ErrUpstreamDown, resp.StatusCode, body)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: HTTP %d: %s", provider.ErrAuthentication, resp.StatusCode, body)
	default:
		return fmt.Errorf("upstream: unexpected status %d: %s", resp.StatusCode, body)
	}
}

// Compile-time interface assertion.
var _ provider.Provider = (*Client)(nil)
