package upstream_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tardislabs/tardis/internal/provider"
	"github.com/tardislabs/tardis/internal/upstream"
)

func newClient(t *testing.T, baseURL string) *upstream.Client {
	t.Helper()
	c, err := upstream.New(upstream.Config{BaseURL: baseURL, APIKey: "test-key", Model: "test-model"})
	if err != nil {
		t.Fatalf("New: unexpected error: %v", err)
	}
	return c
}

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  upstream.Config
	}{
		{name: "missing base_url", cfg: upstream.Config{APIKey: "k"}},
		{name: "bad scheme", cfg: upstream.Config{BaseURL: "ftp://x", APIKey: "k"}},
		{name: "missing key", cfg: upstream.Config{BaseURL: "https://x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := upstream.New(tt.cfg); err == nil {
				t.Errorf("New accepted invalid config %+v", tt.cfg)
			}
		})
	}
}

func TestComplete_Success(t *testing.T) {
	t.Parallel()

	var gotAuth string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": "all systems nominal"}},
			},
		})
	}))
	defer srv.Close()

	client := newClient(t, srv.URL)
	resp, err := client.Complete(context.Background(), provider.CompletionRequest{
		Messages: []provider.Message{
			{Role: provider.MessageRoleSystem, Content: "be brief"},
			{Role: provider.MessageRoleUser, Content: "status"},
		},
		MaxTokens: 220,
	})
	if err != nil {
		t.Fatalf("Complete: unexpected error: %v", err)
	}
	if resp.Reply != "all systems nominal" {
		t.Errorf("Reply = %q", resp.Reply)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotBody["model"] != "test-model" {
		t.Errorf("request model = %v, want configured default", gotBody["model"])
	}
	if msgs, ok := gotBody["messages"].([]any); !ok || len(msgs) != 2 {
		t.Errorf("request messages = %v", gotBody["messages"])
	}
}

func TestComplete_LegacyTextFallback(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{"text": "plain completion"}},
		})
	}))
	defer srv.Close()

	resp, err := newClient(t, srv.URL).Complete(context.Background(), provider.CompletionRequest{
		Messages: []provider.Message{{Role: provider.MessageRoleUser, Content: "hi"}},
	})
	if err != nil {
		t.Fatalf("Complete: unexpected error: %v", err)
	}
	if resp.Reply != "plain completion" {
		t.Errorf("Reply = %q, want legacy text field", resp.Reply)
	}
}

func TestComplete_ErrorMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		status  int
		wantErr error
	}{
		{name: "rate limited", status: http.StatusTooManyRequests, wantErr: provider.ErrRateLimit},
		{name: "server error", status: http.StatusBadGateway, wantErr: provider.ErrUpstreamDown},
		{name: "unauthorized", status: http.StatusUnauthorized, wantErr: provider.ErrAuthentication},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, "nope", tt.status)
			}))
			defer srv.Close()

			_, err := newClient(t, srv.URL).Complete(context.Background(), provider.CompletionRequest{
				Messages: []provider.Message{{Role: provider.MessageRoleUser, Content: "hi"}},
			})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Complete error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestComplete_ContextCancellation(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newClient(t, srv.URL).Complete(ctx, provider.CompletionRequest{
		Messages: []provider.Message{{Role: provider.MessageRoleUser, Content: "hi"}},
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Complete error = %v, want context.Canceled", err)
	}
}
