package relay_test

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"

	"github.com/tardislabs/tardis/internal/provider"
	"github.com/tardislabs/tardis/internal/provider/providertest"
)

func wsExchange(ctx context.Context, t *testing.T, conn *websocket.Conn, payload string) map[string]any {
	t.Helper()
	if err := conn.Write(ctx, websocket.MessageText, []byte(payload)); err != nil {
		t.Fatalf("ws write: %v", err)
	}
	_, data, err := conn.Read(ctx)
	if err != nil {
		t.Fatalf("ws read: %v", err)
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("ws decode %q: %v", data, err)
	}
	return out
}

func TestWS_ChatSession(t *testing.T) {
	t.Parallel()

	mock := &providertest.MockProvider{
		CompleteFunc: func(_ context.Context, req provider.CompletionRequest) (provider.CompletionResponse, error) {
			last := req.Messages[len(req.Messages)-1]
			return provider.CompletionResponse{Reply: "echo: " + last.Content}, nil
		},
	}
	ts := newTestServer(t, mock)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	url := strings.Replace(ts.URL, "http", "ws", 1) + "/ws"
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		t.Fatalf("ws dial: %v", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "") //nolint:errcheck // test cleanup

	out := wsExchange(ctx, t, conn, `{"input":"hello tardis"}`)
	if out["reply"] != "echo: hello tardis" {
		t.Errorf("reply = %v", out["reply"])
	}

	// Cipher commands short-circuit on the server side too.
	out = wsExchange(ctx, t, conn, `{"input":"/rot13 hello"}`)
	if out["reply"] != "ROT13: uryyb" {
		t.Errorf("local command reply = %v", out["reply"])
	}
	if out["local"] != true {
		t.Errorf("local flag = %v, want true", out["local"])
	}
	if got := mock.Calls(); got != 1 {
		t.Errorf("provider calls = %d, want 1 (cipher command must not reach the model)", got)
	}

	// Reset clears the server-side session.
	out = wsExchange(ctx, t, conn, `{"reset":true}`)
	if reply, _ := out["reply"].(string); !strings.Contains(reply, "cleared") {
		t.Errorf("reset reply = %v", out["reply"])
	}
}

func TestWS_PersonaLevelsReachPrompt(t *testing.T) {
	t.Parallel()

	mock := &providertest.MockProvider{
		CompleteFunc: func(_ context.Context, req provider.CompletionRequest) (provider.CompletionResponse, error) {
			return provider.CompletionResponse{Reply: "ok"}, nil
		},
	}
	ts := newTestServer(t, mock)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, strings.Replace(ts.URL, "http", "ws", 1)+"/ws", nil)
	if err != nil {
		t.Fatalf("ws dial: %v", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "") //nolint:errcheck // test cleanup

	wsExchange(ctx, t, conn, `{"input":"hello","truthfulness":90,"levity":10}`)

	req := mock.Requests()[0]
	if !strings.Contains(req.Messages[0].Content, "Be strictly truthful") {
		t.Errorf("system prompt does not reflect truthfulness=90")
	}
	if !strings.Contains(req.Messages[0].Content, "No humour") {
		t.Errorf("system prompt does not reflect levity=10")
	}
}
