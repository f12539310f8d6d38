package ctxengine_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"unicode/utf8"

	ctxengine "github.com/tardislabs/tardis/internal/context"
	"github.com/tardislabs/tardis/internal/provider"
	"github.com/tardislabs/tardis/internal/provider/providertest"
)

// historyWithUserTurns builds a history holding exactly n user turns, each
// followed by an assistant reply.
func historyWithUserTurns(n int) []provider.Message {
	history := make([]provider.Message, 0, 2*n)
	for i := 0; i < n; i++ {
		history = append(history,
			provider.Message{Role: provider.MessageRoleUser, Content: "question"},
			provider.Message{Role: provider.MessageRoleAssistant, Content: "answer"},
		)
	}
	return history
}

func TestShouldSummarize_Cadence(t *testing.T) {
	t.Parallel()

	s := ctxengine.NewSummarizer(&providertest.MockProvider{}, ctxengine.Config{}, nil)

	for userTurns := 0; userTurns <= 20; userTurns++ {
		want := userTurns >= 6 && userTurns%6 == 0
		if got := s.ShouldSummarize(historyWithUserTurns(userTurns)); got != want {
			t.Errorf("ShouldSummarize with %d user turns = %v, want %v", userTurns, got, want)
		}
	}
}

func TestSummarize_UsesFullHistoryAndDedicatedPersona(t *testing.T) {
	t.Parallel()

	mock := &providertest.MockProvider{
		CompleteFunc: func(_ context.Context, _ provider.CompletionRequest) (provider.CompletionResponse, error) {
			return provider.CompletionResponse{Reply: "  user is surveying craters  "}, nil
		},
	}
	s := ctxengine.NewSummarizer(mock, ctxengine.Config{}, nil)

	history := historyWithUserTurns(6)
	got, err := s.Summarize(context.Background(), history)
	if err != nil {
		t.Fatalf("Summarize: unexpected error: %v", err)
	}
	if got != "user is surveying craters" {
		t.Errorf("Summarize = %q, want trimmed reply", got)
	}

	reqs := mock.Requests()
	if len(reqs) != 1 {
		t.Fatalf("got %d provider calls, want 1", len(reqs))
	}
	msgs := reqs[0].Messages
	if len(msgs) != len(history)+2 {
		t.Fatalf("request has %d messages, want history plus system and final instruction", len(msgs))
	}
	if msgs[0].Role != provider.MessageRoleSystem || !strings.Contains(msgs[0].Content, "summarizer") {
		t.Errorf("first message is not the summarizer persona: %+v", msgs[0])
	}
	if last := msgs[len(msgs)-1]; last.Role != provider.MessageRoleUser {
		t.Errorf("final instruction role = %q, want user", last.Role)
	}
}

func TestSummarize_TruncatesToCeiling(t *testing.T) {
	t.Parallel()

	mock := &providertest.MockProvider{
		CompleteFunc: func(_ context.Context, _ provider.CompletionRequest) (provider.CompletionResponse, error) {
			return provider.CompletionResponse{Reply: strings.Repeat("x", 5000)}, nil
		},
	}
	s := ctxengine.NewSummarizer(mock, ctxengine.Config{MaxSummaryChars: 1500}, nil)

	got, err := s.Summarize(context.Background(), historyWithUserTurns(6))
	if err != nil {
		t.Fatalf("Summarize: unexpected error: %v", err)
	}
	if len(got) != 1500 {
		t.Errorf("summary length = %d, want 1500", len(got))
	}
}

func TestSummarize_TruncatesOnRuneBoundary(t *testing.T) {
	t.Parallel()

	// A multi-byte rune straddling the ceiling must be dropped whole, not
	// split into invalid UTF-8.
	mock := &providertest.MockProvider{
		CompleteFunc: func(_ context.Context, _ provider.CompletionRequest) (provider.CompletionResponse, error) {
			return provider.CompletionResponse{Reply: strings.Repeat("é", 20)}, nil
		},
	}
	s := ctxengine.NewSummarizer(mock, ctxengine.Config{MaxSummaryChars: 15}, nil)

	got, err := s.Summarize(context.Background(), historyWithUserTurns(6))
	if err != nil {
		t.Fatalf("Summarize: unexpected error: %v", err)
	}
	if !utf8.ValidString(got) {
		t.Errorf("truncated summary is not valid UTF-8: %q", got)
	}
	if len(got) != 14 {
		t.Errorf("summary length = %d, want 14 (seven 2-byte runes)", len(got))
	}
}

func TestDispatch_AppliesOnSuccess(t *testing.T) {
	t.Parallel()

	mock := &providertest.MockProvider{
		CompleteFunc: func(_ context.Context, _ provider.CompletionRequest) (provider.CompletionResponse, error) {
			return provider.CompletionResponse{Reply: "digest"}, nil
		},
	}
	s := ctxengine.NewSummarizer(mock, ctxengine.Config{}, nil)

	var (
		mu      sync.Mutex
		applied string
	)
	s.Dispatch(historyWithUserTurns(6), func(summary string) {
		mu.Lock()
		applied = summary
		mu.Unlock()
	})
	s.Wait()

	mu.Lock()
	defer mu.Unlock()
	if applied != "digest" {
		t.Errorf("applied summary = %q, want %q", applied, "digest")
	}
}

func TestDispatch_SwallowsFailure(t *testing.T) {
	t.Parallel()

	mock := &providertest.MockProvider{
		CompleteFunc: func(_ context.Context, _ provider.CompletionRequest) (provider.CompletionResponse, error) {
			return provider.CompletionResponse{}, errors.New("upstream exploded")
		},
	}
	s := ctxengine.NewSummarizer(mock, ctxengine.Config{}, nil)

	s.Dispatch(historyWithUserTurns(6), func(string) {
		t.Error("apply must not run when summarization fails")
	})
	s.Wait()
}

func TestDispatch_SnapshotsHistory(t *testing.T) {
	t.Parallel()

	var (
		mu   sync.Mutex
		seen []provider.Message
	)
	mock := &providertest.MockProvider{
		CompleteFunc: func(_ context.Context, req provider.CompletionRequest) (provider.CompletionResponse, error) {
			mu.Lock()
			seen = req.Messages
			mu.Unlock()
			return provider.CompletionResponse{Reply: "ok"}, nil
		},
	}
	s := ctxengine.NewSummarizer(mock, ctxengine.Config{}, nil)

	history := historyWithUserTurns(6)
	s.Dispatch(history, func(string) {})

	// Mutating the caller's slice after dispatch must not reach the request.
	history[0].Content = "mutated"
	s.Wait()

	mu.Lock()
	defer mu.Unlock()
	// seen = [system] + snapshot + [final]; snapshot starts at index 1.
	if seen[1].Content != "question" {
		t.Errorf("summarizer saw mutated history: %q", seen[1].Content)
	}
}
