package ctxengine

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/tardislabs/tardis/internal/provider"
)

// summarizerSystem is the dedicated persona for summarization requests.
// It is distinct from the conversational persona so slider settings never
// leak into the memory digest.
const summarizerSystem = "You are a summarizer for a mission assistant. Condense the conversation into a short memory digest. Capture the user's preferences, stated goals, and durable facts about them or their situation. Plain prose, no preamble, no more than 150 words."

// summarizerFinal is appended after the history as the actual request.
const summarizerFinal = "Summarize the conversation above."

// Summarizer refreshes the durable summary memory on a quantized cadence.
// Refreshes always re-derive from the full visible history rather than
// appending to the previous summary, so a bad digest heals on the next
// boundary.
type Summarizer struct {
	provider provider.Provider
	config   Config
	logger   *slog.Logger

	wg sync.WaitGroup
}

// NewSummarizer creates a Summarizer using the given transport.
func NewSummarizer(p provider.Provider, cfg Config, logger *slog.Logger) *Summarizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Summarizer{
		provider: p,
		config:   cfg.withDefaults(),
		logger:   logger.With("component", "summarizer"),
	}
}

// ShouldSummarize reports whether the history sits on a refresh boundary:
// the user-authored turn count is at least the cadence and an exact
// multiple of it. Between boundaries no upstream call is made.
func (s *Summarizer) ShouldSummarize(history []provider.Message) bool {
	userTurns := provider.CountRole(history, provider.MessageRoleUser)
	every := s.config.SummaryEvery
	return userTurns >= every && userTurns%every == 0
}

// Summarize requests a fresh digest of the entire history and truncates
// it to the configured ceiling. Callers that must not block should use
// Dispatch instead.
func (s *Summarizer) Summarize(ctx context.Context, history []provider.Message) (string, error) {
	messages := make([]provider.Message, 0, len(history)+2)
	messages = append(messages, provider.Message{Role: provider.MessageRoleSystem, Content: summarizerSystem})
	messages = append(messages, history...)
	messages = append(messages, provider.Message{Role: provider.MessageRoleUser, Content: summarizerFinal})

	temperature := 0.3
	resp, err := s.provider.Complete(ctx, provider.CompletionRequest{
		Messages:    messages,
		MaxTokens:   256,
		Temperature: &temperature,
	})
	if err != nil {
		return "", err
	}

	summary := strings.TrimSpace(resp.Reply)
	if len(summary) > s.config.MaxSummaryChars {
		// Back off to a rune boundary so the stored digest stays valid
		// UTF-8.
		cut := s.config.MaxSummaryChars
		for cut > 0 && !utf8.RuneStart(summary[cut]) {
			cut--
		}
		summary = summary[:cut]
	}
	return summary, nil
}

// Dispatch runs a summarization in the background, detached from the
// calling turn. The history is snapshotted before the goroutine starts so
// a later mutation by the caller cannot interleave with the request. On
// success apply is invoked with the new digest; any transport failure is
// swallowed and the prior summary stays in place.
func (s *Summarizer) Dispatch(history []provider.Message, apply func(summary string)) {
	snapshot := make([]provider.Message, len(history))
	copy(snapshot, history)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), s.config.SummaryTimeout)
		defer cancel()

		summary, err := s.Summarize(ctx, snapshot)
		if err != nil {
			s.logger.Debug("summarization failed, keeping prior summary", "error", err)
			return
		}
		if summary == "" {
			return
		}
		apply(summary)
	}()
}

// Wait blocks until all dispatched summarizations have finished. Used on
// shutdown and in tests; the conversational path never calls it.
func (s *Summarizer) Wait() {
	s.wg.Wait()
}
