// Package session implements the conversation controller: it owns the
// rolling history and summary memory, mirrors both to durable storage
// after every mutation, and orchestrates each user turn end to end.
package session

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/tardislabs/tardis/internal/command"
	ctxengine "github.com/tardislabs/tardis/internal/context"
	"github.com/tardislabs/tardis/internal/memory"
	"github.com/tardislabs/tardis/internal/provider"
)

// State is the controller's position in the per-turn state machine.
type State string

// Per-turn states. A turn moves Idle → Composing → AwaitingReply and back
// to Idle whether the transport succeeded or not; StateError is only
// observable while an error result is being assembled.
const (
	StateIdle          State = "idle"
	StateComposing     State = "composing"
	StateAwaitingReply State = "awaiting_reply"
	StateError         State = "error"
)

// ErrEmptyInput indicates a submission that was empty after trimming.
// Callers drop it silently; no turn is recorded.
var ErrEmptyInput = errors.New("session: empty input")

// transportErrorReply is the user-visible assistant turn shown when the
// primary completion call fails or times out.
const transportErrorReply = "Request failed. The proxy may be warming up or rate-limited. Please try again later."

// Result is the outcome of one submission.
type Result struct {
	// Reply is the text to show the user.
	Reply string

	// Local is true when a local command answered without the model.
	Local bool

	// Error is true when Reply is an error turn rather than a model reply.
	// Error turns are surfaced but never committed to history.
	Error bool
}

// Controller owns one conversation. All mutations of the history and
// summary flow through it; collaborators only ever see snapshots. Safe
// for concurrent use, though turns are serialized.
type Controller struct {
	provider   provider.Provider
	store      memory.Store
	trimmer    *ctxengine.Trimmer
	summarizer *ctxengine.Summarizer
	config     Config
	logger     *slog.Logger

	// turnMu is held for the full duration of a model-bound turn,
	// including the transport call, so concurrent Submits cannot
	// interleave their history mutations. mu guards the fields below
	// and is never held across the transport.
	turnMu sync.Mutex

	mu      sync.Mutex
	state   State
	persona ctxengine.Persona
	history []provider.Message
	summary string
}

// New creates a Controller and restores history and summary memory from
// the store. A broken store degrades to an empty conversation.
func New(p provider.Provider, store memory.Store, cfg Config, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	cfg = cfg.withDefaults()

	return &Controller{
		provider:   p,
		store:      store,
		trimmer:    ctxengine.NewTrimmer(cfg.Context),
		summarizer: ctxengine.NewSummarizer(p, cfg.Context, logger),
		config:     cfg,
		logger:     logger.With("component", "session"),
		state:      StateIdle,
		persona:    ctxengine.Persona{Truthfulness: 70, Levity: 40},
		history:    store.LoadHistory(),
		summary:    store.LoadSummary(),
	}
}

// SetPersona updates the tone levels used for subsequent prompt builds.
func (c *Controller) SetPersona(p ctxengine.Persona) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.persona = p
}

// State returns the controller's current per-turn state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// History returns a copy of the current rolling history.
func (c *Controller) History() []provider.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]provider.Message, len(c.history))
	copy(out, c.history)
	return out
}

// Summary returns the current summary memory.
func (c *Controller) Summary() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.summary
}

// Submit runs one user turn. Local commands resolve synchronously and
// leave the history untouched; everything else goes to the model with the
// freshly assembled system prompt and the trimmed history as context. On
// success the exchange is committed and persisted and a summary refresh
// may be dispatched in the background. On transport failure the turn is
// rolled back and an error result is returned; the stored history only
// ever holds complete exchanges.
func (c *Controller) Submit(ctx context.Context, input string) (Result, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return Result{}, ErrEmptyInput
	}

	// Cipher commands are a side channel, not part of the model's
	// conversational context.
	if reply, handled := command.Dispatch(input); handled {
		return Result{Reply: reply, Local: true}, nil
	}

	c.turnMu.Lock()
	defer c.turnMu.Unlock()

	c.mu.Lock()
	c.state = StateComposing

	c.history = append(c.history, provider.Message{Role: provider.MessageRoleUser, Content: input})
	c.history = c.trimmer.Trim(c.history)
	c.persistHistory()

	req := provider.CompletionRequest{
		Model:       c.config.Model,
		Messages:    c.assembleLocked(),
		MaxTokens:   c.config.MaxNewTokens,
		Temperature: &c.config.Temperature,
	}

	c.state = StateAwaitingReply
	c.mu.Unlock()

	callCtx, cancel := context.WithTimeout(ctx, c.config.RequestTimeout)
	defer cancel()
	resp, err := c.provider.Complete(callCtx, req)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.state = StateError
		c.logger.Warn("completion failed", "error", err)
		// Roll back the uncommitted user turn so the stored history is
		// never left mid-exchange.
		c.history = c.history[:len(c.history)-1]
		c.persistHistory()
		c.state = StateIdle
		return Result{Reply: transportErrorReply, Error: true}, nil
	}

	reply := strings.TrimSpace(resp.Reply)
	if reply == "" {
		reply = "(No response)"
	}

	c.history = append(c.history, provider.Message{Role: provider.MessageRoleAssistant, Content: reply})
	c.history = c.trimmer.Trim(c.history)
	c.persistHistory()

	if c.config.SummaryEnabled && c.summarizer.ShouldSummarize(c.history) {
		c.summarizer.Dispatch(c.history, c.applySummary)
	}

	c.state = StateIdle
	return Result{Reply: reply}, nil
}

// Reset clears the conversation and the summary memory, in memory and in
// the store.
func (c *Controller) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.history = nil
	c.summary = ""
	return c.store.Reset()
}

// Close waits for any in-flight background summarization to settle.
func (c *Controller) Close() {
	c.summarizer.Wait()
}

// assembleLocked builds the outbound message sequence: the synthesized
// system turn (never stored) followed by the rolling history. Callers
// must hold c.mu.
func (c *Controller) assembleLocked() []provider.Message {
	summary := ""
	if c.config.SummaryEnabled {
		summary = c.summary
	}
	system := ctxengine.BuildSystemPrompt(c.persona, summary)

	messages := make([]provider.Message, 0, len(c.history)+1)
	messages = append(messages, provider.Message{Role: provider.MessageRoleSystem, Content: system})
	return append(messages, c.history...)
}

// persistHistory mirrors the history to the store. Failures are logged
// and dropped; persistence must never block the conversation.
func (c *Controller) persistHistory() {
	if err := c.store.SaveHistory(c.history); err != nil {
		c.logger.Warn("history save failed", "error", err)
	}
}

// applySummary is the summarizer's completion callback. It takes the lock
// before writing so a late digest cannot race a newer turn.
func (c *Controller) applySummary(summary string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.summary = summary
	if err := c.store.SaveSummary(summary); err != nil {
		c.logger.Warn("summary save failed", "error", err)
	}
}
