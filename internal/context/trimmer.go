package ctxengine

import "github.com/tardislabs/tardis/internal/provider"

// Trimmer enforces the bounded-size invariants on the rolling history.
type Trimmer struct {
	config Config
}

// NewTrimmer creates a Trimmer with the given config.
func NewTrimmer(cfg Config) *Trimmer {
	return &Trimmer{config: cfg.withDefaults()}
}

// Trim returns history reduced to the configured bounds. It never errors
// and always terminates: each pass strictly shortens the history or exits
// via the retained floor.
//
// Two passes run in order. First, if the history exceeds the hard message
// cap, only the most recent cap messages are kept. Second, while the
// cumulative content length exceeds the character budget, the two oldest
// messages are removed as a unit so user/assistant alternation survives
// where possible. Pair removal stops rather than dropping the history
// below the retained floor; continuity wins over the character budget.
//
// The returned slice may share backing storage with the input.
func (t *Trimmer) Trim(history []provider.Message) []provider.Message {
	cfg := t.config

	if limit := cfg.maxMessages(); len(history) > limit {
		history = history[len(history)-limit:]
	}

	total := provider.CharLen(history)
	for total > cfg.MaxHistoryChars && len(history)-2 >= cfg.RetainFloor {
		total -= len(history[0].Content) + len(history[1].Content)
		history = history[2:]
	}

	return history
}
