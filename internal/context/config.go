// Package ctxengine implements conversation context management: bounded
// history trimming, persona prompt assembly, and background summarization.
package ctxengine

import "time"

// Config holds the tuning knobs for the context engine.
type Config struct {
	// MaxTurns is the number of user/assistant exchanges the rolling
	// window targets. The hard message cap is 2*MaxTurns + MessageBuffer.
	MaxTurns int `yaml:"max_turns"`

	// MessageBuffer is the slack over 2*MaxTurns before count trimming.
	MessageBuffer int `yaml:"message_buffer"`

	// MaxHistoryChars is the character budget across message contents.
	MaxHistoryChars int `yaml:"max_history_chars"`

	// RetainFloor is the minimum number of messages trimming preserves,
	// even at the cost of exceeding the character budget.
	RetainFloor int `yaml:"retain_floor"`

	// SummaryEvery is the user-turn cadence for summary refreshes. A
	// refresh triggers when the user-turn count is a positive multiple
	// of this value, at or above it.
	SummaryEvery int `yaml:"summary_every"`

	// MaxSummaryChars caps the persisted summary length.
	MaxSummaryChars int `yaml:"max_summary_chars"`

	// SummaryTimeout bounds each summarization call.
	SummaryTimeout time.Duration `yaml:"summary_timeout"`
}

// withDefaults returns a copy of cfg with unset fields replaced by
// sensible defaults. Non-positive values count as unset: every knob here
// needs to be at least 1 for the trim and cadence arithmetic to hold, so
// a negative config value falls back rather than poisoning the loops.
func (cfg Config) withDefaults() Config {
	if cfg.MaxTurns <= 0 {
		cfg.MaxTurns = 20
	}
	if cfg.MessageBuffer <= 0 {
		cfg.MessageBuffer = 4
	}
	if cfg.MaxHistoryChars <= 0 {
		cfg.MaxHistoryChars = 16000
	}
	if cfg.RetainFloor <= 0 {
		cfg.RetainFloor = 4
	}
	if cfg.SummaryEvery <= 0 {
		cfg.SummaryEvery = 6
	}
	if cfg.MaxSummaryChars <= 0 {
		cfg.MaxSummaryChars = 1500
	}
	if cfg.SummaryTimeout <= 0 {
		cfg.SummaryTimeout = 60 * time.Second
	}
	return cfg
}

// maxMessages is the hard cap on history length.
func (cfg Config) maxMessages() int {
	return 2*cfg.MaxTurns + cfg.MessageBuffer
}
