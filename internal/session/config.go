package session

import (
	"time"

	ctxengine "github.com/tardislabs/tardis/internal/context"
)

// Config holds session controller configuration.
type Config struct {
	// Model names the upstream model; empty means the provider default.
	Model string `yaml:"model"`

	// RequestTimeout bounds the primary completion call.
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// MaxNewTokens is the reply length cap sent upstream.
	MaxNewTokens int `yaml:"max_new_tokens"`

	// Temperature is the sampling temperature sent upstream.
	Temperature float64 `yaml:"temperature"`

	// SummaryEnabled turns the background summary memory on.
	SummaryEnabled bool `yaml:"summary_enabled"`

	// Context tunes trimming and summarization.
	Context ctxengine.Config `yaml:"context"`
}

// withDefaults returns a copy of cfg with zero-valued fields replaced by
// sensible defaults.
func (cfg Config) withDefaults() Config {
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = 60 * time.Second
	}
	if cfg.MaxNewTokens == 0 {
		cfg.MaxNewTokens = 220
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.6
	}
	return cfg
}
