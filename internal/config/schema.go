// Package config handles YAML configuration loading, environment variable
// expansion, and structural validation for tardis.
package config

import (
	"github.com/tardislabs/tardis/internal/relay"
	"github.com/tardislabs/tardis/internal/session"
	"github.com/tardislabs/tardis/internal/upstream"
)

// Config is the top-level configuration structure.
type Config struct {
	// Version is the config format version. Currently only "1" is supported.
	Version string `yaml:"version"`

	// Upstream configures the chat-completions API client.
	Upstream upstream.Config `yaml:"upstream"`

	// Relay configures the local HTTP/WebSocket relay server.
	Relay relay.Config `yaml:"relay,omitempty"`

	// Session configures the conversation controller.
	Session session.Config `yaml:"session,omitempty"`

	// Persona sets the default assistant persona levels (0-100 each).
	Persona PersonaConfig `yaml:"persona,omitempty"`

	// Memory configures conversation persistence.
	Memory MemoryConfig `yaml:"memory,omitempty"`
}

// PersonaConfig holds the default persona slider positions. Nil pointers
// mean "use the built-in default".
type PersonaConfig struct {
	Truthfulness *int `yaml:"truthfulness,omitempty"`
	Levity       *int `yaml:"levity,omitempty"`
}

// MemoryConfig selects how conversation state is persisted.
type MemoryConfig struct {
	// Path is the SQLite database file. Empty means in-memory only.
	Path string `yaml:"path,omitempty"`
}
