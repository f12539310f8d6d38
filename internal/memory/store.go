// Package memory provides durable storage for the two conversation slots:
// the rolling history and the summary memory blob.
package memory

import "github.com/tardislabs/tardis/internal/provider"

// Slot keys. The v1 suffix versions the stored shape so a future schema
// change can migrate without colliding with older values.
const (
	KeyHistory = "tardis_history_v1"
	KeySummary = "tardis_memory_v1"
)

// Store persists the conversation slots for a single local profile.
//
// Loads are fail-open: a missing, unreadable, or corrupted value degrades
// to the empty default so a storage problem can never block the
// conversation. Saves are best-effort; callers may surface the error but
// must not treat it as fatal. Implementations must be safe for concurrent
// use.
type Store interface {
	// LoadHistory returns the stored history, or nil if absent or corrupt.
	LoadHistory() []provider.Message

	// SaveHistory replaces the stored history.
	SaveHistory(history []provider.Message) error

	// LoadSummary returns the stored summary memory, or "" if absent.
	LoadSummary() string

	// SaveSummary replaces the stored summary memory.
	SaveSummary(summary string) error

	// Reset clears both slots.
	Reset() error
}
