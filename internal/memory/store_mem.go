package memory

import (
	"sync"

	"github.com/tardislabs/tardis/internal/provider"
)

// InMemoryStore is a thread-safe, in-memory implementation of Store.
// Nothing survives process exit; it backs tests and the --ephemeral mode.
type InMemoryStore struct {
	mu      sync.RWMutex
	history []provider.Message
	summary string
}

// NewInMemoryStore creates an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

// Compile-time interface check.
var _ Store = (*InMemoryStore)(nil)

// LoadHistory returns a copy of the stored history.
func (s *InMemoryStore) LoadHistory() []provider.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.history) == 0 {
		return nil
	}
	out := make([]provider.Message, len(s.history))
	copy(out, s.history)
	return out
}

// SaveHistory replaces the stored history with a copy of the argument.
func (s *InMemoryStore) SaveHistory(history []provider.Message) error {
	cp := make([]provider.Message, len(history))
	copy(cp, history)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = cp
	return nil
}

// LoadSummary returns the stored summary memory.
func (s *InMemoryStore) LoadSummary() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.summary
}

// SaveSummary replaces the stored summary memory.
func (s *InMemoryStore) SaveSummary(summary string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summary = summary
	return nil
}

// Reset clears both slots.
func (s *InMemoryStore) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = nil
	s.summary = ""
	return nil
}
