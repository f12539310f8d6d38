// Package sqlite provides a SQLite-backed memory.Store. The two
// conversation slots are rows in a key-value table, serialized the same
// way a browser profile would hold them: the history as a JSON array of
// messages, the summary as a plain string.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/tardislabs/tardis/internal/memory"
	"github.com/tardislabs/tardis/internal/provider"

	_ "modernc.org/sqlite" // SQLite driver registration
)

// defaultBusyTimeout is the SQLite busy_timeout in milliseconds.
const defaultBusyTimeout = 5000

// schemaStatements are executed in order to create the database schema.
// All use IF NOT EXISTS for idempotent re-application.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS slots (
		key        TEXT NOT NULL PRIMARY KEY,
		value      TEXT NOT NULL DEFAULT '',
		updated_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now'))
	)`,
}

// Store is a memory.Store backed by a SQLite database file.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Compile-time interface check.
var _ memory.Store = (*Store)(nil)

// Open opens (creating if needed) the database at path and returns a
// ready Store. The database uses WAL mode, a 5 s busy timeout, and a
// single connection (SQLite serialises writes). Close the store when done.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("sqlite: create directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		fmt.Sprintf("PRAGMA busy_timeout=%d", defaultBusyTimeout),
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("sqlite: %s: %w", pragma, err)
		}
	}

	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("sqlite: migrate: %w", err)
		}
	}

	return &Store{db: db, logger: logger.With("component", "memory.sqlite")}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// LoadHistory returns the stored history. Any read or decode failure
// degrades to nil; a broken store must never block the conversation.
func (s *Store) LoadHistory() []provider.Message {
	raw, ok := s.loadSlot(memory.KeyHistory)
	if !ok || raw == "" {
		return nil
	}

	var history []provider.Message
	if err := json.Unmarshal([]byte(raw), &history); err != nil {
		s.logger.Warn("stored history is not a valid message array, starting fresh", "error", err)
		return nil
	}
	return history
}

// SaveHistory serialises and stores the history.
func (s *Store) SaveHistory(history []provider.Message) error {
	if history == nil {
		history = []provider.Message{}
	}
	raw, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("sqlite: marshal history: %w", err)
	}
	return s.saveSlot(memory.KeyHistory, string(raw))
}

// LoadSummary returns the stored summary memory, or "" on any failure.
func (s *Store) LoadSummary() string {
	raw, _ := s.loadSlot(memory.KeySummary)
	return raw
}

// SaveSummary stores the summary memory.
func (s *Store) SaveSummary(summary string) error {
	return s.saveSlot(memory.KeySummary, summary)
}

// Reset clears both slots.
func (s *Store) Reset() error {
	_, err := s.db.Exec("DELETE FROM slots WHERE key IN (?, ?)", memory.KeyHistory, memory.KeySummary)
	if err != nil {
		return fmt.Errorf("sqlite: reset slots: %w", err)
	}
	return nil
}

func (s *Store) loadSlot(key string) (string, bool) {
	var value string
	err := s.db.QueryRow("SELECT value FROM slots WHERE key = ?", key).Scan(&value)
	switch {
	case err == sql.ErrNoRows:
		return "", false
	case err != nil:
		s.logger.Warn("slot read failed, degrading to empty", "key", key, "error", err)
		return "", false
	}
	return value, true
}

func (s *Store) saveSlot(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO slots (key, value, updated_at) VALUES (?, ?, strftime('%Y-%m-%dT%H:%M:%fZ','now'))
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("sqlite: save slot %s: %w", key, err)
	}
	return nil
}
