// Package sqlite implements the storage Provider on a single SQLite file
// using the pure-Go driver. The atomic toggle batch maps onto one SQL
// transaction; the completion set is a rowset keyed (day, habit_id).
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/jstrick/ritual/internal/storage"
)

type Store struct {
	path   string
	userID string
	db     *sql.DB
	feed   *storage.Feed
}

func New(path, userID string) *Store {
	return &Store{
		path:   path,
		userID: userID,
		feed:   storage.NewFeed(),
	}
}

const schema = `
CREATE TABLE IF NOT EXISTS habits (
	user_id         TEXT NOT NULL,
	id              TEXT NOT NULL,
	name            TEXT NOT NULL,
	recurrence_type TEXT NOT NULL DEFAULT '',
	weekdays        TEXT NOT NULL DEFAULT '',
	current_streak  INTEGER NOT NULL DEFAULT 0,
	longest_streak  INTEGER NOT NULL DEFAULT 0,
	last_completed  TEXT,
	created_at      TEXT NOT NULL,
	PRIMARY KEY (user_id, id)
);
CREATE TABLE IF NOT EXISTS completions (
	user_id  TEXT NOT NULL,
	day      TEXT NOT NULL,
	habit_id TEXT NOT NULL,
	PRIMARY KEY (user_id, day, habit_id)
);
CREATE TABLE IF NOT EXISTS day_notes (
	user_id  TEXT NOT NULL,
	day      TEXT NOT NULL,
	habit_id TEXT NOT NULL,
	note     TEXT NOT NULL,
	PRIMARY KEY (user_id, day, habit_id)
);
CREATE TABLE IF NOT EXISTS goals (
	user_id    TEXT NOT NULL,
	id         TEXT NOT NULL,
	text       TEXT NOT NULL,
	created_at TEXT NOT NULL,
	PRIMARY KEY (user_id, id)
);
CREATE TABLE IF NOT EXISTS checkins (
	user_id    TEXT NOT NULL,
	day        TEXT NOT NULL,
	mood       TEXT NOT NULL,
	created_at TEXT NOT NULL,
	PRIMARY KEY (user_id, day)
);`

func (s *Store) Init(ctx context.Context) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("%w: %v", storage.ErrUnavailable, err)
	}
	s.db = db

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

func (s *Store) Load(ctx context.Context) error {
	if s.db != nil {
		return nil
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return fmt.Errorf("storage not initialized, run 'ritual init' first")
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("%w: %v", storage.ErrUnavailable, err)
	}
	s.db = db

	// Schema is idempotent; applying it on load also covers upgrades that
	// only add tables.
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to verify schema: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) WatchChanges(ctx context.Context) (<-chan storage.Event, error) {
	return s.feed.Subscribe(ctx), nil
}

// encodeWeekdays renders a weekday set as a comma-separated list of indices.
func encodeWeekdays(weekdays []time.Weekday) string {
	if len(weekdays) == 0 {
		return ""
	}
	parts := make([]string, 0, len(weekdays))
	for _, wd := range weekdays {
		parts = append(parts, strconv.Itoa(int(wd)))
	}
	return strings.Join(parts, ",")
}

func decodeWeekdays(raw string) ([]time.Weekday, error) {
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	weekdays := make([]time.Weekday, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 || n > 6 {
			return nil, fmt.Errorf("invalid weekday index %q", part)
		}
		weekdays = append(weekdays, time.Weekday(n))
	}
	return weekdays, nil
}
