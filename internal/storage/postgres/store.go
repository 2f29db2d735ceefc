// Package postgres implements the storage Provider on PostgreSQL via
// lib/pq. Connection strings must not embed credentials; use the
// environment or .pgpass.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"

	_ "github.com/lib/pq"

	"github.com/jstrick/ritual/internal/constants"
	"github.com/jstrick/ritual/internal/logger"
	"github.com/jstrick/ritual/internal/storage"
)

type Store struct {
	connStr string
	userID  string
	db      *sql.DB
	feed    *storage.Feed
}

func New(connStr, userID string) *Store {
	s := &Store{
		connStr: connStr,
		userID:  userID,
		feed:    storage.NewFeed(),
	}
	s.ensureSearchPath()
	return s
}

// ensureSearchPath pins search_path to the application schema unless the
// caller already set one.
func (s *Store) ensureSearchPath() {
	if strings.HasPrefix(s.connStr, "postgres://") || strings.HasPrefix(s.connStr, "postgresql://") {
		u, err := url.Parse(s.connStr)
		if err != nil {
			logger.Warn("Failed to parse Postgres connection string", "error", err)
			return
		}
		q := u.Query()
		if q.Get("search_path") == "" {
			q.Set("search_path", constants.AppName)
			u.RawQuery = q.Encode()
			s.connStr = u.String()
		}
		return
	}
	if !strings.Contains(strings.ToLower(s.connStr), "search_path=") {
		s.connStr = strings.TrimSpace(s.connStr) + " search_path=" + constants.AppName
	}
}

const schema = `
CREATE SCHEMA IF NOT EXISTS ` + constants.AppName + `;
CREATE TABLE IF NOT EXISTS ` + constants.AppName + `.habits (
	user_id         TEXT NOT NULL,
	id              TEXT NOT NULL,
	name            TEXT NOT NULL,
	recurrence_type TEXT NOT NULL DEFAULT '',
	weekdays        TEXT NOT NULL DEFAULT '',
	current_streak  INTEGER NOT NULL DEFAULT 0,
	longest_streak  INTEGER NOT NULL DEFAULT 0,
	last_completed  TEXT,
	created_at      TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (user_id, id)
);
CREATE TABLE IF NOT EXISTS ` + constants.AppName + `.completions (
	user_id  TEXT NOT NULL,
	day      TEXT NOT NULL,
	habit_id TEXT NOT NULL,
	PRIMARY KEY (user_id, day, habit_id)
);
CREATE TABLE IF NOT EXISTS ` + constants.AppName + `.day_notes (
	user_id  TEXT NOT NULL,
	day      TEXT NOT NULL,
	habit_id TEXT NOT NULL,
	note     TEXT NOT NULL,
	PRIMARY KEY (user_id, day, habit_id)
);
CREATE TABLE IF NOT EXISTS ` + constants.AppName + `.goals (
	user_id    TEXT NOT NULL,
	id         TEXT NOT NULL,
	text       TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (user_id, id)
);
CREATE TABLE IF NOT EXISTS ` + constants.AppName + `.checkins (
	user_id    TEXT NOT NULL,
	day        TEXT NOT NULL,
	mood       TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (user_id, day)
);`

func (s *Store) Init(ctx context.Context) error {
	if storage.HasEmbeddedCredentials(s.connStr) {
		return fmt.Errorf("connection string must not contain a password")
	}

	db, err := sql.Open("postgres", s.connStr)
	if err != nil {
		return fmt.Errorf("%w: %v", storage.ErrUnavailable, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
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
	return s.Init(ctx)
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
