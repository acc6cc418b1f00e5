// Package history persists executed gestures to SQLite for post-session
// diagnostics. It subscribes to the event bus; it never sits on the
// dispatch path.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/ZeynelAbidin91/EndlessRunnerSampleGame/internal/gesture"
)

var ErrClosed = errors.New("history store closed")

const schema = `
CREATE TABLE IF NOT EXISTS executions (
	id         TEXT PRIMARY KEY,
	session_id TEXT NOT NULL,
	category   TEXT NOT NULL,
	fired_at   TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_executions_fired_at ON executions(fired_at);
`

// Execution is one recorded action.
type Execution struct {
	ID        string
	SessionID string
	Category  string
	FiredAt   time.Time
}

// Store is the execution log. One session id is minted per Open so runs
// can be told apart.
type Store struct {
	db      *sql.DB
	session string
}

// Open creates or opens the database at path and applies the schema.
func Open(ctx context.Context, path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db, session: uuid.NewString()}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SessionID returns the id minted for this run.
func (s *Store) SessionID() string {
	return s.session
}

// Record appends one executed gesture.
func (s *Store) Record(ctx context.Context, cat gesture.Category, firedAt time.Time) error {
	if s == nil || s.db == nil {
		return ErrClosed
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO executions(id, session_id, category, fired_at)
VALUES (?, ?, ?, ?)
`, uuid.NewString(), s.session, cat.String(), firedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("record execution: %w", err)
	}
	return nil
}

// Recent returns the latest n executions, newest first.
func (s *Store) Recent(ctx context.Context, n int) ([]Execution, error) {
	if s == nil || s.db == nil {
		return nil, ErrClosed
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT id, session_id, category, fired_at
FROM executions
ORDER BY fired_at DESC
LIMIT ?
`, n)
	if err != nil {
		return nil, fmt.Errorf("query executions: %w", err)
	}
	defer rows.Close()

	var out []Execution
	for rows.Next() {
		var e Execution
		var fired string
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Category, &fired); err != nil {
			return nil, fmt.Errorf("scan execution: %w", err)
		}
		t, err := time.Parse(time.RFC3339Nano, fired)
		if err != nil {
			return nil, fmt.Errorf("parse fired_at %q: %w", fired, err)
		}
		e.FiredAt = t
		out = append(out, e)
	}
	return out, rows.Err()
}
