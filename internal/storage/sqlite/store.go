// Package sqlite implements storage.Store over a single SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/louisbranch/diagram.games/internal/analytics"
	"github.com/louisbranch/diagram.games/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/diagram.games/internal/storage"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// toMillis normalizes timestamps into millisecond precision for storage.
func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

// fromMillis restores millisecond precision and keeps UTC normalization.
func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Store implements session and event persistence over SQLite.
//
// A single SQLite file backs both the snapshot table and the analytics
// journal so one handle covers everything a player host needs.
type Store struct {
	sqlDB *sql.DB
}

// Open opens a SQLite store and applies bundled migrations.
//
// This keeps startup and schema evolution in one place, instead of
// requiring callers to coordinate migrations independently.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	if err := sqlitemigrate.ApplyMigrations(sqlDB, migrationsFS, "migrations"); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the underlying SQLite database.
//
// Close is intentionally nil-safe so callers can defer it in all startup
// paths.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// SaveSnapshot upserts the session's snapshot.
func (s *Store) SaveSnapshot(ctx context.Context, snapshot storage.Snapshot) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("sqlite store is not initialized")
	}
	if strings.TrimSpace(snapshot.SessionID) == "" {
		return fmt.Errorf("session id is required")
	}
	savedAt := snapshot.SavedAt
	if savedAt.IsZero() {
		savedAt = time.Now()
	}
	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO session_snapshots (session_id, data, saved_at)
VALUES (?, ?, ?)
ON CONFLICT(session_id) DO UPDATE SET data = excluded.data, saved_at = excluded.saved_at
`, snapshot.SessionID, snapshot.Data, toMillis(savedAt))
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot returns the session's snapshot or storage.ErrNotFound.
func (s *Store) LoadSnapshot(ctx context.Context, sessionID string) (storage.Snapshot, error) {
	if s == nil || s.sqlDB == nil {
		return storage.Snapshot{}, fmt.Errorf("sqlite store is not initialized")
	}
	row := s.sqlDB.QueryRowContext(ctx, `
SELECT data, saved_at FROM session_snapshots WHERE session_id = ?
`, sessionID)

	var data []byte
	var savedAt int64
	if err := row.Scan(&data, &savedAt); err != nil {
		if err == sql.ErrNoRows {
			return storage.Snapshot{}, storage.ErrNotFound
		}
		return storage.Snapshot{}, fmt.Errorf("load snapshot: %w", err)
	}
	return storage.Snapshot{
		SessionID: sessionID,
		Data:      data,
		SavedAt:   fromMillis(savedAt),
	}, nil
}

// DeleteSnapshot removes the session's snapshot. Deleting a missing
// snapshot is a no-op.
func (s *Store) DeleteSnapshot(ctx context.Context, sessionID string) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("sqlite store is not initialized")
	}
	if _, err := s.sqlDB.ExecContext(ctx, `
DELETE FROM session_snapshots WHERE session_id = ?
`, sessionID); err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	return nil
}

// AppendEvent writes one analytics event to the journal.
func (s *Store) AppendEvent(ctx context.Context, event analytics.Event) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("sqlite store is not initialized")
	}
	if strings.TrimSpace(event.ID) == "" {
		return fmt.Errorf("event id is required")
	}
	var payload any
	if len(event.Payload) > 0 {
		payload = string(event.Payload)
	}
	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO analytics_events (id, session_id, seq, type, game_time_ms, wall_time, payload)
VALUES (?, ?, ?, ?, ?, ?, ?)
`, event.ID, event.SessionID, event.Seq, string(event.Type), event.GameTime.Milliseconds(), toMillis(event.WallTime), payload)
	if err != nil {
		return fmt.Errorf("append event: %w", err)
	}
	return nil
}

// ListEvents returns the session's journal ordered by sequence number.
func (s *Store) ListEvents(ctx context.Context, sessionID string) ([]analytics.Event, error) {
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("sqlite store is not initialized")
	}
	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT id, seq, type, game_time_ms, wall_time, payload
FROM analytics_events
WHERE session_id = ?
ORDER BY seq ASC
`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []analytics.Event
	for rows.Next() {
		var event analytics.Event
		var gameTimeMS, wallTime int64
		var eventType string
		var payload sql.NullString
		if err := rows.Scan(&event.ID, &event.Seq, &eventType, &gameTimeMS, &wallTime, &payload); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		event.SessionID = sessionID
		event.Type = analytics.Type(eventType)
		event.GameTime = time.Duration(gameTimeMS) * time.Millisecond
		event.WallTime = fromMillis(wallTime)
		if payload.Valid && payload.String != "" {
			event.Payload = json.RawMessage(payload.String)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read events: %w", err)
	}
	return events, nil
}
