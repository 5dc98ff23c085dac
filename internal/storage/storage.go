// Package storage declares the persistence interfaces for session
// snapshots and analytics events. The core engine works against these
// interfaces; the SQLite implementation lives in a subpackage and an
// in-memory implementation alongside.
package storage

import (
	"context"
	"time"

	"github.com/louisbranch/diagram.games/internal/analytics"
	apperrors "github.com/louisbranch/diagram.games/internal/errors"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = apperrors.New(apperrors.CodeNotFound, "record not found")

// Snapshot is one serialized session state. Data is the session's own
// JSON encoding; storage treats it as opaque.
type Snapshot struct {
	SessionID string
	Data      []byte
	SavedAt   time.Time
}

// SessionStore persists session snapshots for resume-after-close.
type SessionStore interface {
	SaveSnapshot(ctx context.Context, snapshot Snapshot) error
	LoadSnapshot(ctx context.Context, sessionID string) (Snapshot, error)
	DeleteSnapshot(ctx context.Context, sessionID string) error
}

// EventStore persists the analytics event journal.
type EventStore interface {
	AppendEvent(ctx context.Context, event analytics.Event) error
	ListEvents(ctx context.Context, sessionID string) ([]analytics.Event, error)
}

// Store bundles every persistence concern behind one handle.
type Store interface {
	SessionStore
	EventStore
	Close() error
}
