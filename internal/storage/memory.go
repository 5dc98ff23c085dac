package storage

import (
	"context"
	"sync"

	"github.com/louisbranch/diagram.games/internal/analytics"
)

// Memory is an in-process Store. It backs tests and hosts that do not
// need persistence across restarts.
type Memory struct {
	mu        sync.RWMutex
	snapshots map[string]Snapshot
	events    map[string][]analytics.Event
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		snapshots: make(map[string]Snapshot),
		events:    make(map[string][]analytics.Event),
	}
}

// SaveSnapshot stores the snapshot, replacing any prior one for the
// session.
func (m *Memory) SaveSnapshot(ctx context.Context, snapshot Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	data := append([]byte(nil), snapshot.Data...)
	snapshot.Data = data
	m.snapshots[snapshot.SessionID] = snapshot
	return nil
}

// LoadSnapshot returns the stored snapshot or ErrNotFound.
func (m *Memory) LoadSnapshot(ctx context.Context, sessionID string) (Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	snapshot, ok := m.snapshots[sessionID]
	if !ok {
		return Snapshot{}, ErrNotFound
	}
	snapshot.Data = append([]byte(nil), snapshot.Data...)
	return snapshot, nil
}

// DeleteSnapshot removes the stored snapshot. Deleting a missing
// snapshot is a no-op.
func (m *Memory) DeleteSnapshot(ctx context.Context, sessionID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.snapshots, sessionID)
	return nil
}

// AppendEvent adds the event to the session's journal.
func (m *Memory) AppendEvent(ctx context.Context, event analytics.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events[event.SessionID] = append(m.events[event.SessionID], event)
	return nil
}

// ListEvents returns the session's journal in append order.
func (m *Memory) ListEvents(ctx context.Context, sessionID string) ([]analytics.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]analytics.Event(nil), m.events[sessionID]...), nil
}

// Close releases nothing; it satisfies the Store interface.
func (m *Memory) Close() error { return nil }
