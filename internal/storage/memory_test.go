package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/louisbranch/diagram.games/internal/analytics"
)

func TestMemorySnapshotRoundTrip(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	if _, err := store.LoadSnapshot(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("LoadSnapshot(missing) = %v, want ErrNotFound", err)
	}

	snapshot := Snapshot{SessionID: "sess-1", Data: []byte(`{"score":10}`), SavedAt: time.Now()}
	if err := store.SaveSnapshot(ctx, snapshot); err != nil {
		t.Fatalf("SaveSnapshot() = %v", err)
	}

	loaded, err := store.LoadSnapshot(ctx, "sess-1")
	if err != nil {
		t.Fatalf("LoadSnapshot() = %v", err)
	}
	if string(loaded.Data) != `{"score":10}` {
		t.Errorf("Data = %s", loaded.Data)
	}

	// The stored copy is isolated from caller mutation.
	snapshot.Data[2] = 'X'
	loaded, _ = store.LoadSnapshot(ctx, "sess-1")
	if string(loaded.Data) != `{"score":10}` {
		t.Errorf("stored data aliased caller slice: %s", loaded.Data)
	}

	if err := store.DeleteSnapshot(ctx, "sess-1"); err != nil {
		t.Fatalf("DeleteSnapshot() = %v", err)
	}
	if _, err := store.LoadSnapshot(ctx, "sess-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("LoadSnapshot after delete = %v, want ErrNotFound", err)
	}
}

func TestMemoryEventJournal(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		event := analytics.Event{
			ID:        string(rune('a' + i)),
			SessionID: "sess-1",
			Seq:       i,
			Type:      analytics.TypeLabelPlaced,
		}
		if err := store.AppendEvent(ctx, event); err != nil {
			t.Fatalf("AppendEvent(%d) = %v", i, err)
		}
	}

	events, err := store.ListEvents(ctx, "sess-1")
	if err != nil {
		t.Fatalf("ListEvents() = %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("ListEvents() returned %d events, want 3", len(events))
	}
	for i, event := range events {
		if event.Seq != i+1 {
			t.Errorf("event %d Seq = %d, want %d", i, event.Seq, i+1)
		}
	}

	other, _ := store.ListEvents(ctx, "sess-2")
	if len(other) != 0 {
		t.Errorf("ListEvents(other session) returned %d events, want 0", len(other))
	}
}

func TestMemoryRespectsContext(t *testing.T) {
	store := NewMemory()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := store.SaveSnapshot(ctx, Snapshot{SessionID: "sess-1"}); err == nil {
		t.Error("SaveSnapshot with canceled context = nil, want error")
	}
	if _, err := store.ListEvents(ctx, "sess-1"); err == nil {
		t.Error("ListEvents with canceled context = nil, want error")
	}
}
