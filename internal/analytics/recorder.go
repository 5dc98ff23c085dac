package analytics

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Recorder stamps and sequences events for one session before handing
// them to a sink. Sink failures are logged and swallowed; gameplay
// never depends on analytics delivery.
type Recorder struct {
	mu        sync.Mutex
	sessionID string
	clock     *Clock
	sink      Sink
	logger    *slog.Logger
	seq       int
}

// NewRecorder wires a recorder for the session. A nil sink drops every
// event; a nil clock stamps zero game time.
func NewRecorder(sessionID string, clock *Clock, sink Sink, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{sessionID: sessionID, clock: clock, sink: sink, logger: logger}
}

// Record emits one event. The payload is marshaled to JSON; a payload
// that cannot marshal is recorded without one.
func (r *Recorder) Record(ctx context.Context, eventType Type, payload any) {
	if r == nil || r.sink == nil {
		return
	}
	r.mu.Lock()
	r.seq++
	event := Event{
		ID:        uuid.NewString(),
		SessionID: r.sessionID,
		Seq:       r.seq,
		Type:      eventType,
		WallTime:  time.Now().UTC(),
	}
	if r.clock != nil {
		event.GameTime = r.clock.Elapsed()
	}
	r.mu.Unlock()

	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			r.logger.Warn("analytics payload marshal failed", "type", string(eventType), "error", err)
		} else {
			event.Payload = data
		}
	}
	if err := r.sink.Record(ctx, event); err != nil {
		r.logger.Warn("analytics sink failed", "type", string(eventType), "error", err)
	}
}
