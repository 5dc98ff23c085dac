package analytics

import (
	"context"
	"log/slog"
)

// Sink accepts recorded events. Implementations must tolerate being
// called from the session's dispatch path and should not block.
type Sink interface {
	Record(ctx context.Context, event Event) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ctx context.Context, event Event) error

// Record calls the function.
func (f SinkFunc) Record(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// SlogSink writes events to a structured logger.
type SlogSink struct {
	Logger *slog.Logger
}

// Record logs the event at info level.
func (s SlogSink) Record(ctx context.Context, event Event) error {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, "analytics event",
		"event_id", event.ID,
		"session_id", event.SessionID,
		"seq", event.Seq,
		"type", string(event.Type),
		"game_time_ms", event.GameTime.Milliseconds(),
	)
	return nil
}

// MultiSink fans events out to every sink, returning the first error
// after all sinks have been called.
type MultiSink []Sink

// Record delivers the event to each sink in order.
func (m MultiSink) Record(ctx context.Context, event Event) error {
	var firstErr error
	for _, sink := range m {
		if err := sink.Record(ctx, event); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
