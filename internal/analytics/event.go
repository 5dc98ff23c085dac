// Package analytics records discrete gameplay events against a pausable
// game clock. The session engine emits events through a Sink and never
// depends on the sink's outcome, so analytics failures cannot affect
// gameplay.
package analytics

import (
	"encoding/json"
	"time"
)

// Type is the dot-namespaced event discriminator.
type Type string

const (
	TypeLabelPlaced    Type = "label.placed"
	TypeLabelRemoved   Type = "label.removed"
	TypeZoneCompleted  Type = "zone.completed"
	TypeSceneCompleted Type = "scene.completed"
	TypeHintRequested  Type = "hint.requested"
	TypeHistoryUndo    Type = "history.undo"
	TypeHistoryRedo    Type = "history.redo"
	TypeGameCompleted  Type = "game.completed"
)

// Event is one recorded gameplay occurrence. GameTime is read from the
// session's pausable clock; WallTime is the real-world timestamp.
type Event struct {
	ID        string          `json:"id"`
	SessionID string          `json:"sessionId"`
	Seq       int             `json:"seq"`
	Type      Type            `json:"type"`
	GameTime  time.Duration   `json:"gameTime"`
	WallTime  time.Time       `json:"wallTime"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}
