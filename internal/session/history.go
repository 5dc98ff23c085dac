package session

import "github.com/louisbranch/diagram.games/internal/mechanics"

// historyLimit bounds the undo stack. Older commands fall off the front.
const historyLimit = 50

// command is one serializable, invertible placement mutation. Only
// label-placement actions are undoable; submit-style and timer-driven
// progress is not reversible.
type command struct {
	Type    string `json:"type"` // "place" or "remove"
	LabelID string `json:"labelId"`
	ZoneID  string `json:"zoneId,omitempty"`
	Correct bool   `json:"correct,omitempty"`

	// Prior placement of the same label, restored on invert.
	HadPrev      bool   `json:"hadPrev,omitempty"`
	PrevZoneID   string `json:"prevZoneId,omitempty"`
	PrevCorrect  bool   `json:"prevCorrect,omitempty"`
	PrevDeferred bool   `json:"prevDeferred,omitempty"`

	// Scoring effect of the command, reversed on invert.
	ScoreDelta int  `json:"scoreDelta,omitempty"`
	Awarded    bool `json:"awarded,omitempty"`
}

// apply replays the command onto the progress state.
func (c command) apply(prog *mechanics.Progress) {
	prog.RemovePlacement(c.LabelID)
	if c.Type == "place" {
		prog.Placed = append(prog.Placed, mechanics.PlacedLabel{
			LabelID: c.LabelID,
			ZoneID:  c.ZoneID,
			Correct: c.Correct,
		})
	}
	prog.Score += c.ScoreDelta
	if c.Awarded {
		prog.Awarded = append(prog.Awarded, c.LabelID)
	}
}

// invert reverses the command's effect on the progress state.
func (c command) invert(prog *mechanics.Progress) {
	prog.RemovePlacement(c.LabelID)
	if c.HadPrev {
		prog.Placed = append(prog.Placed, mechanics.PlacedLabel{
			LabelID:  c.LabelID,
			ZoneID:   c.PrevZoneID,
			Correct:  c.PrevCorrect,
			Deferred: c.PrevDeferred,
		})
	}
	prog.Score -= c.ScoreDelta
	if c.Awarded {
		for i, id := range prog.Awarded {
			if id == c.LabelID {
				prog.Awarded = append(prog.Awarded[:i], prog.Awarded[i+1:]...)
				break
			}
		}
	}
}

// history is a bounded command stack with a cursor. Commands left of
// the cursor can be undone; commands at and right of it can be redone.
type history struct {
	entries []command
	cursor  int
}

// push appends a command, discarding any redo tail.
func (h *history) push(c command) {
	h.entries = append(h.entries[:h.cursor], c)
	if len(h.entries) > historyLimit {
		h.entries = h.entries[len(h.entries)-historyLimit:]
	}
	h.cursor = len(h.entries)
}

// undo returns the command to invert, or nil when nothing is undoable.
func (h *history) undo() *command {
	if h.cursor == 0 {
		return nil
	}
	h.cursor--
	return &h.entries[h.cursor]
}

// redo returns the command to reapply, or nil when nothing is redoable.
func (h *history) redo() *command {
	if h.cursor >= len(h.entries) {
		return nil
	}
	c := &h.entries[h.cursor]
	h.cursor++
	return c
}

// clear drops the whole stack.
func (h *history) clear() {
	h.entries = nil
	h.cursor = 0
}
