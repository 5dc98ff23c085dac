package mechanics

import "github.com/louisbranch/diagram.games/internal/blueprint"

// Verb discriminates the action union. Each verb maps to exactly one
// progress mutation in Dispatch.
type Verb string

const (
	VerbPlace            Verb = "place"
	VerbRemove           Verb = "remove"
	VerbIdentify         Verb = "identify"
	VerbTrace            Verb = "trace"
	VerbReorder          Verb = "reorder"
	VerbSubmitSequence   Verb = "submit_sequence"
	VerbSortPlace        Verb = "sort_place"
	VerbSubmitSort       Verb = "submit_sort"
	VerbFlip             Verb = "flip"
	VerbChoose           Verb = "choose"
	VerbCategorize       Verb = "categorize"
	VerbSubmitCompare    Verb = "submit_compare"
	VerbMatchDescription Verb = "match_description"
	VerbHint             Verb = "hint"
)

// Action is one discrete player gesture, already translated from raw
// pointer or keyboard input by the presentation layer. Only the fields
// the verb needs are set; spatial verbs may carry a point instead of a
// zone id.
type Action struct {
	Verb Verb `json:"verb"`

	LabelID    string `json:"labelId,omitempty"`
	ZoneID     string `json:"zoneId,omitempty"`
	ItemID     string `json:"itemId,omitempty"`
	CategoryID string `json:"categoryId,omitempty"`
	CardID     string `json:"cardId,omitempty"`
	ChoiceID   string `json:"choiceId,omitempty"`

	// Order is the full item ordering for reorder actions.
	Order []string `json:"order,omitempty"`

	// Side is the compare/contrast assignment for categorize actions.
	Side blueprint.CompareSide `json:"side,omitempty"`

	// HasPoint marks X and Y as a diagram-space point (percentage
	// coordinates) to resolve through hit testing.
	HasPoint bool    `json:"hasPoint,omitempty"`
	X        float64 `json:"x,omitempty"`
	Y        float64 `json:"y,omitempty"`
}

// Result reports the outcome of one dispatched action. A nil Result
// from Dispatch means the action referenced an unknown id and was
// ignored without mutating state.
type Result struct {
	Correct    bool `json:"isCorrect"`
	ScoreDelta int  `json:"scoreDelta"`

	// ZoneID is the resolved target zone for spatial verbs.
	ZoneID string `json:"zoneId,omitempty"`

	// DistractorRejected marks an immediate-mode distractor placement.
	DistractorRejected bool `json:"distractorRejected,omitempty"`

	// Deferred marks a distractor placement accepted provisionally.
	Deferred bool `json:"deferred,omitempty"`

	Explanation string `json:"explanation,omitempty"`
	Feedback    string `json:"feedback,omitempty"`
}
