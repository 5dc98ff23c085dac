package mechanics

import "github.com/louisbranch/diagram.games/internal/blueprint"

// PlacedLabel is the runtime record of one label placement. It lives for
// the duration of the current scene and is cleared on scene advance and
// reset.
type PlacedLabel struct {
	LabelID string `json:"labelId"`
	ZoneID  string `json:"zoneId"`
	Correct bool   `json:"isCorrect"`
	// Deferred marks a distractor placement accepted provisionally under
	// deferred rejection mode.
	Deferred bool `json:"deferred,omitempty"`
}

// Progress holds every mechanic's runtime state for the active scene.
// Slices are created by the registry's InitProgress for the active
// mechanic and mutated exclusively by Dispatch.
type Progress struct {
	Placed []PlacedLabel `json:"placed,omitempty"`
	Score  int           `json:"score"`

	// Awarded tracks labels that have already scored, so removing and
	// re-placing a label never awards twice.
	Awarded []string `json:"awarded,omitempty"`

	// RejectedDistractors holds distractor ids removed from the pool
	// under immediate rejection mode.
	RejectedDistractors []string `json:"rejectedDistractors,omitempty"`

	// Hierarchical reveal bookkeeping.
	RevealedZones    []string `json:"revealedZones,omitempty"`
	CompletedParents []string `json:"completedParents,omitempty"`

	// Hints counts hint requests per zone.
	Hints map[string]int `json:"hints,omitempty"`

	Identify  *IdentifyProgress  `json:"identify,omitempty"`
	Trace     *TraceProgress     `json:"trace,omitempty"`
	Sequence  *SequenceProgress  `json:"sequence,omitempty"`
	Sorting   *SortingProgress   `json:"sorting,omitempty"`
	Memory    *MemoryProgress    `json:"memory,omitempty"`
	Branching *BranchingProgress `json:"branching,omitempty"`
	Compare   *CompareProgress   `json:"compare,omitempty"`
	Describe  *DescribeProgress  `json:"describe,omitempty"`
}

// IdentifyProgress tracks click-to-identify: targets are prompted in
// order and found one at a time.
type IdentifyProgress struct {
	TargetZoneIDs []string `json:"targetZoneIds"`
	FoundZoneIDs  []string `json:"foundZoneIds,omitempty"`
	Misses        int      `json:"misses,omitempty"`
}

// TraceProgress tracks path tracing through ordered waypoints.
type TraceProgress struct {
	NextIndex      int      `json:"nextIndex"`
	VisitedZoneIDs []string `json:"visitedZoneIds,omitempty"`
}

// SequenceProgress tracks the player's ordering and submission state.
// BestCorrect is the high-water mark of correct positions already scored,
// so resubmissions only award improvement.
type SequenceProgress struct {
	Order            []string `json:"order"`
	Submitted        bool     `json:"isSubmitted"`
	CorrectPositions int      `json:"correctPositions"`
	BestCorrect      int      `json:"bestCorrect,omitempty"`
}

// SortingProgress tracks category assignments. Every item starts
// uncategorized (empty category id).
type SortingProgress struct {
	Assignments  map[string]string `json:"assignments"`
	Submitted    bool              `json:"isSubmitted"`
	CorrectCount int               `json:"correctCount"`
	BestCorrect  int               `json:"bestCorrect,omitempty"`
}

// MemoryProgress tracks face-up cards and matched pairs.
type MemoryProgress struct {
	FaceUpCardIDs  []string `json:"faceUpCardIds,omitempty"`
	MatchedPairIDs []string `json:"matchedPairIds,omitempty"`
	Moves          int      `json:"moves,omitempty"`
}

// BranchingProgress tracks the walk through the decision graph.
type BranchingProgress struct {
	CurrentNodeID  string   `json:"currentNodeId"`
	ChosenIDs      []string `json:"chosenIds,omitempty"`
	CorrectChoices int      `json:"correctChoices"`
	Finished       bool     `json:"finished"`
}

// CompareProgress tracks compare/contrast side assignments.
type CompareProgress struct {
	Assignments  map[string]blueprint.CompareSide `json:"assignments"`
	Submitted    bool                             `json:"isSubmitted"`
	CorrectCount int                              `json:"correctCount"`
	BestCorrect  int                              `json:"bestCorrect,omitempty"`
}

// DescribeProgress tracks which described zones have been matched.
type DescribeProgress struct {
	MatchedZoneIDs []string `json:"matchedZoneIds,omitempty"`
}

// NewProgress creates an empty progress container.
func NewProgress() *Progress {
	return &Progress{Hints: make(map[string]int)}
}

// PlacementFor returns the placement record for the label, or nil.
func (p *Progress) PlacementFor(labelID string) *PlacedLabel {
	for i := range p.Placed {
		if p.Placed[i].LabelID == labelID {
			return &p.Placed[i]
		}
	}
	return nil
}

// RemovePlacement drops the placement record for the label. It reports
// whether a record was removed.
func (p *Progress) RemovePlacement(labelID string) bool {
	for i := range p.Placed {
		if p.Placed[i].LabelID == labelID {
			p.Placed = append(p.Placed[:i], p.Placed[i+1:]...)
			return true
		}
	}
	return false
}

// hasAwarded reports whether the label already scored once.
func (p *Progress) hasAwarded(labelID string) bool {
	return containsString(p.Awarded, labelID)
}

// markAwarded records that the label has scored.
func (p *Progress) markAwarded(labelID string) {
	if !p.hasAwarded(labelID) {
		p.Awarded = append(p.Awarded, labelID)
	}
}

// ZoneRevealed reports whether the zone is targetable under hierarchical
// reveal. Outside hierarchical play every zone is targetable.
func (p *Progress) ZoneRevealed(zoneID string) bool {
	if p.RevealedZones == nil {
		return true
	}
	return containsString(p.RevealedZones, zoneID)
}

// CorrectPlacements counts placements with a correct ground truth.
func (p *Progress) CorrectPlacements() int {
	count := 0
	for _, placed := range p.Placed {
		if placed.Correct {
			count++
		}
	}
	return count
}

func containsString(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}

func appendUnique(values []string, v string) []string {
	if containsString(values, v) {
		return values
	}
	return append(values, v)
}
