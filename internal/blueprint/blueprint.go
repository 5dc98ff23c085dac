// Package blueprint defines the declarative description of a playable
// diagram game and the normalization pass that repairs raw blueprints
// produced by the upstream content pipeline.
package blueprint

import "strings"

// MechanicKind identifies one of the closed set of interaction mechanics.
type MechanicKind string

const (
	MechanicUnspecified         MechanicKind = ""
	MechanicDragDrop            MechanicKind = "drag_drop"
	MechanicClickToIdentify     MechanicKind = "click_to_identify"
	MechanicTracePath           MechanicKind = "trace_path"
	MechanicSequencing          MechanicKind = "sequencing"
	MechanicSortingCategories   MechanicKind = "sorting_categories"
	MechanicMemoryMatch         MechanicKind = "memory_match"
	MechanicBranchingScenario   MechanicKind = "branching_scenario"
	MechanicCompareContrast     MechanicKind = "compare_contrast"
	MechanicDescriptionMatching MechanicKind = "description_matching"
	// MechanicHierarchical layers progressive zone reveal over drag_drop:
	// a parent zone hides once its own placements complete and its child
	// zones become targetable.
	MechanicHierarchical MechanicKind = "hierarchical"
)

// IsValid reports whether the kind is a member of the closed mechanic set.
func (k MechanicKind) IsValid() bool {
	switch k {
	case MechanicDragDrop, MechanicClickToIdentify, MechanicTracePath,
		MechanicSequencing, MechanicSortingCategories, MechanicMemoryMatch,
		MechanicBranchingScenario, MechanicCompareContrast,
		MechanicDescriptionMatching, MechanicHierarchical:
		return true
	}
	return false
}

// DistractorMode selects when distractor placements are evaluated.
type DistractorMode string

const (
	// DistractorImmediate rejects a distractor placement on the spot and
	// removes it from the available pool.
	DistractorImmediate DistractorMode = "immediate"
	// DistractorDeferred accepts a distractor placement provisionally and
	// evaluates it at scene submission.
	DistractorDeferred DistractorMode = "deferred"
)

// Blueprint describes one playable game, or one scene of a multi-scene
// game. Blueprints are treated as read-only after normalization.
type Blueprint struct {
	Title          string         `json:"title"`
	Narrative      string         `json:"narrative,omitempty"`
	Diagram        Diagram        `json:"diagram"`
	Labels         []Label        `json:"labels"`
	Distractors    []Distractor   `json:"distractors,omitempty"`
	Mechanics      []Mechanic     `json:"mechanics"`
	DistractorMode DistractorMode `json:"distractorMode,omitempty"`

	// TotalMaxScore is the declared total. It is a consistency check
	// against the sum of per-mechanic max scores, not an enforced value.
	TotalMaxScore int `json:"totalMaxScore,omitempty"`

	ModeTransitions []ModeTransition `json:"modeTransitions,omitempty"`

	// Per-mechanic configuration blocks, keyed by mechanic type on the
	// wire. Only the blocks for the blueprint's mechanics are expected.
	Sequencing *SequencingConfig `json:"sequencing,omitempty"`
	Sorting    *SortingConfig    `json:"sortingCategories,omitempty"`
	Memory     *MemoryConfig     `json:"memoryMatch,omitempty"`
	Branching  *BranchingConfig  `json:"branchingScenario,omitempty"`
	Compare    *CompareConfig    `json:"compareContrast,omitempty"`
	Trace      *TraceConfig      `json:"tracePath,omitempty"`
	Identify   *IdentifyConfig   `json:"clickToIdentify,omitempty"`

	// Tasks subdivide this scene's content; each task plays a named
	// subset of zones/labels with its own mechanic.
	Tasks []Task `json:"tasks,omitempty"`

	// Scenes makes this a multi-scene game. When non-empty the top-level
	// diagram/labels are ignored and each scene carries its own content.
	Scenes []Scene `json:"scenes,omitempty"`
}

// Diagram is the background asset plus its spatial target regions.
type Diagram struct {
	Asset string `json:"asset,omitempty"`
	Zones []Zone `json:"zones"`
}

// Zone is a spatial target region on a diagram.
type Zone struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
	Shape       Shape  `json:"-"`

	// Hierarchy metadata for progressive-reveal games.
	ParentZoneID   string   `json:"parentZoneId,omitempty"`
	ChildZoneIDs   []string `json:"childZoneIds,omitempty"`
	HierarchyLevel int      `json:"hierarchyLevel,omitempty"`
}

// Label is a placeable token with a designated correct zone.
type Label struct {
	ID            string `json:"id"`
	Text          string `json:"text"`
	CorrectZoneID string `json:"correctZoneId"`
}

// Distractor is a label with no correct placement, used to test
// discrimination. The explanation is surfaced on rejection.
type Distractor struct {
	ID          string `json:"id"`
	Text        string `json:"text"`
	Explanation string `json:"explanation,omitempty"`
}

// Mechanic declares one interaction mechanic with its scoring parameters
// and feedback text.
type Mechanic struct {
	Kind              MechanicKind `json:"type"`
	PointsPerUnit     int          `json:"pointsPerCorrect"`
	CorrectFeedback   string       `json:"correctFeedback,omitempty"`
	IncorrectFeedback string       `json:"incorrectFeedback,omitempty"`
}

// ModeTransition swaps the active mechanic within a task once a trigger is
// satisfied. Transitions never change scene or task indexes.
type ModeTransition struct {
	From    MechanicKind `json:"from"`
	To      MechanicKind `json:"to"`
	Trigger string       `json:"trigger,omitempty"`
	// ZoneIDs makes this an explicit-zone-list trigger: the transition
	// fires once every listed zone is correctly labeled.
	ZoneIDs []string `json:"zoneIds,omitempty"`
	// Percent makes this a percentage trigger: the transition fires once
	// the given percent of labels are correctly placed.
	Percent int `json:"percent,omitempty"`
	// DelayMS paces the transition effect after the trigger fires.
	DelayMS int `json:"delayMs,omitempty"`
}

// Scene is one diagram plus its zones/labels within a multi-scene game.
type Scene struct {
	ID        string    `json:"id"`
	Title     string    `json:"title,omitempty"`
	Blueprint Blueprint `json:"blueprint"`
}

// Task is a named subset of a scene's content with its own mechanic.
type Task struct {
	ID       string       `json:"id"`
	Title    string       `json:"title,omitempty"`
	Kind     MechanicKind `json:"type"`
	ZoneIDs  []string     `json:"zoneIds,omitempty"`
	LabelIDs []string     `json:"labelIds,omitempty"`
}

// ZoneByID returns the zone with the given id, or nil.
func (b *Blueprint) ZoneByID(id string) *Zone {
	for i := range b.Diagram.Zones {
		if b.Diagram.Zones[i].ID == id {
			return &b.Diagram.Zones[i]
		}
	}
	return nil
}

// LabelByID returns the label with the given id, or nil.
func (b *Blueprint) LabelByID(id string) *Label {
	for i := range b.Labels {
		if b.Labels[i].ID == id {
			return &b.Labels[i]
		}
	}
	return nil
}

// DistractorByID returns the distractor with the given id, or nil.
func (b *Blueprint) DistractorByID(id string) *Distractor {
	for i := range b.Distractors {
		if b.Distractors[i].ID == id {
			return &b.Distractors[i]
		}
	}
	return nil
}

// MechanicByKind returns the mechanic declaration for the kind, or nil.
func (b *Blueprint) MechanicByKind(kind MechanicKind) *Mechanic {
	for i := range b.Mechanics {
		if b.Mechanics[i].Kind == kind {
			return &b.Mechanics[i]
		}
	}
	return nil
}

// PrimaryMechanic returns the first declared mechanic kind, defaulting to
// drag_drop when the blueprint declares none.
func (b *Blueprint) PrimaryMechanic() MechanicKind {
	if len(b.Mechanics) > 0 && b.Mechanics[0].Kind.IsValid() {
		return b.Mechanics[0].Kind
	}
	return MechanicDragDrop
}

// IsMultiScene reports whether the blueprint carries an ordered scene list.
func (b *Blueprint) IsMultiScene() bool {
	return len(b.Scenes) > 0
}

// TaskView returns a copy of the blueprint restricted to the task's zones
// and labels. Empty task id lists keep the full set.
func (b *Blueprint) TaskView(task Task) Blueprint {
	view := b.Clone()
	if len(task.ZoneIDs) > 0 {
		keep := make(map[string]bool, len(task.ZoneIDs))
		for _, id := range task.ZoneIDs {
			keep[id] = true
		}
		zones := view.Diagram.Zones[:0:0]
		for _, zone := range view.Diagram.Zones {
			if keep[zone.ID] {
				zones = append(zones, zone)
			}
		}
		view.Diagram.Zones = zones
	}
	if len(task.LabelIDs) > 0 {
		keep := make(map[string]bool, len(task.LabelIDs))
		for _, id := range task.LabelIDs {
			keep[id] = true
		}
		labels := view.Labels[:0:0]
		for _, label := range view.Labels {
			if keep[label.ID] {
				labels = append(labels, label)
			}
		}
		view.Labels = labels
	}
	if task.Kind.IsValid() {
		view.Mechanics = []Mechanic{taskMechanic(b, task.Kind)}
	}
	return view
}

// taskMechanic resolves the mechanic declaration a task should play with,
// inheriting scoring config from the scene's declaration when present.
func taskMechanic(b *Blueprint, kind MechanicKind) Mechanic {
	if m := b.MechanicByKind(kind); m != nil {
		return *m
	}
	return Mechanic{Kind: kind, PointsPerUnit: 10}
}

// Clone returns a deep copy of the blueprint. Normalization and task views
// operate on copies so the raw input is never mutated in place.
func (b *Blueprint) Clone() Blueprint {
	out := *b
	out.Diagram.Zones = cloneZones(b.Diagram.Zones)
	out.Labels = append([]Label(nil), b.Labels...)
	out.Distractors = append([]Distractor(nil), b.Distractors...)
	out.Mechanics = append([]Mechanic(nil), b.Mechanics...)
	out.ModeTransitions = cloneTransitions(b.ModeTransitions)
	out.Tasks = cloneTasks(b.Tasks)
	out.Sequencing = b.Sequencing.clone()
	out.Sorting = b.Sorting.clone()
	out.Memory = b.Memory.clone()
	out.Branching = b.Branching.clone()
	out.Compare = b.Compare.clone()
	out.Trace = b.Trace.clone()
	out.Identify = b.Identify.clone()
	if len(b.Scenes) > 0 {
		out.Scenes = make([]Scene, len(b.Scenes))
		for i, scene := range b.Scenes {
			out.Scenes[i] = Scene{
				ID:        scene.ID,
				Title:     scene.Title,
				Blueprint: scene.Blueprint.Clone(),
			}
		}
	}
	return out
}

func cloneZones(zones []Zone) []Zone {
	if zones == nil {
		return nil
	}
	out := make([]Zone, len(zones))
	for i, zone := range zones {
		out[i] = zone
		out[i].ChildZoneIDs = append([]string(nil), zone.ChildZoneIDs...)
		if poly, ok := zone.Shape.(Polygon); ok {
			out[i].Shape = Polygon{Points: append([]Point(nil), poly.Points...)}
		}
	}
	return out
}

func cloneTransitions(transitions []ModeTransition) []ModeTransition {
	if transitions == nil {
		return nil
	}
	out := make([]ModeTransition, len(transitions))
	for i, tr := range transitions {
		out[i] = tr
		out[i].ZoneIDs = append([]string(nil), tr.ZoneIDs...)
	}
	return out
}

func cloneTasks(tasks []Task) []Task {
	if tasks == nil {
		return nil
	}
	out := make([]Task, len(tasks))
	for i, task := range tasks {
		out[i] = task
		out[i].ZoneIDs = append([]string(nil), task.ZoneIDs...)
		out[i].LabelIDs = append([]string(nil), task.LabelIDs...)
	}
	return out
}

// equalFold is a trim-and-fold comparison used by normalization repair.
func equalFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
