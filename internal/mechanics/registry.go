// Package mechanics implements the registry of interaction mechanics and
// the action dispatcher that advances their progress state.
//
// Every mechanic contributes one Definition record of pure functions to a
// single static table. Scene advancement, scoring, and validation stay
// mechanic-agnostic by looking the active mechanic up in the table instead
// of branching on its kind.
package mechanics

import (
	"fmt"
	"sort"

	"github.com/louisbranch/diagram.games/internal/blueprint"
	apperrors "github.com/louisbranch/diagram.games/internal/errors"
)

// Definition declares the per-mechanic functions the engine needs. All
// functions are pure: MaxScore depends only on blueprint content and the
// scoring parameter, never on runtime state.
type Definition struct {
	Kind blueprint.MechanicKind

	// ValidateConfig checks that the blueprint carries the data this
	// mechanic needs before gameplay starts.
	ValidateConfig func(bp *blueprint.Blueprint) error

	// Instructions extracts the player-facing instruction text.
	Instructions func(bp *blueprint.Blueprint) string

	// InitProgress seeds the mechanic's progress slice.
	InitProgress func(bp *blueprint.Blueprint, prog *Progress)

	// MaxScore computes the achievable score for the blueprint.
	MaxScore func(bp *blueprint.Blueprint, pointsPerUnit int) int

	// IsComplete reports whether the mechanic has been fully played.
	IsComplete func(bp *blueprint.Blueprint, prog *Progress) bool

	// CheckTrigger evaluates a named transition trigger. It returns nil
	// for triggers this mechanic does not recognize so the generic
	// percentage and zone-list fallbacks can handle them uniformly.
	CheckTrigger func(name string, bp *blueprint.Blueprint, prog *Progress) *bool
}

// registry is the static mechanic table. hierarchical shares the drag_drop
// definition with reveal-aware initialization.
var registry = map[blueprint.MechanicKind]Definition{
	blueprint.MechanicDragDrop:            dragDropDefinition(blueprint.MechanicDragDrop),
	blueprint.MechanicHierarchical:        dragDropDefinition(blueprint.MechanicHierarchical),
	blueprint.MechanicClickToIdentify:     identifyDefinition(),
	blueprint.MechanicTracePath:           traceDefinition(),
	blueprint.MechanicSequencing:          sequencingDefinition(),
	blueprint.MechanicSortingCategories:   sortingDefinition(),
	blueprint.MechanicMemoryMatch:         memoryDefinition(),
	blueprint.MechanicBranchingScenario:   branchingDefinition(),
	blueprint.MechanicCompareContrast:     compareDefinition(),
	blueprint.MechanicDescriptionMatching: describeDefinition(),
}

// Lookup returns the definition for the mechanic kind.
func Lookup(kind blueprint.MechanicKind) (Definition, bool) {
	def, ok := registry[kind]
	return def, ok
}

// Kinds returns the sorted list of registered mechanic kinds.
func Kinds() []blueprint.MechanicKind {
	kinds := make([]blueprint.MechanicKind, 0, len(registry))
	for kind := range registry {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// ValidateBlueprint runs ValidateConfig for every mechanic the blueprint
// declares. Configuration errors are fatal: the host must not start
// gameplay on a blueprint that fails here.
func ValidateBlueprint(bp *blueprint.Blueprint) error {
	if bp.IsMultiScene() {
		for i := range bp.Scenes {
			if err := ValidateBlueprint(&bp.Scenes[i].Blueprint); err != nil {
				return fmt.Errorf("scene %s: %w", bp.Scenes[i].ID, err)
			}
		}
		return nil
	}
	for _, mech := range bp.Mechanics {
		def, ok := Lookup(mech.Kind)
		if !ok {
			return apperrors.WithMetadata(
				apperrors.CodeMechanicUnknownKind,
				fmt.Sprintf("unknown mechanic kind %q", mech.Kind),
				map[string]string{"Kind": string(mech.Kind)},
			)
		}
		if err := def.ValidateConfig(bp); err != nil {
			return err
		}
	}
	for _, task := range bp.Tasks {
		if _, ok := Lookup(task.Kind); task.Kind != blueprint.MechanicUnspecified && !ok {
			return apperrors.WithMetadata(
				apperrors.CodeMechanicUnknownKind,
				fmt.Sprintf("task %s: unknown mechanic kind %q", task.ID, task.Kind),
				map[string]string{"Kind": string(task.Kind)},
			)
		}
	}
	return nil
}

// MaxScoreTotal sums the max scores of every declared mechanic. Hosts use
// this as a consistency check against the blueprint's declared total; a
// mismatch is reported, not enforced.
func MaxScoreTotal(bp *blueprint.Blueprint) int {
	if bp.IsMultiScene() {
		total := 0
		for i := range bp.Scenes {
			total += MaxScoreTotal(&bp.Scenes[i].Blueprint)
		}
		return total
	}
	total := 0
	for _, mech := range bp.Mechanics {
		def, ok := Lookup(mech.Kind)
		if !ok {
			continue
		}
		// The dispatcher awards the same default when the blueprint
		// declares no scoring parameter.
		total += def.MaxScore(bp, pointsFor(bp, mech.Kind))
	}
	return total
}
