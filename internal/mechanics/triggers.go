package mechanics

import "github.com/louisbranch/diagram.games/internal/blueprint"

// EvaluateTrigger decides whether a mode transition should fire. Named
// triggers go through the active mechanic's CheckTrigger first; a nil
// answer falls through to the generic zone-list and percentage
// triggers, which work identically across mechanics.
func EvaluateTrigger(bp *blueprint.Blueprint, prog *Progress, kind blueprint.MechanicKind, transition blueprint.ModeTransition) bool {
	if transition.Trigger != "" {
		if def, ok := Lookup(kind); ok {
			if v := def.CheckTrigger(transition.Trigger, bp, prog); v != nil {
				return *v
			}
		}
	}
	if len(transition.ZoneIDs) > 0 {
		for _, id := range transition.ZoneIDs {
			if !ZoneCompleted(bp, prog, id) {
				return false
			}
		}
		return true
	}
	if transition.Percent > 0 {
		return PercentLabeled(bp, prog) >= transition.Percent
	}
	return false
}

// ZoneCompleted reports whether every label targeting the zone is
// placed correctly.
func ZoneCompleted(bp *blueprint.Blueprint, prog *Progress, zoneID string) bool {
	return zoneCompleted(bp, prog, zoneID)
}

// PercentLabeled returns the percentage of labels currently placed
// correctly, truncated to a whole number.
func PercentLabeled(bp *blueprint.Blueprint, prog *Progress) int {
	if len(bp.Labels) == 0 {
		return 0
	}
	return prog.CorrectPlacements() * 100 / len(bp.Labels)
}

// RecomputeReveal rebuilds hierarchical reveal state from the current
// placements. Undo and snapshot restore call it instead of trying to
// invert reveal bookkeeping step by step.
func RecomputeReveal(bp *blueprint.Blueprint, prog *Progress) {
	prog.RevealedZones = hierarchyRoots(bp)
	prog.CompletedParents = nil
	for {
		before := len(prog.RevealedZones) + len(prog.CompletedParents)
		revealCompletedParents(bp, prog)
		if len(prog.RevealedZones)+len(prog.CompletedParents) == before {
			return
		}
	}
}
