package mechanics

import (
	"github.com/louisbranch/diagram.games/internal/blueprint"
	apperrors "github.com/louisbranch/diagram.games/internal/errors"
)

// TriggerAllZonesLabeled fires once every label is correctly placed.
const TriggerAllZonesLabeled = "all_zones_labeled"

// dragDropDefinition builds the shared definition for drag_drop and its
// hierarchical composite. The composite differs only in initialization:
// reveal starts at the hierarchy roots and descends as parents complete.
func dragDropDefinition(kind blueprint.MechanicKind) Definition {
	return Definition{
		Kind: kind,
		ValidateConfig: func(bp *blueprint.Blueprint) error {
			if len(bp.Diagram.Zones) == 0 {
				return apperrors.New(apperrors.CodeBlueprintNoZones, "drag_drop requires at least one zone")
			}
			if len(bp.Labels) == 0 {
				return apperrors.New(apperrors.CodeBlueprintNoLabels, "drag_drop requires at least one label")
			}
			return nil
		},
		Instructions: func(bp *blueprint.Blueprint) string {
			if kind == blueprint.MechanicHierarchical {
				return "Place each label on its matching region. New regions appear as you complete each level."
			}
			return "Drag each label onto its matching region of the diagram."
		},
		InitProgress: func(bp *blueprint.Blueprint, prog *Progress) {
			prog.Placed = nil
			if kind == blueprint.MechanicHierarchical {
				prog.RevealedZones = hierarchyRoots(bp)
				prog.CompletedParents = nil
			}
		},
		MaxScore: func(bp *blueprint.Blueprint, pointsPerUnit int) int {
			return len(bp.Labels) * pointsPerUnit
		},
		IsComplete: allLabelsPlacedCorrectly,
		CheckTrigger: func(name string, bp *blueprint.Blueprint, prog *Progress) *bool {
			if name == TriggerAllZonesLabeled {
				v := allLabelsPlacedCorrectly(bp, prog)
				return &v
			}
			return nil
		},
	}
}

// allLabelsPlacedCorrectly reports whether every label in the blueprint
// has a correct placement record.
func allLabelsPlacedCorrectly(bp *blueprint.Blueprint, prog *Progress) bool {
	if len(bp.Labels) == 0 {
		return false
	}
	for _, label := range bp.Labels {
		placed := prog.PlacementFor(label.ID)
		if placed == nil || !placed.Correct {
			return false
		}
	}
	return true
}

// hierarchyRoots returns the zones targetable at the start of a
// hierarchical game: zones with no parent, or level zero when no
// parent metadata is present.
func hierarchyRoots(bp *blueprint.Blueprint) []string {
	var roots []string
	for _, zone := range bp.Diagram.Zones {
		if zone.ParentZoneID == "" {
			roots = append(roots, zone.ID)
		}
	}
	if roots == nil {
		// Degenerate hierarchy metadata: reveal everything rather than
		// locking the player out.
		for _, zone := range bp.Diagram.Zones {
			roots = append(roots, zone.ID)
		}
	}
	return roots
}

// zoneCompleted reports whether every label targeting the zone has been
// placed correctly.
func zoneCompleted(bp *blueprint.Blueprint, prog *Progress, zoneID string) bool {
	targeted := false
	for _, label := range bp.Labels {
		if label.CorrectZoneID != zoneID {
			continue
		}
		targeted = true
		placed := prog.PlacementFor(label.ID)
		if placed == nil || !placed.Correct {
			return false
		}
	}
	return targeted
}

// revealCompletedParents hides parents whose placements are done and makes
// their children targetable. Called after every correct placement in
// hierarchical play.
func revealCompletedParents(bp *blueprint.Blueprint, prog *Progress) {
	for _, zone := range bp.Diagram.Zones {
		if len(zone.ChildZoneIDs) == 0 {
			continue
		}
		if containsString(prog.CompletedParents, zone.ID) {
			continue
		}
		if !zoneCompleted(bp, prog, zone.ID) {
			continue
		}
		prog.CompletedParents = append(prog.CompletedParents, zone.ID)
		for _, child := range zone.ChildZoneIDs {
			prog.RevealedZones = appendUnique(prog.RevealedZones, child)
		}
	}
}

// feedbackFor picks the mechanic's configured feedback line.
func feedbackFor(bp *blueprint.Blueprint, kind blueprint.MechanicKind, correct bool) string {
	mech := bp.MechanicByKind(kind)
	if mech == nil {
		return ""
	}
	if correct {
		return mech.CorrectFeedback
	}
	return mech.IncorrectFeedback
}

// pointsFor returns the mechanic's per-unit scoring parameter, defaulting
// to ten points when the blueprint declares none.
func pointsFor(bp *blueprint.Blueprint, kind blueprint.MechanicKind) int {
	mech := bp.MechanicByKind(kind)
	if mech == nil || mech.PointsPerUnit <= 0 {
		return 10
	}
	return mech.PointsPerUnit
}

