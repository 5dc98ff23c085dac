package mechanics

import (
	"github.com/louisbranch/diagram.games/internal/blueprint"
	apperrors "github.com/louisbranch/diagram.games/internal/errors"
)

// TriggerPathCompleted fires once the final waypoint is reached.
const TriggerPathCompleted = "path_completed"

func traceDefinition() Definition {
	return Definition{
		Kind: blueprint.MechanicTracePath,
		ValidateConfig: func(bp *blueprint.Blueprint) error {
			if bp.Trace == nil || len(bp.Trace.WaypointZoneIDs) == 0 {
				return apperrors.New(apperrors.CodeMechanicEmptyPath, "trace_path requires an ordered waypoint list")
			}
			for _, id := range bp.Trace.WaypointZoneIDs {
				if bp.ZoneByID(id) == nil {
					return apperrors.WithMetadata(
						apperrors.CodeMechanicMissingConfig,
						"trace_path waypoint references unknown zone",
						map[string]string{"ZoneID": id},
					)
				}
			}
			return nil
		},
		Instructions: func(bp *blueprint.Blueprint) string {
			if bp.Trace != nil && bp.Trace.Prompt != "" {
				return bp.Trace.Prompt
			}
			return "Trace the path through each region in order."
		},
		InitProgress: func(bp *blueprint.Blueprint, prog *Progress) {
			prog.Trace = &TraceProgress{}
		},
		MaxScore: func(bp *blueprint.Blueprint, pointsPerUnit int) int {
			if bp.Trace == nil {
				return 0
			}
			return len(bp.Trace.WaypointZoneIDs) * pointsPerUnit
		},
		IsComplete: func(bp *blueprint.Blueprint, prog *Progress) bool {
			return traceComplete(bp, prog)
		},
		CheckTrigger: func(name string, bp *blueprint.Blueprint, prog *Progress) *bool {
			if name == TriggerPathCompleted {
				v := traceComplete(bp, prog)
				return &v
			}
			return nil
		},
	}
}

func traceComplete(bp *blueprint.Blueprint, prog *Progress) bool {
	if bp.Trace == nil || prog.Trace == nil {
		return false
	}
	total := len(bp.Trace.WaypointZoneIDs)
	return total > 0 && prog.Trace.NextIndex >= total
}
