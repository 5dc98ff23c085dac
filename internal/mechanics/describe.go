package mechanics

import (
	"github.com/louisbranch/diagram.games/internal/blueprint"
	apperrors "github.com/louisbranch/diagram.games/internal/errors"
)

// TriggerAllDescriptionsMatched fires once every described zone is
// matched.
const TriggerAllDescriptionsMatched = "all_descriptions_matched"

func describeDefinition() Definition {
	return Definition{
		Kind: blueprint.MechanicDescriptionMatching,
		ValidateConfig: func(bp *blueprint.Blueprint) error {
			if len(describedZoneIDs(bp)) == 0 {
				return apperrors.New(apperrors.CodeMechanicMissingDesc, "description_matching requires zones with descriptions")
			}
			return nil
		},
		Instructions: func(bp *blueprint.Blueprint) string {
			return "Match each description to the region it describes."
		},
		InitProgress: func(bp *blueprint.Blueprint, prog *Progress) {
			prog.Describe = &DescribeProgress{}
		},
		MaxScore: func(bp *blueprint.Blueprint, pointsPerUnit int) int {
			return len(describedZoneIDs(bp)) * pointsPerUnit
		},
		IsComplete: func(bp *blueprint.Blueprint, prog *Progress) bool {
			return describeComplete(bp, prog)
		},
		CheckTrigger: func(name string, bp *blueprint.Blueprint, prog *Progress) *bool {
			if name == TriggerAllDescriptionsMatched {
				v := describeComplete(bp, prog)
				return &v
			}
			return nil
		},
	}
}

func describeComplete(bp *blueprint.Blueprint, prog *Progress) bool {
	if prog.Describe == nil {
		return false
	}
	total := len(describedZoneIDs(bp))
	return total > 0 && len(prog.Describe.MatchedZoneIDs) == total
}

// describedZoneIDs lists the zones that carry description text, in
// diagram order.
func describedZoneIDs(bp *blueprint.Blueprint) []string {
	var ids []string
	for _, zone := range bp.Diagram.Zones {
		if zone.Description != "" {
			ids = append(ids, zone.ID)
		}
	}
	return ids
}
