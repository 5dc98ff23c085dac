package mechanics

import (
	"fmt"

	"github.com/louisbranch/diagram.games/internal/blueprint"
	apperrors "github.com/louisbranch/diagram.games/internal/errors"
)

// TriggerCompareComplete fires once compare/contrast is submitted fully
// correct.
const TriggerCompareComplete = "compare_complete"

func compareDefinition() Definition {
	return Definition{
		Kind: blueprint.MechanicCompareContrast,
		ValidateConfig: func(bp *blueprint.Blueprint) error {
			if bp.Compare == nil || len(bp.Compare.Items) == 0 {
				return apperrors.New(apperrors.CodeMechanicEmptyItems, "compare_contrast requires at least one item")
			}
			return nil
		},
		Instructions: func(bp *blueprint.Blueprint) string {
			if bp.Compare != nil {
				if bp.Compare.Prompt != "" {
					return bp.Compare.Prompt
				}
				return fmt.Sprintf("Decide whether each statement describes %s, %s, or both.", bp.Compare.LeftTitle, bp.Compare.RightTitle)
			}
			return "Decide which subject each statement describes."
		},
		InitProgress: func(bp *blueprint.Blueprint, prog *Progress) {
			assignments := make(map[string]blueprint.CompareSide, len(bp.Compare.Items))
			for _, item := range bp.Compare.Items {
				assignments[item.ID] = ""
			}
			prog.Compare = &CompareProgress{Assignments: assignments}
		},
		MaxScore: func(bp *blueprint.Blueprint, pointsPerUnit int) int {
			if bp.Compare == nil {
				return 0
			}
			return len(bp.Compare.Items) * pointsPerUnit
		},
		IsComplete: func(bp *blueprint.Blueprint, prog *Progress) bool {
			return compareComplete(bp, prog)
		},
		CheckTrigger: func(name string, bp *blueprint.Blueprint, prog *Progress) *bool {
			if name == TriggerCompareComplete {
				v := compareComplete(bp, prog)
				return &v
			}
			return nil
		},
	}
}

func compareComplete(bp *blueprint.Blueprint, prog *Progress) bool {
	if bp.Compare == nil || prog.Compare == nil {
		return false
	}
	total := len(bp.Compare.Items)
	return prog.Compare.Submitted && total > 0 && prog.Compare.CorrectCount == total
}

// correctCompareAssignments counts items assigned to their declared side.
func correctCompareAssignments(cfg *blueprint.CompareConfig, assignments map[string]blueprint.CompareSide) int {
	count := 0
	for _, item := range cfg.Items {
		if assignments[item.ID] == item.Belongs {
			count++
		}
	}
	return count
}
