package mechanics

import (
	"github.com/louisbranch/diagram.games/internal/blueprint"
	apperrors "github.com/louisbranch/diagram.games/internal/errors"
)

// TriggerSortingComplete fires once sorting is submitted fully correct.
const TriggerSortingComplete = "sorting_complete"

func sortingDefinition() Definition {
	return Definition{
		Kind: blueprint.MechanicSortingCategories,
		ValidateConfig: func(bp *blueprint.Blueprint) error {
			if bp.Sorting == nil || len(bp.Sorting.Categories) == 0 {
				return apperrors.New(apperrors.CodeMechanicEmptyCategories, "sorting_categories requires at least one category")
			}
			if len(bp.Sorting.Items) == 0 {
				return apperrors.New(apperrors.CodeMechanicEmptyItems, "sorting_categories requires at least one item")
			}
			return nil
		},
		Instructions: func(bp *blueprint.Blueprint) string {
			if bp.Sorting != nil && bp.Sorting.Prompt != "" {
				return bp.Sorting.Prompt
			}
			return "Sort each item into its category, then submit."
		},
		InitProgress: func(bp *blueprint.Blueprint, prog *Progress) {
			assignments := make(map[string]string, len(bp.Sorting.Items))
			for _, item := range bp.Sorting.Items {
				assignments[item.ID] = "" // uncategorized
			}
			prog.Sorting = &SortingProgress{Assignments: assignments}
		},
		MaxScore: func(bp *blueprint.Blueprint, pointsPerUnit int) int {
			if bp.Sorting == nil {
				return 0
			}
			return len(bp.Sorting.Items) * pointsPerUnit
		},
		IsComplete: func(bp *blueprint.Blueprint, prog *Progress) bool {
			return sortingComplete(bp, prog)
		},
		CheckTrigger: func(name string, bp *blueprint.Blueprint, prog *Progress) *bool {
			if name == TriggerSortingComplete {
				v := sortingComplete(bp, prog)
				return &v
			}
			return nil
		},
	}
}

func sortingComplete(bp *blueprint.Blueprint, prog *Progress) bool {
	if bp.Sorting == nil || prog.Sorting == nil {
		return false
	}
	total := len(bp.Sorting.Items)
	return prog.Sorting.Submitted && total > 0 && prog.Sorting.CorrectCount == total
}

// correctSortAssignments counts items assigned to their declared category.
func correctSortAssignments(cfg *blueprint.SortingConfig, assignments map[string]string) int {
	count := 0
	for _, item := range cfg.Items {
		if assignments[item.ID] == item.CategoryID {
			count++
		}
	}
	return count
}
