package mechanics

import (
	"github.com/louisbranch/diagram.games/internal/blueprint"
	apperrors "github.com/louisbranch/diagram.games/internal/errors"
)

// TriggerSequenceComplete fires once the sequence is submitted fully
// correct.
const TriggerSequenceComplete = "sequence_complete"

func sequencingDefinition() Definition {
	return Definition{
		Kind: blueprint.MechanicSequencing,
		ValidateConfig: func(bp *blueprint.Blueprint) error {
			if bp.Sequencing == nil || len(bp.Sequencing.Items) == 0 {
				return apperrors.New(apperrors.CodeMechanicEmptySequence, "sequencing requires a non-empty ordered item list")
			}
			return nil
		},
		Instructions: func(bp *blueprint.Blueprint) string {
			if bp.Sequencing != nil && bp.Sequencing.Prompt != "" {
				return bp.Sequencing.Prompt
			}
			return "Arrange the items into the correct order, then submit."
		},
		InitProgress: func(bp *blueprint.Blueprint, prog *Progress) {
			// Seed the reverse of the declared order: deterministic, so
			// initialization stays pure, but never the solution, so an
			// immediate submit cannot score full marks unworked.
			items := bp.Sequencing.Items
			order := make([]string, 0, len(items))
			for i := len(items) - 1; i >= 0; i-- {
				order = append(order, items[i].ID)
			}
			prog.Sequence = &SequenceProgress{Order: order}
		},
		MaxScore: func(bp *blueprint.Blueprint, pointsPerUnit int) int {
			if bp.Sequencing == nil {
				return 0
			}
			return len(bp.Sequencing.Items) * pointsPerUnit
		},
		IsComplete: func(bp *blueprint.Blueprint, prog *Progress) bool {
			return sequenceComplete(bp, prog)
		},
		CheckTrigger: func(name string, bp *blueprint.Blueprint, prog *Progress) *bool {
			if name == TriggerSequenceComplete {
				v := sequenceComplete(bp, prog)
				return &v
			}
			return nil
		},
	}
}

func sequenceComplete(bp *blueprint.Blueprint, prog *Progress) bool {
	if bp.Sequencing == nil || prog.Sequence == nil {
		return false
	}
	total := len(bp.Sequencing.Items)
	return prog.Sequence.Submitted && total > 0 && prog.Sequence.CorrectPositions == total
}

// correctSequencePositions counts positions where the submitted order
// matches the declared order.
func correctSequencePositions(cfg *blueprint.SequencingConfig, order []string) int {
	count := 0
	for i, item := range cfg.Items {
		if i < len(order) && order[i] == item.ID {
			count++
		}
	}
	return count
}
