package mechanics

import (
	"github.com/louisbranch/diagram.games/internal/blueprint"
	apperrors "github.com/louisbranch/diagram.games/internal/errors"
)

// TriggerAllPairsMatched fires once every memory pair is matched.
const TriggerAllPairsMatched = "all_pairs_matched"

func memoryDefinition() Definition {
	return Definition{
		Kind: blueprint.MechanicMemoryMatch,
		ValidateConfig: func(bp *blueprint.Blueprint) error {
			if bp.Memory == nil || len(memoryPairIDs(bp.Memory)) == 0 {
				return apperrors.New(apperrors.CodeMechanicEmptyPairs, "memory_match requires at least one card pair")
			}
			return nil
		},
		Instructions: func(bp *blueprint.Blueprint) string {
			return "Flip two cards at a time to find each matching pair."
		},
		InitProgress: func(bp *blueprint.Blueprint, prog *Progress) {
			prog.Memory = &MemoryProgress{}
		},
		MaxScore: func(bp *blueprint.Blueprint, pointsPerUnit int) int {
			if bp.Memory == nil {
				return 0
			}
			return len(memoryPairIDs(bp.Memory)) * pointsPerUnit
		},
		IsComplete: func(bp *blueprint.Blueprint, prog *Progress) bool {
			return memoryComplete(bp, prog)
		},
		CheckTrigger: func(name string, bp *blueprint.Blueprint, prog *Progress) *bool {
			if name == TriggerAllPairsMatched {
				v := memoryComplete(bp, prog)
				return &v
			}
			return nil
		},
	}
}

func memoryComplete(bp *blueprint.Blueprint, prog *Progress) bool {
	if bp.Memory == nil || prog.Memory == nil {
		return false
	}
	total := len(memoryPairIDs(bp.Memory))
	return total > 0 && len(prog.Memory.MatchedPairIDs) == total
}

// memoryPairIDs returns the distinct pair ids, in first-seen order.
func memoryPairIDs(cfg *blueprint.MemoryConfig) []string {
	var ids []string
	for _, card := range cfg.Cards {
		if card.PairID != "" {
			ids = appendUnique(ids, card.PairID)
		}
	}
	return ids
}

// memoryCardByID returns the card with the given id, or nil.
func memoryCardByID(cfg *blueprint.MemoryConfig, id string) *blueprint.MemoryCard {
	if cfg == nil {
		return nil
	}
	for i := range cfg.Cards {
		if cfg.Cards[i].ID == id {
			return &cfg.Cards[i]
		}
	}
	return nil
}
