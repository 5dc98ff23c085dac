package mechanics

import (
	"github.com/louisbranch/diagram.games/internal/blueprint"
	apperrors "github.com/louisbranch/diagram.games/internal/errors"
)

// TriggerScenarioFinished fires once the walk reaches a terminal node.
const TriggerScenarioFinished = "scenario_finished"

func branchingDefinition() Definition {
	return Definition{
		Kind: blueprint.MechanicBranchingScenario,
		ValidateConfig: func(bp *blueprint.Blueprint) error {
			cfg := bp.Branching
			if cfg == nil || len(cfg.Nodes) == 0 {
				return apperrors.New(apperrors.CodeMechanicEmptyNodes, "branching_scenario requires a non-empty node list")
			}
			if cfg.NodeByID(branchStart(cfg)) == nil {
				return apperrors.WithMetadata(
					apperrors.CodeMechanicMissingConfig,
					"branching_scenario start node does not exist",
					map[string]string{"NodeID": branchStart(cfg)},
				)
			}
			for _, node := range cfg.Nodes {
				for _, choice := range node.Choices {
					if choice.NextNodeID != "" && cfg.NodeByID(choice.NextNodeID) == nil {
						return apperrors.WithMetadata(
							apperrors.CodeMechanicMissingConfig,
							"branching_scenario choice references unknown node",
							map[string]string{"NodeID": node.ID, "ChoiceID": choice.ID},
						)
					}
				}
			}
			return nil
		},
		Instructions: func(bp *blueprint.Blueprint) string {
			if bp.Branching != nil {
				if node := bp.Branching.NodeByID(branchStart(bp.Branching)); node != nil {
					return node.Prompt
				}
			}
			return "Choose how the scenario unfolds."
		},
		InitProgress: func(bp *blueprint.Blueprint, prog *Progress) {
			prog.Branching = &BranchingProgress{CurrentNodeID: branchStart(bp.Branching)}
		},
		MaxScore: func(bp *blueprint.Blueprint, pointsPerUnit int) int {
			if bp.Branching == nil {
				return 0
			}
			// One award per decision point that has a correct choice.
			count := 0
			for _, node := range bp.Branching.Nodes {
				for _, choice := range node.Choices {
					if choice.Correct {
						count++
						break
					}
				}
			}
			return count * pointsPerUnit
		},
		IsComplete: func(bp *blueprint.Blueprint, prog *Progress) bool {
			return prog.Branching != nil && prog.Branching.Finished
		},
		CheckTrigger: func(name string, bp *blueprint.Blueprint, prog *Progress) *bool {
			if name == TriggerScenarioFinished {
				v := prog.Branching != nil && prog.Branching.Finished
				return &v
			}
			return nil
		},
	}
}

// branchStart resolves the scenario entry node, defaulting to the first
// declared node.
func branchStart(cfg *blueprint.BranchingConfig) string {
	if cfg == nil {
		return ""
	}
	if cfg.StartNodeID != "" {
		return cfg.StartNodeID
	}
	if len(cfg.Nodes) > 0 {
		return cfg.Nodes[0].ID
	}
	return ""
}
