package mechanics

import (
	"github.com/louisbranch/diagram.games/internal/blueprint"
	apperrors "github.com/louisbranch/diagram.games/internal/errors"
)

// TriggerAllZonesIdentified fires once every prompted zone is found.
const TriggerAllZonesIdentified = "all_zones_identified"

func identifyDefinition() Definition {
	return Definition{
		Kind: blueprint.MechanicClickToIdentify,
		ValidateConfig: func(bp *blueprint.Blueprint) error {
			if len(identifyTargets(bp)) == 0 {
				return apperrors.New(apperrors.CodeBlueprintNoZones, "click_to_identify requires at least one target zone")
			}
			return nil
		},
		Instructions: func(bp *blueprint.Blueprint) string {
			return "Click each region of the diagram as it is named."
		},
		InitProgress: func(bp *blueprint.Blueprint, prog *Progress) {
			prog.Identify = &IdentifyProgress{TargetZoneIDs: identifyTargets(bp)}
		},
		MaxScore: func(bp *blueprint.Blueprint, pointsPerUnit int) int {
			return len(identifyTargets(bp)) * pointsPerUnit
		},
		IsComplete: func(bp *blueprint.Blueprint, prog *Progress) bool {
			p := prog.Identify
			return p != nil && len(p.TargetZoneIDs) > 0 && len(p.FoundZoneIDs) == len(p.TargetZoneIDs)
		},
		CheckTrigger: func(name string, bp *blueprint.Blueprint, prog *Progress) *bool {
			if name == TriggerAllZonesIdentified {
				p := prog.Identify
				v := p != nil && len(p.TargetZoneIDs) > 0 && len(p.FoundZoneIDs) == len(p.TargetZoneIDs)
				return &v
			}
			return nil
		},
	}
}

// identifyTargets resolves the prompted zone order: the explicit prompt
// list when configured, otherwise every zone in diagram order.
func identifyTargets(bp *blueprint.Blueprint) []string {
	if bp.Identify != nil && len(bp.Identify.Prompts) > 0 {
		ids := make([]string, 0, len(bp.Identify.Prompts))
		for _, prompt := range bp.Identify.Prompts {
			if bp.ZoneByID(prompt.ZoneID) != nil {
				ids = append(ids, prompt.ZoneID)
			}
		}
		return ids
	}
	ids := make([]string, len(bp.Diagram.Zones))
	for i, zone := range bp.Diagram.Zones {
		ids[i] = zone.ID
	}
	return ids
}

// CurrentIdentifyTarget returns the zone the player should click next, or
// "" when identification is finished or not active.
func (p *Progress) CurrentIdentifyTarget() string {
	ip := p.Identify
	if ip == nil || len(ip.FoundZoneIDs) >= len(ip.TargetZoneIDs) {
		return ""
	}
	return ip.TargetZoneIDs[len(ip.FoundZoneIDs)]
}
