package mechanics

import (
	"github.com/louisbranch/diagram.games/internal/blueprint"
	"github.com/louisbranch/diagram.games/internal/geometry"
)

// closestZoneSnapDistance is the maximum centroid distance, in
// percentage coordinates, for snapping a missed drop to a nearby zone.
const closestZoneSnapDistance = 20

// Dispatch applies one action to the progress state and returns the
// outcome. The progress is mutated in place. An action referencing an
// unknown label, zone, item, card, or choice id returns nil without
// mutating state, so a single malformed gesture never crashes an
// in-progress game.
func Dispatch(bp *blueprint.Blueprint, prog *Progress, action Action) *Result {
	if bp == nil || prog == nil {
		return nil
	}
	switch action.Verb {
	case VerbPlace:
		return dispatchPlace(bp, prog, action)
	case VerbRemove:
		return dispatchRemove(bp, prog, action)
	case VerbIdentify:
		return dispatchIdentify(bp, prog, action)
	case VerbTrace:
		return dispatchTrace(bp, prog, action)
	case VerbReorder:
		return dispatchReorder(bp, prog, action)
	case VerbSubmitSequence:
		return dispatchSubmitSequence(bp, prog)
	case VerbSortPlace:
		return dispatchSortPlace(bp, prog, action)
	case VerbSubmitSort:
		return dispatchSubmitSort(bp, prog)
	case VerbFlip:
		return dispatchFlip(bp, prog, action)
	case VerbChoose:
		return dispatchChoose(bp, prog, action)
	case VerbCategorize:
		return dispatchCategorize(bp, prog, action)
	case VerbSubmitCompare:
		return dispatchSubmitCompare(bp, prog)
	case VerbMatchDescription:
		return dispatchMatchDescription(bp, prog, action)
	case VerbHint:
		return dispatchHint(bp, prog, action)
	}
	return nil
}

// placementKind picks the active placement mechanic. Hierarchical wins
// when declared so reveal gating applies.
func placementKind(bp *blueprint.Blueprint) blueprint.MechanicKind {
	if bp.MechanicByKind(blueprint.MechanicHierarchical) != nil {
		return blueprint.MechanicHierarchical
	}
	return blueprint.MechanicDragDrop
}

// resolveZone resolves the action's target zone: an explicit id when
// given, otherwise hit testing on the action's point with a
// closest-zone snap fallback.
func resolveZone(bp *blueprint.Blueprint, prog *Progress, action Action, hierarchical bool) *blueprint.Zone {
	if action.ZoneID != "" {
		return bp.ZoneByID(action.ZoneID)
	}
	if !action.HasPoint {
		return nil
	}
	zones := bp.Diagram.Zones
	if hierarchical {
		zones = revealedZoneList(bp, prog)
	}
	if zone := geometry.ZoneAtPoint(action.X, action.Y, zones, true); zone != nil {
		return zone
	}
	return geometry.ClosestZone(action.X, action.Y, zones, closestZoneSnapDistance)
}

func revealedZoneList(bp *blueprint.Blueprint, prog *Progress) []blueprint.Zone {
	var zones []blueprint.Zone
	for _, zone := range bp.Diagram.Zones {
		if prog.ZoneRevealed(zone.ID) {
			zones = append(zones, zone)
		}
	}
	return zones
}

func dispatchPlace(bp *blueprint.Blueprint, prog *Progress, action Action) *Result {
	kind := placementKind(bp)
	hierarchical := kind == blueprint.MechanicHierarchical

	zone := resolveZone(bp, prog, action, hierarchical)
	if zone == nil {
		return nil
	}
	if hierarchical && !prog.ZoneRevealed(zone.ID) {
		return nil
	}

	// Distractors are intercepted before the ground-truth check.
	if distractor := bp.DistractorByID(action.LabelID); distractor != nil {
		if containsString(prog.RejectedDistractors, distractor.ID) {
			return nil
		}
		if bp.DistractorMode == blueprint.DistractorDeferred {
			prog.RemovePlacement(distractor.ID)
			prog.Placed = append(prog.Placed, PlacedLabel{
				LabelID:  distractor.ID,
				ZoneID:   zone.ID,
				Deferred: true,
			})
			return &Result{ZoneID: zone.ID, Deferred: true}
		}
		prog.RejectedDistractors = append(prog.RejectedDistractors, distractor.ID)
		return &Result{
			ZoneID:             zone.ID,
			DistractorRejected: true,
			Explanation:        distractor.Explanation,
			Feedback:           feedbackFor(bp, kind, false),
		}
	}

	label := bp.LabelByID(action.LabelID)
	if label == nil {
		return nil
	}

	correct := label.CorrectZoneID == zone.ID
	prog.RemovePlacement(label.ID)
	prog.Placed = append(prog.Placed, PlacedLabel{
		LabelID: label.ID,
		ZoneID:  zone.ID,
		Correct: correct,
	})

	delta := 0
	if correct && !prog.hasAwarded(label.ID) {
		delta = pointsFor(bp, kind)
		prog.markAwarded(label.ID)
		prog.Score += delta
	}
	if hierarchical && correct {
		revealCompletedParents(bp, prog)
	}
	return &Result{
		Correct:    correct,
		ScoreDelta: delta,
		ZoneID:     zone.ID,
		Feedback:   feedbackFor(bp, kind, correct),
	}
}

func dispatchRemove(bp *blueprint.Blueprint, prog *Progress, action Action) *Result {
	placed := prog.PlacementFor(action.LabelID)
	if placed == nil {
		return nil
	}
	zoneID := placed.ZoneID
	correct := placed.Correct
	prog.RemovePlacement(action.LabelID)
	// Score already awarded for this label stays awarded; re-placing it
	// correctly will not score twice.
	return &Result{Correct: correct, ZoneID: zoneID}
}

func dispatchIdentify(bp *blueprint.Blueprint, prog *Progress, action Action) *Result {
	if prog.Identify == nil {
		return nil
	}
	target := prog.CurrentIdentifyTarget()
	if target == "" {
		return nil
	}
	zone := resolveZone(bp, prog, action, false)
	if zone == nil && action.ZoneID != "" {
		return nil
	}
	correct := zone != nil && zone.ID == target
	delta := 0
	if correct {
		prog.Identify.FoundZoneIDs = append(prog.Identify.FoundZoneIDs, zone.ID)
		delta = pointsFor(bp, blueprint.MechanicClickToIdentify)
		prog.Score += delta
	} else {
		prog.Identify.Misses++
	}
	result := &Result{
		Correct:    correct,
		ScoreDelta: delta,
		Feedback:   feedbackFor(bp, blueprint.MechanicClickToIdentify, correct),
	}
	if zone != nil {
		result.ZoneID = zone.ID
	}
	return result
}

func dispatchTrace(bp *blueprint.Blueprint, prog *Progress, action Action) *Result {
	if bp.Trace == nil || prog.Trace == nil || traceComplete(bp, prog) {
		return nil
	}
	zone := resolveZone(bp, prog, action, false)
	if zone == nil && action.ZoneID != "" {
		return nil
	}
	expected := bp.Trace.WaypointZoneIDs[prog.Trace.NextIndex]
	correct := zone != nil && zone.ID == expected
	delta := 0
	if correct {
		prog.Trace.VisitedZoneIDs = append(prog.Trace.VisitedZoneIDs, zone.ID)
		prog.Trace.NextIndex++
		delta = pointsFor(bp, blueprint.MechanicTracePath)
		prog.Score += delta
	}
	result := &Result{
		Correct:    correct,
		ScoreDelta: delta,
		Feedback:   feedbackFor(bp, blueprint.MechanicTracePath, correct),
	}
	if zone != nil {
		result.ZoneID = zone.ID
	}
	return result
}

func dispatchReorder(bp *blueprint.Blueprint, prog *Progress, action Action) *Result {
	if bp.Sequencing == nil || prog.Sequence == nil {
		return nil
	}
	if !isItemPermutation(bp.Sequencing, action.Order) {
		return nil
	}
	prog.Sequence.Order = append([]string(nil), action.Order...)
	return &Result{}
}

func dispatchSubmitSequence(bp *blueprint.Blueprint, prog *Progress) *Result {
	if bp.Sequencing == nil || prog.Sequence == nil {
		return nil
	}
	correct := correctSequencePositions(bp.Sequencing, prog.Sequence.Order)
	prog.Sequence.Submitted = true
	prog.Sequence.CorrectPositions = correct

	// Resubmissions only score improvement over the best prior attempt.
	delta := 0
	if correct > prog.Sequence.BestCorrect {
		delta = (correct - prog.Sequence.BestCorrect) * pointsFor(bp, blueprint.MechanicSequencing)
		prog.Sequence.BestCorrect = correct
		prog.Score += delta
	}
	allCorrect := correct == len(bp.Sequencing.Items)
	return &Result{
		Correct:    allCorrect,
		ScoreDelta: delta,
		Feedback:   feedbackFor(bp, blueprint.MechanicSequencing, allCorrect),
	}
}

func dispatchSortPlace(bp *blueprint.Blueprint, prog *Progress, action Action) *Result {
	if bp.Sorting == nil || prog.Sorting == nil {
		return nil
	}
	if sortItemByID(bp.Sorting, action.ItemID) == nil {
		return nil
	}
	if action.CategoryID != "" && sortCategoryByID(bp.Sorting, action.CategoryID) == nil {
		return nil
	}
	prog.Sorting.Assignments[action.ItemID] = action.CategoryID
	return &Result{}
}

func dispatchSubmitSort(bp *blueprint.Blueprint, prog *Progress) *Result {
	if bp.Sorting == nil || prog.Sorting == nil {
		return nil
	}
	correct := correctSortAssignments(bp.Sorting, prog.Sorting.Assignments)
	prog.Sorting.Submitted = true
	prog.Sorting.CorrectCount = correct

	delta := 0
	if correct > prog.Sorting.BestCorrect {
		delta = (correct - prog.Sorting.BestCorrect) * pointsFor(bp, blueprint.MechanicSortingCategories)
		prog.Sorting.BestCorrect = correct
		prog.Score += delta
	}
	allCorrect := correct == len(bp.Sorting.Items)
	return &Result{
		Correct:    allCorrect,
		ScoreDelta: delta,
		Feedback:   feedbackFor(bp, blueprint.MechanicSortingCategories, allCorrect),
	}
}

func dispatchFlip(bp *blueprint.Blueprint, prog *Progress, action Action) *Result {
	if bp.Memory == nil || prog.Memory == nil {
		return nil
	}
	card := memoryCardByID(bp.Memory, action.CardID)
	if card == nil {
		return nil
	}
	mp := prog.Memory
	if containsString(mp.MatchedPairIDs, card.PairID) || containsString(mp.FaceUpCardIDs, card.ID) {
		return nil
	}
	mp.FaceUpCardIDs = append(mp.FaceUpCardIDs, card.ID)
	if len(mp.FaceUpCardIDs) < 2 {
		return &Result{}
	}

	first := memoryCardByID(bp.Memory, mp.FaceUpCardIDs[0])
	mp.FaceUpCardIDs = nil
	mp.Moves++
	matched := first != nil && first.PairID != "" && first.PairID == card.PairID
	delta := 0
	if matched {
		mp.MatchedPairIDs = appendUnique(mp.MatchedPairIDs, card.PairID)
		delta = pointsFor(bp, blueprint.MechanicMemoryMatch)
		prog.Score += delta
	}
	return &Result{
		Correct:    matched,
		ScoreDelta: delta,
		Feedback:   feedbackFor(bp, blueprint.MechanicMemoryMatch, matched),
	}
}

func dispatchChoose(bp *blueprint.Blueprint, prog *Progress, action Action) *Result {
	if bp.Branching == nil || prog.Branching == nil || prog.Branching.Finished {
		return nil
	}
	node := bp.Branching.NodeByID(prog.Branching.CurrentNodeID)
	if node == nil {
		return nil
	}
	choice := node.ChoiceByID(action.ChoiceID)
	if choice == nil {
		return nil
	}
	prog.Branching.ChosenIDs = append(prog.Branching.ChosenIDs, choice.ID)

	delta := 0
	if choice.Correct {
		prog.Branching.CorrectChoices++
		delta = pointsFor(bp, blueprint.MechanicBranchingScenario)
		prog.Score += delta
	}

	if choice.NextNodeID == "" {
		prog.Branching.Finished = true
	} else {
		prog.Branching.CurrentNodeID = choice.NextNodeID
		if next := bp.Branching.NodeByID(choice.NextNodeID); next != nil && next.Terminal() {
			prog.Branching.Finished = true
		}
	}

	feedback := choice.Feedback
	if feedback == "" {
		feedback = feedbackFor(bp, blueprint.MechanicBranchingScenario, choice.Correct)
	}
	return &Result{Correct: choice.Correct, ScoreDelta: delta, Feedback: feedback}
}

func dispatchCategorize(bp *blueprint.Blueprint, prog *Progress, action Action) *Result {
	if bp.Compare == nil || prog.Compare == nil {
		return nil
	}
	if compareItemByID(bp.Compare, action.ItemID) == nil {
		return nil
	}
	switch action.Side {
	case "", blueprint.CompareLeft, blueprint.CompareRight, blueprint.CompareBoth:
	default:
		return nil
	}
	prog.Compare.Assignments[action.ItemID] = action.Side
	return &Result{}
}

func dispatchSubmitCompare(bp *blueprint.Blueprint, prog *Progress) *Result {
	if bp.Compare == nil || prog.Compare == nil {
		return nil
	}
	correct := correctCompareAssignments(bp.Compare, prog.Compare.Assignments)
	prog.Compare.Submitted = true
	prog.Compare.CorrectCount = correct

	delta := 0
	if correct > prog.Compare.BestCorrect {
		delta = (correct - prog.Compare.BestCorrect) * pointsFor(bp, blueprint.MechanicCompareContrast)
		prog.Compare.BestCorrect = correct
		prog.Score += delta
	}
	allCorrect := correct == len(bp.Compare.Items)
	return &Result{
		Correct:    allCorrect,
		ScoreDelta: delta,
		Feedback:   feedbackFor(bp, blueprint.MechanicCompareContrast, allCorrect),
	}
}

func dispatchMatchDescription(bp *blueprint.Blueprint, prog *Progress, action Action) *Result {
	if prog.Describe == nil {
		return nil
	}
	described := bp.ZoneByID(action.ItemID)
	if described == nil || described.Description == "" {
		return nil
	}
	if containsString(prog.Describe.MatchedZoneIDs, described.ID) {
		return nil
	}
	zone := resolveZone(bp, prog, action, false)
	if zone == nil && action.ZoneID != "" {
		return nil
	}
	correct := zone != nil && zone.ID == described.ID
	delta := 0
	if correct {
		prog.Describe.MatchedZoneIDs = append(prog.Describe.MatchedZoneIDs, described.ID)
		delta = pointsFor(bp, blueprint.MechanicDescriptionMatching)
		prog.Score += delta
	}
	result := &Result{
		Correct:    correct,
		ScoreDelta: delta,
		Feedback:   feedbackFor(bp, blueprint.MechanicDescriptionMatching, correct),
	}
	if zone != nil {
		result.ZoneID = zone.ID
	}
	return result
}

func dispatchHint(bp *blueprint.Blueprint, prog *Progress, action Action) *Result {
	zone := bp.ZoneByID(action.ZoneID)
	if zone == nil {
		return nil
	}
	if prog.Hints == nil {
		prog.Hints = make(map[string]int)
	}
	prog.Hints[zone.ID]++
	hint := zone.Description
	if hint == "" {
		hint = zone.Label
	}
	return &Result{ZoneID: zone.ID, Feedback: hint}
}

// ResolveDeferred evaluates provisionally accepted distractor placements
// at scene submission. Each deferred placement is removed, its
// distractor retired from the pool, and a rejection result returned.
func ResolveDeferred(bp *blueprint.Blueprint, prog *Progress) []Result {
	var results []Result
	var kept []PlacedLabel
	for _, placed := range prog.Placed {
		if !placed.Deferred {
			kept = append(kept, placed)
			continue
		}
		result := Result{ZoneID: placed.ZoneID, DistractorRejected: true}
		if distractor := bp.DistractorByID(placed.LabelID); distractor != nil {
			prog.RejectedDistractors = appendUnique(prog.RejectedDistractors, distractor.ID)
			result.Explanation = distractor.Explanation
		}
		results = append(results, result)
	}
	prog.Placed = kept
	return results
}

// isItemPermutation reports whether order is a permutation of the
// declared sequence items.
func isItemPermutation(cfg *blueprint.SequencingConfig, order []string) bool {
	if len(order) != len(cfg.Items) {
		return false
	}
	seen := make(map[string]bool, len(order))
	for _, id := range order {
		if seen[id] {
			return false
		}
		seen[id] = true
	}
	for _, item := range cfg.Items {
		if !seen[item.ID] {
			return false
		}
	}
	return true
}

func sortItemByID(cfg *blueprint.SortingConfig, id string) *blueprint.SortItem {
	for i := range cfg.Items {
		if cfg.Items[i].ID == id {
			return &cfg.Items[i]
		}
	}
	return nil
}

func sortCategoryByID(cfg *blueprint.SortingConfig, id string) *blueprint.Category {
	for i := range cfg.Categories {
		if cfg.Categories[i].ID == id {
			return &cfg.Categories[i]
		}
	}
	return nil
}

func compareItemByID(cfg *blueprint.CompareConfig, id string) *blueprint.CompareItem {
	for i := range cfg.Items {
		if cfg.Items[i].ID == id {
			return &cfg.Items[i]
		}
	}
	return nil
}
