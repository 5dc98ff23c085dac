package blueprint

import (
	"fmt"
	"strings"
)

// DiagnosticLevel grades a normalization finding.
type DiagnosticLevel string

const (
	// DiagnosticWarning marks a repaired or best-effort inconsistency.
	DiagnosticWarning DiagnosticLevel = "warning"
	// DiagnosticError marks a reference that could not be repaired.
	DiagnosticError DiagnosticLevel = "error"
)

// Diagnostic records one normalization finding. Normalization never fails;
// it accumulates diagnostics and returns best-effort output.
type Diagnostic struct {
	Level    DiagnosticLevel
	Message  string
	EntityID string
}

// Normalize repairs a raw blueprint into one whose zone and label ids are
// unique and whose label references resolve wherever repair is possible.
// It is pure and idempotent: the input is never mutated, and normalizing
// an already-normalized blueprint is a no-op.
//
// Unresolvable label references are surfaced as error diagnostics and left
// dangling. The dispatcher scores placements against such labels as
// incorrect; no phantom zone is ever fabricated.
func Normalize(raw Blueprint) (Blueprint, []Diagnostic) {
	bp := raw.Clone()
	var diags []Diagnostic

	if bp.IsMultiScene() {
		seen := make(map[string]bool, len(bp.Scenes))
		for i := range bp.Scenes {
			id := strings.TrimSpace(bp.Scenes[i].ID)
			if id == "" {
				id = fmt.Sprintf("scene_%d", i+1)
			}
			base := id
			for n := 2; seen[id]; n++ {
				id = fmt.Sprintf("%s_%d", base, n)
			}
			if id != bp.Scenes[i].ID {
				diags = append(diags, Diagnostic{
					Level:    DiagnosticWarning,
					Message:  fmt.Sprintf("scene id %q normalized to %q", bp.Scenes[i].ID, id),
					EntityID: id,
				})
			}
			seen[id] = true
			bp.Scenes[i].ID = id
			normalizeContent(&bp.Scenes[i].Blueprint, &diags)
		}
	}
	normalizeContent(&bp, &diags)

	return bp, diags
}

// normalizeContent repairs one scene's zones and labels in place. The
// blueprint passed in is already a private copy.
func normalizeContent(bp *Blueprint, diags *[]Diagnostic) {
	zones := bp.Diagram.Zones

	// Zone ids: synthesize from position, dedupe with _2/_3 suffixes, and
	// keep a FIFO queue per original id so labels pointing at the n-th
	// occurrence of a duplicated id resolve to the n-th renamed zone.
	queues := make(map[string][]string)
	zoneIDs := make(map[string]bool, len(zones))
	for i := range zones {
		orig := strings.TrimSpace(zones[i].ID)
		base := orig
		if base == "" {
			base = fmt.Sprintf("zone_%d", i+1)
			*diags = append(*diags, Diagnostic{
				Level:    DiagnosticWarning,
				Message:  fmt.Sprintf("zone %d has no id, synthesized %q", i+1, base),
				EntityID: base,
			})
		}
		final := base
		for n := 2; zoneIDs[final]; n++ {
			final = fmt.Sprintf("%s_%d", base, n)
		}
		if orig != "" && final != orig {
			*diags = append(*diags, Diagnostic{
				Level:    DiagnosticWarning,
				Message:  fmt.Sprintf("duplicate zone id %q renamed to %q", orig, final),
				EntityID: final,
			})
		}
		zoneIDs[final] = true
		zones[i].ID = final
		if orig != "" {
			queues[orig] = append(queues[orig], final)
		} else {
			queues[final] = append(queues[final], final)
		}
	}

	// Hierarchy references follow the first occurrence of a renamed id.
	for i := range zones {
		if q := queues[zones[i].ParentZoneID]; len(q) > 0 {
			zones[i].ParentZoneID = q[0]
		}
		for j, child := range zones[i].ChildZoneIDs {
			if q := queues[child]; len(q) > 0 {
				zones[i].ChildZoneIDs[j] = q[0]
			}
		}
	}

	// Label ids: synthesize from slugified text, dedupe the same way.
	// Distractors share the id space so the placement pool has no clashes.
	labelIDs := make(map[string]bool, len(bp.Labels)+len(bp.Distractors))
	for i := range bp.Labels {
		bp.Labels[i].ID = normalizeLabelID(bp.Labels[i].ID, bp.Labels[i].Text, i, labelIDs, diags)
	}
	for i := range bp.Distractors {
		bp.Distractors[i].ID = normalizeLabelID(bp.Distractors[i].ID, bp.Distractors[i].Text, len(bp.Labels)+i, labelIDs, diags)
	}

	// Remap correct-zone references through the FIFO queues.
	consumed := make(map[string]int)
	var unresolved []int
	for i := range bp.Labels {
		ref := strings.TrimSpace(bp.Labels[i].CorrectZoneID)
		bp.Labels[i].CorrectZoneID = ref
		if q, ok := queues[ref]; ok {
			idx := consumed[ref]
			if idx >= len(q) {
				idx = len(q) - 1
			} else {
				consumed[ref]++
			}
			bp.Labels[i].CorrectZoneID = q[idx]
			continue
		}
		if zoneIDs[ref] {
			continue
		}
		unresolved = append(unresolved, i)
	}

	// Text-similarity repair for still-dangling references: exact
	// case-insensitive match first, then substring in either direction,
	// skipping zones already claimed by this repair pass. The first
	// unclaimed match in zone-list order wins; short generic text can
	// mismatch, but the tie-break stays deterministic.
	claimed := make(map[string]bool)
	for _, i := range unresolved {
		label := &bp.Labels[i]
		if zone := matchZoneByText(zones, label.Text, claimed); zone != nil {
			claimed[zone.ID] = true
			*diags = append(*diags, Diagnostic{
				Level:    DiagnosticWarning,
				Message:  fmt.Sprintf("label %q: zone %q not found, rematched to %q by text", label.ID, label.CorrectZoneID, zone.ID),
				EntityID: label.ID,
			})
			label.CorrectZoneID = zone.ID
			continue
		}
		*diags = append(*diags, Diagnostic{
			Level:    DiagnosticError,
			Message:  fmt.Sprintf("label %q references zone %q which does not exist", label.ID, label.CorrectZoneID),
			EntityID: label.ID,
		})
	}
}

// normalizeLabelID resolves one label or distractor id against the shared
// id space, synthesizing from slugified text when absent.
func normalizeLabelID(orig, text string, position int, taken map[string]bool, diags *[]Diagnostic) string {
	base := strings.TrimSpace(orig)
	if base == "" {
		base = Slugify(text)
		if base == "" {
			base = fmt.Sprintf("label_%d", position+1)
		}
		*diags = append(*diags, Diagnostic{
			Level:    DiagnosticWarning,
			Message:  fmt.Sprintf("label %q has no id, synthesized %q", text, base),
			EntityID: base,
		})
	}
	final := base
	for n := 2; taken[final]; n++ {
		final = fmt.Sprintf("%s_%d", base, n)
	}
	if strings.TrimSpace(orig) != "" && final != orig {
		*diags = append(*diags, Diagnostic{
			Level:    DiagnosticWarning,
			Message:  fmt.Sprintf("duplicate label id %q renamed to %q", orig, final),
			EntityID: final,
		})
	}
	taken[final] = true
	return final
}

// matchZoneByText finds the repair target for a label's display text.
func matchZoneByText(zones []Zone, text string, claimed map[string]bool) *Zone {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	for i := range zones {
		if claimed[zones[i].ID] {
			continue
		}
		if equalFold(zones[i].Label, text) {
			return &zones[i]
		}
	}
	for i := range zones {
		if claimed[zones[i].ID] {
			continue
		}
		if containsFold(zones[i].Label, text) || containsFold(text, zones[i].Label) {
			return &zones[i]
		}
	}
	return nil
}

// containsFold reports whether haystack contains needle case-insensitively.
func containsFold(haystack, needle string) bool {
	haystack = strings.ToLower(strings.TrimSpace(haystack))
	needle = strings.ToLower(strings.TrimSpace(needle))
	if haystack == "" || needle == "" {
		return false
	}
	return strings.Contains(haystack, needle)
}
