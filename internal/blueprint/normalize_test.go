package blueprint

import (
	"testing"
)

func TestNormalizeSynthesizesMissingIDs(t *testing.T) {
	raw := Blueprint{
		Title: "Cell",
		Diagram: Diagram{Zones: []Zone{
			{Label: "Nucleus", Shape: Circle{CX: 50, CY: 50, R: 10}},
		}},
		Labels: []Label{
			{Text: "Cell Membrane", CorrectZoneID: "zone_1"},
		},
	}

	bp, diags := Normalize(raw)

	if got := bp.Diagram.Zones[0].ID; got != "zone_1" {
		t.Errorf("zone id = %q, want zone_1", got)
	}
	if got := bp.Labels[0].ID; got != "cell_membrane" {
		t.Errorf("label id = %q, want cell_membrane", got)
	}
	if len(diags) != 2 {
		t.Errorf("diagnostics = %d, want 2", len(diags))
	}
	for _, d := range diags {
		if d.Level != DiagnosticWarning {
			t.Errorf("diagnostic level = %q, want warning", d.Level)
		}
	}
}

func TestNormalizeDedupesZoneIDsAndRemapsLabels(t *testing.T) {
	raw := Blueprint{
		Diagram: Diagram{Zones: []Zone{
			{ID: "z", Label: "Left", Shape: Circle{}},
			{ID: "z", Label: "Right", Shape: Circle{}},
		}},
		Labels: []Label{
			{ID: "l1", Text: "Left", CorrectZoneID: "z"},
			{ID: "l2", Text: "Right", CorrectZoneID: "z"},
		},
	}

	bp, _ := Normalize(raw)

	if got := bp.Diagram.Zones[1].ID; got != "z_2" {
		t.Errorf("second zone id = %q, want z_2", got)
	}
	// References consume duplicate occurrences in order.
	if got := bp.Labels[0].CorrectZoneID; got != "z" {
		t.Errorf("first label zone = %q, want z", got)
	}
	if got := bp.Labels[1].CorrectZoneID; got != "z_2" {
		t.Errorf("second label zone = %q, want z_2", got)
	}
}

func TestNormalizeRematchesDanglingReferenceByText(t *testing.T) {
	raw := Blueprint{
		Diagram: Diagram{Zones: []Zone{
			{ID: "z1", Label: "Left Atrium", Shape: Circle{}},
			{ID: "z2", Label: "Left Ventricle", Shape: Circle{}},
		}},
		Labels: []Label{
			{ID: "l1", Text: "Left Ventricle", CorrectZoneID: "missing"},
		},
	}

	bp, diags := Normalize(raw)

	if got := bp.Labels[0].CorrectZoneID; got != "z2" {
		t.Errorf("rematched zone = %q, want z2", got)
	}
	if len(diags) != 1 || diags[0].Level != DiagnosticWarning {
		t.Errorf("diags = %+v, want one warning", diags)
	}
}

func TestNormalizeLeavesUnresolvableReferenceDangling(t *testing.T) {
	raw := Blueprint{
		Diagram: Diagram{Zones: []Zone{
			{ID: "z1", Label: "Nucleus", Shape: Circle{}},
		}},
		Labels: []Label{
			{ID: "l1", Text: "Mitochondria", CorrectZoneID: "ghost"},
		},
	}

	bp, diags := Normalize(raw)

	if got := bp.Labels[0].CorrectZoneID; got != "ghost" {
		t.Errorf("dangling reference = %q, want ghost untouched", got)
	}
	if len(diags) != 1 || diags[0].Level != DiagnosticError {
		t.Fatalf("diags = %+v, want one error", diags)
	}
}

func TestNormalizeHierarchyReferencesFollowRenames(t *testing.T) {
	raw := Blueprint{
		Diagram: Diagram{Zones: []Zone{
			{ID: "heart", Label: "Heart", ChildZoneIDs: []string{"dup"}, Shape: Circle{}},
			{ID: "dup", Label: "Atrium", ParentZoneID: "heart", Shape: Circle{}},
			{ID: "dup", Label: "Ventricle", ParentZoneID: "heart", Shape: Circle{}},
		}},
	}

	bp, _ := Normalize(raw)

	if got := bp.Diagram.Zones[0].ChildZoneIDs[0]; got != "dup" {
		t.Errorf("child ref = %q, want first occurrence dup", got)
	}
	if got := bp.Diagram.Zones[2].ID; got != "dup_2" {
		t.Errorf("renamed zone = %q, want dup_2", got)
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	raw := Blueprint{
		Diagram: Diagram{Zones: []Zone{
			{Label: "Nucleus", Shape: Circle{}},
			{Label: "Nucleus", Shape: Circle{}},
		}},
		Labels: []Label{
			{Text: "Nucleus", CorrectZoneID: ""},
		},
	}

	once, diags := Normalize(raw)
	if len(diags) == 0 {
		t.Fatal("first pass produced no diagnostics")
	}
	twice, diags := Normalize(once)
	if len(diags) != 0 {
		t.Errorf("second pass diagnostics = %+v, want none", diags)
	}
	if twice.Diagram.Zones[0].ID != once.Diagram.Zones[0].ID {
		t.Error("second pass changed zone ids")
	}
}

func TestNormalizeDoesNotMutateInput(t *testing.T) {
	raw := Blueprint{
		Diagram: Diagram{Zones: []Zone{{Label: "Nucleus", Shape: Circle{}}}},
		Labels:  []Label{{Text: "Nucleus"}},
	}

	_, _ = Normalize(raw)

	if raw.Diagram.Zones[0].ID != "" {
		t.Error("input zone id was mutated")
	}
	if raw.Labels[0].ID != "" {
		t.Error("input label id was mutated")
	}
}

func TestNormalizeScenes(t *testing.T) {
	raw := Blueprint{
		Scenes: []Scene{
			{Blueprint: Blueprint{Diagram: Diagram{Zones: []Zone{{Label: "A", Shape: Circle{}}}}}},
			{ID: "s1", Blueprint: Blueprint{}},
			{ID: "s1", Blueprint: Blueprint{}},
		},
	}

	bp, _ := Normalize(raw)

	if got := bp.Scenes[0].ID; got != "scene_1" {
		t.Errorf("scene 0 id = %q, want scene_1", got)
	}
	if got := bp.Scenes[2].ID; got != "s1_2" {
		t.Errorf("scene 2 id = %q, want s1_2", got)
	}
	if got := bp.Scenes[0].Blueprint.Diagram.Zones[0].ID; got != "zone_1" {
		t.Errorf("scene zone id = %q, want zone_1", got)
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Left Atrium", "left_atrium"},
		{"Coração", "coracao"},
		{"  spaced   out  ", "spaced_out"},
		{"CO2 + H2O", "co2_h2o"},
		{"!!!", ""},
	}
	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTaskViewRestrictsContent(t *testing.T) {
	bp := Blueprint{
		Diagram: Diagram{Zones: []Zone{
			{ID: "z1", Shape: Circle{}},
			{ID: "z2", Shape: Circle{}},
		}},
		Labels: []Label{
			{ID: "l1", CorrectZoneID: "z1"},
			{ID: "l2", CorrectZoneID: "z2"},
		},
		Mechanics: []Mechanic{{Kind: MechanicDragDrop, PointsPerUnit: 5}},
	}

	view := bp.TaskView(Task{ID: "t1", Kind: MechanicDragDrop, ZoneIDs: []string{"z2"}, LabelIDs: []string{"l2"}})

	if len(view.Diagram.Zones) != 1 || view.Diagram.Zones[0].ID != "z2" {
		t.Errorf("view zones = %+v, want only z2", view.Diagram.Zones)
	}
	if len(view.Labels) != 1 || view.Labels[0].ID != "l2" {
		t.Errorf("view labels = %+v, want only l2", view.Labels)
	}
	// Scoring config inherits from the scene declaration.
	if view.Mechanics[0].PointsPerUnit != 5 {
		t.Errorf("task points = %d, want 5", view.Mechanics[0].PointsPerUnit)
	}
	if len(bp.Diagram.Zones) != 2 {
		t.Error("TaskView mutated the source blueprint")
	}
}
