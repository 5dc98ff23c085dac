package session

import (
	"context"
	"testing"
	"time"

	"github.com/louisbranch/diagram.games/internal/analytics"
	"github.com/louisbranch/diagram.games/internal/blueprint"
	apperrors "github.com/louisbranch/diagram.games/internal/errors"
	"github.com/louisbranch/diagram.games/internal/mechanics"
	"github.com/louisbranch/diagram.games/internal/storage"
)

func dragDropBlueprint() blueprint.Blueprint {
	return blueprint.Blueprint{
		Title: "Cell Anatomy",
		Diagram: blueprint.Diagram{
			Zones: []blueprint.Zone{
				{ID: "z1", Label: "Nucleus", Shape: blueprint.Circle{CX: 50, CY: 50, R: 10}},
				{ID: "z2", Label: "Membrane", Shape: blueprint.Circle{CX: 80, CY: 20, R: 10}},
			},
		},
		Labels: []blueprint.Label{
			{ID: "l1", Text: "Nucleus", CorrectZoneID: "z1"},
			{ID: "l2", Text: "Membrane", CorrectZoneID: "z2"},
		},
		Mechanics: []blueprint.Mechanic{
			{Kind: blueprint.MechanicDragDrop, PointsPerUnit: 10},
		},
	}
}

func newTestSession(t *testing.T, bp blueprint.Blueprint, opts ...Option) *Session {
	t.Helper()
	opts = append([]Option{WithAdvanceDelay(0)}, opts...)
	sess, _, err := New(bp, opts...)
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	t.Cleanup(sess.Close)
	return sess
}

func TestNewRejectsInvalidBlueprint(t *testing.T) {
	bp := dragDropBlueprint()
	bp.Labels = nil
	if _, _, err := New(bp); err == nil {
		t.Fatal("New(no labels) = nil error, want validation failure")
	}
}

func TestSingleSceneCompletion(t *testing.T) {
	sess := newTestSession(t, dragDropBlueprint())
	ctx := context.Background()

	result, err := sess.Dispatch(ctx, mechanics.Action{Verb: mechanics.VerbPlace, LabelID: "l1", ZoneID: "z1"})
	if err != nil || result == nil || !result.Correct {
		t.Fatalf("place l1 = %+v, %v", result, err)
	}
	if sess.Phase() != PhaseInProgress {
		t.Fatalf("Phase = %q mid-game, want %q", sess.Phase(), PhaseInProgress)
	}

	sess.Dispatch(ctx, mechanics.Action{Verb: mechanics.VerbPlace, LabelID: "l2", ZoneID: "z2"})

	if sess.Phase() != PhaseComplete {
		t.Fatalf("Phase = %q after all placements, want %q", sess.Phase(), PhaseComplete)
	}
	if !sess.IsComplete() {
		t.Error("IsComplete = false")
	}
	if got, want := sess.Score(), 20; got != want {
		t.Errorf("Score = %d, want %d", got, want)
	}
	if got, want := sess.Score(), sess.MaxScore(); got != want {
		t.Errorf("Score = %d, MaxScore = %d, want equal", got, want)
	}

	// The terminal phase accepts no further mutation.
	if _, err := sess.Dispatch(ctx, mechanics.Action{Verb: mechanics.VerbPlace, LabelID: "l1", ZoneID: "z2"}); !apperrors.IsCode(err, apperrors.CodeSessionComplete) {
		t.Errorf("Dispatch after completion = %v, want session-complete error", err)
	}
}

func TestMalformedActionIsIgnored(t *testing.T) {
	sess := newTestSession(t, dragDropBlueprint())

	result, err := sess.Dispatch(context.Background(), mechanics.Action{Verb: mechanics.VerbPlace, LabelID: "ghost", ZoneID: "z1"})
	if err != nil {
		t.Fatalf("Dispatch(unknown label) error = %v, want nil", err)
	}
	if result != nil {
		t.Fatalf("Dispatch(unknown label) = %+v, want nil result", result)
	}
	if sess.Score() != 0 {
		t.Errorf("Score = %d after ignored action, want 0", sess.Score())
	}
}

func TestTwoSceneAdvancement(t *testing.T) {
	scene := func(zoneID, labelID string) blueprint.Blueprint {
		return blueprint.Blueprint{
			Diagram: blueprint.Diagram{Zones: []blueprint.Zone{
				{ID: zoneID, Label: zoneID, Shape: blueprint.Circle{CX: 50, CY: 50, R: 10}},
			}},
			Labels: []blueprint.Label{{ID: labelID, Text: labelID, CorrectZoneID: zoneID}},
			Mechanics: []blueprint.Mechanic{
				{Kind: blueprint.MechanicDragDrop, PointsPerUnit: 50},
			},
		}
	}
	bp := blueprint.Blueprint{
		Title: "Two Scenes",
		Scenes: []blueprint.Scene{
			{ID: "s1", Title: "First", Blueprint: scene("za", "la")},
			{ID: "s2", Title: "Second", Blueprint: scene("zb", "lb")},
		},
	}
	sess := newTestSession(t, bp)
	ctx := context.Background()

	sess.Dispatch(ctx, mechanics.Action{Verb: mechanics.VerbPlace, LabelID: "la", ZoneID: "za"})
	if got, want := sess.SceneIndex(), 1; got != want {
		t.Fatalf("SceneIndex after first scene = %d, want %d", got, want)
	}
	if sess.Phase() != PhaseInProgress {
		t.Fatalf("Phase = %q between scenes, want %q", sess.Phase(), PhaseInProgress)
	}
	if got, want := sess.Score(), 50; got != want {
		t.Errorf("Score after first scene = %d, want %d", got, want)
	}

	sess.Dispatch(ctx, mechanics.Action{Verb: mechanics.VerbPlace, LabelID: "lb", ZoneID: "zb"})
	if !sess.IsComplete() {
		t.Fatal("IsComplete = false after final scene")
	}
	if got, want := sess.Score(), 100; got != want {
		t.Errorf("total score = %d, want %d", got, want)
	}

	results := sess.SceneResults()
	if len(results) != 2 {
		t.Fatalf("SceneResults = %d entries, want 2", len(results))
	}
	if results[0].SceneID != "s1" || results[0].Score != 50 {
		t.Errorf("first scene result = %+v", results[0])
	}
	if results[1].SceneID != "s2" || results[1].Score != 50 {
		t.Errorf("second scene result = %+v", results[1])
	}
}

func TestTaskAdvancement(t *testing.T) {
	bp := dragDropBlueprint()
	bp.Tasks = []blueprint.Task{
		{ID: "t1", Kind: blueprint.MechanicDragDrop, ZoneIDs: []string{"z1"}, LabelIDs: []string{"l1"}},
		{ID: "t2", Kind: blueprint.MechanicDragDrop, ZoneIDs: []string{"z2"}, LabelIDs: []string{"l2"}},
	}
	sess := newTestSession(t, bp)
	ctx := context.Background()

	sess.Dispatch(ctx, mechanics.Action{Verb: mechanics.VerbPlace, LabelID: "l1", ZoneID: "z1"})
	if got, want := sess.TaskIndex(), 1; got != want {
		t.Fatalf("TaskIndex after first task = %d, want %d", got, want)
	}
	if sess.IsComplete() {
		t.Fatal("IsComplete = true with a task remaining")
	}
	if got, want := sess.Score(), 10; got != want {
		t.Errorf("Score carried across tasks = %d, want %d", got, want)
	}

	// The second task's view only contains its own label.
	if result, _ := sess.Dispatch(ctx, mechanics.Action{Verb: mechanics.VerbPlace, LabelID: "l1", ZoneID: "z2"}); result != nil {
		t.Errorf("placing first task's label in second task = %+v, want nil", result)
	}

	sess.Dispatch(ctx, mechanics.Action{Verb: mechanics.VerbPlace, LabelID: "l2", ZoneID: "z2"})
	if !sess.IsComplete() {
		t.Fatal("IsComplete = false after final task")
	}
	if got, want := sess.Score(), 20; got != want {
		t.Errorf("Score = %d, want %d", got, want)
	}
}

func TestModeTransitionSwapsMechanic(t *testing.T) {
	bp := dragDropBlueprint()
	bp.Diagram.Zones[0].Description = "Stores genetic material."
	bp.Diagram.Zones[1].Description = "Controls what enters and leaves."
	bp.ModeTransitions = []blueprint.ModeTransition{
		{
			From:    blueprint.MechanicDragDrop,
			To:      blueprint.MechanicDescriptionMatching,
			Trigger: mechanics.TriggerAllZonesLabeled,
		},
	}
	sess := newTestSession(t, bp)
	ctx := context.Background()

	sess.Dispatch(ctx, mechanics.Action{Verb: mechanics.VerbPlace, LabelID: "l1", ZoneID: "z1"})
	sess.Dispatch(ctx, mechanics.Action{Verb: mechanics.VerbPlace, LabelID: "l2", ZoneID: "z2"})

	if got, want := sess.ActiveMechanic(), blueprint.MechanicDescriptionMatching; got != want {
		t.Fatalf("ActiveMechanic = %q after transition, want %q", got, want)
	}
	if sess.IsComplete() {
		t.Fatal("IsComplete = true right after mode transition")
	}
	if got, want := sess.Score(), 20; got != want {
		t.Errorf("Score preserved across transition = %d, want %d", got, want)
	}

	sess.Dispatch(ctx, mechanics.Action{Verb: mechanics.VerbMatchDescription, ItemID: "z1", ZoneID: "z1"})
	sess.Dispatch(ctx, mechanics.Action{Verb: mechanics.VerbMatchDescription, ItemID: "z2", ZoneID: "z2"})
	if !sess.IsComplete() {
		t.Fatal("IsComplete = false after second mechanic finished")
	}
	if got, want := sess.Score(), 40; got != want {
		t.Errorf("final score = %d, want %d", got, want)
	}
}

func TestPercentTriggerFallback(t *testing.T) {
	bp := dragDropBlueprint()
	bp.Diagram.Zones[0].Description = "Stores genetic material."
	bp.ModeTransitions = []blueprint.ModeTransition{
		{
			From:    blueprint.MechanicDragDrop,
			To:      blueprint.MechanicDescriptionMatching,
			Percent: 50,
		},
	}
	sess := newTestSession(t, bp)

	sess.Dispatch(context.Background(), mechanics.Action{Verb: mechanics.VerbPlace, LabelID: "l1", ZoneID: "z1"})
	if got, want := sess.ActiveMechanic(), blueprint.MechanicDescriptionMatching; got != want {
		t.Fatalf("ActiveMechanic = %q after 50%% correct, want %q", got, want)
	}
}

func TestUndoRedo(t *testing.T) {
	sess := newTestSession(t, dragDropBlueprint())
	ctx := context.Background()

	if err := sess.Undo(ctx); !apperrors.IsCode(err, apperrors.CodeSessionNothingToUndo) {
		t.Fatalf("Undo on empty history = %v, want nothing-to-undo", err)
	}

	sess.Dispatch(ctx, mechanics.Action{Verb: mechanics.VerbPlace, LabelID: "l1", ZoneID: "z1"})
	if err := sess.Undo(ctx); err != nil {
		t.Fatalf("Undo() = %v", err)
	}
	if len(sess.PlacedLabels()) != 0 {
		t.Error("placement survived undo")
	}
	if sess.Score() != 0 {
		t.Errorf("Score after undo = %d, want 0", sess.Score())
	}

	if err := sess.Redo(ctx); err != nil {
		t.Fatalf("Redo() = %v", err)
	}
	placed := sess.PlacedLabels()
	if len(placed) != 1 || placed[0].ZoneID != "z1" || !placed[0].Correct {
		t.Fatalf("PlacedLabels after redo = %+v", placed)
	}
	if sess.Score() != 10 {
		t.Errorf("Score after redo = %d, want 10", sess.Score())
	}

	if err := sess.Redo(ctx); !apperrors.IsCode(err, apperrors.CodeSessionNothingToRedo) {
		t.Errorf("Redo past head = %v, want nothing-to-redo", err)
	}

	// A new placement discards the redo tail.
	sess.Undo(ctx)
	sess.Dispatch(ctx, mechanics.Action{Verb: mechanics.VerbPlace, LabelID: "l2", ZoneID: "z2"})
	if err := sess.Redo(ctx); !apperrors.IsCode(err, apperrors.CodeSessionNothingToRedo) {
		t.Errorf("Redo after divergent placement = %v, want nothing-to-redo", err)
	}
}

func TestUndoRestoresPriorPlacement(t *testing.T) {
	sess := newTestSession(t, dragDropBlueprint())
	ctx := context.Background()

	sess.Dispatch(ctx, mechanics.Action{Verb: mechanics.VerbPlace, LabelID: "l1", ZoneID: "z2"})
	sess.Dispatch(ctx, mechanics.Action{Verb: mechanics.VerbPlace, LabelID: "l1", ZoneID: "z1"})
	if err := sess.Undo(ctx); err != nil {
		t.Fatalf("Undo() = %v", err)
	}

	placed := sess.PlacedLabels()
	if len(placed) != 1 || placed[0].ZoneID != "z2" || placed[0].Correct {
		t.Fatalf("PlacedLabels after undo = %+v, want l1 back on z2", placed)
	}
}

func TestReset(t *testing.T) {
	sess := newTestSession(t, dragDropBlueprint())
	ctx := context.Background()

	sess.Dispatch(ctx, mechanics.Action{Verb: mechanics.VerbPlace, LabelID: "l1", ZoneID: "z1"})
	sess.Reset()

	if sess.Score() != 0 {
		t.Errorf("Score after reset = %d, want 0", sess.Score())
	}
	if len(sess.PlacedLabels()) != 0 {
		t.Error("placements survived reset")
	}
	if sess.Phase() != PhaseInProgress {
		t.Errorf("Phase after reset = %q, want %q", sess.Phase(), PhaseInProgress)
	}
	if err := sess.Undo(ctx); !apperrors.IsCode(err, apperrors.CodeSessionNothingToUndo) {
		t.Errorf("Undo after reset = %v, want nothing-to-undo", err)
	}

	// The game is fully playable again.
	sess.Dispatch(ctx, mechanics.Action{Verb: mechanics.VerbPlace, LabelID: "l1", ZoneID: "z1"})
	sess.Dispatch(ctx, mechanics.Action{Verb: mechanics.VerbPlace, LabelID: "l2", ZoneID: "z2"})
	if !sess.IsComplete() {
		t.Error("IsComplete = false after replay")
	}
}

func TestDelayedAdvanceAndResetCancellation(t *testing.T) {
	sess := newTestSession(t, dragDropBlueprint(), WithAdvanceDelay(20*time.Millisecond))
	ctx := context.Background()

	sess.Dispatch(ctx, mechanics.Action{Verb: mechanics.VerbPlace, LabelID: "l1", ZoneID: "z1"})
	sess.Dispatch(ctx, mechanics.Action{Verb: mechanics.VerbPlace, LabelID: "l2", ZoneID: "z2"})

	// Completion is pending behind the pacing delay.
	if sess.IsComplete() {
		t.Fatal("IsComplete = true before the pacing delay elapsed")
	}
	sess.Reset()
	time.Sleep(60 * time.Millisecond)
	if sess.IsComplete() {
		t.Fatal("stale delayed advance fired into a reset session")
	}

	sess.Dispatch(ctx, mechanics.Action{Verb: mechanics.VerbPlace, LabelID: "l1", ZoneID: "z1"})
	sess.Dispatch(ctx, mechanics.Action{Verb: mechanics.VerbPlace, LabelID: "l2", ZoneID: "z2"})
	time.Sleep(60 * time.Millisecond)
	if !sess.IsComplete() {
		t.Fatal("delayed advance never fired")
	}
}

func TestDelayedTransitionDoesNotFireAcrossTasks(t *testing.T) {
	bp := dragDropBlueprint()
	bp.Diagram.Zones[0].Description = "Stores genetic material."
	bp.Diagram.Zones[1].Description = "Controls what enters and leaves."
	bp.Tasks = []blueprint.Task{
		{ID: "t1", Kind: blueprint.MechanicDragDrop, ZoneIDs: []string{"z1"}, LabelIDs: []string{"l1"}},
		{ID: "t2", Kind: blueprint.MechanicDragDrop, ZoneIDs: []string{"z2"}, LabelIDs: []string{"l2"}},
	}
	bp.ModeTransitions = []blueprint.ModeTransition{
		{
			From:    blueprint.MechanicDragDrop,
			To:      blueprint.MechanicDescriptionMatching,
			Trigger: mechanics.TriggerAllZonesLabeled,
			DelayMS: 20,
		},
	}
	sess := newTestSession(t, bp)
	ctx := context.Background()

	// The first task finishes and advances before its delayed mode
	// transition elapses. The transition was armed for the first task and
	// must not swap the second task's mechanic.
	sess.Dispatch(ctx, mechanics.Action{Verb: mechanics.VerbPlace, LabelID: "l1", ZoneID: "z1"})
	if got, want := sess.TaskIndex(), 1; got != want {
		t.Fatalf("TaskIndex = %d, want %d", got, want)
	}
	time.Sleep(60 * time.Millisecond)
	if got, want := sess.ActiveMechanic(), blueprint.MechanicDragDrop; got != want {
		t.Fatalf("ActiveMechanic = %q after stale transition window, want %q", got, want)
	}
}

func TestUndoDuringPacingDelayCancelsCompletion(t *testing.T) {
	sess := newTestSession(t, dragDropBlueprint(), WithAdvanceDelay(40*time.Millisecond))
	ctx := context.Background()

	sess.Dispatch(ctx, mechanics.Action{Verb: mechanics.VerbPlace, LabelID: "l1", ZoneID: "z1"})
	sess.Dispatch(ctx, mechanics.Action{Verb: mechanics.VerbPlace, LabelID: "l2", ZoneID: "z2"})
	if err := sess.Undo(ctx); err != nil {
		t.Fatalf("Undo during pacing delay = %v", err)
	}

	time.Sleep(100 * time.Millisecond)
	if sess.IsComplete() {
		t.Fatal("IsComplete = true with a label unplaced")
	}
	if sess.Phase() != PhaseInProgress {
		t.Fatalf("Phase = %q, want %q", sess.Phase(), PhaseInProgress)
	}

	// Re-completing arms a fresh advance.
	sess.Dispatch(ctx, mechanics.Action{Verb: mechanics.VerbPlace, LabelID: "l2", ZoneID: "z2"})
	time.Sleep(100 * time.Millisecond)
	if !sess.IsComplete() {
		t.Fatal("advance never fired after re-completion")
	}
	if got, want := sess.Score(), 20; got != want {
		t.Errorf("Score = %d, want %d", got, want)
	}
}

func TestCloseRejectsMutation(t *testing.T) {
	sess := newTestSession(t, dragDropBlueprint())
	sess.Close()

	if _, err := sess.Dispatch(context.Background(), mechanics.Action{Verb: mechanics.VerbPlace, LabelID: "l1", ZoneID: "z1"}); !apperrors.IsCode(err, apperrors.CodeSessionClosed) {
		t.Errorf("Dispatch after close = %v, want session-closed error", err)
	}
	if err := sess.Undo(context.Background()); !apperrors.IsCode(err, apperrors.CodeSessionClosed) {
		t.Errorf("Undo after close = %v, want session-closed error", err)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	store := storage.NewMemory()
	ctx := context.Background()

	sess := newTestSession(t, dragDropBlueprint(), WithID("sess-1"), WithStore(store))
	sess.Dispatch(ctx, mechanics.Action{Verb: mechanics.VerbPlace, LabelID: "l1", ZoneID: "z1"})
	if err := sess.Save(ctx); err != nil {
		t.Fatalf("Save() = %v", err)
	}
	sess.Close()

	resumed := newTestSession(t, dragDropBlueprint(), WithID("sess-1"), WithStore(store))
	if err := resumed.Restore(ctx); err != nil {
		t.Fatalf("Restore() = %v", err)
	}
	if got, want := resumed.Score(), 10; got != want {
		t.Errorf("restored Score = %d, want %d", got, want)
	}
	placed := resumed.PlacedLabels()
	if len(placed) != 1 || placed[0].LabelID != "l1" {
		t.Fatalf("restored placements = %+v", placed)
	}

	// The restored session plays on to completion.
	resumed.Dispatch(ctx, mechanics.Action{Verb: mechanics.VerbPlace, LabelID: "l2", ZoneID: "z2"})
	if !resumed.IsComplete() {
		t.Error("restored session did not complete")
	}
	if got, want := resumed.Score(), 20; got != want {
		t.Errorf("restored final score = %d, want %d", got, want)
	}
}

func TestRestoreRejectsBadSnapshots(t *testing.T) {
	store := storage.NewMemory()
	ctx := context.Background()

	sess := newTestSession(t, dragDropBlueprint(), WithID("sess-1"), WithStore(store))
	if err := sess.Restore(ctx); err == nil {
		t.Error("Restore with no snapshot = nil, want error")
	}

	store.SaveSnapshot(ctx, storage.Snapshot{SessionID: "sess-1", Data: []byte("not json")})
	if err := sess.Restore(ctx); !apperrors.IsCode(err, apperrors.CodeSessionSnapshotDecode) {
		t.Errorf("Restore(garbage) = %v, want decode error", err)
	}

	store.SaveSnapshot(ctx, storage.Snapshot{SessionID: "sess-1", Data: []byte(`{"version":99,"progress":{}}`)})
	if err := sess.Restore(ctx); !apperrors.IsCode(err, apperrors.CodeSessionSnapshotVersion) {
		t.Errorf("Restore(future version) = %v, want version error", err)
	}
}

func TestAnalyticsEventsEmitted(t *testing.T) {
	var events []analytics.Event
	sink := analytics.SinkFunc(func(ctx context.Context, event analytics.Event) error {
		events = append(events, event)
		return nil
	})
	sess := newTestSession(t, dragDropBlueprint(), WithSink(sink))
	ctx := context.Background()

	sess.Dispatch(ctx, mechanics.Action{Verb: mechanics.VerbPlace, LabelID: "l1", ZoneID: "z1"})
	sess.Dispatch(ctx, mechanics.Action{Verb: mechanics.VerbHint, ZoneID: "z2"})
	sess.Dispatch(ctx, mechanics.Action{Verb: mechanics.VerbPlace, LabelID: "l2", ZoneID: "z2"})

	var types []analytics.Type
	for _, event := range events {
		types = append(types, event.Type)
	}
	want := []analytics.Type{
		analytics.TypeLabelPlaced,
		analytics.TypeZoneCompleted,
		analytics.TypeHintRequested,
		analytics.TypeLabelPlaced,
		analytics.TypeZoneCompleted,
		analytics.TypeSceneCompleted,
		analytics.TypeGameCompleted,
	}
	if len(types) != len(want) {
		t.Fatalf("event types = %v, want %v", types, want)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Fatalf("event %d = %q, want %q (all: %v)", i, types[i], want[i], types)
		}
	}
}
