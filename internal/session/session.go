// Package session is the progress store and scene/task engine for one
// playable game. A Session owns the normalized blueprint, the active
// mechanic's progress state, and the multi-scene bookkeeping; every
// mutation flows through Dispatch under a single lock, so callers never
// observe a partially updated state.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/louisbranch/diagram.games/internal/analytics"
	"github.com/louisbranch/diagram.games/internal/blueprint"
	apperrors "github.com/louisbranch/diagram.games/internal/errors"
	"github.com/louisbranch/diagram.games/internal/mechanics"
	"github.com/louisbranch/diagram.games/internal/storage"
)

// DefaultAdvanceDelay paces scene and task advancement after the final
// correct action, giving the player a beat to see the completed state.
const DefaultAdvanceDelay = 600 * time.Millisecond

// Session holds all runtime state for one game.
type Session struct {
	mu sync.Mutex

	id           string
	logger       *slog.Logger
	sink         analytics.Sink
	recorder     *analytics.Recorder
	clock        *analytics.Clock
	tracer       trace.Tracer
	store        storage.SessionStore
	sched        *scheduler
	advanceDelay time.Duration

	source      blueprint.Blueprint
	diagnostics []blueprint.Diagnostic

	phase          Phase
	sceneIndex     int
	taskIndex      int
	activeMechanic blueprint.MechanicKind
	active         blueprint.Blueprint
	prog           *mechanics.Progress

	sceneScore        int
	totalScore        int
	completedSceneIDs []string
	sceneResults      []SceneResult

	lastAdvanceKey   string
	firedTransitions map[int]bool
	completedZones   map[string]bool

	// epoch counts active-view rebuilds. Scheduled work captures it and
	// bails under the lock when the session has advanced or reset since,
	// so a stale timer never mutates a task it was not armed in.
	epoch int

	hist   history
	closed bool
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the structured logger. Defaults to slog.Default.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

// WithSink sets the analytics sink. Without one, events are dropped.
func WithSink(sink analytics.Sink) Option {
	return func(s *Session) { s.sink = sink }
}

// WithStore sets the snapshot store used by Save and Restore.
func WithStore(store storage.SessionStore) Option {
	return func(s *Session) { s.store = store }
}

// WithID fixes the session id instead of generating one.
func WithID(id string) Option {
	return func(s *Session) { s.id = id }
}

// WithAdvanceDelay overrides the pacing delay before scene and task
// advancement. Zero advances synchronously inside Dispatch.
func WithAdvanceDelay(delay time.Duration) Option {
	return func(s *Session) { s.advanceDelay = delay }
}

// WithTracer enables a span around every dispatched action.
func WithTracer(tracer trace.Tracer) Option {
	return func(s *Session) { s.tracer = tracer }
}

// New normalizes and validates the blueprint and starts a session on it.
// Normalization diagnostics are returned alongside the session; only a
// blueprint that fails mechanic validation aborts.
func New(raw blueprint.Blueprint, opts ...Option) (*Session, []blueprint.Diagnostic, error) {
	normalized, diags := blueprint.Normalize(raw)
	if err := mechanics.ValidateBlueprint(&normalized); err != nil {
		return nil, diags, err
	}

	s := &Session{
		source:       normalized,
		diagnostics:  diags,
		clock:        analytics.NewClock(),
		sched:        newScheduler(),
		advanceDelay: DefaultAdvanceDelay,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.id == "" {
		s.id = uuid.NewString()
	}
	s.recorder = analytics.NewRecorder(s.id, s.clock, s.sink, s.logger)

	s.phase = PhaseInProgress
	s.initActive()
	s.clock.Start()
	return s, diags, nil
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Diagnostics returns the normalization diagnostics for the source
// blueprint.
func (s *Session) Diagnostics() []blueprint.Diagnostic {
	return append([]blueprint.Diagnostic(nil), s.diagnostics...)
}

// sceneBlueprint returns the blueprint of the current scene.
func (s *Session) sceneBlueprint() *blueprint.Blueprint {
	if s.source.IsMultiScene() {
		return &s.source.Scenes[s.sceneIndex].Blueprint
	}
	return &s.source
}

// sceneID names the current scene for results and analytics.
func (s *Session) sceneID() string {
	if s.source.IsMultiScene() {
		return s.source.Scenes[s.sceneIndex].ID
	}
	return "main"
}

// initActive builds the active blueprint view for the current scene and
// task and seeds fresh progress for its primary mechanic.
func (s *Session) initActive() {
	scene := s.sceneBlueprint()
	if len(scene.Tasks) > 0 {
		s.active = scene.TaskView(scene.Tasks[s.taskIndex])
	} else {
		s.active = *scene
	}
	s.epoch++
	s.activeMechanic = s.active.PrimaryMechanic()
	s.prog = mechanics.NewProgress()
	if def, ok := mechanics.Lookup(s.activeMechanic); ok {
		def.InitProgress(&s.active, s.prog)
	}
	s.firedTransitions = make(map[int]bool)
	s.completedZones = make(map[string]bool)
	s.hist.clear()
}

// Dispatch applies one player action. It returns the mechanic's result,
// nil for ignored malformed actions, and an error only when the session
// no longer accepts actions.
func (s *Session) Dispatch(ctx context.Context, action mechanics.Action) (*mechanics.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, apperrors.New(apperrors.CodeSessionClosed, "session is closed")
	}
	if s.phase == PhaseComplete {
		return nil, apperrors.New(apperrors.CodeSessionComplete, "game is complete")
	}
	if s.tracer != nil {
		var span trace.Span
		ctx, span = s.tracer.Start(ctx, "session.dispatch")
		defer span.End()
	}

	var prev *mechanics.PlacedLabel
	if action.Verb == mechanics.VerbPlace || action.Verb == mechanics.VerbRemove {
		if p := s.prog.PlacementFor(action.LabelID); p != nil {
			copied := *p
			prev = &copied
		}
	}

	result := mechanics.Dispatch(&s.active, s.prog, action)
	if result == nil {
		s.logger.Debug("action ignored", "session_id", s.id, "verb", string(action.Verb))
		return nil, nil
	}

	s.recordAction(ctx, action, result, prev)
	s.evaluateTransitions()
	s.evaluateAdvance(ctx)
	return result, nil
}

// recordAction pushes undo history and emits analytics for the action.
func (s *Session) recordAction(ctx context.Context, action mechanics.Action, result *mechanics.Result, prev *mechanics.PlacedLabel) {
	switch action.Verb {
	case mechanics.VerbPlace:
		if !result.DistractorRejected && !result.Deferred {
			cmd := command{
				Type:       "place",
				LabelID:    action.LabelID,
				ZoneID:     result.ZoneID,
				Correct:    result.Correct,
				ScoreDelta: result.ScoreDelta,
				Awarded:    result.ScoreDelta > 0,
			}
			if prev != nil {
				cmd.HadPrev = true
				cmd.PrevZoneID = prev.ZoneID
				cmd.PrevCorrect = prev.Correct
				cmd.PrevDeferred = prev.Deferred
			}
			s.hist.push(cmd)
		}
		s.recorder.Record(ctx, analytics.TypeLabelPlaced, map[string]any{
			"labelId":            action.LabelID,
			"zoneId":             result.ZoneID,
			"correct":            result.Correct,
			"scoreDelta":         result.ScoreDelta,
			"distractorRejected": result.DistractorRejected,
		})
		if result.Correct && !s.completedZones[result.ZoneID] && mechanics.ZoneCompleted(&s.active, s.prog, result.ZoneID) {
			s.completedZones[result.ZoneID] = true
			s.recorder.Record(ctx, analytics.TypeZoneCompleted, map[string]any{"zoneId": result.ZoneID})
		}
	case mechanics.VerbRemove:
		cmd := command{Type: "remove", LabelID: action.LabelID}
		if prev != nil {
			cmd.HadPrev = true
			cmd.PrevZoneID = prev.ZoneID
			cmd.PrevCorrect = prev.Correct
			cmd.PrevDeferred = prev.Deferred
		}
		s.hist.push(cmd)
		s.recorder.Record(ctx, analytics.TypeLabelRemoved, map[string]any{
			"labelId": action.LabelID,
			"zoneId":  result.ZoneID,
		})
	case mechanics.VerbHint:
		s.recorder.Record(ctx, analytics.TypeHintRequested, map[string]any{"zoneId": result.ZoneID})
	}
}

// evaluateTransitions fires pending mode transitions for the active
// mechanic. Each transition fires at most once per scene.
func (s *Session) evaluateTransitions() {
	for i, transition := range s.active.ModeTransitions {
		if s.firedTransitions[i] || transition.From != s.activeMechanic {
			continue
		}
		if !mechanics.EvaluateTrigger(&s.active, s.prog, s.activeMechanic, transition) {
			continue
		}
		s.firedTransitions[i] = true
		to := transition.To
		delay := time.Duration(transition.DelayMS) * time.Millisecond
		if delay <= 0 {
			s.applyModeTransition(to)
			continue
		}
		epoch := s.epoch
		s.sched.Schedule(delay, func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if s.closed || s.phase == PhaseComplete || s.epoch != epoch {
				return
			}
			s.applyModeTransition(to)
		})
	}
}

// applyModeTransition swaps the active mechanic within the current task,
// re-initializing only the incoming mechanic's progress slice. Score and
// prior placements carry over. Callers hold the lock.
func (s *Session) applyModeTransition(to blueprint.MechanicKind) {
	def, ok := mechanics.Lookup(to)
	if !ok {
		s.logger.Warn("mode transition to unknown mechanic", "session_id", s.id, "to", string(to))
		return
	}
	s.logger.Info("mode transition", "session_id", s.id, "from", string(s.activeMechanic), "to", string(to))
	s.activeMechanic = to
	def.InitProgress(&s.active, s.prog)
	s.lastAdvanceKey = ""
}

// evaluateAdvance checks the active mechanic's completion predicate and
// schedules the scene engine. Advancement is edge-triggered: one
// completion fires one advance, no matter how often the predicate is
// re-evaluated afterwards.
func (s *Session) evaluateAdvance(ctx context.Context) {
	def, ok := mechanics.Lookup(s.activeMechanic)
	if !ok || !def.IsComplete(&s.active, s.prog) {
		return
	}
	key := fmt.Sprintf("%d/%d/%s", s.sceneIndex, s.taskIndex, s.activeMechanic)
	if key == s.lastAdvanceKey {
		return
	}
	s.lastAdvanceKey = key

	if s.advanceDelay <= 0 {
		s.advance(ctx)
		return
	}
	epoch := s.epoch
	s.sched.Schedule(s.advanceDelay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.closed || s.phase == PhaseComplete || s.epoch != epoch {
			return
		}
		// Completion can be undone while the pacing delay runs; a game
		// advances only while the predicate still holds. Clearing the
		// edge key lets a later re-completion arm a fresh advance.
		if def, ok := mechanics.Lookup(s.activeMechanic); !ok || !def.IsComplete(&s.active, s.prog) {
			s.lastAdvanceKey = ""
			return
		}
		s.advance(context.Background())
	})
}

// advance moves the engine one step: next task, next scene, or game
// complete. Callers hold the lock.
func (s *Session) advance(ctx context.Context) {
	if s.active.DistractorMode == blueprint.DistractorDeferred {
		mechanics.ResolveDeferred(&s.active, s.prog)
	}

	scene := s.sceneBlueprint()
	if len(scene.Tasks) > 0 && s.taskIndex < len(scene.Tasks)-1 {
		s.setPhase(PhaseTaskAdvance)
		s.sceneScore += s.prog.Score
		s.taskIndex++
		s.initActive()
		s.setPhase(PhaseInProgress)
		return
	}

	sceneScore := s.sceneScore + s.prog.Score
	result := SceneResult{
		SceneID:  s.sceneID(),
		Score:    sceneScore,
		MaxScore: mechanics.MaxScoreTotal(scene),
	}
	if s.source.IsMultiScene() {
		result.Title = s.source.Scenes[s.sceneIndex].Title
	}
	s.sceneResults = append(s.sceneResults, result)
	s.completedSceneIDs = append(s.completedSceneIDs, result.SceneID)
	s.totalScore += sceneScore
	s.sceneScore = 0
	s.recorder.Record(ctx, analytics.TypeSceneCompleted, map[string]any{
		"sceneId": result.SceneID,
		"score":   sceneScore,
	})

	if s.source.IsMultiScene() && s.sceneIndex < len(s.source.Scenes)-1 {
		s.setPhase(PhaseSceneAdvance)
		s.sceneIndex++
		s.taskIndex = 0
		s.initActive()
		s.setPhase(PhaseInProgress)
		return
	}

	s.setPhase(PhaseComplete)
	s.clock.Pause()
	s.recorder.Record(ctx, analytics.TypeGameCompleted, map[string]any{
		"totalScore": s.totalScore,
		"maxScore":   mechanics.MaxScoreTotal(&s.source),
	})
}

// setPhase moves the state machine, logging an illegal transition
// instead of performing it.
func (s *Session) setPhase(to Phase) {
	if s.phase == to {
		return
	}
	if !CanTransition(s.phase, to) {
		s.logger.Error("illegal phase transition", "session_id", s.id, "from", string(s.phase), "to", string(to))
		return
	}
	s.phase = to
}

// Undo reverses the most recent placement command.
func (s *Session) Undo(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return apperrors.New(apperrors.CodeSessionClosed, "session is closed")
	}
	if s.phase == PhaseComplete {
		return apperrors.New(apperrors.CodeSessionComplete, "game is complete")
	}
	cmd := s.hist.undo()
	if cmd == nil {
		return apperrors.New(apperrors.CodeSessionNothingToUndo, "nothing to undo")
	}
	cmd.invert(s.prog)
	// Undoing the completing placement re-arms the advance edge trigger.
	s.lastAdvanceKey = ""
	if s.activeMechanic == blueprint.MechanicHierarchical {
		mechanics.RecomputeReveal(&s.active, s.prog)
	}
	s.recorder.Record(ctx, analytics.TypeHistoryUndo, map[string]any{"labelId": cmd.LabelID})
	return nil
}

// Redo replays the most recently undone placement command.
func (s *Session) Redo(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return apperrors.New(apperrors.CodeSessionClosed, "session is closed")
	}
	if s.phase == PhaseComplete {
		return apperrors.New(apperrors.CodeSessionComplete, "game is complete")
	}
	cmd := s.hist.redo()
	if cmd == nil {
		return apperrors.New(apperrors.CodeSessionNothingToRedo, "nothing to redo")
	}
	cmd.apply(s.prog)
	if s.activeMechanic == blueprint.MechanicHierarchical {
		mechanics.RecomputeReveal(&s.active, s.prog)
	}
	s.recorder.Record(ctx, analytics.TypeHistoryRedo, map[string]any{"labelId": cmd.LabelID})
	s.evaluateAdvance(ctx)
	return nil
}

// Pause stops the game clock.
func (s *Session) Pause() { s.clock.Pause() }

// Resume restarts the game clock.
func (s *Session) Resume() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.phase == PhaseComplete {
		return
	}
	s.clock.Start()
}

// Reset returns the session to the first scene with zeroed progress and
// invalidates any pending deferred transition, so a stale timer cannot
// fire into the fresh game.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.sched.Cancel()
	s.phase = PhaseInProgress
	s.sceneIndex = 0
	s.taskIndex = 0
	s.sceneScore = 0
	s.totalScore = 0
	s.sceneResults = nil
	s.completedSceneIDs = nil
	s.lastAdvanceKey = ""
	s.initActive()
	s.clock.Reset()
	s.clock.Start()
	s.logger.Info("session reset", "session_id", s.id)
}

// Close stops the session. Further mutation calls fail with a
// session-closed error.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.sched.Cancel()
	s.clock.Pause()
	s.closed = true
}

// Phase returns the engine's current phase.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Score returns the running total across finished scenes, finished
// tasks, and the in-progress task.
func (s *Session) Score() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == PhaseComplete {
		return s.totalScore
	}
	return s.totalScore + s.sceneScore + s.prog.Score
}

// MaxScore returns the achievable score across the whole game.
func (s *Session) MaxScore() int {
	return mechanics.MaxScoreTotal(&s.source)
}

// IsComplete reports whether the whole game has finished.
func (s *Session) IsComplete() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase == PhaseComplete
}

// SceneResults returns the frozen results of finished scenes.
func (s *Session) SceneResults() []SceneResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]SceneResult(nil), s.sceneResults...)
}

// SceneIndex returns the current scene position.
func (s *Session) SceneIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sceneIndex
}

// TaskIndex returns the current task position within the scene.
func (s *Session) TaskIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.taskIndex
}

// ActiveMechanic returns the mechanic currently accepting actions.
func (s *Session) ActiveMechanic() blueprint.MechanicKind {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeMechanic
}

// Instructions returns the player-facing instruction text for the
// active mechanic.
func (s *Session) Instructions() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if def, ok := mechanics.Lookup(s.activeMechanic); ok {
		return def.Instructions(&s.active)
	}
	return ""
}

// PlacedLabels returns a copy of the current placement records.
func (s *Session) PlacedLabels() []mechanics.PlacedLabel {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]mechanics.PlacedLabel(nil), s.prog.Placed...)
}

// GameTime returns the elapsed game clock.
func (s *Session) GameTime() time.Duration {
	return s.clock.Elapsed()
}
