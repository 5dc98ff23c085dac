package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/louisbranch/diagram.games/internal/blueprint"
	apperrors "github.com/louisbranch/diagram.games/internal/errors"
	"github.com/louisbranch/diagram.games/internal/mechanics"
	"github.com/louisbranch/diagram.games/internal/storage"
)

// snapshotVersion guards against restoring state written by an
// incompatible engine.
const snapshotVersion = 1

// snapshotState is the serialized session. The source blueprint is not
// part of it; restore assumes the host supplies the same blueprint the
// snapshot was taken against.
type snapshotState struct {
	Version           int                    `json:"version"`
	SessionID         string                 `json:"sessionId"`
	Phase             Phase                  `json:"phase"`
	SceneIndex        int                    `json:"sceneIndex"`
	TaskIndex         int                    `json:"taskIndex"`
	ActiveMechanic    blueprint.MechanicKind `json:"activeMechanic"`
	Progress          *mechanics.Progress    `json:"progress"`
	SceneScore        int                    `json:"sceneScore"`
	TotalScore        int                    `json:"totalScore"`
	CompletedSceneIDs []string               `json:"completedSceneIds,omitempty"`
	SceneResults      []SceneResult          `json:"sceneResults,omitempty"`
	LastAdvanceKey    string                 `json:"lastAdvanceKey,omitempty"`
	FiredTransitions  []int                  `json:"firedTransitions,omitempty"`
	GameTime          time.Duration          `json:"gameTime"`
}

// Save writes the session's current state to the snapshot store. The
// state is captured under the session lock, so a concurrent dispatch
// never produces a torn snapshot.
func (s *Session) Save(ctx context.Context) error {
	if s.store == nil {
		return fmt.Errorf("session store is required")
	}

	s.mu.Lock()
	state := snapshotState{
		Version:           snapshotVersion,
		SessionID:         s.id,
		Phase:             s.phase,
		SceneIndex:        s.sceneIndex,
		TaskIndex:         s.taskIndex,
		ActiveMechanic:    s.activeMechanic,
		Progress:          s.prog,
		SceneScore:        s.sceneScore,
		TotalScore:        s.totalScore,
		CompletedSceneIDs: append([]string(nil), s.completedSceneIDs...),
		SceneResults:      append([]SceneResult(nil), s.sceneResults...),
		LastAdvanceKey:    s.lastAdvanceKey,
		GameTime:          s.clock.Elapsed(),
	}
	for i := range s.active.ModeTransitions {
		if s.firedTransitions[i] {
			state.FiredTransitions = append(state.FiredTransitions, i)
		}
	}
	data, err := json.Marshal(state)
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	return s.store.SaveSnapshot(ctx, storage.Snapshot{
		SessionID: s.id,
		Data:      data,
		SavedAt:   time.Now(),
	})
}

// Restore loads the session's snapshot from the store and resumes from
// it. The clock restores paused; call Resume to continue the timeline.
func (s *Session) Restore(ctx context.Context) error {
	if s.store == nil {
		return fmt.Errorf("session store is required")
	}
	snapshot, err := s.store.LoadSnapshot(ctx, s.id)
	if err != nil {
		return err
	}

	var state snapshotState
	if err := json.Unmarshal(snapshot.Data, &state); err != nil {
		return apperrors.Wrap(apperrors.CodeSessionSnapshotDecode, "decode snapshot", err)
	}
	if state.Version != snapshotVersion {
		return apperrors.WithMetadata(
			apperrors.CodeSessionSnapshotVersion,
			"snapshot version is not supported",
			map[string]string{"Version": fmt.Sprintf("%d", state.Version)},
		)
	}
	if state.Progress == nil {
		return apperrors.New(apperrors.CodeSessionSnapshotDecode, "snapshot has no progress state")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return apperrors.New(apperrors.CodeSessionClosed, "session is closed")
	}

	s.sched.Cancel()
	s.sceneIndex = clampIndex(state.SceneIndex, s.sceneCount())
	s.taskIndex = 0
	s.initActive()
	scene := s.sceneBlueprint()
	if len(scene.Tasks) > 0 {
		s.taskIndex = clampIndex(state.TaskIndex, len(scene.Tasks))
		s.initActive()
	}

	if _, ok := mechanics.Lookup(state.ActiveMechanic); ok && state.ActiveMechanic != "" {
		s.activeMechanic = state.ActiveMechanic
	}
	s.prog = state.Progress
	s.phase = state.Phase
	if s.phase == "" {
		s.phase = PhaseInProgress
	}
	s.sceneScore = state.SceneScore
	s.totalScore = state.TotalScore
	s.completedSceneIDs = state.CompletedSceneIDs
	s.sceneResults = state.SceneResults
	s.lastAdvanceKey = state.LastAdvanceKey
	s.firedTransitions = make(map[int]bool)
	for _, i := range state.FiredTransitions {
		s.firedTransitions[i] = true
	}
	if s.activeMechanic == blueprint.MechanicHierarchical {
		mechanics.RecomputeReveal(&s.active, s.prog)
	}
	s.clock.Restore(state.GameTime)
	return nil
}

// DeleteSnapshot removes any saved snapshot for the session.
func (s *Session) DeleteSnapshot(ctx context.Context) error {
	if s.store == nil {
		return fmt.Errorf("session store is required")
	}
	return s.store.DeleteSnapshot(ctx, s.id)
}

func (s *Session) sceneCount() int {
	if s.source.IsMultiScene() {
		return len(s.source.Scenes)
	}
	return 1
}

func clampIndex(index, length int) int {
	if index < 0 || length == 0 {
		return 0
	}
	if index >= length {
		return length - 1
	}
	return index
}
