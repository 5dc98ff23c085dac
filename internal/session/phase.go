package session

// Phase is the scene engine's state machine position. Task and scene
// advances pass through their transient phases and settle back into
// InProgress; Complete is terminal.
type Phase string

const (
	PhaseInProgress   Phase = "in_progress"
	PhaseTaskAdvance  Phase = "task_advance"
	PhaseSceneAdvance Phase = "scene_advance"
	PhaseComplete     Phase = "complete"
)

// CanTransition reports whether the phase change is legal.
func CanTransition(from, to Phase) bool {
	switch from {
	case PhaseInProgress:
		return to == PhaseTaskAdvance || to == PhaseSceneAdvance || to == PhaseComplete
	case PhaseTaskAdvance:
		return to == PhaseInProgress
	case PhaseSceneAdvance:
		return to == PhaseInProgress
	case PhaseComplete:
		return false
	default:
		return false
	}
}

// SceneResult is the frozen outcome of one finished scene.
type SceneResult struct {
	SceneID  string `json:"sceneId"`
	Title    string `json:"title,omitempty"`
	Score    int    `json:"score"`
	MaxScore int    `json:"maxScore"`
}
