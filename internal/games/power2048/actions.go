package power2048

import (
	"github.com/vovakirdan/power2048/internal/core"
	"github.com/vovakirdan/power2048/internal/engine"
)

// DirectionFor maps a movement action to a board direction.
func DirectionFor(a core.Action) (engine.Direction, bool) {
	switch a {
	case core.ActionUp:
		return engine.DirUp, true
	case core.ActionDown:
		return engine.DirDown, true
	case core.ActionLeft:
		return engine.DirLeft, true
	case core.ActionRight:
		return engine.DirRight, true
	default:
		return 0, false
	}
}

// Apply performs a game action. Movement actions return the move result;
// restart and cycling actions reset the game and return a zero result.
// Returns false for actions the game does not handle.
func (s *State) Apply(a core.Action) (MoveResult, bool) {
	if dir, ok := DirectionFor(a); ok {
		return s.Move(dir), true
	}

	switch a {
	case core.ActionRestart:
		s.Reset()
	case core.ActionNextBase:
		s.base = NextBase(s.base)
		s.Reset()
	case core.ActionNextMode:
		s.mode = s.mode.Next()
		s.Reset()
	default:
		return MoveResult{}, false
	}
	return MoveResult{}, true
}
