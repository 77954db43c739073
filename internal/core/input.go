package core

// Action represents a semantic game action, abstracted from physical input.
// Keyboard bindings and swipe gestures both resolve to actions.
type Action int

const (
	ActionNone     Action = iota
	ActionUp              // W, Up arrow, K, swipe up
	ActionDown            // S, Down arrow, J, swipe down
	ActionLeft            // A, Left arrow, H, swipe left
	ActionRight           // D, Right arrow, L, swipe right
	ActionRestart         // R key - start a fresh game
	ActionNextBase        // B key - cycle merge base (resets)
	ActionNextMode        // M key - cycle timer mode (resets)
	ActionBack            // Esc - go back to menu
	ActionQuit            // Q, Ctrl+C - exit game/session
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionRestart:
		return "Restart"
	case ActionNextBase:
		return "NextBase"
	case ActionNextMode:
		return "NextMode"
	case ActionBack:
		return "Back"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// DefaultSwipeThreshold is the minimum displacement, in pixels, for a swipe.
const DefaultSwipeThreshold = 30

// SwipeDirection maps a touch displacement to a move action.
// Gestures shorter than threshold on both axes are ignored. The dominant
// axis wins; equal displacement counts as vertical.
func SwipeDirection(dx, dy, threshold float64) (Action, bool) {
	absDx, absDy := AbsF(dx), AbsF(dy)
	if absDx < threshold && absDy < threshold {
		return ActionNone, false
	}

	if absDx > absDy {
		if dx > 0 {
			return ActionRight, true
		}
		return ActionLeft, true
	}

	if dy > 0 {
		return ActionDown, true
	}
	return ActionUp, true
}
