package ui

// Action is a preview key command
type Action int

const (
	ActionNone Action = iota
	ActionRecordPose
	ActionZoomIn
	ActionZoomOut
	ActionPanLeft
	ActionPanRight
	ActionPanUp
	ActionPanDown
	ActionToggleMove
	ActionQuit
)

// KeyAction maps a WaitKey code to an action
func KeyAction(key int) Action {
	if key < 0 {
		return ActionNone
	}
	switch key & 0xff {
	case 'r', 'R', ' ':
		return ActionRecordPose
	case '+', '=':
		return ActionZoomIn
	case '-', '_':
		return ActionZoomOut
	case 'a':
		return ActionPanLeft
	case 'd':
		return ActionPanRight
	case 'w':
		return ActionPanUp
	case 's':
		return ActionPanDown
	case 'm':
		return ActionToggleMove
	case 'q', 'Q', 27:
		return ActionQuit
	}
	return ActionNone
}
