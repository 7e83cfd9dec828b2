package pipeline

type State int

const (
	StateIdle State = iota
	StateAwaitingPermission
	StateReading
	StateReducing
	StateBuilding
	StateSending
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingPermission:
		return "awaiting_permission"
	case StateReading:
		return "reading"
	case StateReducing:
		return "reducing"
	case StateBuilding:
		return "building"
	case StateSending:
		return "sending"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition can happen.
func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed
}
