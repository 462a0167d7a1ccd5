package worker

// State represents the presentation worker lifecycle state.
type State uint32

const (
	// StateIdle indicates the worker goroutine has not started drawing.
	StateIdle State = iota
	// StateStarted indicates the rendering context has been acquired and
	// the backend initialized, but drawing is not yet enabled.
	StateStarted
	// StateActive indicates draws execute normally.
	StateActive
	// StatePaused indicates draws are suspended; buffers keep recycling.
	StatePaused
	// StateStopped is terminal for this pipeline instance.
	StateStopped
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStarted:
		return "started"
	case StateActive:
		return "active"
	case StatePaused:
		return "paused"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}
