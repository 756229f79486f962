package lifecycle

type State int

const (
	Uninitialized State = iota
	Running
	Paused
	Disposed
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Running:
		return "running"
	case Paused:
		return "paused"
	case Disposed:
		return "disposed"
	default:
		return "unknown"
	}
}
