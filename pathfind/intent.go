package pathfind

// Intent selects the heuristic, goal test and post-processing of a search.
type Intent int

const (
	IntentChase Intent = iota
	IntentEscape
	IntentLook
	IntentChill
)

func (i Intent) String() string {
	switch i {
	case IntentChase:
		return "chase"
	case IntentEscape:
		return "escape"
	case IntentLook:
		return "look"
	case IntentChill:
		return "chill"
	default:
		return "unknown"
	}
}

// Status is the outcome of FindPath.
type Status int

const (
	// StatusFound means the returned path has at least two cells.
	StatusFound Status = iota
	// StatusArrived means the agent is already where the intent wants it.
	StatusArrived
	// StatusUnreachable means no acceptable cell could be reached within
	// the node budget.
	StatusUnreachable
	// StatusNotReady means the grid has not been built yet.
	StatusNotReady
)

func (s Status) String() string {
	switch s {
	case StatusFound:
		return "found"
	case StatusArrived:
		return "arrived"
	case StatusUnreachable:
		return "unreachable"
	case StatusNotReady:
		return "not_ready"
	default:
		return "unknown"
	}
}
