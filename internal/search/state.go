package search

// State is the orchestrator's position in its search lifecycle. Succeeded
// and Failed describe the last finished search; both accept a new one just
// like Idle.
type State int

const (
	Idle State = iota
	Searching
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Searching:
		return "searching"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Availability is what is currently known about the lookup backend.
type Availability string

const (
	AvailabilityUnknown Availability = "unknown"
	AvailabilityOnline  Availability = "online"
	AvailabilityOffline Availability = "offline"
)
