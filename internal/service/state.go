// Package service implements status polling and lifecycle control for the
// managed systemd unit.
package service

// State classifies the observed state of the managed service.
type State int

// Service states as observed (not owned) by this program.
const (
	StateUnknown State = iota // query failed; see Status.Err
	StateRunning
	StateStopped
)

// String returns the display name for the state.
func (s State) String() string {
	switch s {
	case StateRunning:
		return "Running"
	case StateStopped:
		return "Stopped"
	default:
		return "Unknown"
	}
}

// Status is the result of a single poll. It has no identity beyond the
// poll that produced it.
type Status struct {
	State State
	Err   string // raw failure text when State == StateUnknown
}

// Running reports whether the service was observed active.
func (s Status) Running() bool {
	return s.State == StateRunning
}
