package capture

import "fmt"

// Phase is the coordinator's own lifecycle state, distinct from whatever
// the hardware believes about itself.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseStarting   Phase = "starting"
	PhaseRunning    Phase = "running"
	PhaseFinalizing Phase = "finalizing"
	PhaseStopping   Phase = "stopping"
	PhaseEnded      Phase = "ended"
)

var allowedTransitions = map[Phase]map[Phase]struct{}{
	PhaseIdle: {
		PhaseStarting: {},
	},
	PhaseStarting: {
		PhaseRunning:  {},
		PhaseStopping: {},
		PhaseEnded:    {},
		PhaseIdle:     {},
	},
	PhaseRunning: {
		PhaseFinalizing: {},
		PhaseStopping:   {},
		PhaseEnded:      {},
		PhaseIdle:       {},
	},
	PhaseFinalizing: {
		PhaseStopping: {},
		PhaseEnded:    {},
		PhaseIdle:     {},
	},
	PhaseStopping: {
		PhaseEnded: {},
		PhaseIdle:  {},
	},
	PhaseEnded: {
		PhaseIdle: {},
	},
}

// ValidPhase reports whether p is one of the coordinator phases
func ValidPhase(p Phase) bool {
	_, ok := allowedTransitions[p]
	return ok
}

// ValidTransition returns an error when from -> to is not in the
// transition table
func ValidTransition(from, to Phase) error {
	if !ValidPhase(from) {
		return fmt.Errorf("invalid phase: %q", from)
	}
	if !ValidPhase(to) {
		return fmt.Errorf("invalid phase: %q", to)
	}
	if _, ok := allowedTransitions[from][to]; !ok {
		return fmt.Errorf("invalid transition: %s -> %s", from, to)
	}
	return nil
}
