package capture

import (
	"errors"
	"time"
)

// ErrSubsystemFailed wraps fatal errors reported by the capture subsystem
var ErrSubsystemFailed = errors.New("capture subsystem failed")

// ErrResultRejected wraps errors delivered with a pending result, which
// cause the result to be rejected at the validation gate
var ErrResultRejected = errors.New("capture result rejected")

// SessionConfig configures one capture attempt
type SessionConfig struct {
	// Coaching enables on-device scan guidance if the hardware supports it
	Coaching bool
}

// Session is the hardware-facing capture subsystem. Implementations own
// the physical scanning; the coordinator only issues start/stop commands
// and consumes the event stream. Start and Stop are commands, not
// acknowledgments: success means the command was issued, the session
// confirms asynchronously through events.
type Session interface {
	Start(config SessionConfig) error
	Stop() error
	Close() error
}

// EventKind identifies one kind of session lifecycle event
type EventKind string

const (
	// EventConfigured acknowledges that the session is actively scanning
	EventConfigured EventKind = "configured"
	// EventInterimUpdate carries an in-progress snapshot; ignored here
	EventInterimUpdate EventKind = "interim_update"
	// EventResultDelivered carries the final processed room, or an error
	EventResultDelivered EventKind = "result_delivered"
	// EventSessionEnded acknowledges a requested stop, possibly with an error
	EventSessionEnded EventKind = "session_ended"
	// EventSessionFailed reports a fatal subsystem error
	EventSessionFailed EventKind = "session_failed"
)

// Event is one entry in the session's lifecycle event stream. Room is set
// only for EventResultDelivered (and interim updates); Err is set when the
// subsystem attaches an error to the event.
//
// The "result pending, approve?" step is not an Event: it demands a
// synchronous answer, so it goes through Coordinator.ApproveResult.
type Event struct {
	Kind EventKind
	Room *Room
	Err  error
}

// Transition is one committed coordinator state change
type Transition struct {
	AttemptID string    `json:"attempt_id"`
	From      Phase     `json:"from"`
	To        Phase     `json:"to"`
	Note      string    `json:"note,omitempty"`
	At        time.Time `json:"at"`
}

// Recorder receives every committed coordinator transition. Implementations
// must tolerate being called from the coordinator's goroutine; errors are
// logged by the coordinator, never fatal.
type Recorder interface {
	Record(t Transition) error
}
