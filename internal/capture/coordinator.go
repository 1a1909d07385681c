package capture

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// IDGenerator generates unique attempt IDs
type IDGenerator interface {
	Generate() string
}

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

type defaultIDGenerator struct{}

func (g *defaultIDGenerator) Generate() string {
	return uuid.NewString()
}

type defaultTimeSource struct{}

func (t *defaultTimeSource) Now() time.Time {
	return time.Now()
}

// Result is the terminal outcome of one capture attempt
type Result struct {
	Room *Room
	Err  error
}

// Failed reports whether the attempt ended in error
func (r Result) Failed() bool {
	return r.Err != nil
}

// Status is the coordinator's externally observable state. It is a value
// snapshot; a new one is published only after a transition has fully
// completed, so observers never see a half-applied state.
type Status struct {
	Phase     Phase
	Desired   bool
	AttemptID string
	Result    *Result
}

// Coordinator reconciles a caller-supplied desired-run boolean against the
// capture session's asynchronous event stream. All state lives behind a
// single goroutine: hardware events, desire changes, approval requests and
// resets are serialized through one message channel, so a start
// acknowledgment can never race a stop request.
//
// The coordinator never persists anything. On Ended with a successful
// Result the caller extracts and saves the record.
type Coordinator struct {
	session    Session
	config     SessionConfig
	recorder   Recorder
	idGen      IDGenerator
	timeSource TimeSource

	msgs      chan any
	quit      chan struct{}
	done      chan struct{}
	closeOnce sync.Once

	mu     sync.RWMutex
	status Status
	subs   []chan Status

	// owned by the loop goroutine
	cur Status
}

type desireMsg struct {
	want bool
}

type eventMsg struct {
	ev Event
}

type approveMsg struct {
	room  *Room
	err   error
	reply chan bool
}

type resetMsg struct{}

// NewCoordinator creates a coordinator with default ID generator and time
// source and starts its event loop. recorder may be nil.
func NewCoordinator(session Session, config SessionConfig, recorder Recorder) *Coordinator {
	return NewCoordinatorWithDeps(session, config, recorder, &defaultIDGenerator{}, &defaultTimeSource{})
}

// NewCoordinatorWithDeps creates a coordinator with custom dependencies for testing
func NewCoordinatorWithDeps(session Session, config SessionConfig, recorder Recorder, idGen IDGenerator, timeSrc TimeSource) *Coordinator {
	c := &Coordinator{
		session:    session,
		config:     config,
		recorder:   recorder,
		idGen:      idGen,
		timeSource: timeSrc,
		msgs:       make(chan any, 16),
		quit:       make(chan struct{}),
		done:       make(chan struct{}),
		status:     Status{Phase: PhaseIdle},
		cur:        Status{Phase: PhaseIdle},
	}
	go c.loop()
	return c
}

// Close stops the event loop. It is safe to call more than once. It does
// not close the session; the session's owner does that.
func (c *Coordinator) Close() error {
	c.closeOnce.Do(func() {
		close(c.quit)
	})
	<-c.done
	return nil
}

// SetDesired sets the desired-run signal. true from Idle (or Ended) starts
// a new attempt; true while an attempt is active is a no-op. false while
// an attempt is active requests a stop.
func (c *Coordinator) SetDesired(want bool) {
	c.post(desireMsg{want: want})
}

// HandleEvent feeds one session lifecycle event to the coordinator. Safe to
// call from any goroutine, including the subsystem's delivery context.
func (c *Coordinator) HandleEvent(ev Event) {
	c.post(eventMsg{ev: ev})
}

// ApproveResult is the validation gate: the subsystem calls it when a raw
// result is ready and pending approval. It answers synchronously. An event
// error rejects the result and fails the attempt; otherwise the attempt
// moves to Finalizing and the subsystem should deliver the processed room.
func (c *Coordinator) ApproveResult(room *Room, err error) bool {
	reply := make(chan bool, 1)
	select {
	case c.msgs <- approveMsg{room: room, err: err, reply: reply}:
	case <-c.quit:
		return false
	}
	select {
	case ok := <-reply:
		return ok
	case <-c.quit:
		return false
	}
}

// Reset forces the coordinator back to Idle and desired-run to false. This
// is the recovery path for a session that never acknowledges start or stop;
// no timeout is imposed here, callers own that policy.
func (c *Coordinator) Reset() {
	c.post(resetMsg{})
}

// Status returns the last published state snapshot
func (c *Coordinator) Status() Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.status
}

// Subscribe returns a channel that receives state snapshots and a cancel
// function that detaches it. The channel holds only the latest value; slow
// readers see the newest state, not a backlog.
func (c *Coordinator) Subscribe() (<-chan Status, func()) {
	ch := make(chan Status, 1)
	c.mu.Lock()
	ch <- c.status
	c.subs = append(c.subs, ch)
	c.mu.Unlock()

	cancel := func() {
		c.mu.Lock()
		for i, sub := range c.subs {
			if sub == ch {
				c.subs = append(c.subs[:i], c.subs[i+1:]...)
				break
			}
		}
		c.mu.Unlock()
	}
	return ch, cancel
}

func (c *Coordinator) post(m any) {
	select {
	case c.msgs <- m:
	case <-c.quit:
	}
}

func (c *Coordinator) loop() {
	defer close(c.done)
	for {
		select {
		case <-c.quit:
			return
		case m := <-c.msgs:
			switch m := m.(type) {
			case desireMsg:
				c.handleDesire(m.want)
			case eventMsg:
				c.handleEvent(m.ev)
			case approveMsg:
				m.reply <- c.handleApprove(m.room, m.err)
			case resetMsg:
				c.handleReset()
			}
		}
	}
}

func (c *Coordinator) handleDesire(want bool) {
	if !want {
		c.cur.Desired = false
		switch c.cur.Phase {
		case PhaseStarting, PhaseRunning, PhaseFinalizing:
			c.transition(PhaseStopping, "stop requested")
			if err := c.session.Stop(); err != nil {
				c.endAttempt(nil, fmt.Errorf("%w: issuing stop: %w", ErrSubsystemFailed, err))
			}
		default:
			c.publish()
		}
		return
	}

	switch c.cur.Phase {
	case PhaseEnded:
		// previous attempt is over; a fresh start first returns to Idle
		c.transition(PhaseIdle, "new attempt requested")
		c.startAttempt()
	case PhaseIdle:
		c.startAttempt()
	default:
		// duplicate start request while an attempt is active
		slog.Debug("Start request suppressed", "phase", c.cur.Phase, "attempt_id", c.cur.AttemptID)
	}
}

func (c *Coordinator) startAttempt() {
	c.cur.AttemptID = c.idGen.Generate()
	c.cur.Result = nil
	c.cur.Desired = true
	c.transition(PhaseStarting, "start requested")
	if err := c.session.Start(c.config); err != nil {
		c.endAttempt(nil, fmt.Errorf("%w: issuing start: %w", ErrSubsystemFailed, err))
	}
}

func (c *Coordinator) handleEvent(ev Event) {
	switch ev.Kind {
	case EventConfigured:
		if c.cur.Phase == PhaseStarting {
			c.transition(PhaseRunning, "session configured")
		} else {
			slog.Debug("Configured event ignored", "phase", c.cur.Phase)
		}
	case EventInterimUpdate:
		// in-progress snapshots are not consumed here
	case EventResultDelivered:
		switch c.cur.Phase {
		case PhaseFinalizing, PhaseStopping:
			if ev.Err != nil {
				c.endAttempt(nil, fmt.Errorf("%w: processing result: %w", ErrSubsystemFailed, ev.Err))
			} else {
				c.endAttempt(ev.Room, nil)
			}
		default:
			slog.Debug("Result delivery ignored", "phase", c.cur.Phase)
		}
	case EventSessionEnded:
		switch c.cur.Phase {
		case PhaseEnded:
			// attempt outcome is immutable once reached; a late end
			// acknowledgment, error or not, cannot overwrite it
			if ev.Err != nil {
				slog.Warn("Session end error after attempt already ended", "attempt_id", c.cur.AttemptID, "error", ev.Err)
			}
		case PhaseStopping:
			if ev.Err != nil {
				slog.Warn("Session ended with error", "attempt_id", c.cur.AttemptID, "error", ev.Err)
			}
			c.transition(PhaseIdle, "session ended")
		case PhaseIdle:
		default:
			if ev.Err != nil {
				c.endAttempt(nil, fmt.Errorf("%w: session ended: %w", ErrSubsystemFailed, ev.Err))
			} else {
				c.cur.Desired = false
				c.transition(PhaseIdle, "session ended unexpectedly")
			}
		}
	case EventSessionFailed:
		if c.cur.Phase == PhaseEnded || c.cur.Phase == PhaseIdle {
			slog.Warn("Session failure outside an active attempt", "phase", c.cur.Phase, "error", ev.Err)
			return
		}
		c.endAttempt(nil, fmt.Errorf("%w: %w", ErrSubsystemFailed, ev.Err))
	}
}

func (c *Coordinator) handleApprove(room *Room, err error) bool {
	if err != nil {
		if c.cur.Phase != PhaseEnded && c.cur.Phase != PhaseIdle {
			c.endAttempt(nil, fmt.Errorf("%w: %w", ErrResultRejected, err))
		}
		return false
	}
	switch c.cur.Phase {
	case PhaseRunning:
		c.transition(PhaseFinalizing, "pending result approved")
		return true
	case PhaseFinalizing, PhaseStopping:
		// a stop request does not discard a result that already exists
		return true
	default:
		slog.Debug("Result approval request ignored", "phase", c.cur.Phase)
		return false
	}
}

func (c *Coordinator) handleReset() {
	c.cur.Desired = false
	if c.cur.Phase == PhaseIdle {
		c.publish()
		return
	}
	c.transition(PhaseIdle, "reset")
}

func (c *Coordinator) endAttempt(room *Room, err error) {
	c.cur.Result = &Result{Room: room, Err: err}
	c.cur.Desired = false
	note := "attempt succeeded"
	if err != nil {
		note = "attempt failed"
		slog.Error("Capture attempt failed", "attempt_id", c.cur.AttemptID, "error", err)
	}
	c.transition(PhaseEnded, note)
}

// transition commits a phase change, records it, and publishes the new
// snapshot. Callers must only request transitions in the allowed table.
func (c *Coordinator) transition(to Phase, note string) {
	from := c.cur.Phase
	if err := ValidTransition(from, to); err != nil {
		slog.Error("Refusing invalid transition", "error", err)
		return
	}
	c.cur.Phase = to
	if c.recorder != nil {
		t := Transition{
			AttemptID: c.cur.AttemptID,
			From:      from,
			To:        to,
			Note:      note,
			At:        c.timeSource.Now(),
		}
		if err := c.recorder.Record(t); err != nil {
			slog.Warn("Failed to record transition", "attempt_id", c.cur.AttemptID, "error", err)
		}
	}
	c.publish()
}

func (c *Coordinator) publish() {
	c.mu.Lock()
	c.status = c.cur
	for _, ch := range c.subs {
		select {
		case <-ch:
		default:
		}
		ch <- c.status
	}
	c.mu.Unlock()
}
