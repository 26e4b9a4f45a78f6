package client

import (
	"fmt"
	"sync"
	"time"

	"github.com/kvar-ae/equarium/contract"
)

// Scheduler arms a repeating callback at a fixed interval and returns a stop
// function. It is injected into the StageEmitter so tests can drive the
// reveal with virtual time instead of wall-clock timers.
type Scheduler interface {
	Schedule(interval time.Duration, tick func()) (stop func())
}

// TickerScheduler is the wall-clock Scheduler used outside of tests.
type TickerScheduler struct{}

// Schedule runs tick every interval until the returned stop function is
// called. Stop is idempotent.
func (TickerScheduler) Schedule(interval time.Duration, tick func()) func() {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				tick()
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			ticker.Stop()
			close(done)
		})
	}
}

// StagePhase is the observable state of a simulation reveal.
type StagePhase int

const (
	// PhaseIdle means no run is active and no logs are shown.
	PhaseIdle StagePhase = iota
	// PhaseRequesting means the run was submitted and the response is pending.
	PhaseRequesting
	// PhaseRevealing means the full log list arrived and lines are being
	// disclosed one per tick.
	PhaseRevealing
	// PhaseComplete means every received line has been disclosed.
	PhaseComplete
)

func (p StagePhase) String() string {
	switch p {
	case PhaseRequesting:
		return "requesting"
	case PhaseRevealing:
		return "revealing"
	case PhaseComplete:
		return "complete"
	default:
		return "idle"
	}
}

// StageEmitter paces the disclosure of an already-received simulation log
// list. The entire list arrives in one response; the emitter reveals one
// line per scheduler tick, in array order, at a cadence independent of
// network timing. Starting a new run always resets first, cancelling any
// reveal still in progress.
type StageEmitter struct {
	mu        sync.Mutex
	run       func() (*contract.SimulationResult, error)
	scheduler Scheduler
	interval  time.Duration

	phase    StagePhase
	result   *contract.SimulationResult
	revealed int
	stop     func()
	gen      int // run generation; guards ticks and responses of abandoned runs
}

// NewStageEmitter creates an emitter that obtains runs from run, typically
// Client.RunGenesis, and paces their reveal on the given scheduler.
func NewStageEmitter(run func() (*contract.SimulationResult, error), scheduler Scheduler, interval time.Duration) *StageEmitter {
	return &StageEmitter{
		run:       run,
		scheduler: scheduler,
		interval:  interval,
		phase:     PhaseIdle,
	}
}

// Start submits a new run. Any prior run is abandoned first: its timer is
// cancelled and its revealed lines are cleared. Start blocks until the
// single response arrives, then arms the reveal timer and returns.
func (e *StageEmitter) Start() error {
	e.Reset()

	e.mu.Lock()
	e.phase = PhaseRequesting
	gen := e.gen
	e.mu.Unlock()

	result, err := e.run()

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.gen != gen {
		// A newer start or reset superseded this run while it was in flight.
		return nil
	}
	if err != nil {
		e.phase = PhaseIdle
		return fmt.Errorf("running simulation : %w", err)
	}

	e.result = result
	if len(result.Logs) == 0 {
		e.phase = PhaseComplete
		return nil
	}

	e.phase = PhaseRevealing
	e.stop = e.scheduler.Schedule(e.interval, func() { e.reveal(gen) })
	return nil
}

// reveal discloses one more line. On the tick that exhausts the list it
// cancels the timer; a timer still firing after exhaustion is a defect.
func (e *StageEmitter) reveal(gen int) {
	e.mu.Lock()
	if e.gen != gen || e.phase != PhaseRevealing {
		e.mu.Unlock()
		return
	}

	e.revealed++

	var stop func()
	if e.revealed >= len(e.result.Logs) {
		e.phase = PhaseComplete
		stop = e.stop
		e.stop = nil
	}
	e.mu.Unlock()

	if stop != nil {
		stop()
	}
}

// Reset abandons any active run and returns the emitter to the idle state.
func (e *StageEmitter) Reset() {
	e.mu.Lock()
	e.gen++
	e.phase = PhaseIdle
	e.result = nil
	e.revealed = 0
	stop := e.stop
	e.stop = nil
	e.mu.Unlock()

	if stop != nil {
		stop()
	}
}

// Phase reports the current reveal state.
func (e *StageEmitter) Phase() StagePhase {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.phase
}

// Revealed returns a copy of the lines disclosed so far, in server order.
func (e *StageEmitter) Revealed() []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.result == nil {
		return []string{}
	}
	revealed := make([]string, e.revealed)
	copy(revealed, e.result.Logs[:e.revealed])
	return revealed
}

// TraceID returns the trace identifier of the active run, or an empty string
// when no response has been received.
func (e *StageEmitter) TraceID() string {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.result == nil {
		return ""
	}
	return e.result.TraceID
}
