package session

import (
	"context"
	"time"

	"github.com/dhabedank/nexus/internal/core"
	"github.com/dhabedank/nexus/internal/logging"
)

// Synthesizer performs the single remote call of an attempt.
type Synthesizer interface {
	Synthesize(ctx context.Context, rawIdea string) (*core.SynthesisResult, error)
}

// Clock schedules independent delayed events.
type Clock interface {
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// Runner drives a Machine without a UI event loop. Phase ticks, the floor
// and the remote call are independent events serialized through one select
// loop, so the machine is only ever touched from the calling goroutine.
type Runner struct {
	machine *Machine
	synth   Synthesizer
	timings Timings
	clock   Clock
}

// RunnerOption customizes a Runner.
type RunnerOption func(*Runner)

// WithClock replaces the wall clock, mainly for tests.
func WithClock(c Clock) RunnerOption {
	return func(r *Runner) { r.clock = c }
}

// NewRunner creates a Runner with its own Idle machine.
func NewRunner(synth Synthesizer, timings Timings, opts ...RunnerOption) *Runner {
	r := &Runner{
		machine: NewMachine(),
		synth:   synth,
		timings: timings,
		clock:   realClock{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Machine exposes the underlying machine for rendering.
func (r *Runner) Machine() *Machine { return r.machine }

type outcome struct {
	result *core.SynthesisResult
	err    error
}

// Run submits input and blocks until the attempt resolves. onStatus, if
// set, is called for every status change including the initial Analyzing.
// Blank input returns core.ErrEmptyInput and never reaches the provider.
func (r *Runner) Run(ctx context.Context, input string, onStatus func(core.Status)) (*core.SynthesisResult, error) {
	attempt, err := r.machine.Submit(input)
	if err != nil {
		return nil, err
	}
	notify := func(changed bool) {
		if changed && onStatus != nil {
			onStatus(r.machine.Status())
		}
	}
	notify(true)

	phases := r.timings.Phases()
	ticks := make([]<-chan time.Time, len(phases))
	for i, p := range phases {
		ticks[i] = r.clock.After(p.After)
	}
	floor := r.clock.After(r.timings.Floor)

	done := make(chan outcome, 1)
	callCtx := logging.WithAttempt(ctx, attempt)
	go func() {
		res, err := r.synth.Synthesize(callCtx, input)
		done <- outcome{result: res, err: err}
	}()

	// catchUp applies phase ticks before index n that are already due, so
	// the displayed sequence never skips a phase when events bunch up.
	catchUp := func(n int) {
		for i := 0; i < n; i++ {
			if ticks[i] == nil {
				continue
			}
			select {
			case <-ticks[i]:
				ticks[i] = nil
				notify(r.machine.Advance(attempt, phases[i].Status))
			default:
			}
		}
	}

	var final outcome
	for !r.machine.Status().Terminal() {
		select {
		case <-ticks[0]:
			ticks[0] = nil
			notify(r.machine.Advance(attempt, phases[0].Status))
		case <-ticks[1]:
			ticks[1] = nil
			catchUp(1)
			notify(r.machine.Advance(attempt, phases[1].Status))
		case <-floor:
			floor = nil
			catchUp(len(ticks))
			notify(r.machine.FloorElapsed(attempt))
		case o := <-done:
			done = nil
			final = o
			notify(r.machine.Resolve(attempt, o.result, o.err))
		}
	}

	if r.machine.Status() == core.StatusError {
		if final.err != nil {
			return nil, final.err
		}
		return nil, core.ErrSynthesisFailed
	}
	return r.machine.Result(), nil
}
