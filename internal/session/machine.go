// Package session holds the synthesis status machine.
//
// The machine is a plain value with no goroutines or timers of its own.
// Drivers (the TUI event loop, the headless Runner) schedule the cosmetic
// phase ticks and the floor as independent events and feed them back in,
// each tagged with the attempt it belongs to.
package session

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dhabedank/nexus/internal/core"
)

// ErrBusy is returned when a submission arrives while an attempt is in flight.
var ErrBusy = errors.New("a synthesis is already in progress")

// Timings are the offsets, measured from submission, of the cosmetic phases
// and of the minimum display floor for a successful result.
type Timings struct {
	Architecting time.Duration `yaml:"architecting" validate:"gte=0"`
	Refining     time.Duration `yaml:"refining" validate:"gtefield=Architecting"`
	Floor        time.Duration `yaml:"floor" validate:"gtefield=Refining"`
}

// DefaultTimings returns the standard 800ms / 1600ms / 2200ms schedule.
func DefaultTimings() Timings {
	return Timings{
		Architecting: 800 * time.Millisecond,
		Refining:     1600 * time.Millisecond,
		Floor:        2200 * time.Millisecond,
	}
}

// Phase is one scheduled cosmetic transition.
type Phase struct {
	After  time.Duration
	Status core.Status
}

// Phases lists the cosmetic transitions in schedule order.
func (t Timings) Phases() []Phase {
	return []Phase{
		{After: t.Architecting, Status: core.StatusArchitecting},
		{After: t.Refining, Status: core.StatusRefining},
	}
}

// Machine tracks one session's status, current attempt, result and error.
// It is not safe for concurrent use; the driver serializes all calls.
type Machine struct {
	status  core.Status
	attempt string

	floorElapsed bool
	pending      *core.SynthesisResult

	result *core.SynthesisResult
	errMsg string

	newID func() string
}

// NewMachine returns a machine in the Idle state.
func NewMachine() *Machine {
	return &Machine{
		status: core.StatusIdle,
		newID:  uuid.NewString,
	}
}

func (m *Machine) Status() core.Status { return m.status }

// Attempt returns the ID of the most recent accepted submission.
func (m *Machine) Attempt() string { return m.attempt }

// Busy reports whether submissions are currently rejected.
func (m *Machine) Busy() bool { return m.status.InProgress() }

// Result is non-nil only in the Completed state.
func (m *Machine) Result() *core.SynthesisResult { return m.result }

// ErrorMessage is non-empty only in the Error state.
func (m *Machine) ErrorMessage() string { return m.errMsg }

// Submit starts a new attempt for input. Blank input and submissions while
// busy are rejected without touching any state. On success the previous
// result and error are cleared and the new attempt ID is returned.
func (m *Machine) Submit(input string) (string, error) {
	if strings.TrimSpace(input) == "" {
		return "", core.ErrEmptyInput
	}
	if m.Busy() {
		return "", ErrBusy
	}

	m.attempt = m.newID()
	m.status = core.StatusAnalyzing
	m.floorElapsed = false
	m.pending = nil
	m.result = nil
	m.errMsg = ""
	return m.attempt, nil
}

// Advance applies a cosmetic phase tick. Ticks for other attempts, ticks
// after resolution and backward moves are ignored.
func (m *Machine) Advance(attempt string, to core.Status) bool {
	if !m.current(attempt) || !to.InProgress() || to <= m.status {
		return false
	}
	m.status = to
	return true
}

// FloorElapsed records that the minimum display time has passed and
// completes the attempt if its result is already waiting.
func (m *Machine) FloorElapsed(attempt string) bool {
	if !m.current(attempt) {
		return false
	}
	m.floorElapsed = true
	return m.completeIfReady()
}

// Resolve records the outcome of the remote call. Failures move to Error
// immediately; successes wait for the floor.
func (m *Machine) Resolve(attempt string, result *core.SynthesisResult, err error) bool {
	if !m.current(attempt) {
		return false
	}
	if err != nil || result == nil {
		msg := core.FallbackErrorMessage
		if err != nil && err.Error() != "" {
			msg = err.Error()
		}
		m.status = core.StatusError
		m.errMsg = msg
		m.pending = nil
		m.result = nil
		return true
	}
	m.pending = result
	return m.completeIfReady()
}

func (m *Machine) current(attempt string) bool {
	return attempt != "" && attempt == m.attempt && m.status.InProgress()
}

func (m *Machine) completeIfReady() bool {
	if !m.floorElapsed || m.pending == nil {
		return false
	}
	m.status = core.StatusCompleted
	m.result = m.pending
	m.pending = nil
	return true
}
