package session

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhabedank/nexus/internal/core"
)

func newTestMachine() *Machine {
	m := NewMachine()
	n := 0
	m.newID = func() string {
		n++
		return fmt.Sprintf("attempt-%d", n)
	}
	return m
}

var sampleResult = &core.SynthesisResult{
	Acknowledgment: "Input received. Calibrating parameters...",
	Strategy:       "Persona first, then constraints.",
	Artifact:       "You are a technical writer.\n\n1. Outline\n2. Draft\n",
}

func TestSubmitRejectsBlankInput(t *testing.T) {
	for _, input := range []string{"", " ", "\n\t  "} {
		m := newTestMachine()
		id, err := m.Submit(input)
		require.ErrorIs(t, err, core.ErrEmptyInput)
		assert.Empty(t, id)
		assert.Equal(t, core.StatusIdle, m.Status())
		assert.Empty(t, m.Attempt())
	}
}

func TestBlankInputKeepsTerminalState(t *testing.T) {
	m := newTestMachine()
	id, err := m.Submit("idea")
	require.NoError(t, err)
	m.Resolve(id, nil, core.ErrSynthesisFailed)
	require.Equal(t, core.StatusError, m.Status())

	_, err = m.Submit("   ")
	require.ErrorIs(t, err, core.ErrEmptyInput)
	assert.Equal(t, core.StatusError, m.Status())
	assert.Equal(t, core.SynthesisFailedMessage, m.ErrorMessage())
}

func TestSubmitWhileBusyIsRejected(t *testing.T) {
	m := newTestMachine()
	first, err := m.Submit("idea")
	require.NoError(t, err)

	for _, status := range []core.Status{core.StatusAnalyzing, core.StatusArchitecting, core.StatusRefining} {
		m.Advance(first, status)
		_, err := m.Submit("another idea")
		require.ErrorIs(t, err, ErrBusy, "status %s", status)
		assert.Equal(t, first, m.Attempt())
	}
}

func TestFastSuccessWaitsForFloor(t *testing.T) {
	m := newTestMachine()
	id, err := m.Submit("idea")
	require.NoError(t, err)
	assert.Equal(t, core.StatusAnalyzing, m.Status())

	// Result lands at ~10ms, long before any phase tick.
	assert.False(t, m.Resolve(id, sampleResult, nil))
	assert.Equal(t, core.StatusAnalyzing, m.Status())
	assert.Nil(t, m.Result())

	assert.True(t, m.Advance(id, core.StatusArchitecting))
	assert.Equal(t, core.StatusArchitecting, m.Status())
	assert.True(t, m.Advance(id, core.StatusRefining))
	assert.Equal(t, core.StatusRefining, m.Status())
	assert.Nil(t, m.Result())

	assert.True(t, m.FloorElapsed(id))
	assert.Equal(t, core.StatusCompleted, m.Status())
	assert.Same(t, sampleResult, m.Result())
}

func TestSlowSuccessCompletesOnResolve(t *testing.T) {
	m := newTestMachine()
	id, _ := m.Submit("idea")
	m.Advance(id, core.StatusArchitecting)
	m.Advance(id, core.StatusRefining)

	assert.False(t, m.FloorElapsed(id))
	assert.Equal(t, core.StatusRefining, m.Status())

	assert.True(t, m.Resolve(id, sampleResult, nil))
	assert.Equal(t, core.StatusCompleted, m.Status())
	assert.Equal(t, *sampleResult, *m.Result())
}

func TestFailureIsImmediate(t *testing.T) {
	m := newTestMachine()
	id, _ := m.Submit("idea")

	assert.True(t, m.Resolve(id, nil, core.ErrSynthesisFailed))
	assert.Equal(t, core.StatusError, m.Status())
	assert.Equal(t, core.SynthesisFailedMessage, m.ErrorMessage())
	assert.Nil(t, m.Result())

	// Late cosmetic ticks and the floor do not disturb the error.
	assert.False(t, m.Advance(id, core.StatusArchitecting))
	assert.False(t, m.Advance(id, core.StatusRefining))
	assert.False(t, m.FloorElapsed(id))
	assert.Equal(t, core.StatusError, m.Status())
	assert.False(t, m.Busy())
}

func TestFailureWithoutMessageUsesFallback(t *testing.T) {
	m := newTestMachine()
	id, _ := m.Submit("idea")
	m.Resolve(id, nil, errors.New(""))
	assert.Equal(t, core.FallbackErrorMessage, m.ErrorMessage())

	m2 := newTestMachine()
	id2, _ := m2.Submit("idea")
	m2.Resolve(id2, nil, nil)
	assert.Equal(t, core.StatusError, m2.Status())
	assert.Equal(t, core.FallbackErrorMessage, m2.ErrorMessage())
}

func TestAdvanceOnlyMovesForward(t *testing.T) {
	m := newTestMachine()
	id, _ := m.Submit("idea")

	assert.True(t, m.Advance(id, core.StatusRefining))
	assert.False(t, m.Advance(id, core.StatusArchitecting))
	assert.Equal(t, core.StatusRefining, m.Status())

	assert.False(t, m.Advance(id, core.StatusCompleted), "ticks never complete an attempt")
	assert.False(t, m.Advance(id, core.StatusError))
	assert.Equal(t, core.StatusRefining, m.Status())
}

func TestResubmitClearsPreviousOutcome(t *testing.T) {
	m := newTestMachine()
	first, _ := m.Submit("idea")
	m.Resolve(first, sampleResult, nil)
	m.FloorElapsed(first)
	require.Equal(t, core.StatusCompleted, m.Status())

	second, err := m.Submit("idea v2")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
	assert.Equal(t, core.StatusAnalyzing, m.Status())
	assert.Nil(t, m.Result())

	m.Resolve(second, nil, core.ErrSynthesisFailed)
	require.Equal(t, core.StatusError, m.Status())

	third, err := m.Submit("idea v3")
	require.NoError(t, err)
	assert.Equal(t, core.StatusAnalyzing, m.Status())
	assert.Empty(t, m.ErrorMessage())
	assert.Nil(t, m.Result())

	// Events from superseded attempts are ignored.
	assert.False(t, m.Advance(first, core.StatusRefining))
	assert.False(t, m.FloorElapsed(second))
	assert.False(t, m.Resolve(second, sampleResult, nil))
	assert.Equal(t, core.StatusAnalyzing, m.Status())
	assert.Equal(t, third, m.Attempt())
}

func TestFloorBeforeResultDoesNotComplete(t *testing.T) {
	m := newTestMachine()
	id, _ := m.Submit("idea")
	m.Advance(id, core.StatusArchitecting)
	m.Advance(id, core.StatusRefining)
	m.FloorElapsed(id)
	assert.Equal(t, core.StatusRefining, m.Status())
	assert.True(t, m.Busy())
}

func TestDefaultTimings(t *testing.T) {
	timings := DefaultTimings()
	phases := timings.Phases()

	require.Len(t, phases, 2)
	assert.Equal(t, core.StatusArchitecting, phases[0].Status)
	assert.Equal(t, "800ms", phases[0].After.String())
	assert.Equal(t, core.StatusRefining, phases[1].Status)
	assert.Equal(t, "1.6s", phases[1].After.String())
	assert.Equal(t, "2.2s", timings.Floor.String())
}
