package core

import (
	"errors"
	"fmt"
)

// SynthesisResult is the structured output of one synthesis.
// Immutable once received; all three fields are present, though any may be empty.
type SynthesisResult struct {
	Acknowledgment string `json:"acknowledgment" jsonschema:"description=A soothing status-check message"`
	Strategy       string `json:"strategy" jsonschema:"description=Why the prompt is structured the way it is"`
	Artifact       string `json:"artifact" jsonschema:"description=The generated prompt"`
}

// Status is the UI phase of a synthesis attempt.
type Status int

const (
	StatusIdle Status = iota
	StatusAnalyzing
	StatusArchitecting
	StatusRefining
	StatusCompleted
	StatusError
)

var statusNames = map[Status]string{
	StatusIdle:         "IDLE",
	StatusAnalyzing:    "ANALYZING",
	StatusArchitecting: "ARCHITECTING",
	StatusRefining:     "REFINING",
	StatusCompleted:    "COMPLETED",
	StatusError:        "ERROR",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Label returns the progress text shown while the status is active.
// Only in-progress statuses have a label.
func (s Status) Label() string {
	switch s {
	case StatusAnalyzing:
		return "Synthesizing Intent..."
	case StatusArchitecting:
		return "Architecting Logic Flow..."
	case StatusRefining:
		return "Calibrating Constraints..."
	default:
		return ""
	}
}

// InProgress reports whether a synthesis is in flight.
func (s Status) InProgress() bool {
	return s == StatusAnalyzing || s == StatusArchitecting || s == StatusRefining
}

// Terminal reports whether the attempt has resolved.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusError
}

// SynthesisFailedMessage is the only failure text a user ever sees.
const SynthesisFailedMessage = "Harmonic alignment failed. Please recalibrate your request."

// FallbackErrorMessage is shown when an error carries no message of its own.
const FallbackErrorMessage = "Calibration failed."

var (
	// ErrSynthesisFailed is returned for any remote, parse or validation failure.
	// The underlying cause is logged, never returned.
	ErrSynthesisFailed = errors.New(SynthesisFailedMessage)

	// ErrEmptyInput is returned when a request is blank after trimming.
	ErrEmptyInput = errors.New("request is empty")
)

// ValidationError represents a validation failure.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}
