// SPDX-License-Identifier: MPL-2.0

package dispatch

import (
	"errors"
	"fmt"
)

const (
	// PhaseIdle is the phase of a new engine.
	PhaseIdle Phase = iota
	// PhaseBootstrapped means a loaded registry is available.
	PhaseBootstrapped
	// PhaseResolved means the namespace was found in the registry.
	PhaseResolved
	// PhaseLoaded means the namespace's command tree is loaded.
	PhaseLoaded
	// PhaseDispatched means the leaf handler is running.
	PhaseDispatched
	// PhaseSucceeded is terminal: the handler returned without error.
	PhaseSucceeded
	// PhaseFailed is terminal: some phase failed.
	PhaseFailed
)

// ErrInvalidTransition is the sentinel error wrapped by InvalidTransitionError.
var ErrInvalidTransition = errors.New("invalid phase transition")

type (
	// Phase is the lifecycle position of one top-level invocation.
	Phase int32

	// InvalidTransitionError is returned when an engine is asked to move
	// between phases out of order, for example when it is reused.
	InvalidTransitionError struct {
		From Phase
		To   Phase
	}
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseBootstrapped:
		return "bootstrapped"
	case PhaseResolved:
		return "resolved"
	case PhaseLoaded:
		return "loaded"
	case PhaseDispatched:
		return "dispatched"
	case PhaseSucceeded:
		return "succeeded"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// IsTerminal reports whether p is PhaseSucceeded or PhaseFailed.
func (p Phase) IsTerminal() bool {
	return p == PhaseSucceeded || p == PhaseFailed
}

// next reports whether to directly follows p. Any non-terminal phase may
// fail.
func (p Phase) next(to Phase) bool {
	if to == PhaseFailed {
		return !p.IsTerminal()
	}
	return !p.IsTerminal() && to == p+1
}

// Error implements the error interface.
func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid phase transition %s -> %s", e.From, e.To)
}

// Unwrap returns ErrInvalidTransition for errors.Is() compatibility.
func (e *InvalidTransitionError) Unwrap() error { return ErrInvalidTransition }
