// SPDX-License-Identifier: MPL-2.0

package jsmodule

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidModule is the sentinel error wrapped by InvalidModuleError.
	ErrInvalidModule = errors.New("invalid javascript module")

	// ErrScript is the sentinel error wrapped by ScriptError.
	ErrScript = errors.New("javascript error")
)

type (
	// InvalidModuleError is returned when a module evaluates but its exports
	// cannot be turned into a command tree.
	InvalidModuleError struct {
		Path   string
		Reason string
	}

	// ScriptError wraps an exception thrown while evaluating a module or
	// running one of its handlers.
	ScriptError struct {
		Path string
		Err  error
	}
)

// Error implements the error interface.
func (e *InvalidModuleError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Reason)
}

// Unwrap returns ErrInvalidModule for errors.Is() compatibility.
func (e *InvalidModuleError) Unwrap() error { return ErrInvalidModule }

// Error implements the error interface.
func (e *ScriptError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

// Unwrap returns ErrScript and the underlying error.
func (e *ScriptError) Unwrap() []error { return []error{ErrScript, e.Err} }
