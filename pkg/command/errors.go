// SPDX-License-Identifier: MPL-2.0

package command

import (
	"errors"
	"fmt"

	"github.com/ownclt/ownclt/pkg/types"
)

var (
	// ErrUnknownCommand is the sentinel error wrapped by UnknownCommandError.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrIncompleteCommand is the sentinel error wrapped by IncompleteCommandError.
	ErrIncompleteCommand = errors.New("incomplete command")
	// ErrNotCallable is the sentinel error wrapped by NotCallableError.
	ErrNotCallable = errors.New("command not callable")
)

type (
	// UnknownCommandError is returned when a namespace or a path segment does
	// not exist. Segment is empty when the namespace itself is unknown.
	UnknownCommandError struct {
		Command string
		Segment string
	}

	// IncompleteCommandError is returned when a command names a namespace (or
	// self-invocation names nothing) without a sub command.
	IncompleteCommandError struct {
		Command string
	}

	// NotCallableError is returned when a path resolves to a branch without a
	// leaf "default" child.
	NotCallableError struct {
		Command string
	}
)

// Error implements the error interface for UnknownCommandError.
func (e *UnknownCommandError) Error() string {
	return fmt.Sprintf("command %q does not exist", e.Command)
}

// Unwrap returns ErrUnknownCommand for errors.Is() compatibility.
func (e *UnknownCommandError) Unwrap() error { return ErrUnknownCommand }

// Error implements the error interface for IncompleteCommandError.
func (e *IncompleteCommandError) Error() string {
	return fmt.Sprintf("command %q is incomplete, requires a sub command", e.Command)
}

// Unwrap returns ErrIncompleteCommand for errors.Is() compatibility.
func (e *IncompleteCommandError) Unwrap() error { return ErrIncompleteCommand }

// Error implements the error interface for NotCallableError.
func (e *NotCallableError) Error() string {
	return fmt.Sprintf("command %q is not callable", e.Command)
}

// Unwrap returns ErrNotCallable for errors.Is() compatibility.
func (e *NotCallableError) Unwrap() error { return ErrNotCallable }

// ExitError asks the shell to exit with Code. Script leaves return it when
// the script exits non-zero.
type ExitError struct {
	Code types.ExitCode
	Err  error
}

// Error returns the wrapped message or the exit status.
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// Unwrap returns the underlying error, if any.
func (e *ExitError) Unwrap() error { return e.Err }
