// SPDX-License-Identifier: MPL-2.0

package command

import "fmt"

const (
	// LevelInfo is a neutral informational outcome.
	LevelInfo Level = iota
	// LevelSuccess reports a completed change.
	LevelSuccess
	// LevelWarning reports a refused or skipped action that is not a failure.
	LevelWarning
)

type (
	// Level classifies an Outcome.
	Level int

	// Outcome is a message a handler wants reported once the invocation ends.
	// Every level ends the process with exit code 0; failures are errors.
	Outcome struct {
		Level   Level
		Message string
	}
)

// String returns the level name.
func (l Level) String() string {
	switch l {
	case LevelInfo:
		return "info"
	case LevelSuccess:
		return "success"
	case LevelWarning:
		return "warning"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// Info returns an informational outcome.
func Info(msg string) Outcome { return Outcome{Level: LevelInfo, Message: msg} }

// Success returns a success outcome.
func Success(msg string) Outcome { return Outcome{Level: LevelSuccess, Message: msg} }

// Warning returns a warning outcome.
func Warning(msg string) Outcome { return Outcome{Level: LevelWarning, Message: msg} }
