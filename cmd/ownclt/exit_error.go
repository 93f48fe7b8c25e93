// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"

	"github.com/ownclt/ownclt/pkg/command"
	"github.com/ownclt/ownclt/pkg/types"
)

// exitCode maps an invocation error to the process exit code: 0 for nil,
// the carried code for a command.ExitError and 1 for everything else.
func exitCode(err error) int {
	if err == nil {
		return int(types.ExitSuccess)
	}
	var exitErr *command.ExitError
	if errors.As(err, &exitErr) {
		return int(exitErr.Code.Clamp())
	}
	return int(types.ExitFailure)
}

// isSilentExit reports whether err only carries an exit status. The script
// that produced it has already written its own diagnostics.
func isSilentExit(err error) bool {
	var exitErr *command.ExitError
	return errors.As(err, &exitErr) && exitErr.Err == nil
}
