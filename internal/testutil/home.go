// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"runtime"
	"testing"
)

// HomeEnv is the environment variable that overrides the ownclt home folder.
const HomeEnv = "OWNCLT_HOME"

// SetHomeDir sets the user home environment variable for the current
// platform (USERPROFILE on Windows, HOME elsewhere) and returns a cleanup
// function restoring the original value.
//
//	t.Cleanup(testutil.SetHomeDir(t, t.TempDir()))
func SetHomeDir(t testing.TB, dir string) func() {
	t.Helper()

	switch runtime.GOOS {
	case "windows":
		return MustSetenv(t, "USERPROFILE", dir)
	default:
		return MustSetenv(t, "HOME", dir)
	}
}

// SetOwncltHome points OWNCLT_HOME at dir for the duration of the test.
func SetOwncltHome(t testing.TB, dir string) func() {
	t.Helper()
	return MustSetenv(t, HomeEnv, dir)
}
