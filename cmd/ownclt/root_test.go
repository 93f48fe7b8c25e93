// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestGetVersionString(t *testing.T) {
	// Not parallel: subtests mutate package-level Version/Commit/BuildDate vars.

	t.Run("ldflags version", func(t *testing.T) {
		origVersion, origCommit, origBuildDate := Version, Commit, BuildDate
		t.Cleanup(func() {
			Version, Commit, BuildDate = origVersion, origCommit, origBuildDate
		})

		Version = "v1.2.3"
		Commit = "abc1234"
		BuildDate = "2025-06-15T10:00:00Z"

		got := getVersionString()
		want := "v1.2.3 (commit: abc1234, built: 2025-06-15T10:00:00Z)"
		if got != want {
			t.Errorf("getVersionString() = %q, want %q", got, want)
		}
	})

	t.Run("dev build", func(t *testing.T) {
		origVersion := Version
		t.Cleanup(func() { Version = origVersion })

		Version = "dev"
		if got, want := getVersionString(), "dev (built from source)"; got != want {
			t.Errorf("getVersionString() = %q, want %q", got, want)
		}
	})
}

func TestRootCommand_FlagsStopAtCommand(t *testing.T) {
	t.Parallel()

	home := t.TempDir()
	var stdout, stderr bytes.Buffer
	app := NewApp(Dependencies{Config: isolatedConfig{}, Stdout: &stdout, Stderr: &stderr})

	root := NewRootCommand(app)
	root.SetArgs([]string{"--home", home, "/context", "--home", "-v"})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("Execute() returned error: %v", err)
	}
	if app.ExitCode() != 0 {
		t.Fatalf("exit code = %d, stderr:\n%s", app.ExitCode(), stderr.String())
	}

	out := stdout.String()
	if !strings.Contains(out, `"--home"`) || !strings.Contains(out, `"-v"`) {
		t.Errorf("handler args were parsed as flags:\n%s", out)
	}
	if strings.Contains(stderr.String(), "DEBU") {
		t.Errorf("-v after the command string enabled verbose logging:\n%s", stderr.String())
	}
}
