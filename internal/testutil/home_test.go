// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func homeEnvVar() string {
	if runtime.GOOS == "windows" {
		return "USERPROFILE"
	}
	return "HOME"
}

func TestSetHomeDir_RestoresOnCleanup(t *testing.T) {
	tmpDir := t.TempDir()
	envVar := homeEnvVar()
	original := os.Getenv(envVar)

	cleanup := SetHomeDir(t, tmpDir)
	if got := os.Getenv(envVar); got != tmpDir {
		t.Errorf("%s = %q, want %q", envVar, got, tmpDir)
	}

	cleanup()
	if got := os.Getenv(envVar); got != original {
		t.Errorf("after cleanup, %s = %q, want %q", envVar, got, original)
	}
}

func TestSetHomeDir_WithTCleanup(t *testing.T) {
	tmpDir := t.TempDir()
	envVar := homeEnvVar()
	original := os.Getenv(envVar)

	t.Run("subtest", func(t *testing.T) {
		t.Cleanup(SetHomeDir(t, tmpDir))

		if got := os.Getenv(envVar); got != tmpDir {
			t.Errorf("%s = %q, want %q", envVar, got, tmpDir)
		}
	})

	if got := os.Getenv(envVar); got != original {
		t.Errorf("after subtest, %s = %q, want %q", envVar, got, original)
	}
}

func TestSetOwncltHome(t *testing.T) {
	t.Cleanup(MustUnsetenv(t, HomeEnv))
	tmpDir := t.TempDir()

	cleanup := SetOwncltHome(t, tmpDir)
	if got := os.Getenv(HomeEnv); got != tmpDir {
		t.Errorf("%s = %q, want %q", HomeEnv, got, tmpDir)
	}

	cleanup()
	if _, ok := os.LookupEnv(HomeEnv); ok {
		t.Errorf("%s still set after cleanup", HomeEnv)
	}
}

func TestMustWriteFile_CreatesParents(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "a", "b", "ownclt.map.json")
	got := MustWriteFile(t, path, `{"namespace":"demo"}`)

	if got != path {
		t.Errorf("MustWriteFile() = %q, want %q", got, path)
	}
	if content := MustReadFile(t, path); content != `{"namespace":"demo"}` {
		t.Errorf("content = %q", content)
	}
}
