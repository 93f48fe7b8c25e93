// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ownclt/ownclt/internal/issue"
	"github.com/ownclt/ownclt/internal/registry"
	"github.com/ownclt/ownclt/internal/testutil"
)

// noEnv keeps tests independent of the developer's OWNCLT_* variables.
var noEnv = map[string]string{}

func TestLoad_Defaults(t *testing.T) {
	userHome := t.TempDir()
	t.Cleanup(testutil.SetHomeDir(t, userHome))

	cfg, path, err := Load(context.Background(), LoadOptions{Environ: noEnv})
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if path != "" {
		t.Errorf("resolved path = %q, want none", path)
	}
	if want := filepath.Join(userHome, HomeDirName); cfg.Home != want {
		t.Errorf("Home = %q, want %q", cfg.Home, want)
	}
	if cfg.Git.Binary != DefaultGitBinary {
		t.Errorf("Git.Binary = %q", cfg.Git.Binary)
	}
	if cfg.UI.ColorScheme != ColorSchemeAuto || cfg.UI.Verbose {
		t.Errorf("UI = %+v", cfg.UI)
	}
	if !cfg.Shell.InheritEnv {
		t.Error("Shell.InheritEnv = false, want true by default")
	}
	if want := filepath.Join(userHome, HomeDirName, registry.FileName); cfg.RegistryPath() != want {
		t.Errorf("RegistryPath() = %q, want %q", cfg.RegistryPath(), want)
	}
}

func TestLoad_FileFromHome(t *testing.T) {
	t.Parallel()

	home := t.TempDir()
	testutil.MustWriteFile(t, filepath.Join(home, ConfigFileName), `
git: binary: "/usr/local/bin/git"
ui: color_scheme: "dark"
shell: inherit_env: false
`)

	cfg, path, err := Load(context.Background(), LoadOptions{HomeDir: home, Environ: noEnv})
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if path != filepath.Join(home, ConfigFileName) {
		t.Errorf("resolved path = %q", path)
	}
	if cfg.Home != home {
		t.Errorf("Home = %q, want %q", cfg.Home, home)
	}
	if cfg.Git.Binary != "/usr/local/bin/git" {
		t.Errorf("Git.Binary = %q", cfg.Git.Binary)
	}
	if cfg.UI.ColorScheme != ColorSchemeDark {
		t.Errorf("ColorScheme = %q", cfg.UI.ColorScheme)
	}
	if cfg.Shell.InheritEnv {
		t.Error("Shell.InheritEnv = true, want false from file")
	}
}

func TestLoad_Precedence(t *testing.T) {
	t.Parallel()

	fileHome := t.TempDir()
	envHome := t.TempDir()
	flagHome := t.TempDir()
	cfgFile := testutil.MustWriteFile(t, filepath.Join(t.TempDir(), "custom.cue"), `
home: "`+filepath.ToSlash(fileHome)+`"
git: binary: "file-git"
ui: verbose: false
`)

	tests := []struct {
		name        string
		opts        LoadOptions
		wantHome    string
		wantGit     string
		wantVerbose bool
	}{
		{
			name:     "file over default",
			opts:     LoadOptions{ConfigFilePath: cfgFile, Environ: noEnv},
			wantHome: fileHome,
			wantGit:  "file-git",
		},
		{
			name: "env over file",
			opts: LoadOptions{ConfigFilePath: cfgFile, Environ: map[string]string{
				"OWNCLT_HOME":       envHome,
				"OWNCLT_GIT_BINARY": "env-git",
				"OWNCLT_VERBOSE":    "true",
			}},
			wantHome:    envHome,
			wantGit:     "env-git",
			wantVerbose: true,
		},
		{
			name: "flag over env",
			opts: LoadOptions{ConfigFilePath: cfgFile, HomeDir: flagHome, Verbose: true, Environ: map[string]string{
				"OWNCLT_HOME": envHome,
			}},
			wantHome:    flagHome,
			wantGit:     "file-git",
			wantVerbose: true,
		},
		{
			name:     "config file from env",
			opts:     LoadOptions{Environ: map[string]string{"OWNCLT_CONFIG": cfgFile}},
			wantHome: fileHome,
			wantGit:  "file-git",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg, _, err := Load(context.Background(), tt.opts)
			if err != nil {
				t.Fatalf("Load() returned error: %v", err)
			}
			if cfg.Home != tt.wantHome {
				t.Errorf("Home = %q, want %q", cfg.Home, tt.wantHome)
			}
			if cfg.Git.Binary != tt.wantGit {
				t.Errorf("Git.Binary = %q, want %q", cfg.Git.Binary, tt.wantGit)
			}
			if cfg.UI.Verbose != tt.wantVerbose {
				t.Errorf("UI.Verbose = %v, want %v", cfg.UI.Verbose, tt.wantVerbose)
			}
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tests := []struct {
		name    string
		content string
		missing bool
		wantMsg string
	}{
		{name: "explicit file missing", missing: true, wantMsg: "load configuration"},
		{name: "syntax error", content: `ui: {`, wantMsg: "load configuration"},
		{name: "unknown field", content: `bogus: 1`, wantMsg: "bogus"},
		{name: "bad color scheme", content: `ui: color_scheme: "neon"`, wantMsg: "color_scheme"},
		{name: "empty git binary", content: `git: binary: ""`, wantMsg: "binary"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(dir, tt.name+".cue")
			if !tt.missing {
				testutil.MustWriteFile(t, path, tt.content)
			}

			_, _, err := Load(context.Background(), LoadOptions{ConfigFilePath: path, Environ: noEnv})
			if err == nil {
				t.Fatal("Load() returned no error")
			}
			var ae *issue.ActionableError
			if !errors.As(err, &ae) {
				t.Errorf("error %T is not an ActionableError", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q does not mention %q", err, tt.wantMsg)
			}
		})
	}
}

func TestLoad_InvalidEnvColorScheme(t *testing.T) {
	t.Parallel()

	_, _, err := Load(context.Background(), LoadOptions{
		HomeDir: t.TempDir(),
		Environ: map[string]string{"OWNCLT_COLOR_SCHEME": "neon"},
	})
	if !errors.Is(err, ErrInvalidColorScheme) {
		t.Errorf("Load() error = %v, want ErrInvalidColorScheme", err)
	}
}

func TestLoad_InvalidEnvBool(t *testing.T) {
	t.Parallel()

	_, _, err := Load(context.Background(), LoadOptions{
		HomeDir: t.TempDir(),
		Environ: map[string]string{"OWNCLT_VERBOSE": "perhaps"},
	})
	if err == nil || !strings.Contains(err.Error(), "parse env") {
		t.Errorf("Load() error = %v, want an env parse error", err)
	}
}

func TestLoad_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := Load(ctx, LoadOptions{Environ: noEnv}); !errors.Is(err, context.Canceled) {
		t.Errorf("Load() error = %v, want context.Canceled", err)
	}
}

func TestSave_RoundTrip(t *testing.T) {
	t.Parallel()

	home := t.TempDir()
	want := &Config{
		Home:  home,
		Git:   GitConfig{Binary: "/opt/git"},
		UI:    UIConfig{Verbose: true, ColorScheme: ColorSchemeLight},
		Shell: ShellConfig{InheritEnv: false},
	}
	if err := Save(want); err != nil {
		t.Fatalf("Save() returned error: %v", err)
	}

	got, _, err := Load(context.Background(), LoadOptions{HomeDir: home, Environ: noEnv})
	if err != nil {
		t.Fatalf("Load() returned error: %v\n%s", err, testutil.MustReadFile(t, filepath.Join(home, ConfigFileName)))
	}
	if *got != *want {
		t.Errorf("round trip = %+v, want %+v", got, want)
	}
}

func TestNewProvider(t *testing.T) {
	t.Parallel()

	home := t.TempDir()
	cfg, err := NewProvider().Load(context.Background(), LoadOptions{HomeDir: home, Environ: noEnv})
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.Home != home {
		t.Errorf("Home = %q, want %q", cfg.Home, home)
	}
}
