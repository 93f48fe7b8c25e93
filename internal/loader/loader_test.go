// SPDX-License-Identifier: MPL-2.0

package loader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/ownclt/ownclt/internal/jsmodule"
	"github.com/ownclt/ownclt/internal/registry"
	"github.com/ownclt/ownclt/internal/testutil"
	"github.com/ownclt/ownclt/internal/vshell"
	"github.com/ownclt/ownclt/pkg/command"
)

func TestModuleLoader_Builtin(t *testing.T) {
	t.Parallel()

	builtin := command.Branch(map[string]*command.Node{
		"version": command.Leaf(func(*command.Context) (any, error) { return "v1", nil }),
	})
	l := New(WithBuiltin(registry.BuiltinNamespace, builtin))

	got, err := l.Load(context.Background(), registry.BuiltinNamespace, &registry.CommandEntry{File: "/does/not/matter"})
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if got != builtin {
		t.Error("Load() did not return the built-in tree")
	}

	if _, err := New().Load(context.Background(), registry.BuiltinNamespace, nil); !errors.Is(err, ErrNoBuiltin) {
		t.Errorf("Load() without built-in error = %v, want ErrNoBuiltin", err)
	}
}

func TestModuleLoader_Files(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	js := testutil.MustWriteFile(t, filepath.Join(dir, "index.js"), `module.exports = { hello: () => "hi" };`)
	yml := testutil.MustWriteFile(t, filepath.Join(dir, "commands.yml"), "commands:\n  hello:\n    script: echo hi\n")
	toml := testutil.MustWriteFile(t, filepath.Join(dir, "commands.toml"), "[commands.hello]\nscript = \"echo hi\"\n")

	l := New()
	for _, file := range []string{js, yml, toml} {
		tree, err := l.Load(context.Background(), "demo", &registry.CommandEntry{File: file})
		if err != nil {
			t.Fatalf("Load(%s) returned error: %v", filepath.Base(file), err)
		}
		if got := tree.Paths(); !slices.Equal(got, []string{"hello"}) {
			t.Errorf("Load(%s).Paths() = %v", filepath.Base(file), got)
		}
	}
}

func TestModuleLoader_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	badJS := testutil.MustWriteFile(t, filepath.Join(dir, "bad.js"), `module.exports = 42;`)
	badYAML := testutil.MustWriteFile(t, filepath.Join(dir, "bad.yaml"), "commands: nope\n")
	binary := testutil.MustWriteFile(t, filepath.Join(dir, "tool.exe"), "MZ")

	tests := []struct {
		name  string
		entry *registry.CommandEntry
		want  error
	}{
		{name: "nil entry", entry: nil, want: registry.ErrInvalidEntry},
		{name: "missing file", entry: &registry.CommandEntry{File: filepath.Join(dir, "gone.js")}, want: os.ErrNotExist},
		{name: "bad js exports", entry: &registry.CommandEntry{File: badJS}, want: jsmodule.ErrInvalidModule},
		{name: "bad manifest", entry: &registry.CommandEntry{File: badYAML}, want: vshell.ErrInvalidManifest},
		{name: "unsupported extension", entry: &registry.CommandEntry{File: binary}, want: ErrUnsupportedModule},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := New().Load(context.Background(), "demo", tt.entry)
			if !errors.Is(err, ErrLoad) {
				t.Errorf("Load() error = %v, want ErrLoad", err)
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("Load() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestLoadError_Message(t *testing.T) {
	t.Parallel()

	err := &LoadError{Namespace: "demo", Path: "/x/index.js", Err: errors.New("boom")}
	want := `failed to load commands of "demo" from /x/index.js: boom`
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
