// SPDX-License-Identifier: MPL-2.0

package vshell

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/ownclt/ownclt/internal/registry"
	"github.com/ownclt/ownclt/internal/testutil"
	"github.com/ownclt/ownclt/pkg/command"
)

const demoManifest = `
env:
  GREETING: hello
commands:
  greet:
    desc: Greets someone
    script: echo "$GREETING ${1:-nobody}"
  args:
    script: printf '%s|' "$@"; echo
  info:
    env:
      GREETING: hi
    script: echo "$OWNCLT_COMMAND $OWNCLT_NAMESPACE $OWNCLT_FROM_SELF $OWNCLT_INVOCATION_ID $GREETING"
  fail:
    script: exit 3
  where:
    workdir: sub
    script: pwd
  here:
    script: pwd
  remember:
    default:
      script: |
        state set who "$1"
        self remember/show
    show:
      script: state get who
    missing:
      script: |
        state get nope || echo "no nope"
        state get nope fallback
  chain:
    script: self fail
  broken:
    script: |
      self does/not/exist
      echo "status $?"
  store:
    script: |
      store set color blue
      store has color && echo "has color"
      store commit
      store get color
`

func loadDemo(t *testing.T, opts ...Option) (*command.Node, string) {
	t.Helper()
	dir := t.TempDir()
	testutil.MustMkdirAll(t, filepath.Join(dir, "sub"), 0o755)
	path := testutil.MustWriteFile(t, filepath.Join(dir, "commands.yaml"), demoManifest)
	tree, err := Load(context.Background(), path, opts...)
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	return tree, dir
}

func run(t *testing.T, tree *command.Node, base command.Context, path string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	base.Stdout = &stdout
	base.Stderr = &stderr
	leaf, err := command.Resolve(tree, command.SplitPath(path))
	if err != nil {
		t.Fatalf("Resolve(%q) returned error: %v", path, err)
	}
	_, err = leaf.Handler()(command.NewContext(tree, base))
	return stdout.String(), stderr.String(), err
}

func TestLoad_Tree(t *testing.T) {
	t.Parallel()

	tree, _ := loadDemo(t)
	want := []string{"args", "broken", "chain", "fail", "greet", "here", "info", "remember", "remember/missing", "remember/show", "store", "where"}
	if got := tree.Paths(); !slices.Equal(got, want) {
		t.Errorf("Paths() = %v, want %v", got, want)
	}
}

func TestRun_Scripts(t *testing.T) {
	t.Parallel()

	tree, dir := loadDemo(t, WithInheritEnv(false))
	cwd := t.TempDir()

	tests := []struct {
		name string
		path string
		base command.Context
		want string
	}{
		{name: "positional args", path: "greet", base: command.Context{Args: []string{"world"}}, want: "hello world\n"},
		{name: "no args", path: "greet", want: "hello nobody\n"},
		{name: "flag-like args", path: "args", base: command.Context{Args: []string{"-v", "--x=1", "a b"}}, want: "-v|--x=1|a b|\n"},
		{
			name: "invocation env",
			path: "info",
			base: command.Context{Command: "demo/info", Namespace: "demo", InvocationID: "abc"},
			want: "demo/info demo false abc hi\n",
		},
		{name: "manifest workdir", path: "where", want: filepath.Join(dir, "sub") + "\n"},
		{name: "caller cwd", path: "here", base: command.Context{Paths: command.Paths{Cwd: cwd}}, want: cwd + "\n"},
		{name: "self shares state", path: "remember", base: command.Context{Args: []string{"ana"}}, want: "ana\n"},
		{name: "state get fallback", path: "remember/missing", want: "no nope\nfallback\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, stderr, err := run(t, tree, tt.base, tt.path)
			if err != nil {
				t.Fatalf("run returned error: %v (stderr %q)", err, stderr)
			}
			if stdout != tt.want {
				t.Errorf("stdout = %q, want %q", stdout, tt.want)
			}
		})
	}
}

func TestRun_ExitStatus(t *testing.T) {
	t.Parallel()

	tree, _ := loadDemo(t)

	for _, path := range []string{"fail", "chain"} {
		_, _, err := run(t, tree, command.Context{Command: "demo/" + path}, path)
		var exitErr *command.ExitError
		if !errors.As(err, &exitErr) {
			t.Fatalf("%s: error = %v, want *command.ExitError", path, err)
		}
		if exitErr.Code != 3 {
			t.Errorf("%s: exit code = %d, want 3", path, exitErr.Code)
		}
	}
}

func TestRun_SelfUnknownCommand(t *testing.T) {
	t.Parallel()

	tree, _ := loadDemo(t)
	stdout, stderr, err := run(t, tree, command.Context{}, "broken")
	if err != nil {
		t.Fatalf("run returned error: %v", err)
	}
	if stdout != "status 1\n" {
		t.Errorf("stdout = %q, want status 1", stdout)
	}
	if !strings.Contains(stderr, "does/not/exist") {
		t.Errorf("stderr = %q, want it to name the command", stderr)
	}
}

func TestRun_Store(t *testing.T) {
	t.Parallel()

	tree, dir := loadDemo(t)
	dbPath := filepath.Join(dir, registry.FileName)
	reg := registry.New(dbPath)

	stdout, stderr, err := run(t, tree, command.Context{Store: reg.Store("demo")}, "store")
	if err != nil {
		t.Fatalf("run returned error: %v (stderr %q)", err, stderr)
	}
	if stdout != "has color\nblue\n" {
		t.Errorf("stdout = %q", stdout)
	}

	reloaded, err := registry.Open(dbPath)
	if err != nil {
		t.Fatalf("Open() returned error: %v", err)
	}
	if v, _ := reloaded.Store("demo").Get("color"); v != "blue" {
		t.Errorf("persisted color = %v, want blue", v)
	}
}

func TestRun_PipelinedBuiltins(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := testutil.MustWriteFile(t, filepath.Join(dir, "commands.yaml"), `
commands:
  fill:
    script: |
      i=0
      while [ $i -lt 100 ]; do
        state set a$i 1 | state set b$i 2 | store set c$i 3 | store set d$i 4
        i=$((i + 1))
      done
`)
	tree, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	reg := registry.New(filepath.Join(dir, registry.FileName))
	state := command.NewState()
	_, stderr, err := run(t, tree, command.Context{State: state, Store: reg.Store("demo")}, "fill")
	if err != nil {
		t.Fatalf("run returned error: %v (stderr %q)", err, stderr)
	}
	if got := len(state.Keys()); got != 200 {
		t.Errorf("state holds %d keys, want 200", got)
	}
	if got := len(reg.Store("demo").Keys()); got != 200 {
		t.Errorf("store holds %d keys, want 200", got)
	}
}

func TestRun_InheritEnv(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := testutil.MustWriteFile(t, filepath.Join(dir, "env.json"),
		`{"commands": {"show": {"script": "echo \"${FROM_PARENT:-unset}\""}}}`)
	environ := func() []string { return []string{"FROM_PARENT=yes"} }

	tests := []struct {
		inherit bool
		want    string
	}{
		{inherit: true, want: "yes\n"},
		{inherit: false, want: "unset\n"},
	}
	for _, tt := range tests {
		tree, err := Load(context.Background(), path, WithEnviron(environ), WithInheritEnv(tt.inherit))
		if err != nil {
			t.Fatalf("Load() returned error: %v", err)
		}
		stdout, _, err := run(t, tree, command.Context{}, "show")
		if err != nil {
			t.Fatalf("run returned error: %v", err)
		}
		if stdout != tt.want {
			t.Errorf("inherit=%v: stdout = %q, want %q", tt.inherit, stdout, tt.want)
		}
	}
}

func TestReadManifest_CUE(t *testing.T) {
	t.Parallel()

	path := testutil.MustWriteFile(t, filepath.Join(t.TempDir(), "commands.cue"), `
workdir: "."
commands: {
	build: {
		desc:   "Build it"
		script: "echo build"
	}
	deploy: prod: script: "echo prod"
}
`)
	m, err := ReadManifest(path)
	if err != nil {
		t.Fatalf("ReadManifest() returned error: %v", err)
	}
	if got := m.Commands.Children["build"].Desc; got != "Build it" {
		t.Errorf("build desc = %q", got)
	}
	if !m.Commands.Children["deploy"].Children["prod"].IsLeaf() {
		t.Error("deploy/prod is not a leaf")
	}
	if got := m.WorkdirFor(m.Commands.Children["build"]); got != m.Dir() {
		t.Errorf("WorkdirFor() = %q, want %q", got, m.Dir())
	}
}

func TestReadManifest_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
	}{
		{name: "no commands", src: `{"env": {}}`},
		{name: "commands is a script", src: `{"commands": {"script": "echo hi"}}`},
		{name: "command not a mapping", src: `{"commands": {"a": "echo hi"}}`},
		{name: "slash in name", src: `{"commands": {"a/b": {"script": "true"}}}`},
		{name: "syntax error", src: `{"commands": {"a": {"script": "if then"}}}`},
		{name: "env not a mapping", src: `{"env": "x", "commands": {}}`},
		{name: "env value not scalar", src: `{"env": {"A": [1]}, "commands": {}}`},
		{name: "workdir not a string", src: `{"workdir": 1, "commands": {}}`},
		{name: "desc not a string", src: `{"commands": {"a": {"script": "true", "desc": 1}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := testutil.MustWriteFile(t, filepath.Join(t.TempDir(), "m.json"), tt.src)
			_, err := ReadManifest(path)
			if !errors.Is(err, ErrInvalidManifest) {
				t.Errorf("ReadManifest() error = %v, want ErrInvalidManifest", err)
			}
		})
	}
}

func TestBuiltinNames(t *testing.T) {
	t.Parallel()

	if got := BuiltinNames(); !slices.Equal(got, []string{"self", "state", "store"}) {
		t.Errorf("BuiltinNames() = %v", got)
	}
}
