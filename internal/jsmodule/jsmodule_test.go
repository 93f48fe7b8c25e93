// SPDX-License-Identifier: MPL-2.0

package jsmodule

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

func writeModule(t *testing.T, src string) string {
	t.Helper()
	return testutil.MustWriteFile(t, filepath.Join(t.TempDir(), "commands.js"), src)
}

func mustLoad(t *testing.T, src string) *command.Node {
	t.Helper()
	tree, err := Load(context.Background(), writeModule(t, src))
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	return tree
}

func run(t *testing.T, tree *command.Node, base command.Context, path string) (any, error) {
	t.Helper()
	leaf, err := command.Resolve(tree, command.SplitPath(path))
	if err != nil {
		t.Fatalf("Resolve(%q) returned error: %v", path, err)
	}
	return leaf.Handler()(command.NewContext(tree, base))
}

func TestLoad_BuildsTree(t *testing.T) {
	t.Parallel()

	tree := mustLoad(t, `
module.exports = defineCommands({
	hello: () => "hi",
	link: {
		default: () => "link",
		git: { default: () => "git", update: () => "update" },
	},
	version: "1.0.0",
	list: [1, 2, 3],
});
`)

	want := []string{"hello", "link", "link/git", "link/git/update"}
	if got := tree.Paths(); !slices.Equal(got, want) {
		t.Errorf("Paths() = %v, want %v", got, want)
	}

	got, err := run(t, tree, command.Context{}, "link/git")
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if got != "git" {
		t.Errorf("link/git returned %v, want git", got)
	}
}

func TestLoad_Exports(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want []string
	}{
		{name: "exports shorthand", src: `exports.a = () => 1;`, want: []string{"a"}},
		{name: "es module default", src: `exports.__esModule = true; exports.default = { b: () => 1 };`, want: []string{"b"}},
		{name: "shebang", src: "#!/usr/bin/env node\nmodule.exports = { c: () => 1 };", want: []string{"c"}},
		{name: "unreachable keys skipped", src: `module.exports = { "a/b": () => 1, d: () => 1 };`, want: []string{"d"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := mustLoad(t, tt.src).Paths(); !slices.Equal(got, tt.want) {
				t.Errorf("Paths() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want error
	}{
		{name: "exports a function", src: `module.exports = function () {};`, want: ErrInvalidModule},
		{name: "exports a string", src: `module.exports = "nope";`, want: ErrInvalidModule},
		{name: "exports an array", src: `module.exports = [];`, want: ErrInvalidModule},
		{name: "syntax error", src: `module.exports = {`, want: ErrScript},
		{name: "throws at load", src: `throw new Error("boom");`, want: ErrScript},
		{name: "self-referencing exports", src: `const a = {}; a.a = a; module.exports = a;`, want: ErrInvalidModule},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Load(context.Background(), writeModule(t, tt.src))
			if !errors.Is(err, tt.want) {
				t.Errorf("Load() error = %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := Load(context.Background(), filepath.Join(t.TempDir(), "missing.js")); err == nil {
		t.Error("Load() of a missing file returned nil error")
	}
}

func TestHandler_ReceivesContext(t *testing.T) {
	t.Parallel()

	tree := mustLoad(t, `
module.exports = {
	show(ctx) {
		ctx.state.set("seen", ctx.args.length);
		return [ctx.command, ctx.namespace, ctx.subCommands.join("/"), ctx.args[1], String(ctx.fromSelf), ctx.invocationId, ctx.paths.cwdResolve("x")].join("|");
	},
};
`)

	state := command.NewState()
	got, err := run(t, tree, command.Context{
		Command:      "demo/show",
		Namespace:    "demo",
		SubCommands:  []string{"show"},
		Args:         []string{"a", "b"},
		InvocationID: "id-1",
		State:        state,
		Paths:        command.Paths{Cwd: "/work"},
	}, "show")
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	want := "demo/show|demo|show|b|false|id-1|" + filepath.Join("/work", "x")
	if got != want {
		t.Errorf("result = %q, want %q", got, want)
	}
	if v, _ := state.Get("seen"); v != int64(2) {
		t.Errorf("state seen = %#v, want 2", v)
	}
}

func TestHandler_SelfSharesState(t *testing.T) {
	t.Parallel()

	tree := mustLoad(t, `
module.exports = {
	outer({ state, self }) {
		state.set("from", "outer");
		return self("inner", ["x", undefined, null]) + "|" + self("single", 7);
	},
	inner({ state, args, fromSelf }) {
		return state.get("from") + ":" + JSON.stringify(args) + ":" + fromSelf;
	},
	single({ args }) {
		return args.join(",");
	},
};
`)

	got, err := run(t, tree, command.Context{}, "outer")
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	want := `outer:["x","",""]:true|7`
	if got != want {
		t.Errorf("result = %q, want %q", got, want)
	}
}

func TestHandler_SelfAsync(t *testing.T) {
	t.Parallel()

	tree := mustLoad(t, `
module.exports = {
	awaits: async ({ state, self }) => {
		state.set("x", "1");
		return await self("b");
	},
	plain: ({ state, self }) => {
		state.set("x", "2");
		return self("b");
	},
	then: ({ state, self }) => {
		state.set("x", "3");
		return self("b").then((v) => v + "!");
	},
	catches: async ({ self }) => {
		try {
			await self("fails");
		} catch (e) {
			return "caught " + e.message;
		}
	},
	rejects: ({ self }) => self("fails"),
	b: async ({ state }) => {
		await null;
		return "b saw " + state.get("x");
	},
	fails: async () => {
		await null;
		throw new Error("late kaput");
	},
};
`)

	tests := []struct {
		path    string
		want    any
		wantErr string
	}{
		{path: "awaits", want: "b saw 1"},
		{path: "plain", want: "b saw 2"},
		{path: "then", want: "b saw 3!"},
		{path: "catches", want: "caught late kaput"},
		{path: "rejects", wantErr: "late kaput"},
	}

	for _, tt := range tests {
		got, err := run(t, tree, command.Context{}, tt.path)
		if tt.wantErr != "" {
			if !errors.Is(err, ErrScript) || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("%s: error = %v, want a script error mentioning %q", tt.path, err, tt.wantErr)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: unexpected error: %v", tt.path, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%s: result = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestHandler_Errors(t *testing.T) {
	t.Parallel()

	tree := mustLoad(t, `
module.exports = {
	unknown: ({ self }) => self("missing"),
	throws: () => { throw new Error("kaput"); },
	caught: ({ self }) => { try { self("missing"); } catch (e) { return "caught"; } },
	rejects: async () => { throw new Error("async kaput"); },
	resolves: async () => "async ok",
	nested: ({ self }) => self("throws"),
};
`)

	tests := []struct {
		path    string
		want    any
		wantErr error
		wantMsg string
	}{
		{path: "unknown", wantErr: command.ErrUnknownCommand},
		{path: "throws", wantErr: ErrScript, wantMsg: "kaput"},
		{path: "caught", want: "caught"},
		{path: "rejects", wantErr: ErrScript, wantMsg: "async kaput"},
		{path: "resolves", want: "async ok"},
		{path: "nested", wantErr: ErrScript, wantMsg: "kaput"},
	}

	for _, tt := range tests {
		got, err := run(t, tree, command.Context{}, tt.path)
		if tt.wantErr != nil {
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("%s: error = %v, want %v", tt.path, err, tt.wantErr)
			}
			if tt.wantMsg != "" && (err == nil || !strings.Contains(err.Error(), tt.wantMsg)) {
				t.Errorf("%s: error = %v, want it to mention %q", tt.path, err, tt.wantMsg)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: unexpected error: %v", tt.path, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%s: result = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestHandler_Store(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), registry.FileName)
	reg := registry.New(path)

	tree := mustLoad(t, `
module.exports = {
	save({ store }) {
		store.set("name", "ownclt");
		store.set({ count: 2, tags: ["a"] });
		store.unset("missing");
		store.commitChanges();
		const copy = store.collection();
		return store.get("name") + ":" + store.has("count") + ":" + store.get("nope", "fallback") + ":" + copy.count;
	},
};
`)

	got, err := run(t, tree, command.Context{Store: reg.Store("demo")}, "save")
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if got != "ownclt:true:fallback:2" {
		t.Errorf("result = %v", got)
	}

	reloaded, err := registry.Open(path)
	if err != nil {
		t.Fatalf("Open() returned error: %v", err)
	}
	if v, ok := reloaded.Store("demo").Get("name"); !ok || v != "ownclt" {
		t.Errorf("persisted name = %v (found %v)", v, ok)
	}
}

func TestHandler_ConsoleWritesToContext(t *testing.T) {
	t.Parallel()

	tree := mustLoad(t, `
module.exports = {
	say() {
		console.log("hello", { a: 1 }, [1, 2]);
		console.error("oops");
	},
};
`)

	var stdout, stderr bytes.Buffer
	if _, err := run(t, tree, command.Context{Stdout: &stdout, Stderr: &stderr}, "say"); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if got := stdout.String(); got != "hello {\"a\":1} [1,2]\n" {
		t.Errorf("stdout = %q", got)
	}
	if got := stderr.String(); got != "oops\n" {
		t.Errorf("stderr = %q", got)
	}
}

func TestLoad_Require(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	testutil.MustWriteFile(t, filepath.Join(dir, "lib", "greet.js"), `module.exports = (name) => "hi " + name;`)
	main := testutil.MustWriteFile(t, filepath.Join(dir, "main.js"), `
const { defineCommands } = require("ownclt");
const greet = require("./lib/greet");
module.exports = defineCommands({ greet: ({ args }) => greet(args[0]) });
`)
	bad := testutil.MustWriteFile(t, filepath.Join(dir, "bad.js"), `require("left-pad");`)

	tree, err := Load(context.Background(), main)
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	got, err := run(t, tree, command.Context{Args: []string{"bob"}}, "greet")
	if err != nil || got != "hi bob" {
		t.Errorf("greet = %v, %v; want hi bob", got, err)
	}

	if _, err := Load(context.Background(), bad); err == nil || !strings.Contains(err.Error(), "left-pad") {
		t.Errorf("Load(bad) error = %v, want it to name the package", err)
	}
}

func TestHandler_Interrupted(t *testing.T) {
	t.Parallel()

	tree := mustLoad(t, `module.exports = { spin() { for (;;) {} } };`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := run(t, tree, command.Context{Context: ctx}, "spin")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestSupports(t *testing.T) {
	t.Parallel()

	for path, want := range map[string]bool{
		"a.js":   true,
		"a.CJS":  true,
		"a.mjs":  false,
		"a.json": false,
	} {
		if got := Supports(path); got != want {
			t.Errorf("Supports(%q) = %v, want %v", path, got, want)
		}
	}
}
