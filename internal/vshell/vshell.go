// SPDX-License-Identifier: MPL-2.0

package vshell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strconv"

	"github.com/charmbracelet/log"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"

	"github.com/ownclt/ownclt/pkg/command"
	"github.com/ownclt/ownclt/pkg/types"
)

// Environment variables exported to every script.
const (
	EnvCommand      = "OWNCLT_COMMAND"
	EnvNamespace    = "OWNCLT_NAMESPACE"
	EnvFromSelf     = "OWNCLT_FROM_SELF"
	EnvInvocationID = "OWNCLT_INVOCATION_ID"
	EnvModuleDir    = "OWNCLT_MODULE_DIR"
)

type (
	// Option configures Load.
	Option func(*loader)

	loader struct {
		logger     *log.Logger
		inheritEnv bool
		environ    func() []string
	}
)

// WithLogger sets the logger used for load and run diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(ld *loader) { ld.logger = l }
}

// WithInheritEnv controls whether scripts see the process environment.
func WithInheritEnv(inherit bool) Option {
	return func(ld *loader) { ld.inheritEnv = inherit }
}

// WithEnviron replaces os.Environ as the source of the inherited environment.
func WithEnviron(environ func() []string) Option {
	return func(ld *loader) { ld.environ = environ }
}

// Load reads the manifest at path and returns its command tree. Every script
// is parsed up front, so syntax errors surface at load time.
func Load(_ context.Context, path string, opts ...Option) (*command.Node, error) {
	ld := &loader{
		logger:     log.New(io.Discard),
		inheritEnv: true,
		environ:    os.Environ,
	}
	for _, opt := range opts {
		opt(ld)
	}

	m, err := ReadManifest(path)
	if err != nil {
		return nil, err
	}

	tree := ld.build(m, m.Commands)
	ld.logger.Debug("script manifest loaded", "path", m.Path, "commands", len(tree.Paths()))
	return tree, nil
}

func (ld *loader) build(m *Manifest, e *Entry) *command.Node {
	if e.IsLeaf() {
		return command.Leaf(ld.handler(m, e))
	}
	children := make(map[string]*command.Node, len(e.Children))
	for name, child := range e.Children {
		children[name] = ld.build(m, child)
	}
	return command.Branch(children)
}

func (ld *loader) handler(m *Manifest, e *Entry) command.Handler {
	return func(c *command.Context) (any, error) {
		return nil, ld.run(c, m, e)
	}
}

// run executes one script leaf. A non-zero exit status becomes an
// ExitError carrying that status.
func (ld *loader) run(c *command.Context, m *Manifest, e *Entry) error {
	dir := m.WorkdirFor(e)
	if dir == "" {
		dir = c.Paths.Cwd
	}

	opts := []interp.RunnerOption{
		interp.Env(expand.ListEnviron(ld.env(c, m, e)...)),
		interp.StdIO(c.Stdin, c.Stdout, c.Stderr),
		interp.ExecHandlers(builtinMiddleware(c)),
	}
	if dir != "" {
		opts = append(opts, interp.Dir(dir))
	}
	// "--" stops interp.Params from reading args like "-v" as shell options.
	if len(c.Args) > 0 {
		opts = append(opts, interp.Params(append([]string{"--"}, c.Args...)...))
	}

	runner, err := interp.New(opts...)
	if err != nil {
		return fmt.Errorf("failed to create interpreter: %w", err)
	}

	ctx := c.Context
	if ctx == nil {
		ctx = context.Background()
	}

	c.Log.Debug("running script", "command", c.Command, "script", e.Name, "dir", dir)
	err = runner.Run(ctx, e.program)
	if err == nil {
		return nil
	}

	var status interp.ExitStatus
	if errors.As(err, &status) {
		if status == 0 {
			return nil
		}
		return &command.ExitError{
			Code: types.ExitCode(status),
			Err:  fmt.Errorf("%s: script exited with status %d", c.Command, uint8(status)),
		}
	}
	return fmt.Errorf("%s: script execution failed: %w", c.Command, err)
}

// env assembles the script environment. Later entries win, so the order is
// process env, manifest env, leaf env, then the invocation variables.
func (ld *loader) env(c *command.Context, m *Manifest, e *Entry) []string {
	var env []string
	if ld.inheritEnv && ld.environ != nil {
		env = append(env, ld.environ()...)
	}
	for _, vars := range []map[string]string{m.Env, e.Env} {
		for _, key := range slices.Sorted(maps.Keys(vars)) {
			env = append(env, key+"="+vars[key])
		}
	}
	return append(env,
		EnvCommand+"="+c.Command,
		EnvNamespace+"="+c.Namespace,
		EnvFromSelf+"="+strconv.FormatBool(c.FromSelf),
		EnvInvocationID+"="+c.InvocationID,
		EnvModuleDir+"="+m.Dir(),
	)
}
