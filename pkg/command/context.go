// SPDX-License-Identifier: MPL-2.0

package command

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"slices"

	"github.com/charmbracelet/log"
)

// errNoTree is returned by Self on a context that was not bound to a tree.
var errNoTree = errors.New("self-invocation requires a context bound to a command tree")

type (
	// Paths holds working-directory helpers for handlers.
	Paths struct {
		Cwd string
	}

	// Context is what a Handler receives. Value fields are copied for every
	// self-invocation; State is a pointer and stays shared across them.
	Context struct {
		// Context carries cancellation from the outer shell.
		Context context.Context

		// Command is the full command string as typed (after shorthand rewrite).
		Command string
		// Namespace is the normalized namespace the command resolved to.
		Namespace string
		// SubCommands is the path after the namespace.
		SubCommands []string
		// Args are the free-form arguments of this call.
		Args []string
		// FromSelf is true when the handler runs through Self.
		FromSelf bool
		// InvocationID identifies the top-level call and all of its self calls.
		InvocationID string

		State *State
		Store Store
		Paths Paths

		Log *log.Logger
		// Stdin may be nil when the invocation has no input.
		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer

		tree *Node
	}
)

// CwdResolve resolves path against Cwd. An empty path yields Cwd itself;
// absolute paths are only cleaned.
func (p Paths) CwdResolve(path string) string {
	if path == "" {
		return p.Cwd
	}
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(p.Cwd, path)
}

// NewContext binds base to tree so that Self can resolve within it. A nil
// State is replaced by a fresh one; nil writers default to io.Discard.
func NewContext(tree *Node, base Context) *Context {
	c := base
	c.tree = tree
	if c.Context == nil {
		c.Context = context.Background()
	}
	if c.State == nil {
		c.State = NewState()
	}
	if c.Args == nil {
		c.Args = []string{}
	}
	if c.Stdout == nil {
		c.Stdout = io.Discard
	}
	if c.Stderr == nil {
		c.Stderr = io.Discard
	}
	if c.Log == nil {
		c.Log = log.New(io.Discard)
	}
	return &c
}

// Tree returns the command tree the context is bound to.
func (c *Context) Tree() *Node {
	return c.tree
}

// Arg returns the i-th argument, or "" when there are fewer arguments.
func (c *Context) Arg(i int) string {
	if i < 0 || i >= len(c.Args) {
		return ""
	}
	return c.Args[i]
}

// Self resolves name inside the tree this context is bound to and invokes
// the leaf synchronously. The callee gets a shallow copy of c with Args
// replaced and FromSelf set; State is the same instance.
func (c *Context) Self(name string, args ...string) (any, error) {
	if c.tree == nil {
		return nil, errNoTree
	}

	leaf, err := ResolveCommand(c.tree, name, SplitPath(name))
	if err != nil {
		return nil, err
	}

	next := *c
	next.Args = slices.Clone(args)
	if next.Args == nil {
		next.Args = []string{}
	}
	next.FromSelf = true

	if c.Log != nil {
		c.Log.Debug("self invocation", "command", c.Command, "target", name, "args", len(args))
	}

	return leaf.Handler()(&next)
}
