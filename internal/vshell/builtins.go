// SPDX-License-Identifier: MPL-2.0

package vshell

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"mvdan.cc/sh/v3/interp"

	"github.com/ownclt/ownclt/pkg/command"
)

const (
	statusFalse = interp.ExitStatus(1)
	statusUsage = interp.ExitStatus(2)
)

type (
	// builtin is a command the interpreter resolves before looking at PATH.
	// args[0] is the builtin name.
	builtin interface {
		Name() string
		Run(ctx context.Context, c *command.Context, args []string) error
	}

	selfBuiltin  struct{}
	stateBuiltin struct{}
	storeBuiltin struct{}

	// keyValue is the surface shared by session state and the scoped store.
	keyValue interface {
		Get(key string) (any, bool)
		Set(key string, value any)
		Has(key string) bool
		Unset(key string)
		Keys() []string
	}
)

var builtins = map[string]builtin{}

func init() {
	for _, b := range []builtin{selfBuiltin{}, stateBuiltin{}, storeBuiltin{}} {
		builtins[b.Name()] = b
	}
}

// BuiltinNames returns the names of the interpreter builtins in sorted order.
func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// builtinMiddleware binds the builtins to c. Anything else falls through to
// the next handler, which runs external programs.
func builtinMiddleware(c *command.Context) func(interp.ExecHandlerFunc) interp.ExecHandlerFunc {
	return func(next interp.ExecHandlerFunc) interp.ExecHandlerFunc {
		return func(ctx context.Context, args []string) error {
			if len(args) > 0 {
				if b, ok := builtins[args[0]]; ok {
					return b.Run(ctx, c, args)
				}
			}
			return next(ctx, args)
		}
	}
}

func usage(w io.Writer, name, text string) error {
	fmt.Fprintf(w, "%s: usage: %s %s\n", name, name, text)
	return statusUsage
}

// Name returns the builtin name.
func (selfBuiltin) Name() string { return "self" }

// Run invokes another command of the same tree with the handler's stdio.
// Usage: self PATH [ARGS...]
func (b selfBuiltin) Run(ctx context.Context, c *command.Context, args []string) error {
	hc := interp.HandlerCtx(ctx)
	if len(args) < 2 {
		return usage(hc.Stderr, b.Name(), "PATH [ARGS...]")
	}

	sub := *c
	sub.Context = ctx
	sub.Stdin = hc.Stdin
	sub.Stdout = hc.Stdout
	sub.Stderr = hc.Stderr

	res, err := sub.Self(args[1], args[2:]...)
	if err != nil {
		var exitErr *command.ExitError
		if errors.As(err, &exitErr) {
			return interp.ExitStatus(exitErr.Code.Clamp())
		}
		fmt.Fprintf(hc.Stderr, "%s: %v\n", b.Name(), err)
		return statusFalse
	}

	switch v := res.(type) {
	case nil:
	case command.Outcome:
		fmt.Fprintln(hc.Stdout, v.Message)
	default:
		fmt.Fprintln(hc.Stdout, formatValue(v))
	}
	return nil
}

// Name returns the builtin name.
func (stateBuiltin) Name() string { return "state" }

// Run reads and writes the session state of the invocation.
// Usage: state get KEY [DEFAULT] | set KEY VALUE | has KEY | unset KEY | keys
func (b stateBuiltin) Run(ctx context.Context, c *command.Context, args []string) error {
	hc := interp.HandlerCtx(ctx)
	if c.State == nil {
		fmt.Fprintf(hc.Stderr, "%s: no session state\n", b.Name())
		return statusFalse
	}
	if handled, err := runKeyValue(hc.Stdout, c.State, args); handled {
		return err
	}
	return usage(hc.Stderr, b.Name(), "get KEY [DEFAULT] | set KEY VALUE | has KEY | unset KEY | keys")
}

// Name returns the builtin name.
func (storeBuiltin) Name() string { return "store" }

// Run reads and writes the persistent store of the namespace.
// Usage: store get|set|has|unset|keys ... | clear | commit
func (b storeBuiltin) Run(ctx context.Context, c *command.Context, args []string) error {
	hc := interp.HandlerCtx(ctx)
	if c.Store == nil {
		fmt.Fprintf(hc.Stderr, "%s: no store for this namespace\n", b.Name())
		return statusFalse
	}
	if handled, err := runKeyValue(hc.Stdout, c.Store, args); handled {
		return err
	}

	switch {
	case len(args) == 2 && args[1] == "clear":
		c.Store.Clear()
		return nil
	case len(args) == 2 && args[1] == "commit":
		if err := c.Store.Commit(); err != nil {
			fmt.Fprintf(hc.Stderr, "%s: %v\n", b.Name(), err)
			return statusFalse
		}
		return nil
	}
	return usage(hc.Stderr, b.Name(), "get KEY [DEFAULT] | set KEY VALUE | has KEY | unset KEY | keys | clear | commit")
}

// runKeyValue implements the subcommands shared by state and store. It
// reports false when args do not match any of them.
func runKeyValue(stdout io.Writer, kv keyValue, args []string) (bool, error) {
	if len(args) < 2 {
		return false, nil
	}
	op, rest := args[1], args[2:]

	switch {
	case op == "get" && (len(rest) == 1 || len(rest) == 2):
		v, ok := kv.Get(rest[0])
		if !ok {
			if len(rest) == 1 {
				return true, statusFalse
			}
			v = rest[1]
		}
		fmt.Fprintln(stdout, formatValue(v))
		return true, nil
	case op == "set" && len(rest) == 2:
		kv.Set(rest[0], rest[1])
		return true, nil
	case op == "has" && len(rest) == 1:
		if kv.Has(rest[0]) {
			return true, nil
		}
		return true, statusFalse
	case op == "unset" && len(rest) == 1:
		kv.Unset(rest[0])
		return true, nil
	case op == "keys" && len(rest) == 0:
		if keys := kv.Keys(); len(keys) > 0 {
			fmt.Fprintln(stdout, strings.Join(keys, "\n"))
		}
		return true, nil
	}
	return false, nil
}

// formatValue prints strings verbatim and everything else as JSON.
func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case fmt.Stringer:
		return val.String()
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}
