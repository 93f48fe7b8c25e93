// SPDX-License-Identifier: MPL-2.0

package builtin

import (
	"encoding/json"
	"fmt"

	"github.com/ownclt/ownclt/internal/config"
	"github.com/ownclt/ownclt/pkg/command"
)

type contextView struct {
	Command      string         `json:"command"`
	Namespace    string         `json:"namespace"`
	SubCommands  []string       `json:"subCommands"`
	Args         []string       `json:"args"`
	FromSelf     bool           `json:"fromSelf"`
	InvocationID string         `json:"invocationId"`
	State        map[string]any `json:"state"`
	Paths        pathsView      `json:"paths"`
}

type pathsView struct {
	Cwd string `json:"cwd"`
}

func (c *Commands) printVersion(ctx *command.Context) (any, error) {
	v := c.version
	switch {
	case v.Commit != "" && v.BuildDate != "":
		fmt.Fprintf(ctx.Stdout, "%s (commit %s, built %s)\n", v.Version, v.Commit, v.BuildDate)
	case v.Commit != "":
		fmt.Fprintf(ctx.Stdout, "%s (commit %s)\n", v.Version, v.Commit)
	default:
		fmt.Fprintln(ctx.Stdout, v.Version)
	}
	return nil, nil
}

// printContext dumps what a handler receives, minus the logger and store.
func (c *Commands) printContext(ctx *command.Context) (any, error) {
	state := ctx.State.Snapshot()
	if state == nil {
		state = map[string]any{}
	}
	view := contextView{
		Command:      ctx.Command,
		Namespace:    ctx.Namespace,
		SubCommands:  ctx.SubCommands,
		Args:         ctx.Args,
		FromSelf:     ctx.FromSelf,
		InvocationID: ctx.InvocationID,
		State:        state,
		Paths:        pathsView{Cwd: ctx.Paths.Cwd},
	}
	data, err := json.MarshalIndent(view, "", "  ")
	if err != nil {
		return nil, err
	}
	fmt.Fprintln(ctx.Stdout, string(data))
	return nil, nil
}

func (c *Commands) printConfig(ctx *command.Context) (any, error) {
	out, err := config.GenerateCUE(c.cfg)
	if err != nil {
		return nil, err
	}
	fmt.Fprint(ctx.Stdout, out)
	return nil, nil
}
