// SPDX-License-Identifier: MPL-2.0

package builtin

import (
	"fmt"
	"path/filepath"

	"github.com/ownclt/ownclt/internal/mapfile"
	"github.com/ownclt/ownclt/internal/registry"
	"github.com/ownclt/ownclt/pkg/command"
)

// unlink removes a namespace from the registry. The built-in namespace is
// refused with a warning rather than an error.
// Usage: /unlink NAMESPACE
func (c *Commands) unlink(ctx *command.Context) (any, error) {
	ns := registry.NormalizeNamespace(ctx.Arg(0))
	if ns == "" {
		return nil, usage(ctx, `requires the "namespace" of the command`)
	}
	if ns.IsReserved() {
		return command.Warning(fmt.Sprintf("Namespace: %q cannot be unlinked.", ns)), nil
	}

	if err := c.reg.Unregister(string(ns)); err != nil {
		return nil, err
	}
	if err := c.reg.Save(); err != nil {
		return nil, err
	}
	return command.Success(fmt.Sprintf("Command Unlinked: %q", ns)), nil
}

// unlinkFolder finds the namespace whose module is the one described by the
// map file in a folder, then unlinks it.
// Usage: /unlink/folder FOLDER
func (c *Commands) unlinkFolder(ctx *command.Context) (any, error) {
	folder := ctx.Arg(0)
	if folder == "" {
		return nil, usage(ctx, "folder is required")
	}

	ctx.State.Set(StateReadMapFileOnly, true)
	_, err := ctx.Self("link", folder)
	ctx.State.Unset(StateReadMapFileOnly)
	if err != nil {
		return nil, err
	}

	v, _ := ctx.State.Get(StateMapFile)
	m, ok := v.(*mapfile.MapFile)
	if !ok {
		return nil, fmt.Errorf("%s: link did not record a map file", ctx.Command)
	}

	file := filepath.Clean(m.File)
	ns, _, found := c.reg.FindByPredicate(func(_ registry.Namespace, e *registry.CommandEntry) bool {
		return filepath.Clean(e.File) == file
	})
	if !found {
		return nil, &NotLinkedError{Namespace: m.Namespace, File: m.File}
	}

	declared := registry.NormalizeNamespace(m.Namespace)
	if ns != declared {
		ctx.Log.Info(fmt.Sprintf("Found command: %q as %q", declared, ns))
	} else {
		ctx.Log.Info(fmt.Sprintf("Found command: %q", ns))
	}

	return ctx.Self("unlink", string(ns))
}
