// SPDX-License-Identifier: MPL-2.0

package builtin

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ownclt/ownclt/internal/registry"
	"github.com/ownclt/ownclt/pkg/command"
)

const (
	listCommandHeader = "[Command]"
	listKeyPadding    = 5
	listRuleExtra     = 50
)

var (
	listDimStyle     = lipgloss.NewStyle().Faint(true)
	listHeaderStyle  = lipgloss.NewStyle().Bold(true).Faint(true)
	listGroupStyle   = lipgloss.NewStyle().Bold(true)
	listCommandStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	listDescStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
)

// listRow is one documented command.
type listRow struct {
	namespace registry.Namespace
	key       string
	desc      string
}

// listRows collects the documented commands of every namespace in namespace
// order. Built-in commands are listed as "/cmd", others as "ns/cmd". The
// built-in docs come from this build rather than the registry, so upgrades
// show new commands without re-seeding.
func (c *Commands) listRows() []listRow {
	var rows []listRow
	for ns, entry := range c.reg.Entries() {
		docs := Docs()
		if !ns.IsReserved() {
			docs = entry.Commands
		}
		for _, name := range slices.Sorted(maps.Keys(docs)) {
			key := string(ns) + "/" + name
			if ns.IsReserved() {
				key = "/" + name
			}
			rows = append(rows, listRow{namespace: ns, key: key, desc: docs[name].Desc})
		}
	}
	return rows
}

// list prints the documented commands grouped by namespace, optionally
// filtered by a case-insensitive substring.
// Usage: /list [SEARCH]
func (c *Commands) list(ctx *command.Context) (any, error) {
	search := strings.ToLower(strings.TrimSpace(ctx.Arg(0)))
	rows := c.listRows()

	width := len(listCommandHeader)
	for _, row := range rows {
		width = max(width, len(row.key))
	}
	width += listKeyPadding

	out := ctx.Stdout
	pipe := listDimStyle.Render("|")
	rule := listDimStyle.Render(strings.Repeat("-", listRuleExtra+width))

	fmt.Fprintln(out)
	fmt.Fprintln(out, listHeaderStyle.Render(listCommandHeader+strings.Repeat(" ", width-len(listCommandHeader))+" | [Description]"))
	fmt.Fprintln(out, rule)

	results := 0
	var group registry.Namespace
	for _, row := range rows {
		if search != "" && !strings.Contains(strings.ToLower(row.key), search) {
			continue
		}
		if row.namespace != group || results == 0 {
			if results > 0 {
				fmt.Fprintln(out)
			}
			group = row.namespace
			fmt.Fprintln(out, listGroupStyle.Render("["+string(group)+"]"))
		}
		fmt.Fprintf(out, "%s%s %s %s\n",
			listCommandStyle.Render(row.key),
			strings.Repeat(" ", width-len(row.key)),
			pipe,
			listDescStyle.Render(row.desc),
		)
		results++
	}

	fmt.Fprintln(out, rule)

	if search == "" {
		return nil, nil
	}
	ctx.Log.Info(fmt.Sprintf("Search query: %q", search))
	return command.Info(fmt.Sprintf("Found %d out of %d commands.", results, len(rows))), nil
}
