// SPDX-License-Identifier: MPL-2.0

package query

import (
	"strings"

	"github.com/ownclt/ownclt/internal/registry"
	"github.com/ownclt/ownclt/pkg/command"
)

// Query is a parsed command string.
type Query struct {
	// Command is the full command string after trimming and shorthand rewrite.
	Command string
	// Namespace is the normalized first segment.
	Namespace registry.Namespace
	// SubCommands are the remaining non-empty segments.
	SubCommands []string
}

// Parse splits raw into namespace and subpath. Empty segments are dropped,
// so "clt/" has an empty subpath and "a//b" equals "a/b".
func Parse(raw string) Query {
	cmd := strings.TrimSpace(raw)
	if rest, ok := strings.CutPrefix(cmd, "/"); ok {
		cmd = string(registry.BuiltinNamespace) + "/" + rest
	}

	segments := command.SplitPath(cmd)
	q := Query{Command: cmd, SubCommands: []string{}}
	if len(segments) == 0 {
		return q
	}
	q.Namespace = registry.NormalizeNamespace(segments[0])
	q.SubCommands = segments[1:]
	return q
}

// Path returns the subpath joined with "/".
func (q Query) Path() string {
	return strings.Join(q.SubCommands, "/")
}

// IsEmpty reports whether the query names no namespace at all.
func (q Query) IsEmpty() bool {
	return q.Namespace == ""
}

// ResolveEntry looks the query's namespace up in reg. An unknown namespace
// fails with command.UnknownCommandError naming the full command string.
func ResolveEntry(reg *registry.Registry, q Query) (*registry.CommandEntry, error) {
	entry, ok := reg.Lookup(q.Namespace.String())
	if q.IsEmpty() || !ok {
		return nil, &command.UnknownCommandError{Command: q.Command}
	}
	return entry, nil
}
