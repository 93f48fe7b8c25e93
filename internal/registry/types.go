// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"fmt"
	"maps"
	"strings"
	"time"
)

// BuiltinNamespace is the reserved namespace of the built-in command tree.
// It is seeded on first run and can never be unregistered.
const BuiltinNamespace Namespace = "clt"

type (
	// Namespace is the top-level name a command tree is reachable under.
	// Registry keys are always normalized (trimmed, lowercase).
	Namespace string

	// CommandDoc documents one command path of a linked module. It is only
	// used for listing and help output, never for dispatch.
	CommandDoc struct {
		Desc string            `json:"desc"`
		Args map[string]string `json:"args,omitempty"`
	}

	// CommandEntry describes a linked command module.
	CommandEntry struct {
		// Namespace is the namespace the module declares for itself. It can
		// differ from the registry key when the module was linked under an alias.
		Namespace Namespace `json:"namespace"`
		// File is the absolute path of the command module.
		File string `json:"file"`
		// Commands documents the module's command paths.
		Commands map[string]CommandDoc `json:"commands"`
		// MapFile is the descriptor the entry was linked from, if any.
		MapFile string `json:"mapFile,omitempty"`
	}

	// Document is the persisted registry.
	Document struct {
		Updated  time.Time                    `json:"updated"`
		Commands map[Namespace]*CommandEntry  `json:"commands"`
		Store    map[Namespace]map[string]any `json:"store"`
	}
)

// NormalizeNamespace trims and lowercases a namespace.
func NormalizeNamespace(s string) Namespace {
	return Namespace(strings.ToLower(strings.TrimSpace(s)))
}

// String returns the namespace as a string.
func (n Namespace) String() string { return string(n) }

// IsReserved reports whether n is the built-in namespace.
func (n Namespace) IsReserved() bool {
	return NormalizeNamespace(string(n)) == BuiltinNamespace
}

// IsValid returns whether the namespace can be used as a registry key.
// It must be non-empty and must not contain "/" or whitespace.
func (n Namespace) IsValid() (bool, []error) {
	if n == "" || strings.ContainsAny(string(n), "/ \t\r\n") {
		return false, []error{&InvalidNamespaceError{Value: n}}
	}
	return true, nil
}

// Clone returns a copy of the entry that shares nothing with e.
func (e *CommandEntry) Clone() *CommandEntry {
	if e == nil {
		return nil
	}
	c := *e
	if e.Commands != nil {
		c.Commands = make(map[string]CommandDoc, len(e.Commands))
		for path, doc := range e.Commands {
			doc.Args = maps.Clone(doc.Args)
			c.Commands[path] = doc
		}
	}
	return &c
}

// NewDocument returns a document holding the given entries, keyed by their
// normalized declared namespace.
func NewDocument(updated time.Time, entries ...*CommandEntry) *Document {
	doc := &Document{
		Updated:  updated,
		Commands: make(map[Namespace]*CommandEntry, len(entries)),
		Store:    make(map[Namespace]map[string]any),
	}
	for _, e := range entries {
		doc.Commands[NormalizeNamespace(string(e.Namespace))] = e.Clone()
	}
	return doc
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	c := &Document{
		Updated:  d.Updated,
		Commands: make(map[Namespace]*CommandEntry, len(d.Commands)),
		Store:    make(map[Namespace]map[string]any, len(d.Store)),
	}
	for ns, e := range d.Commands {
		c.Commands[ns] = e.Clone()
	}
	for ns, data := range d.Store {
		c.Store[ns] = deepCopyMap(data)
	}
	return c
}

func (d *Document) ensureMaps() {
	if d.Commands == nil {
		d.Commands = make(map[Namespace]*CommandEntry)
	}
	if d.Store == nil {
		d.Store = make(map[Namespace]map[string]any)
	}
}

// describe is used in debug logs.
func (d *Document) describe() string {
	return fmt.Sprintf("%d namespace(s), %d store(s)", len(d.Commands), len(d.Store))
}
