// SPDX-License-Identifier: MPL-2.0

package vshell

import (
	"errors"
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"mvdan.cc/sh/v3/syntax"

	"github.com/ownclt/ownclt/internal/docfmt"
)

// maxDepth bounds the nesting of the commands tree.
const maxDepth = 32

// ErrInvalidManifest is the sentinel error wrapped by InvalidManifestError.
var ErrInvalidManifest = errors.New("invalid script manifest")

type (
	// Manifest is a decoded script manifest.
	Manifest struct {
		// Path is the absolute path of the manifest file.
		Path string
		// Env is added to the environment of every script.
		Env map[string]string
		// Workdir is the directory scripts run in. Relative paths are resolved
		// against the manifest directory; empty means the caller's cwd.
		Workdir string
		// Commands is the root of the command tree.
		Commands *Entry
	}

	// Entry is one node of the manifest tree. Exactly one of Script or
	// Children is meaningful.
	Entry struct {
		Name     string
		Desc     string
		Script   string
		Env      map[string]string
		Workdir  string
		Children map[string]*Entry

		program *syntax.File
	}

	// InvalidManifestError is returned for structural problems in a manifest.
	InvalidManifestError struct {
		Path   string
		Reason string
	}
)

// Error implements the error interface.
func (e *InvalidManifestError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Reason)
}

// Unwrap returns ErrInvalidManifest for errors.Is() compatibility.
func (e *InvalidManifestError) Unwrap() error { return ErrInvalidManifest }

// IsLeaf reports whether the entry carries a script.
func (e *Entry) IsLeaf() bool { return e.Children == nil }

// Supports reports whether path has a manifest extension.
func Supports(path string) bool {
	_, ok := docfmt.FormatOf(path)
	return ok
}

// ReadManifest decodes the manifest at path and parses every script in it.
func ReadManifest(path string) (*Manifest, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	raw, err := docfmt.DecodeFile(abs)
	if err != nil {
		return nil, err
	}

	m := &Manifest{Path: abs}
	if m.Env, err = stringMap(abs, raw["env"], "env"); err != nil {
		return nil, err
	}
	if v, ok := raw["workdir"]; ok {
		s, isString := v.(string)
		if !isString {
			return nil, &InvalidManifestError{Path: abs, Reason: "workdir must be a string"}
		}
		m.Workdir = s
	}

	commands, ok := raw["commands"].(map[string]any)
	if !ok {
		return nil, &InvalidManifestError{Path: abs, Reason: "commands must be a mapping"}
	}
	root, err := m.decodeEntry("", commands, 0)
	if err != nil {
		return nil, err
	}
	if root.IsLeaf() {
		return nil, &InvalidManifestError{Path: abs, Reason: "commands must be a mapping of commands, not a script"}
	}
	m.Commands = root
	return m, nil
}

// Dir returns the directory holding the manifest.
func (m *Manifest) Dir() string { return filepath.Dir(m.Path) }

// WorkdirFor returns the directory e runs in, or "" when the caller's cwd
// should be used.
func (m *Manifest) WorkdirFor(e *Entry) string {
	dir := e.Workdir
	if dir == "" {
		dir = m.Workdir
	}
	if dir == "" {
		return ""
	}
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(m.Dir(), dir)
	}
	return filepath.Clean(dir)
}

func (m *Manifest) decodeEntry(name string, raw map[string]any, depth int) (*Entry, error) {
	if depth > maxDepth {
		return nil, &InvalidManifestError{Path: m.Path, Reason: fmt.Sprintf("commands nested deeper than %d levels at %q", maxDepth, name)}
	}

	if script, ok := raw["script"].(string); ok {
		return m.decodeLeaf(name, script, raw)
	}

	entry := &Entry{Name: name, Children: make(map[string]*Entry, len(raw))}
	for _, key := range slices.Sorted(maps.Keys(raw)) {
		if key == "" || strings.Contains(key, "/") {
			return nil, &InvalidManifestError{Path: m.Path, Reason: fmt.Sprintf("invalid command name %q", key)}
		}
		child, ok := raw[key].(map[string]any)
		if !ok {
			return nil, &InvalidManifestError{Path: m.Path, Reason: fmt.Sprintf("command %q must be a mapping", join(name, key))}
		}
		decoded, err := m.decodeEntry(join(name, key), child, depth+1)
		if err != nil {
			return nil, err
		}
		entry.Children[key] = decoded
	}
	return entry, nil
}

func (m *Manifest) decodeLeaf(name, script string, raw map[string]any) (*Entry, error) {
	entry := &Entry{Name: name, Script: script}

	var err error
	if entry.Env, err = stringMap(m.Path, raw["env"], name+".env"); err != nil {
		return nil, err
	}
	if v, ok := raw["desc"]; ok {
		if entry.Desc, ok = v.(string); !ok {
			return nil, &InvalidManifestError{Path: m.Path, Reason: fmt.Sprintf("%s.desc must be a string", name)}
		}
	}
	if v, ok := raw["workdir"]; ok {
		if entry.Workdir, ok = v.(string); !ok {
			return nil, &InvalidManifestError{Path: m.Path, Reason: fmt.Sprintf("%s.workdir must be a string", name)}
		}
	}

	entry.program, err = syntax.NewParser().Parse(strings.NewReader(script), m.Path+":"+name)
	if err != nil {
		return nil, &InvalidManifestError{Path: m.Path, Reason: fmt.Sprintf("failed to parse script of %q: %v", name, err)}
	}
	return entry, nil
}

func stringMap(path string, v any, field string) (map[string]string, error) {
	if v == nil {
		return nil, nil
	}
	raw, ok := v.(map[string]any)
	if !ok {
		return nil, &InvalidManifestError{Path: path, Reason: field + " must be a mapping of strings"}
	}
	out := make(map[string]string, len(raw))
	for key, value := range raw {
		switch val := value.(type) {
		case string:
			out[key] = val
		case int64, float64, bool:
			out[key] = fmt.Sprint(val)
		default:
			return nil, &InvalidManifestError{Path: path, Reason: fmt.Sprintf("%s.%s must be a scalar", field, key)}
		}
	}
	return out, nil
}

func join(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "/" + name
}
