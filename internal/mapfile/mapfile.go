// SPDX-License-Identifier: MPL-2.0

// Package mapfile reads the descriptor that makes a folder linkable. The
// descriptor names the namespace, the command module and documents its
// commands.
package mapfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-viper/mapstructure/v2"

	"github.com/ownclt/ownclt/internal/docfmt"
	"github.com/ownclt/ownclt/internal/registry"
)

// BaseName is the map file name without extension.
const BaseName = "ownclt.map"

var (
	// ErrNotFound is the sentinel error wrapped by NotFoundError.
	ErrNotFound = errors.New("map file not found")
	// ErrInvalid is the sentinel error wrapped by InvalidError.
	ErrInvalid = errors.New("invalid map file")
	// ErrModuleMissing is the sentinel error wrapped by ModuleMissingError.
	ErrModuleMissing = errors.New("command module not found")
)

type (
	// MapFile is a decoded descriptor.
	MapFile struct {
		// Path is the absolute path of the descriptor.
		Path string
		// Namespace is the namespace the module declares.
		Namespace string
		// File is the absolute path of the command module.
		File string
		// Commands documents the module's command paths.
		Commands map[string]registry.CommandDoc
	}

	// NotFoundError is returned when a folder has no descriptor.
	NotFoundError struct {
		Dir string
	}

	// InvalidError is returned when a descriptor lacks a field or has one of
	// the wrong type.
	InvalidError struct {
		Path   string
		Reason string
	}

	// ModuleMissingError is returned when the module named by a descriptor
	// does not exist.
	ModuleMissingError struct {
		MapFile string
		File    string
	}
)

// Error implements the error interface for NotFoundError.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no %s.{json,cue,toml,yaml,yml} in %s", BaseName, e.Dir)
}

// Unwrap returns ErrNotFound for errors.Is() compatibility.
func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// Error implements the error interface for InvalidError.
func (e *InvalidError) Error() string {
	return fmt.Sprintf("invalid map file %s: %s", e.Path, e.Reason)
}

// Unwrap returns ErrInvalid for errors.Is() compatibility.
func (e *InvalidError) Unwrap() error { return ErrInvalid }

// Error implements the error interface for ModuleMissingError.
func (e *ModuleMissingError) Error() string {
	return fmt.Sprintf("command module %s named by %s does not exist", e.File, e.MapFile)
}

// Unwrap returns ErrModuleMissing for errors.Is() compatibility.
func (e *ModuleMissingError) Unwrap() error { return ErrModuleMissing }

// FileNames returns the candidate descriptor names in lookup order.
func FileNames() []string {
	exts := docfmt.Extensions()
	names := make([]string, len(exts))
	for i, ext := range exts {
		names[i] = BaseName + ext
	}
	return names
}

// Find returns the first descriptor present in dir.
func Find(dir string) (string, error) {
	for _, name := range FileNames() {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, nil
		}
	}
	return "", &NotFoundError{Dir: dir}
}

// Read finds and decodes the descriptor of dir. The module path is resolved
// against dir and must exist.
func Read(dir string) (*MapFile, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	path, err := Find(absDir)
	if err != nil {
		return nil, err
	}
	return ReadFile(path)
}

// ReadFile decodes the descriptor at path.
func ReadFile(path string) (*MapFile, error) {
	raw, err := docfmt.DecodeFile(path)
	if err != nil {
		return nil, err
	}

	m := &MapFile{Path: path}
	if m.Namespace, err = requiredString(path, raw, "namespace"); err != nil {
		return nil, err
	}
	file, err := requiredString(path, raw, "file")
	if err != nil {
		return nil, err
	}
	if filepath.IsAbs(file) {
		m.File = filepath.Clean(file)
	} else {
		m.File = filepath.Join(filepath.Dir(path), file)
	}
	if _, err := os.Stat(m.File); err != nil {
		return nil, &ModuleMissingError{MapFile: path, File: m.File}
	}

	if m.Commands, err = decodeCommands(path, raw["commands"]); err != nil {
		return nil, err
	}
	return m, nil
}

// Entry converts the descriptor into a registry entry.
func (m *MapFile) Entry() registry.CommandEntry {
	entry := registry.CommandEntry{
		Namespace: registry.NormalizeNamespace(m.Namespace),
		File:      m.File,
		Commands:  make(map[string]registry.CommandDoc, len(m.Commands)),
		MapFile:   m.Path,
	}
	for k, v := range m.Commands {
		entry.Commands[k] = v
	}
	return entry
}

func requiredString(path string, raw map[string]any, key string) (string, error) {
	v, ok := raw[key]
	if !ok {
		return "", &InvalidError{Path: path, Reason: fmt.Sprintf("%q is required", key)}
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", &InvalidError{Path: path, Reason: fmt.Sprintf("%q must be a non-empty string", key)}
	}
	return s, nil
}

// commandSpec is the shape of one entry of the commands section. Argument
// descriptions may be any scalar and are rendered as text.
type commandSpec struct {
	Desc string         `mapstructure:"desc"`
	Args map[string]any `mapstructure:"args"`
}

func decodeCommands(path string, v any) (map[string]registry.CommandDoc, error) {
	out := map[string]registry.CommandDoc{}
	if v == nil {
		return out, nil
	}

	// mapstructure would accept a list of mappings here.
	if _, ok := v.(map[string]any); !ok {
		return nil, &InvalidError{Path: path, Reason: `"commands" must be a mapping`}
	}
	var specs map[string]commandSpec
	if err := mapstructure.Decode(v, &specs); err != nil {
		return nil, &InvalidError{Path: path, Reason: fmt.Sprintf("commands: %v", err)}
	}

	for name, spec := range specs {
		doc := registry.CommandDoc{Desc: spec.Desc}
		if len(spec.Args) > 0 {
			doc.Args = make(map[string]string, len(spec.Args))
			for arg, desc := range spec.Args {
				doc.Args[arg] = fmt.Sprint(desc)
			}
		}
		out[name] = doc
	}
	return out, nil
}
