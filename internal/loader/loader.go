// SPDX-License-Identifier: MPL-2.0

package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/ownclt/ownclt/internal/jsmodule"
	"github.com/ownclt/ownclt/internal/registry"
	"github.com/ownclt/ownclt/internal/vshell"
	"github.com/ownclt/ownclt/pkg/command"
)

var (
	// ErrLoad is the sentinel error wrapped by LoadError.
	ErrLoad = errors.New("failed to load command module")

	// ErrUnsupportedModule is returned for module files no loader handles.
	ErrUnsupportedModule = errors.New("unsupported command module type")

	// ErrNoBuiltin is returned when a reserved namespace has no compiled-in tree.
	ErrNoBuiltin = errors.New("no built-in command tree")
)

type (
	// Loader produces the command tree of a namespace.
	Loader interface {
		Load(ctx context.Context, namespace registry.Namespace, entry *registry.CommandEntry) (*command.Node, error)
	}

	// Option configures a ModuleLoader.
	Option func(*ModuleLoader)

	// ModuleLoader is the default Loader.
	ModuleLoader struct {
		builtins   map[registry.Namespace]*command.Node
		logger     *log.Logger
		inheritEnv bool
		output     io.Writer
	}

	// LoadError is returned when a module cannot be read, parsed or
	// evaluated. It matches both ErrLoad and the underlying cause.
	LoadError struct {
		Namespace registry.Namespace
		Path      string
		Err       error
	}
)

// Error implements the error interface.
func (e *LoadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("failed to load commands of %q: %v", e.Namespace, e.Err)
	}
	return fmt.Sprintf("failed to load commands of %q from %s: %v", e.Namespace, e.Path, e.Err)
}

// Unwrap returns ErrLoad and the underlying cause.
func (e *LoadError) Unwrap() []error { return []error{ErrLoad, e.Err} }

// WithBuiltin registers a compiled-in tree for namespace. Built-in trees win
// over whatever file the registry entry names.
func WithBuiltin(namespace registry.Namespace, tree *command.Node) Option {
	return func(l *ModuleLoader) { l.builtins[registry.NormalizeNamespace(string(namespace))] = tree }
}

// WithLogger sets the logger passed to the module loaders.
func WithLogger(logger *log.Logger) Option {
	return func(l *ModuleLoader) { l.logger = logger }
}

// WithInheritEnv controls whether script leaves see the process environment.
func WithInheritEnv(inherit bool) Option {
	return func(l *ModuleLoader) { l.inheritEnv = inherit }
}

// WithOutput sets where JavaScript module bodies print while being evaluated.
func WithOutput(w io.Writer) Option {
	return func(l *ModuleLoader) { l.output = w }
}

// New creates a ModuleLoader.
func New(opts ...Option) *ModuleLoader {
	l := &ModuleLoader{
		builtins:   make(map[registry.Namespace]*command.Node),
		logger:     log.New(io.Discard),
		inheritEnv: true,
		output:     io.Discard,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load returns the command tree for namespace.
func (l *ModuleLoader) Load(ctx context.Context, namespace registry.Namespace, entry *registry.CommandEntry) (*command.Node, error) {
	if tree, ok := l.builtins[namespace]; ok {
		l.logger.Debug("using built-in commands", "namespace", namespace)
		return tree, nil
	}
	if namespace.IsReserved() {
		return nil, &LoadError{Namespace: namespace, Err: ErrNoBuiltin}
	}
	if entry == nil || entry.File == "" {
		return nil, &LoadError{Namespace: namespace, Err: registry.ErrInvalidEntry}
	}

	tree, err := l.loadFile(ctx, entry.File)
	if err != nil {
		return nil, &LoadError{Namespace: namespace, Path: entry.File, Err: err}
	}
	if !tree.IsBranch() {
		return nil, &LoadError{Namespace: namespace, Path: entry.File, Err: fmt.Errorf("module root must be a group of commands, got a %s", tree.Kind())}
	}
	l.logger.Debug("loaded command module", "namespace", namespace, "file", entry.File)
	return tree, nil
}

func (l *ModuleLoader) loadFile(ctx context.Context, path string) (*command.Node, error) {
	switch {
	case jsmodule.Supports(path):
		return jsmodule.Load(ctx, path,
			jsmodule.WithLogger(l.logger),
			jsmodule.WithOutput(l.output),
		)
	case vshell.Supports(path):
		return vshell.Load(ctx, path,
			vshell.WithLogger(l.logger),
			vshell.WithInheritEnv(l.inheritEnv),
		)
	default:
		return nil, fmt.Errorf("%w %q", ErrUnsupportedModule, strings.ToLower(filepath.Ext(path)))
	}
}
