// SPDX-License-Identifier: MPL-2.0

package dispatch

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/ownclt/ownclt/internal/loader"
	"github.com/ownclt/ownclt/internal/query"
	"github.com/ownclt/ownclt/internal/registry"
	"github.com/ownclt/ownclt/pkg/command"
)

type (
	// Invocation is one top-level call as typed by the user.
	Invocation struct {
		Command string
		Args    []string
	}

	// TransitionHook observes every phase change of an engine.
	TransitionHook func(from, to Phase)

	// Option configures an Engine.
	Option func(*Engine)

	// Engine dispatches a single invocation. It is not reusable: once it
	// reaches a terminal phase further calls to Dispatch fail with
	// ErrInvalidTransition.
	Engine struct {
		reg    *registry.Registry
		loader loader.Loader
		logger *log.Logger
		newID  func() string
		cwd    string
		stdin  io.Reader
		stdout io.Writer
		stderr io.Writer
		hooks  []TransitionHook

		mu    sync.Mutex
		phase Phase
	}
)

// WithLogger sets the logger handed to handlers and used for phase tracing.
func WithLogger(logger *log.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithCwd overrides the working directory exposed as Paths.Cwd.
func WithCwd(dir string) Option {
	return func(e *Engine) { e.cwd = dir }
}

// WithIO sets the streams handlers read from and write to.
func WithIO(stdin io.Reader, stdout, stderr io.Writer) Option {
	return func(e *Engine) {
		e.stdin = stdin
		e.stdout = stdout
		e.stderr = stderr
	}
}

// WithIDGenerator replaces the invocation id source.
func WithIDGenerator(gen func() string) Option {
	return func(e *Engine) { e.newID = gen }
}

// WithTransitionHook registers a hook called after each phase change.
func WithTransitionHook(hook TransitionHook) Option {
	return func(e *Engine) { e.hooks = append(e.hooks, hook) }
}

// New creates an engine over a loaded registry.
func New(reg *registry.Registry, ld loader.Loader, opts ...Option) *Engine {
	e := &Engine{
		reg:    reg,
		loader: ld,
		logger: log.New(io.Discard),
		newID:  uuid.NewString,
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.cwd == "" {
		if wd, err := os.Getwd(); err == nil {
			e.cwd = wd
		}
	}
	return e
}

// Phase returns the current phase.
func (e *Engine) Phase() Phase {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.phase
}

// Dispatch resolves inv and runs its handler. The returned value is whatever
// the handler returned.
func (e *Engine) Dispatch(ctx context.Context, inv Invocation) (result any, err error) {
	if e.Phase() != PhaseIdle {
		return nil, &InvalidTransitionError{From: e.Phase(), To: PhaseBootstrapped}
	}
	defer func() {
		if err != nil {
			// A failed transition leaves the engine where it was.
			_ = e.transition(PhaseFailed)
			return
		}
		err = e.transition(PhaseSucceeded)
	}()

	if err = e.transition(PhaseBootstrapped); err != nil {
		return nil, err
	}

	q := query.Parse(inv.Command)
	entry, err := query.ResolveEntry(e.reg, q)
	if err != nil {
		return nil, err
	}
	if err = e.transition(PhaseResolved); err != nil {
		return nil, err
	}

	tree, err := e.loader.Load(ctx, q.Namespace, entry)
	if err != nil {
		return nil, err
	}
	if err = e.transition(PhaseLoaded); err != nil {
		return nil, err
	}

	leaf, err := command.ResolveCommand(tree, q.Command, q.SubCommands)
	if err != nil {
		return nil, err
	}

	c := e.Build(ctx, tree, q, inv.Args)
	if err = e.transition(PhaseDispatched); err != nil {
		return nil, err
	}
	e.logger.Debug("dispatching", "command", q.Command, "invocation", c.InvocationID, "args", len(c.Args))

	return leaf.Handler()(c)
}

// Build creates the top-level context for q bound to tree. The state is
// fresh and the store is scoped to the query's namespace.
func (e *Engine) Build(ctx context.Context, tree *command.Node, q query.Query, args []string) *command.Context {
	var store command.Store
	if e.reg != nil && !q.IsEmpty() {
		store = e.reg.Store(q.Namespace.String())
	}
	return command.NewContext(tree, command.Context{
		Context:      ctx,
		Command:      q.Command,
		Namespace:    q.Namespace.String(),
		SubCommands:  q.SubCommands,
		Args:         args,
		InvocationID: e.newID(),
		State:        command.NewState(),
		Store:        store,
		Paths:        command.Paths{Cwd: e.cwd},
		Log:          e.logger,
		Stdin:        e.stdin,
		Stdout:       e.stdout,
		Stderr:       e.stderr,
	})
}

func (e *Engine) transition(to Phase) error {
	e.mu.Lock()
	from := e.phase
	if !from.next(to) {
		e.mu.Unlock()
		return &InvalidTransitionError{From: from, To: to}
	}
	e.phase = to
	hooks := e.hooks
	e.mu.Unlock()

	e.logger.Debug("phase transition", "from", from, "to", to)
	for _, hook := range hooks {
		hook(from, to)
	}
	return nil
}
