// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/ownclt/ownclt/internal/bootstrap"
	"github.com/ownclt/ownclt/internal/builtin"
	"github.com/ownclt/ownclt/internal/config"
	"github.com/ownclt/ownclt/internal/dispatch"
	"github.com/ownclt/ownclt/internal/issue"
	"github.com/ownclt/ownclt/internal/loader"
	"github.com/ownclt/ownclt/internal/registry"
)

type (
	// App wires the shell's dependencies. It is the composition root: the
	// root command delegates every invocation to Invoke.
	App struct {
		Config config.Provider
		Git    builtin.Git
		stdin  io.Reader
		stdout io.Writer
		stderr io.Writer

		executable func() (string, error)
		exitCode   int
	}

	// Dependencies are the injection points of NewApp. Nil fields get
	// production defaults.
	Dependencies struct {
		Config config.Provider
		// Git replaces the git executable used by /link/git.
		Git    builtin.Git
		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer
	}

	// rootFlags are the global flags. They are only parsed before the
	// command string.
	rootFlags struct {
		verbose bool
		home    string
		config  string
	}
)

// NewApp creates an App from deps.
func NewApp(deps Dependencies) *App {
	app := &App{
		Config:     deps.Config,
		Git:        deps.Git,
		stdin:      deps.Stdin,
		stdout:     deps.Stdout,
		stderr:     deps.Stderr,
		executable: os.Executable,
	}
	if app.Config == nil {
		app.Config = config.NewProvider()
	}
	if app.stdin == nil {
		app.stdin = os.Stdin
	}
	if app.stdout == nil {
		app.stdout = os.Stdout
	}
	if app.stderr == nil {
		app.stderr = os.Stderr
	}
	return app
}

// ExitCode returns the exit code of the last Invoke.
func (a *App) ExitCode() int { return a.exitCode }

// Invoke runs one command line (the command string followed by its
// arguments), renders the outcome or the error and returns the exit code.
func (a *App) Invoke(ctx context.Context, flags rootFlags, args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(a.stdout, SubtitleStyle.Render("No command given. "+listHint+"."))
		a.exitCode = 0
		return a.exitCode
	}

	cfg, err := a.Config.Load(ctx, config.LoadOptions{
		ConfigFilePath: flags.config,
		HomeDir:        flags.home,
		Verbose:        flags.verbose,
	})
	if err != nil {
		renderError(a.stderr, newServiceError(err, issue.ConfigLoadFailedId), flags.verbose, string(config.ColorSchemeAuto))
		a.exitCode = exitCode(err)
		return a.exitCode
	}

	result, err := a.dispatch(ctx, cfg, args)
	if err != nil {
		renderError(a.stderr, err, cfg.UI.Verbose, cfg.UI.ColorScheme.String())
		a.exitCode = exitCode(err)
		return a.exitCode
	}

	renderOutcome(a.stdout, a.stderr, result)
	a.exitCode = 0
	return a.exitCode
}

func (a *App) dispatch(ctx context.Context, cfg *config.Config, args []string) (any, error) {
	logger := newLogger(a.stderr, cfg.UI.Verbose)

	exe, err := a.executable()
	if err != nil {
		exe = config.AppName
	}
	installed, err := bootstrap.EnsureInstalled(cfg.Home, builtin.SeedEntry(exe),
		bootstrap.WithDefaultConfig(cfg),
		bootstrap.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}
	if installed.Installed {
		logger.Debug("ownclt home initialized", "home", cfg.Home)
	}

	builtinOpts := []builtin.Option{builtin.WithVersion(builtin.VersionInfo{
		Version:   Version,
		Commit:    Commit,
		BuildDate: BuildDate,
	})}
	if a.Git != nil {
		builtinOpts = append(builtinOpts, builtin.WithGit(a.Git))
	}
	builtins := builtin.New(installed.Registry, cfg, builtinOpts...)

	ld := loader.New(
		loader.WithBuiltin(registry.BuiltinNamespace, builtins.Tree()),
		loader.WithInheritEnv(cfg.Shell.InheritEnv),
		loader.WithLogger(logger),
		loader.WithOutput(a.stdout),
	)

	engine := dispatch.New(installed.Registry, ld,
		dispatch.WithLogger(logger),
		dispatch.WithIO(a.stdin, a.stdout, a.stderr),
	)
	return engine.Dispatch(ctx, dispatch.Invocation{Command: args[0], Args: args[1:]})
}

// newLogger creates the shell logger: no timestamps, debug level when
// verbose.
func newLogger(w io.Writer, verbose bool) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{ReportTimestamp: false})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}
