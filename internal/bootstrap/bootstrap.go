// SPDX-License-Identifier: MPL-2.0

// Package bootstrap prepares the ownclt home folder on first run.
package bootstrap

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ownclt/ownclt/internal/config"
	"github.com/ownclt/ownclt/internal/registry"
)

// ErrInstall is the sentinel error wrapped by InstallError.
var ErrInstall = errors.New("failed to install ownclt")

type (
	// InstallError is returned when the home folder or the seeded registry
	// cannot be created.
	InstallError struct {
		Path string
		Err  error
	}

	// Option configures EnsureInstalled.
	Option func(*installer)

	// Result describes what EnsureInstalled did.
	Result struct {
		Registry *registry.Registry
		// Installed is true when the registry file was created by this call.
		Installed bool
	}

	installer struct {
		clock   registry.Clock
		logger  *log.Logger
		config  *config.Config
		regOpts []registry.Option
	}

	systemClock struct{}
)

func (systemClock) Now() time.Time { return time.Now() }

// Error implements the error interface.
func (e *InstallError) Error() string {
	return fmt.Sprintf("failed to install ownclt at %s: %v", e.Path, e.Err)
}

// Unwrap returns ErrInstall and the underlying cause.
func (e *InstallError) Unwrap() []error { return []error{ErrInstall, e.Err} }

// WithClock sets the clock used for the seeded document and the registry.
func WithClock(c registry.Clock) Option {
	return func(in *installer) {
		in.clock = c
		in.regOpts = append(in.regOpts, registry.WithClock(c))
	}
}

// WithLogger sets the logger for install messages and the registry.
func WithLogger(l *log.Logger) Option {
	return func(in *installer) {
		in.logger = l
		in.regOpts = append(in.regOpts, registry.WithLogger(l))
	}
}

// WithDefaultConfig writes cfg as config.cue next to the registry when a
// fresh install finds no config file.
func WithDefaultConfig(cfg *config.Config) Option {
	return func(in *installer) { in.config = cfg }
}

// EnsureInstalled makes sure home and its registry file exist, then loads
// the registry. A missing registry file is created holding only seed. An
// existing file is loaded as is and never merged with seed.
func EnsureInstalled(home string, seed registry.CommandEntry, opts ...Option) (*Result, error) {
	in := &installer{clock: systemClock{}, logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(in)
	}

	path := filepath.Join(home, registry.FileName)
	if info, err := os.Stat(home); err != nil || !info.IsDir() {
		if err := os.MkdirAll(home, 0o755); err != nil {
			return nil, &InstallError{Path: home, Err: err}
		}
		in.logger.Debug("created home folder", "path", home)
	}

	installed := false
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		doc := registry.NewDocument(in.clock.Now().UTC(), &seed)
		if err := registry.WriteDocument(path, doc); err != nil {
			return nil, &InstallError{Path: path, Err: err}
		}
		installed = true
		in.logger.Debug("seeded registry", "path", path, "namespace", seed.Namespace)

		if err := in.writeDefaultConfig(home); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, &InstallError{Path: path, Err: err}
	}

	reg, err := registry.Open(path, in.regOpts...)
	if err != nil {
		return nil, err
	}
	return &Result{Registry: reg, Installed: installed}, nil
}

func (in *installer) writeDefaultConfig(home string) error {
	if in.config == nil {
		return nil
	}
	if _, err := os.Stat(filepath.Join(home, config.ConfigFileName)); err == nil {
		return nil
	}
	cfg := *in.config
	cfg.Home = home
	if err := config.Save(&cfg); err != nil {
		return &InstallError{Path: home, Err: err}
	}
	return nil
}
