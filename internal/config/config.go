// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ownclt/ownclt/internal/issue"
	"github.com/ownclt/ownclt/pkg/cueutil"

	"github.com/spf13/viper"
)

const (
	// AppName is the application name.
	AppName = "ownclt"
	// HomeDirName is the default home folder name inside the user home.
	HomeDirName = ".ownclt"
	// ConfigFileName is the config file name inside the ownclt home.
	ConfigFileName = "config.cue"
)

//go:embed config_schema.cue
var configSchema string

// LoadOptions carries the command-line inputs of configuration loading.
type LoadOptions struct {
	// ConfigFilePath forces loading from a specific file (--config).
	ConfigFilePath string
	// HomeDir overrides the home folder (--home).
	HomeDir string
	// Verbose is set by --verbose. False means "not given", never "off".
	Verbose bool
	// Environ replaces the process environment when non-nil.
	Environ map[string]string
}

// DefaultHome returns ~/.ownclt.
func DefaultHome() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, HomeDirName), nil
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() *Config {
	home, err := DefaultHome()
	if err != nil {
		home = HomeDirName
	}
	return &Config{
		Home:  home,
		Git:   GitConfig{Binary: DefaultGitBinary},
		UI:    UIConfig{ColorScheme: ColorSchemeAuto},
		Shell: ShellConfig{InheritEnv: true},
	}
}

// Load resolves the configuration with precedence flag > env > file >
// default. It returns the configuration and the config file that was read
// ("" when none existed).
func Load(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	envs, err := parseEnv(opts.Environ)
	if err != nil {
		return nil, "", err
	}

	v := viper.New()
	defaults := DefaultConfig()
	v.SetDefault("home", defaults.Home)
	v.SetDefault("git.binary", defaults.Git.Binary)
	v.SetDefault("ui.verbose", defaults.UI.Verbose)
	v.SetDefault("ui.color_scheme", defaults.UI.ColorScheme)
	v.SetDefault("shell.inherit_env", defaults.Shell.InheritEnv)

	cfgPath, explicit := configFilePath(opts, envs, defaults.Home)
	resolvedPath := ""
	switch err := loadCUEIntoViper(v, cfgPath); {
	case err == nil:
		resolvedPath = cfgPath
	case errors.Is(err, fs.ErrNotExist) && !explicit:
		// No config file is fine at the default location.
	case errors.Is(err, fs.ErrNotExist):
		return nil, "", issue.NewErrorContext().
			WithOperation("load configuration").
			WithResource(cfgPath).
			WithSuggestion("Verify the file path is correct").
			WithSuggestion("Use 'ownclt /config' to see the effective configuration").
			Wrap(err).
			BuildError()
	default:
		return nil, "", issue.NewErrorContext().
			WithOperation("load configuration").
			WithResource(cfgPath).
			WithSuggestion("Check that the file contains valid CUE syntax").
			WithSuggestion("Verify the values match the configuration schema").
			Wrap(err).
			BuildError()
	}

	applyEnv(v, envs)
	applyFlags(v, opts)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}
	if abs, err := filepath.Abs(cfg.Home); err == nil {
		cfg.Home = abs
	}

	if ok, errs := cfg.IsValid(); !ok {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(resolvedPath).
			Wrap(errs[0]).
			BuildError()
	}

	return &cfg, resolvedPath, nil
}

// configFilePath picks the config file: --config, then OWNCLT_CONFIG, then
// config.cue in the home folder given by --home, OWNCLT_HOME or the default.
// explicit reports whether the user named the file.
func configFilePath(opts LoadOptions, envs envOverrides, defaultHome string) (string, bool) {
	switch {
	case opts.ConfigFilePath != "":
		return opts.ConfigFilePath, true
	case envs.ConfigFile != "":
		return envs.ConfigFile, true
	}

	home := defaultHome
	switch {
	case opts.HomeDir != "":
		home = opts.HomeDir
	case envs.Home != "":
		home = envs.Home
	}
	return filepath.Join(home, ConfigFileName), false
}

func applyEnv(v *viper.Viper, envs envOverrides) {
	if envs.Home != "" {
		v.Set("home", envs.Home)
	}
	if envs.GitBinary != "" {
		v.Set("git.binary", envs.GitBinary)
	}
	if envs.ColorScheme != "" {
		v.Set("ui.color_scheme", envs.ColorScheme)
	}
	if envs.Verbose != nil {
		v.Set("ui.verbose", *envs.Verbose)
	}
}

func applyFlags(v *viper.Viper, opts LoadOptions) {
	if opts.HomeDir != "" {
		v.Set("home", opts.HomeDir)
	}
	if opts.Verbose {
		v.Set("ui.verbose", true)
	}
}

// loadCUEIntoViper validates the CUE file at path against #Config and
// merges it into v. Fields stay optional, so values need not be concrete.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	configMap, err := cueutil.DecodeMap(data,
		cueutil.WithFilename(path),
		cueutil.WithSchema(configSchema, "#Config"),
		cueutil.WithConcrete(false),
	)
	if err != nil {
		return err
	}

	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}
	return nil
}

// GenerateCUE renders cfg as a CUE configuration file.
func GenerateCUE(cfg *Config) (string, error) {
	body, err := cueutil.Encode(cfg)
	if err != nil {
		return "", err
	}
	return "// ownclt configuration\n\n" + string(body), nil
}

// Save writes cfg to <cfg.Home>/config.cue.
func Save(cfg *Config) error {
	if err := os.MkdirAll(cfg.Home, 0o755); err != nil {
		return fmt.Errorf("failed to create home directory: %w", err)
	}
	content, err := GenerateCUE(cfg)
	if err != nil {
		return err
	}
	path := filepath.Join(cfg.Home, ConfigFileName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
