// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// NewRootCommand creates the root command bound to app.
func NewRootCommand(app *App) *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:   "ownclt [flags] <namespace>[/sub...] [args...]",
		Short: "A command router for linked command trees",
		Long: TitleStyle.Render("ownclt") + SubtitleStyle.Render(" - A command router for linked command trees") + `

ownclt keeps a registry of namespaces, each backed by a command module
(JavaScript, or a CUE/JSON/TOML/YAML manifest of shell scripts). A command
string selects a namespace and walks its tree to one command.

` + SubtitleStyle.Render("Examples:") + `
  ` + CmdStyle.Render("ownclt /list") + `                 List all linked commands
  ` + CmdStyle.Render("ownclt /link ./tools") + `         Link the commands described in ./tools
  ` + CmdStyle.Render("ownclt tools/build --fast") + `    Run tools' build command with --fast
  ` + CmdStyle.Render("ownclt /unlink tools") + `         Remove the tools namespace`,
		Args:         cobra.ArbitraryArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Invoke(cmd.Context(), *flags, args)
			return nil
		},
	}

	// Everything after the command string belongs to the handler.
	rootCmd.Flags().SetInterspersed(false)
	rootCmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.Flags().StringVar(&flags.home, "home", "", "ownclt home folder (default is $HOME/.ownclt)")
	rootCmd.Flags().StringVar(&flags.config, "config", "", "config file (default is <home>/config.cue)")

	rootCmd.SetIn(app.stdin)
	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)

	return rootCmd
}

// Run executes the shell with os.Args and returns the process exit code.
func Run() int {
	app := NewApp(Dependencies{})
	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		return exitCode(err)
	}
	return app.ExitCode()
}

// Execute runs the shell and exits the process. It is called by main.main().
func Execute() {
	os.Exit(Run())
}
