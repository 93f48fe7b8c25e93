// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/ownclt/ownclt/internal/bootstrap"
	"github.com/ownclt/ownclt/internal/builtin"
	"github.com/ownclt/ownclt/internal/issue"
	"github.com/ownclt/ownclt/internal/jsmodule"
	"github.com/ownclt/ownclt/internal/loader"
	"github.com/ownclt/ownclt/internal/mapfile"
	"github.com/ownclt/ownclt/internal/registry"
	"github.com/ownclt/ownclt/pkg/command"
)

const listHint = "Run 'ownclt /list' to see the available commands"

// renderOutcome prints a handler result. Only Outcome values are shown;
// warnings go to stderr.
func renderOutcome(stdout, stderr io.Writer, result any) {
	var out command.Outcome
	switch v := result.(type) {
	case command.Outcome:
		out = v
	case *command.Outcome:
		if v == nil {
			return
		}
		out = *v
	default:
		return
	}
	if out.Message == "" {
		return
	}

	switch out.Level {
	case command.LevelSuccess:
		fmt.Fprintln(stdout, SuccessStyle.Render("✓ "+out.Message))
	case command.LevelWarning:
		fmt.Fprintln(stderr, WarningStyle.Render("⚠ "+out.Message))
	default:
		fmt.Fprintln(stdout, out.Message)
	}
}

// renderError prints err for the user. Core errors are turned into
// actionable errors with suggestions; in verbose mode the issue catalog
// guidance is rendered below them with the glamour style of colorScheme.
func renderError(w io.Writer, err error, verbose bool, colorScheme string) {
	if err == nil || isSilentExit(err) {
		return
	}

	fmt.Fprintln(w, ErrorStyle.Render("✗ ")+formatErrorForDisplay(actionable(err), verbose))

	if !verbose {
		if id := classify(err); id != 0 {
			fmt.Fprintln(w, hintStyle.Render("Run with --verbose for more details."))
		}
		return
	}

	entry := issue.Get(classify(err))
	if entry == nil {
		return
	}
	rendered, renderErr := entry.Render(colorScheme)
	if renderErr != nil {
		return
	}
	fmt.Fprint(w, rendered)
}

// formatErrorForDisplay formats an error for user display. ActionableError
// values use their Format method, which shows the full chain when verbose.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}

// classify returns the issue catalog entry matching err, or 0.
func classify(err error) issue.Id {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) && svcErr.IssueID != 0 {
		return svcErr.IssueID
	}

	switch {
	case errors.Is(err, command.ErrUnknownCommand):
		return issue.UnknownCommandId
	case errors.Is(err, command.ErrIncompleteCommand):
		return issue.IncompleteCommandId
	case errors.Is(err, command.ErrNotCallable):
		return issue.NotCallableId
	case errors.Is(err, registry.ErrDuplicateNamespace):
		return issue.DuplicateNamespaceId
	case errors.Is(err, registry.ErrNamespaceNotFound), errors.Is(err, builtin.ErrNotLinked):
		return issue.NamespaceNotFoundId
	case errors.Is(err, registry.ErrReservedNamespace):
		return issue.ReservedNamespaceId
	case errors.Is(err, registry.ErrLoad), errors.Is(err, bootstrap.ErrInstall):
		return issue.RegistryLoadFailedId
	case errors.Is(err, registry.ErrPersistence):
		return issue.RegistrySaveFailedId
	case errors.Is(err, loader.ErrLoad):
		return issue.ModuleLoadFailedId
	case errors.Is(err, mapfile.ErrNotFound), errors.Is(err, builtin.ErrRepoMapFile):
		return issue.MapFileNotFoundId
	case errors.Is(err, builtin.ErrGitNotFound):
		return issue.GitNotFoundId
	case errors.Is(err, jsmodule.ErrScript):
		return issue.ScriptExecutionFailedId
	}

	var exitErr *command.ExitError
	if errors.As(err, &exitErr) {
		return issue.ScriptExecutionFailedId
	}
	return 0
}

// actionable wraps the errors the shell knows how to explain. Errors that
// already are actionable, and unknown errors, are returned unchanged.
func actionable(err error) error {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return err
	}

	ec := issue.NewErrorContext().Wrap(err)
	switch classify(err) {
	case issue.UnknownCommandId, issue.IncompleteCommandId, issue.NotCallableId:
		ec.WithOperation("resolve command").
			WithSuggestion(listHint)
	case issue.DuplicateNamespaceId:
		ec.WithOperation("link commands").
			WithSuggestions(
				"Link under another name: ownclt /link <folder> <as>",
				"Or unlink the existing namespace first: ownclt /unlink <namespace>",
			)
	case issue.NamespaceNotFoundId:
		ec.WithOperation("unlink commands").
			WithSuggestion(listHint)
	case issue.ReservedNamespaceId:
		ec.WithOperation("unlink commands")
	case issue.RegistryLoadFailedId:
		ec.WithOperation("load registry").
			WithSuggestion("Check that db.json in the ownclt home folder is valid JSON")
	case issue.RegistrySaveFailedId:
		ec.WithOperation("save registry").
			WithSuggestion("Check that the ownclt home folder is writable")
	case issue.ModuleLoadFailedId:
		ec.WithOperation("load command module").
			WithSuggestion("Fix the module file or unlink it: ownclt /unlink <namespace>")
	case issue.MapFileNotFoundId:
		ec.WithOperation("read map file").
			WithSuggestion("Add an " + mapfile.BaseName + ".json (or .cue, .toml, .yaml) to the folder")
	case issue.GitNotFoundId:
		ec.WithOperation("run git").
			WithSuggestion("Install git or set git.binary in config.cue (OWNCLT_GIT_BINARY)")
	default:
		return err
	}
	return ec.Build()
}
