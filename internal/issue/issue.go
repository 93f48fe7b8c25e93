// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

// Id identifies an issue in the catalog.
type Id int

const (
	UnknownCommandId Id = iota + 1
	IncompleteCommandId
	NotCallableId
	DuplicateNamespaceId
	NamespaceNotFoundId
	ReservedNamespaceId
	RegistryLoadFailedId
	RegistrySaveFailedId
	ModuleLoadFailedId
	MapFileNotFoundId
	ConfigLoadFailedId
	GitNotFoundId
	ScriptExecutionFailedId
)

type (
	// MarkdownMsg is the Markdown body of an issue.
	MarkdownMsg string

	// HttpLink is a documentation link appended to an issue.
	HttpLink string

	// Issue is a catalog entry with guidance for one class of failure.
	Issue struct {
		id       Id
		mdMsg    MarkdownMsg
		docLinks []HttpLink
	}
)

// Id returns the issue identifier.
func (i *Issue) Id() Id { return i.id }

// MarkdownMsg returns the raw Markdown body.
func (i *Issue) MarkdownMsg() MarkdownMsg { return i.mdMsg }

// DocLinks returns a copy of the documentation links.
func (i *Issue) DocLinks() []HttpLink { return slices.Clone(i.docLinks) }

// Render renders the issue for the terminal using the glamour style at
// stylePath ("dark", "light", "notty", ...).
func (i *Issue) Render(stylePath string) (string, error) {
	md := string(i.mdMsg)
	if len(i.docLinks) > 0 {
		var sb strings.Builder
		sb.WriteString(md)
		sb.WriteString("\n\n## See also\n")
		for _, link := range i.docLinks {
			sb.WriteString("- <" + string(link) + ">\n")
		}
		md = sb.String()
	}
	return render(md, stylePath)
}

var (
	render = glamour.Render

	unknownCommandIssue = &Issue{
		id: UnknownCommandId,
		mdMsg: `
# Command not found

The namespace or one of the path segments does not exist.

## Things you can try
- List every linked command:
~~~
$ ownclt /list
~~~
- Search for part of a name:
~~~
$ ownclt /list deploy
~~~
- Built-in commands start with a slash, e.g. ` + "`ownclt /link`" + `.`,
	}

	incompleteCommandIssue = &Issue{
		id: IncompleteCommandId,
		mdMsg: `
# Sub command required

A namespace on its own does not run anything. Add the command path after
the namespace, separated by slashes:
~~~
$ ownclt mytools/build
~~~`,
	}

	notCallableIssue = &Issue{
		id: NotCallableId,
		mdMsg: `
# Command group is not callable

The path points at a group of commands that has no ` + "`default`" + ` command.
Pick one of its sub commands instead; ` + "`ownclt /list`" + ` shows them all.`,
	}

	duplicateNamespaceIssue = &Issue{
		id: DuplicateNamespaceId,
		mdMsg: `
# Namespace already linked

Namespaces are unique (case-insensitive). Either unlink the existing one
or link the folder under another name:
~~~
$ ownclt /unlink mytools
$ ownclt /link ./tools mytools2
~~~`,
	}

	namespaceNotFoundIssue = &Issue{
		id: NamespaceNotFoundId,
		mdMsg: `
# Namespace is not linked

Run ` + "`ownclt /list`" + ` to see the linked namespaces.`,
	}

	reservedNamespaceIssue = &Issue{
		id: ReservedNamespaceId,
		mdMsg: `
# Reserved namespace

The ` + "`clt`" + ` namespace holds the built-in commands and can never be unlinked.`,
	}

	registryLoadFailedIssue = &Issue{
		id: RegistryLoadFailedId,
		mdMsg: `
# Registry could not be loaded

The registry file ` + "`db.json`" + ` in the ownclt home folder is missing or
is not valid JSON.

## Things you can try
- Check the file with a JSON validator
- Move it away; it is recreated with the built-in commands on the next run
- Point ownclt at another home with ` + "`--home`" + ` or ` + "`OWNCLT_HOME`",
	}

	registrySaveFailedIssue = &Issue{
		id: RegistrySaveFailedId,
		mdMsg: `
# Registry could not be saved

The change was not written to disk. Check that the ownclt home folder exists
and is writable, then retry the command.`,
	}

	moduleLoadFailedIssue = &Issue{
		id: ModuleLoadFailedId,
		mdMsg: `
# Command module could not be loaded

Supported module formats:
- JavaScript (` + "`.js`, `.cjs`" + `) exporting an object of functions
- Script manifests (` + "`.cue`, `.json`, `.toml`, `.yaml`, `.yml`" + `) with a
  ` + "`commands`" + ` tree whose leaves have a ` + "`script`" + ` field

## Example manifest
~~~yaml
commands:
  hello:
    script: echo "hello $1"
  build:
    default:
      script: go build ./...
~~~`,
	}

	mapFileNotFoundIssue = &Issue{
		id: MapFileNotFoundId,
		mdMsg: `
# Map file not found

A linkable folder needs one of ` + "`ownclt.map.json`, `ownclt.map.cue`, `ownclt.map.toml`, `ownclt.map.yaml`, `ownclt.map.yml`" + `:
~~~json
{
  "namespace": "mytools",
  "file": "commands.js",
  "commands": {"build": {"desc": "Build the project"}}
}
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Configuration could not be loaded

The configuration file is CUE. Valid fields:
~~~cue
home: "/path/to/ownclt/home"
git: binary: "git"
ui: {
	verbose:      false
	color_scheme: "auto" // "dark" or "light"
}
shell: inherit_env: true
~~~`,
	}

	gitNotFoundIssue = &Issue{
		id: GitNotFoundId,
		mdMsg: `
# git is not available

Linking a repository needs git. Install it, or set ` + "`git.binary`" + ` in the
configuration (or ` + "`OWNCLT_GIT_BINARY`" + `) to its location.`,
	}

	scriptExecutionFailedIssue = &Issue{
		id: ScriptExecutionFailedId,
		mdMsg: `
# Script failed

A script command exited with a non-zero status. Its exit status is passed
through as the exit status of ownclt. Run with ` + "`--verbose`" + ` to see
which leaf ran.`,
	}

	issues = map[Id]*Issue{
		unknownCommandIssue.Id():        unknownCommandIssue,
		incompleteCommandIssue.Id():     incompleteCommandIssue,
		notCallableIssue.Id():           notCallableIssue,
		duplicateNamespaceIssue.Id():    duplicateNamespaceIssue,
		namespaceNotFoundIssue.Id():     namespaceNotFoundIssue,
		reservedNamespaceIssue.Id():     reservedNamespaceIssue,
		registryLoadFailedIssue.Id():    registryLoadFailedIssue,
		registrySaveFailedIssue.Id():    registrySaveFailedIssue,
		moduleLoadFailedIssue.Id():      moduleLoadFailedIssue,
		mapFileNotFoundIssue.Id():       mapFileNotFoundIssue,
		configLoadFailedIssue.Id():      configLoadFailedIssue,
		gitNotFoundIssue.Id():           gitNotFoundIssue,
		scriptExecutionFailedIssue.Id(): scriptExecutionFailedIssue,
	}
)

// Values returns every issue ordered by Id.
func Values() []*Issue {
	out := make([]*Issue, 0, len(issues))
	for _, i := range issues {
		out = append(out, i)
	}
	slices.SortFunc(out, func(a, b *Issue) int { return int(a.id) - int(b.id) })
	return out
}

// Get returns the issue with the given id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}
