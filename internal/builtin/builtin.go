// SPDX-License-Identifier: MPL-2.0

package builtin

import (
	"github.com/ownclt/ownclt/internal/config"
	"github.com/ownclt/ownclt/internal/registry"
	"github.com/ownclt/ownclt/pkg/command"
)

// Session state keys shared between the built-in commands through self
// invocations.
const (
	// StateReadMapFileOnly makes link decode the map file into StateMapFile
	// instead of registering it.
	StateReadMapFileOnly = "readMapFileOnly"
	// StateMapFile holds the *mapfile.MapFile read by link.
	StateMapFile = "mapFile"
	// StateUpdateGitFolderOnly makes link/git re-clone and stop.
	StateUpdateGitFolderOnly = "updateGitFolderOnly"
)

type (
	// VersionInfo describes the running build.
	VersionInfo struct {
		Version   string
		Commit    string
		BuildDate string
	}

	// Option configures Commands.
	Option func(*Commands)

	// Commands holds what the built-in handlers operate on.
	Commands struct {
		reg     *registry.Registry
		cfg     *config.Config
		git     Git
		version VersionInfo
	}
)

// WithGit replaces the git implementation, which defaults to ExecGit with
// the configured binary.
func WithGit(g Git) Option {
	return func(c *Commands) { c.git = g }
}

// WithVersion sets the build information printed by version.
func WithVersion(v VersionInfo) Option {
	return func(c *Commands) { c.version = v }
}

// New creates the built-in commands bound to reg and cfg.
func New(reg *registry.Registry, cfg *config.Config, opts ...Option) *Commands {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	c := &Commands{
		reg:     reg,
		cfg:     cfg,
		git:     ExecGit{Binary: cfg.Git.Binary},
		version: VersionInfo{Version: "dev"},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Tree returns the command tree of the built-in namespace.
func (c *Commands) Tree() *command.Node {
	return command.Branch(map[string]*command.Node{
		"version": command.Leaf(c.printVersion),
		"context": command.Leaf(c.printContext),
		"config":  command.Leaf(c.printConfig),
		"link": command.Branch(map[string]*command.Node{
			command.DefaultKey: command.Leaf(c.link),
			"git": command.Branch(map[string]*command.Node{
				command.DefaultKey: command.Leaf(c.linkGit),
				"update":           command.Leaf(c.linkGitUpdate),
			}),
		}),
		"unlink": command.Branch(map[string]*command.Node{
			command.DefaultKey: command.Leaf(c.unlink),
			"folder":           command.Leaf(c.unlinkFolder),
		}),
		"list": command.Leaf(c.list),
		"remember": command.Branch(map[string]*command.Node{
			"set":   command.Leaf(c.rememberSet),
			"get":   command.Leaf(c.rememberGet),
			"unset": command.Leaf(c.rememberUnset),
		}),
	})
}

// Docs documents every built-in command path.
func Docs() map[string]registry.CommandDoc {
	return map[string]registry.CommandDoc{
		"version": {Desc: "Print the ownclt version"},
		"context": {Desc: "Print the context handed to command handlers"},
		"config":  {Desc: "Print the effective configuration as CUE"},
		"link": {
			Desc: "Link a folder containing an ownclt map file",
			Args: map[string]string{"folder": "folder holding the map file", "as": "namespace alias (optional)"},
		},
		"link/git": {
			Desc: "Clone a git repository and link a folder inside it",
			Args: map[string]string{"url": "git@ or https:// url", "folder": "folder of the map file inside the repo", "as": "namespace alias (optional)"},
		},
		"link/git/update": {
			Desc: "Re-clone a linked git repository",
			Args: map[string]string{"url": "the url the repository was linked from"},
		},
		"unlink": {
			Desc: "Unlink a namespace",
			Args: map[string]string{"namespace": "namespace to unlink"},
		},
		"unlink/folder": {
			Desc: "Unlink the namespace that was linked from a folder",
			Args: map[string]string{"folder": "folder holding the map file"},
		},
		"list": {
			Desc: "List linked commands",
			Args: map[string]string{"search": "case-insensitive filter (optional)"},
		},
		"remember/set":   {Desc: "Save a value in the clt store", Args: map[string]string{"key": "key", "value": "value"}},
		"remember/get":   {Desc: "Print a value from the clt store", Args: map[string]string{"key": "key"}},
		"remember/unset": {Desc: "Remove a value from the clt store", Args: map[string]string{"key": "key"}},
	}
}

// SeedEntry returns the registry entry of the built-in namespace. file is the
// path of the ownclt executable.
func SeedEntry(file string) registry.CommandEntry {
	return registry.CommandEntry{
		Namespace: registry.BuiltinNamespace,
		File:      file,
		Commands:  Docs(),
	}
}

func usage(ctx *command.Context, msg string) error {
	return &UsageError{Command: ctx.Command, Message: msg}
}
