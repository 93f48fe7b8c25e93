// SPDX-License-Identifier: MPL-2.0

// Package command defines the runtime shape of a command tree and the
// per-invocation context handed to its handlers.
//
// A tree is built from two node kinds: a Leaf wraps a Handler and a Branch
// maps names to further nodes. A Branch may carry a child keyed "default"
// that is used when a path stops at the branch itself.
//
// Resolution never mutates a tree. Walk addresses a node by path; Resolve
// additionally applies the one-hop default fallback and guarantees a Leaf:
//
//	tree := command.Branch(map[string]*command.Node{
//		"link": command.Branch(map[string]*command.Node{
//			command.DefaultKey: command.Leaf(linkFolder),
//			"git":              command.Leaf(linkGit),
//		}),
//	})
//
//	leaf, err := command.Resolve(tree, []string{"link"}) // linkFolder
//
// Handlers receive a *Context. Context.Self re-enters the same tree with new
// arguments while sharing the session State of the top-level invocation.
package command
