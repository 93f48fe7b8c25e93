// SPDX-License-Identifier: MPL-2.0

package command

import "strings"

// SplitPath splits a slash-delimited command path into its segments.
// Empty segments are dropped, so "link/", "/link" and "link" are equal.
func SplitPath(path string) []string {
	parts := strings.Split(path, "/")
	segments := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		segments = append(segments, p)
	}
	return segments
}

// Walk follows path from root and returns the node it addresses, without any
// default fallback. An empty path is an IncompleteCommandError; a missing key
// at any depth is an UnknownCommandError.
func Walk(root *Node, path []string) (*Node, error) {
	return walk(root, strings.Join(path, "/"), path)
}

// Resolve walks path from root and returns the leaf to invoke. When the walk
// ends on a branch, its "default" child is used if it is a leaf; any other
// outcome is a NotCallableError.
//
// An explicit "default" segment is an ordinary key, so ["link"] and
// ["link", "default"] resolve to the same leaf. The fallback is a single
// hop: a "default" child that is itself a branch is never descended.
func Resolve(root *Node, path []string) (*Node, error) {
	return ResolveCommand(root, strings.Join(path, "/"), path)
}

// ResolveCommand is Resolve with the command string used in error messages.
func ResolveCommand(root *Node, command string, path []string) (*Node, error) {
	node, err := walk(root, command, path)
	if err != nil {
		return nil, err
	}
	if node.IsLeaf() {
		return callable(node, command)
	}
	if fallback, ok := node.Child(DefaultKey); ok && fallback.IsLeaf() {
		return callable(fallback, command)
	}
	return nil, &NotCallableError{Command: command}
}

// callable rejects leaves built without a handler.
func callable(leaf *Node, command string) (*Node, error) {
	if leaf.handler == nil {
		return nil, &NotCallableError{Command: command}
	}
	return leaf, nil
}

func walk(root *Node, command string, path []string) (*Node, error) {
	if len(path) == 0 {
		return nil, &IncompleteCommandError{Command: command}
	}

	current := root
	for _, segment := range path {
		next, ok := current.Child(segment)
		if !ok {
			return nil, &UnknownCommandError{Command: command, Segment: segment}
		}
		current = next
	}
	return current, nil
}
