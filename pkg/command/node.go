// SPDX-License-Identifier: MPL-2.0

package command

import (
	"fmt"
	"maps"
	"slices"
)

// DefaultKey is the branch child used when a path ends on the branch itself.
const DefaultKey = "default"

const (
	// KindLeaf marks a directly invocable node.
	KindLeaf Kind = iota + 1
	// KindBranch marks a node that only contains further nodes.
	KindBranch
)

type (
	// Kind tags the variant held by a Node.
	Kind int

	// Handler is the function behind a Leaf. The returned value is handed back
	// to the caller: the outer shell for top-level calls, or the handler that
	// used Context.Self.
	Handler func(ctx *Context) (any, error)

	// Node is either a Leaf or a Branch. The zero value is not a valid node;
	// use Leaf or Branch.
	Node struct {
		kind     Kind
		handler  Handler
		children map[string]*Node
	}
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindLeaf:
		return "leaf"
	case KindBranch:
		return "branch"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Leaf creates an invocable node.
func Leaf(h Handler) *Node {
	return &Node{kind: KindLeaf, handler: h}
}

// Branch creates a node holding the given children. The map is copied, so
// later changes to it do not reach the tree. Nil children are dropped.
func Branch(children map[string]*Node) *Node {
	owned := make(map[string]*Node, len(children))
	for name, child := range children {
		if child == nil {
			continue
		}
		owned[name] = child
	}
	return &Node{kind: KindBranch, children: owned}
}

// Kind returns the node variant.
func (n *Node) Kind() Kind {
	if n == nil {
		return 0
	}
	return n.kind
}

// IsLeaf reports whether n is a Leaf.
func (n *Node) IsLeaf() bool { return n.Kind() == KindLeaf }

// IsBranch reports whether n is a Branch.
func (n *Node) IsBranch() bool { return n.Kind() == KindBranch }

// Handler returns the leaf handler, or nil for branches.
func (n *Node) Handler() Handler {
	if !n.IsLeaf() {
		return nil
	}
	return n.handler
}

// Child returns the named child of a branch.
func (n *Node) Child(name string) (*Node, bool) {
	if !n.IsBranch() {
		return nil, false
	}
	child, ok := n.children[name]
	return child, ok
}

// Names returns the sorted child names of a branch.
func (n *Node) Names() []string {
	if !n.IsBranch() {
		return nil
	}
	return slices.Sorted(maps.Keys(n.children))
}

// Paths lists every invocable path below n in sorted order. A branch whose
// "default" child is a leaf is listed under its own path as well.
func (n *Node) Paths() []string {
	var out []string
	var walk func(prefix string, node *Node)
	walk = func(prefix string, node *Node) {
		for _, name := range node.Names() {
			child := node.children[name]
			path := name
			if prefix != "" {
				path = prefix + "/" + name
			}
			switch {
			case child.IsLeaf() && name == DefaultKey && prefix != "":
				out = append(out, prefix)
			case child.IsLeaf():
				out = append(out, path)
			default:
				walk(path, child)
			}
		}
	}
	walk("", n)
	slices.Sort(out)
	return slices.Compact(out)
}
