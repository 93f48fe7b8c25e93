// SPDX-License-Identifier: MPL-2.0

// Package vshell loads declarative script manifests into command trees.
//
// A manifest is a CUE, JSON, TOML or YAML document of the form
//
//	{commands: <tree>, env?: {NAME: value}, workdir?: "path"}
//
// Inside the tree, a mapping with a string "script" key is a leaf; every other
// mapping is a branch. Leaves run in the embedded mvdan.cc/sh interpreter with
// the invocation arguments as positional parameters. The interpreter exposes
// three builtins bound to the invocation: self, state and store.
package vshell
