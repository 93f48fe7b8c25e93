// SPDX-License-Identifier: MPL-2.0

// Package dispatch runs one top-level invocation: it resolves the command
// string against the registry, loads the namespace's command tree, walks it
// to a leaf, builds the invocation context and calls the handler.
package dispatch
