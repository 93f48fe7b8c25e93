// SPDX-License-Identifier: MPL-2.0

// Package query turns a raw command string into a namespace and a subpath and
// resolves the namespace against the registry.
//
// A leading "/" is shorthand for the built-in namespace: "/list" and
// "clt/list" are the same query.
package query
