// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the ownclt command-line shell.
//
// The shell is a single cobra root command executed through fang. Flag
// parsing stops at the first positional argument: that argument is the
// command string (namespace/sub/path or /sub/path for the built-in
// namespace) and everything after it is handed to the resolved handler
// untouched. The shell owns configuration, logging, bootstrap, error
// rendering and the process exit code; resolution and dispatch live in
// internal/dispatch.
package cmd
