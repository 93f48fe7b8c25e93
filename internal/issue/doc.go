// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable errors for the ownclt shell.
//
// ActionableError carries the failed operation, the resource involved and
// suggestions for fixing it. Issue holds the longer Markdown guidance shown
// in verbose mode, rendered with glamour.
package issue
