// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helpers shared by ownclt tests.
//
// Environment helpers (MustSetenv, MustUnsetenv, SetHomeDir, SetOwncltHome)
// return cleanup functions suitable for t.Cleanup. File helpers (MustWriteFile,
// MustReadFile, MustMkdirAll) fail the test immediately on error. FakeClock
// stamps deterministic times on registry mutations.
package testutil
