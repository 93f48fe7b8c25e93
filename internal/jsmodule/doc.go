// SPDX-License-Identifier: MPL-2.0

// Package jsmodule loads JavaScript command modules into command trees.
//
// A module is a CommonJS-style file evaluated in an embedded goja runtime. Its
// module.exports object is mapped onto a command.Node tree: functions become
// leaves and plain objects become branches. Each handler is called with a
// context object mirroring command.Context (args, state, store, paths, log and
// self).
package jsmodule
