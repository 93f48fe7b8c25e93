// SPDX-License-Identifier: MPL-2.0

// Package builtin implements the reserved "clt" namespace: linking and
// unlinking command modules, listing commands, and a few introspection and
// store commands. The tree is compiled in and handed to the module loader.
package builtin
