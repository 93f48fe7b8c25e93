// SPDX-License-Identifier: MPL-2.0

// Package registry holds the persistent namespace registry of ownclt.
//
// The registry is a single JSON document (<home>/db.json) mapping each linked
// namespace to the command module that implements it, plus a per-namespace
// key/value store. Load always replaces the whole in-memory document and Save
// always writes the whole document; there are no partial merges or writes.
//
// Mutations (Register, Unregister, store changes) only touch memory. Callers
// decide when a change is durable by calling Save (or StoreView.Commit).
package registry
