// SPDX-License-Identifier: MPL-2.0

package command

// Store is the persistent key/value space of one namespace. Mutations are
// visible immediately in memory; Commit writes the whole registry to disk.
type Store interface {
	Get(key string) (any, bool)
	Set(key string, value any)
	Has(key string) bool
	Unset(key string)
	Clear()
	Keys() []string
	// Commit persists every pending change of the registry backing the store.
	Commit() error
	// Collection returns a deep copy of the namespace data. The caller owns
	// it fully; changing it never reaches the registry.
	Collection() map[string]any
}
