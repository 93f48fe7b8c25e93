// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"maps"
	"slices"

	"github.com/ownclt/ownclt/pkg/command"
)

var _ command.Store = (*StoreView)(nil)

// StoreView is the key/value store of one namespace inside the registry
// document. Changes apply to the in-memory document at once and reach disk
// only through Commit. It is safe for concurrent use.
type StoreView struct {
	reg       *Registry
	namespace Namespace
}

// Namespace returns the namespace the view is scoped to.
func (s *StoreView) Namespace() Namespace { return s.namespace }

// data returns the namespace map. Callers must hold reg.storeMu.
func (s *StoreView) data() map[string]any {
	return s.reg.doc.Store[s.namespace]
}

func (s *StoreView) lock() func() {
	s.reg.storeMu.Lock()
	return s.reg.storeMu.Unlock
}

// Get returns the value stored under key.
func (s *StoreView) Get(key string) (any, bool) {
	defer s.lock()()
	v, ok := s.data()[key]
	return v, ok
}

// Set stores value under key, creating the namespace data on first use.
func (s *StoreView) Set(key string, value any) {
	defer s.lock()()
	data := s.data()
	if data == nil {
		data = make(map[string]any)
		s.reg.doc.Store[s.namespace] = data
	}
	data[key] = value
}

// Has reports whether key is present.
func (s *StoreView) Has(key string) bool {
	defer s.lock()()
	_, ok := s.data()[key]
	return ok
}

// Unset removes key.
func (s *StoreView) Unset(key string) {
	defer s.lock()()
	delete(s.data(), key)
}

// Clear removes every key of the namespace.
func (s *StoreView) Clear() {
	defer s.lock()()
	clear(s.data())
}

// Keys returns the stored keys in sorted order.
func (s *StoreView) Keys() []string {
	defer s.lock()()
	return slices.Sorted(maps.Keys(s.data()))
}

// Commit saves the whole registry.
func (s *StoreView) Commit() error {
	return s.reg.Save()
}

// Collection returns a deep copy of the namespace data.
func (s *StoreView) Collection() map[string]any {
	defer s.lock()()
	out := deepCopyMap(s.data())
	if out == nil {
		out = make(map[string]any)
	}
	return out
}
