// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// FileName is the registry file name inside the ownclt home directory.
const FileName = "db.json"

type (
	// Clock supplies the timestamp stamped on mutations.
	Clock interface {
		Now() time.Time
	}

	// Option configures a Registry.
	Option func(*Registry)

	// Registry is the in-memory view of the registry document bound to a file.
	// Store views and Save may be used from several goroutines; the command
	// entries are not safe for concurrent use.
	Registry struct {
		path   string
		doc    *Document
		clock  Clock
		logger *log.Logger
		// storeMu guards doc.Store.
		storeMu sync.Mutex
	}

	systemClock struct{}
)

func (systemClock) Now() time.Time { return time.Now() }

// WithClock sets the clock used to stamp mutations.
func WithClock(c Clock) Option {
	return func(r *Registry) {
		if c != nil {
			r.clock = c
		}
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *log.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// New returns an empty registry bound to path.
func New(path string, opts ...Option) *Registry {
	r := &Registry{
		path:   path,
		doc:    &Document{},
		clock:  systemClock{},
		logger: log.New(io.Discard),
	}
	r.doc.ensureMaps()
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Open returns a registry loaded from path.
func Open(path string, opts ...Option) (*Registry, error) {
	r := New(path, opts...)
	if err := r.Load(path); err != nil {
		return nil, err
	}
	return r, nil
}

// Path returns the file the registry saves to.
func (r *Registry) Path() string { return r.path }

// Load reads the document at path and replaces the in-memory document with
// it. On failure the in-memory document is left untouched. A successful load
// also rebinds the registry to path.
func (r *Registry) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &LoadError{Path: path, Err: err}
	}

	var doc Document
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&doc); err != nil {
		return &LoadError{Path: path, Err: err}
	}
	doc.ensureMaps()
	for ns, entry := range doc.Commands {
		if entry == nil {
			return &LoadError{Path: path, Err: fmt.Errorf("namespace %q has no entry", ns)}
		}
	}

	r.doc = &doc
	r.path = path
	r.logger.Debug("registry loaded", "path", path, "contents", doc.describe())
	return nil
}

// Save writes the complete document to the registry file.
func (r *Registry) Save() error {
	r.storeMu.Lock()
	defer r.storeMu.Unlock()
	if err := WriteDocument(r.path, r.doc); err != nil {
		return err
	}
	r.logger.Debug("registry saved", "path", r.path, "contents", r.doc.describe())
	return nil
}

// WriteDocument serializes doc to path. The data goes to a temporary file in
// the same directory first and is renamed over path, so readers never see a
// partially written registry.
func WriteDocument(path string, doc *Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return &PersistenceError{Path: path, Err: err}
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(path), ".db-*.json")
	if err != nil {
		return &PersistenceError{Path: path, Err: err}
	}
	tmpPath := tmp.Name()

	renamed := false
	defer func() {
		if !renamed {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return &PersistenceError{Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &PersistenceError{Path: path, Err: err}
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return &PersistenceError{Path: path, Err: err}
	}
	renamed = true

	return nil
}

// Snapshot returns a deep copy of the in-memory document.
func (r *Registry) Snapshot() *Document {
	r.storeMu.Lock()
	defer r.storeMu.Unlock()
	return r.doc.Clone()
}

// Updated returns the time of the last mutation recorded in the document.
func (r *Registry) Updated() time.Time {
	return r.doc.Updated
}

// Register adds entry under the normalized namespace. The entry's File is
// made absolute and an empty declared Namespace is filled with the key. The
// registry is not saved.
func (r *Registry) Register(namespace string, entry CommandEntry) error {
	ns := NormalizeNamespace(namespace)
	if ok, errs := ns.IsValid(); !ok {
		return errs[0]
	}
	if _, exists := r.doc.Commands[ns]; exists {
		return &DuplicateNamespaceError{Namespace: ns}
	}
	if entry.File == "" {
		return fmt.Errorf("%w: namespace %q has no module file", ErrInvalidEntry, ns)
	}

	stored := entry.Clone()
	if !filepath.IsAbs(stored.File) {
		abs, err := filepath.Abs(stored.File)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidEntry, err)
		}
		stored.File = abs
	}
	if stored.Namespace == "" {
		stored.Namespace = ns
	}

	r.doc.Commands[ns] = stored
	r.touch()
	r.logger.Debug("namespace registered", "namespace", ns, "file", stored.File)
	return nil
}

// Unregister removes a namespace. The built-in namespace can never be
// removed. The namespace's store data is kept. The registry is not saved.
func (r *Registry) Unregister(namespace string) error {
	ns := NormalizeNamespace(namespace)
	if ns.IsReserved() {
		return &ReservedNamespaceError{Namespace: ns}
	}
	if _, exists := r.doc.Commands[ns]; !exists {
		return &NamespaceNotFoundError{Namespace: ns}
	}

	delete(r.doc.Commands, ns)
	r.touch()
	r.logger.Debug("namespace unregistered", "namespace", ns)
	return nil
}

// Lookup returns a copy of the entry registered under namespace.
func (r *Registry) Lookup(namespace string) (*CommandEntry, bool) {
	entry, ok := r.doc.Commands[NormalizeNamespace(namespace)]
	if !ok {
		return nil, false
	}
	return entry.Clone(), true
}

// Has reports whether namespace is registered.
func (r *Registry) Has(namespace string) bool {
	_, ok := r.doc.Commands[NormalizeNamespace(namespace)]
	return ok
}

// Namespaces returns the registered namespaces in sorted order.
func (r *Registry) Namespaces() []Namespace {
	return slices.Sorted(maps.Keys(r.doc.Commands))
}

// Entries yields every namespace with a copy of its entry, in sorted
// namespace order.
func (r *Registry) Entries() iter.Seq2[Namespace, *CommandEntry] {
	return func(yield func(Namespace, *CommandEntry) bool) {
		for _, ns := range r.Namespaces() {
			if !yield(ns, r.doc.Commands[ns].Clone()) {
				return
			}
		}
	}
}

// FindByPredicate returns the first entry, in namespace order, for which
// pred returns true.
func (r *Registry) FindByPredicate(pred func(ns Namespace, entry *CommandEntry) bool) (Namespace, *CommandEntry, bool) {
	for ns, entry := range r.Entries() {
		if pred(ns, entry) {
			return ns, entry, true
		}
	}
	return "", nil, false
}

// Store returns the scoped store of namespace.
func (r *Registry) Store(namespace string) *StoreView {
	return &StoreView{reg: r, namespace: NormalizeNamespace(namespace)}
}

func (r *Registry) touch() {
	r.doc.Updated = r.clock.Now().UTC()
}
