package dataset

import (
	"fmt"
	"sync"
	"time"
)

// Entry is one registered dataset.
type Entry struct {
	Name     string
	Dataset  *Dataset
	LoadedAt time.Time
}

// Registry is the ordered, name-unique collection of loaded datasets.
// Entries are never removed during a session.
type Registry struct {
	mu      sync.RWMutex
	entries []Entry
	byName  map[string]int
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]int)}
}

// Add appends ds under ds.Name and returns its index.
// A name that is already present is rejected with ErrDuplicateFile and the
// existing entry is left untouched.
func (r *Registry) Add(ds *Dataset) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if idx, exists := r.byName[ds.Name]; exists {
		return idx, fmt.Errorf("%w: %s", ErrDuplicateFile, ds.Name)
	}

	r.entries = append(r.entries, Entry{
		Name:     ds.Name,
		Dataset:  ds,
		LoadedAt: time.Now(),
	})
	idx := len(r.entries) - 1
	r.byName[ds.Name] = idx
	return idx, nil
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byName[name]
	return ok
}

// At returns the entry at index i.
func (r *Registry) At(i int) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i < 0 || i >= len(r.entries) {
		return Entry{}, false
	}
	return r.entries[i], true
}

// IndexOf returns the position of name, or -1.
func (r *Registry) IndexOf(name string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if idx, ok := r.byName[name]; ok {
		return idx
	}
	return -1
}

// Lookup returns the dataset registered under name.
func (r *Registry) Lookup(name string) (*Dataset, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx, ok := r.byName[name]
	if !ok {
		return nil, false
	}
	return r.entries[idx].Dataset, true
}

// List returns a snapshot of all entries in insertion order.
func (r *Registry) List() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Len returns the number of entries.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
