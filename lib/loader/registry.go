package loader

import (
	"github.com/ValentinKolb/slashdb/lib/db"
	"github.com/puzpuzpuz/xsync/v3"
	"slices"
)

// Entry is a loaded database: its merged tree and the fragment file new rows
// are appended to.
type Entry struct {
	Name     string  // Base name of the database directory
	Tree     db.Tree // Merged tree of all fragments
	Filename string  // Most recent fragment (or a new fragment name for lazily created entries)
}

// Registry maps database names to loaded entries.
//
// Thread-safety: Registry is safe for concurrent use.
type Registry struct {
	entries *xsync.MapOf[string, *Entry]
}

func newRegistry() *Registry {
	return &Registry{
		entries: xsync.NewMapOf[string, *Entry](),
	}
}

// Get returns the entry registered under name.
func (r *Registry) Get(name string) (*Entry, bool) {
	return r.entries.Load(name)
}

// Names returns the sorted names of all registered entries.
func (r *Registry) Names() []string {
	names := make([]string, 0, r.entries.Size())
	r.entries.Range(func(name string, _ *Entry) bool {
		names = append(names, name)
		return true
	})
	slices.Sort(names)
	return names
}

// Len returns the number of registered entries.
func (r *Registry) Len() int {
	return r.entries.Size()
}

// add registers the entry unless its name is taken. It reports whether the
// entry was added.
func (r *Registry) add(entry *Entry) bool {
	_, loaded := r.entries.LoadOrStore(entry.Name, entry)
	return !loaded
}

// getOrAdd returns the entry registered under entry.Name, registering entry
// if there is none.
func (r *Registry) getOrAdd(entry *Entry) *Entry {
	actual, _ := r.entries.LoadOrStore(entry.Name, entry)
	return actual
}
