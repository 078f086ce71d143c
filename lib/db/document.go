package db

import (
	"github.com/ValentinKolb/slashdb/lib/db/util"
)

// Doc is an addressable view over a single document of a collection.
type Doc struct {
	key    string
	parent *Collection
}

func newDoc(key string, parent *Collection) *Doc {
	return &Doc{key: key, parent: parent}
}

// Key returns the document key within its collection.
func (d *Doc) Key() string {
	return d.key
}

// Path returns the full document path in slash form.
func (d *Doc) Path() string {
	if d.parent.path == "" {
		return d.key
	}
	return util.Join(d.parent.path, d.key)
}

// Parent returns the collection holding the document.
func (d *Doc) Parent() *Collection {
	return d.parent
}

// Get returns the document value from the current collection snapshot.
// A missing document is reported with false and is not an error.
func (d *Doc) Get() (any, bool) {
	v, ok := d.parent.Snapshot()[d.key]
	return v, ok
}

// Set replaces the document value.
func (d *Doc) Set(value any) bool {
	return d.parent.db.Set(d.Path(), value)
}

// Collection returns the sub collection with the given key below this
// document. The key must be a single segment, nil is returned otherwise.
func (d *Doc) Collection(key string) *Collection {
	segments := util.Segments(key)
	if len(segments) != 1 {
		return nil
	}
	return newCollection(d.parent.db, util.Join(d.Path(), segments[0]))
}
