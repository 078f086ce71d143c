package db

import (
	"github.com/ValentinKolb/slashdb/lib/db/util"
	"slices"
)

// Collection is an addressable view over the sub-tree at its path.
// It has no storage of its own, its existence is recorded in the
// collection registry of the database.
type Collection struct {
	path string
	db   *Db
}

// newCollection creates a collection handle for a normalized path and
// registers the path if absent.
func newCollection(db *Db, path string) *Collection {
	if path != "" {
		db.register(path)
	}
	return &Collection{path: path, db: db}
}

// Path returns the collection path in slash form.
func (c *Collection) Path() string {
	return c.path
}

// Namespace returns the collection path in dotted form.
func (c *Collection) Namespace() string {
	return util.Parse(c.path).Namespace
}

// Db returns the database of the collection.
func (c *Collection) Db() *Db {
	return c.db
}

// Snapshot returns the live sub-tree at the collection path. Changes to the
// backing tree are visible through a snapshot taken earlier. If nothing (or
// no mapping) exists at the path, a new empty mapping is returned.
func (c *Collection) Snapshot() Tree {
	if m := c.db.Get(c.path); m != nil {
		return m
	}
	return Tree{}
}

// Keys returns the sorted document keys of the current snapshot.
func (c *Collection) Keys() []string {
	snapshot := c.Snapshot()
	keys := make([]string, 0, len(snapshot))
	for k := range snapshot {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Doc returns the document with the given key. The key must be a single
// segment, nil is returned otherwise.
func (c *Collection) Doc(key string) *Doc {
	segments := util.Segments(key)
	if len(segments) != 1 {
		return nil
	}
	return newDoc(segments[0], c)
}

// Where starts a query chain with one predicate.
func (c *Collection) Where(key string, op Operator, value any) *Query {
	return newQuery(c).step(key, op, value, joinAnd)
}
