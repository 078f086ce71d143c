package db

import (
	"github.com/ValentinKolb/slashdb/lib/db/util"
	"io"
	"slices"
)

// --------------------------------------------------------------------------
// Helper Types
// --------------------------------------------------------------------------

// Tree is the nested mapping backing a database.
type Tree = util.Tree

// Options configures a Db during initialization
type Options struct {
	Name     string         // Logical database name (optional)
	Filename string         // Fragment file backing the database (optional)
	Tree     Tree           // Initial tree, owned by the Db from now on (nil = empty)
	Output   io.WriteCloser // Output handle released by Close (optional)
}

// --------------------------------------------------------------------------
// Core Db structure
// --------------------------------------------------------------------------

// Db is the root namespace engine. It holds the nested tree and the
// registry of collection paths and enforces that a collection is never the
// direct parent of another collection.
//
// Thread-safety: Db is not thread-safe. Even read-like calls such as
// Collection or Doc register collections and materialize nodes, so callers
// sharing a Db between goroutines must serialize access.
type Db struct {
	name     string
	filename string
	tree     Tree
	output   io.WriteCloser

	// metadata
	collections []string            // registered collection paths in registration order
	registered  map[string]struct{} // index over collections
}

// New creates a new Db with the specified options (optional)
func New(opts *Options) *Db {
	if opts == nil {
		opts = &Options{}
	}

	tree := opts.Tree
	if tree == nil {
		tree = Tree{}
	}

	return &Db{
		name:       opts.Name,
		filename:   opts.Filename,
		tree:       tree,
		output:     opts.Output,
		registered: make(map[string]struct{}),
	}
}

// --------------------------------------------------------------------------
// Metadata
// --------------------------------------------------------------------------

// Name returns the logical name of the database.
func (d *Db) Name() string {
	return d.name
}

// Filename returns the fragment file backing the database.
func (d *Db) Filename() string {
	return d.filename
}

// Tree returns the live tree of the database.
func (d *Db) Tree() Tree {
	return d.tree
}

// Collections returns the registered collection paths in registration order.
func (d *Db) Collections() []string {
	return slices.Clone(d.collections)
}

// IsCollection checks whether the normalized path is a registered collection.
func (d *Db) IsCollection(path string) bool {
	_, ok := d.registered[util.Normalize(path)]
	return ok
}

// register adds a normalized path to the collection registry if absent.
func (d *Db) register(path string) {
	if _, ok := d.registered[path]; ok {
		return
	}
	d.registered[path] = struct{}{}
	d.collections = append(d.collections, path)
}

// --------------------------------------------------------------------------
// Namespace Validation
// --------------------------------------------------------------------------

// IsValidNamespace walks the path starting at collection level, registering
// every collection level it passes. See IsValidNamespaceFrom.
func (d *Db) IsValidNamespace(path string) bool {
	return d.IsValidNamespaceFrom(path, util.KindCollection)
}

// IsValidNamespaceFrom walks the segments of path left to right. The kind of
// each level is derived from its depth and the start kind. A collection level
// whose parent is a registered collection violates the namespace invariant:
// the walk stops and false is returned without creating any node. Collection
// levels visited before the violation stay registered.
//
// On success an empty mapping is materialized at the full path if absent.
// If a non-mapping value blocks the path nothing is materialized and false is
// returned. An empty path is never valid.
func (d *Db) IsValidNamespaceFrom(path string, start util.Kind) bool {
	segments := util.Segments(path)
	if len(segments) == 0 {
		return false
	}
	if !d.walk(segments, start, true) {
		return false
	}
	return util.EnsurePath(d.tree, segments)
}

// ValidateNamespace is the read-only counterpart of IsValidNamespace.
func (d *Db) ValidateNamespace(path string) bool {
	return d.ValidateNamespaceFrom(path, util.KindCollection)
}

// ValidateNamespaceFrom reports whether IsValidNamespaceFrom would accept the
// namespace walk, without registering collections or creating nodes.
func (d *Db) ValidateNamespaceFrom(path string, start util.Kind) bool {
	segments := util.Segments(path)
	if len(segments) == 0 {
		return false
	}
	return d.walk(segments, start, false)
}

// walk is shared by the read-only and the mutating validation so both derive
// the level kinds in the same way.
func (d *Db) walk(segments []string, start util.Kind, register bool) bool {
	for depth := range segments {
		if util.KindAt(depth, start) != util.KindCollection {
			continue
		}
		if depth > 0 {
			if _, parentIsCollection := d.registered[util.Join(segments[:depth]...)]; parentIsCollection {
				return false
			}
		}
		if register {
			d.register(util.Join(segments[:depth+1]...))
		}
	}
	return true
}

// --------------------------------------------------------------------------
// Node Access
// --------------------------------------------------------------------------

// Get returns the mapping at path, or nil if the path does not exist or
// does not hold a mapping. The empty path resolves to the root tree.
func (d *Db) Get(path string) Tree {
	v, ok := util.GetPath(d.tree, util.Parse(path).Segments)
	if !ok {
		return nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	return m
}

// Has checks whether a collection or document mapping exists at path.
func (d *Db) Has(path string) bool {
	return d.Get(path) != nil
}

// Set writes value at path, creating intermediate mappings. Typed slices and
// maps are converted to their generic form. It returns false for an empty path.
func (d *Db) Set(path string, value any) bool {
	return util.SetPath(d.tree, util.Segments(path), util.Canonical(value))
}

// Collection returns the collection at path, registering it if absent.
func (d *Db) Collection(path string) *Collection {
	return newCollection(d, util.Normalize(path))
}

// Doc returns the document at path. The path is validated with
// IsValidNamespace; the last segment is the document key and the rest the
// collection path. It returns nil for invalid namespaces and for paths whose
// last segment is not at document level (less than two or an odd number of
// segments).
func (d *Db) Doc(path string) *Doc {
	segments, ok := docSegments(path)
	if !ok || !d.IsValidNamespace(path) {
		return nil
	}
	collection := newCollection(d, util.Join(segments[:len(segments)-1]...))
	return newDoc(segments[len(segments)-1], collection)
}

// Lookup reads the document at path without registering collections or
// creating nodes. valid reports whether Doc would accept the path, found
// whether a value is stored under the document key.
func (d *Db) Lookup(path string) (value any, found bool, valid bool) {
	segments, ok := docSegments(path)
	if !ok || !d.ValidateNamespace(path) {
		return nil, false, false
	}
	parent, ok := util.GetPath(d.tree, segments[:len(segments)-1])
	if !ok {
		return nil, false, true
	}
	m, ok := parent.(map[string]any)
	if !ok {
		return nil, false, true
	}
	value, found = m[segments[len(segments)-1]]
	return value, found, true
}

// docSegments splits a document path. The last segment must sit at
// document level below a collection.
func docSegments(path string) ([]string, bool) {
	segments := util.Segments(path)
	if len(segments) < 2 || util.KindAt(len(segments)-1, util.KindCollection) != util.KindDocument {
		return nil, false
	}
	return segments, true
}

// --------------------------------------------------------------------------
// Lifecycle
// --------------------------------------------------------------------------

// Output returns the output handle of the database, nil if there is none.
func (d *Db) Output() io.Writer {
	if d.output == nil {
		return nil
	}
	return d.output
}

// Close releases the output handle. A database without output handle closes
// without error. Close is idempotent.
func (d *Db) Close() error {
	if d.output == nil {
		return nil
	}
	err := d.output.Close()
	d.output = nil
	return err
}
