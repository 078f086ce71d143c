// Package db provides the in-memory engine of slashdb, an embedded hierarchical
// document store. Data lives in one nested tree whose levels alternate between
// collections and documents, addressed by dot or slash delimited paths
// ("users.alice", "users/alice" and "/users/alice" are the same address).
//
// The package focuses on:
//   - A namespace engine (Db) that registers collection paths and enforces the
//     alternation invariant
//   - Lightweight addressing handles (Collection, Doc)
//   - A field predicate evaluator (Match) and query chains (Query)
//
// Key Components:
//
//   - Db: Holds the tree and the ordered registry of collection paths.
//     IsValidNamespace walks a path with a structural kind (collection or
//     document) derived from depth. A collection level whose parent is a
//     registered collection is rejected. ValidateNamespace performs the same
//     walk without side effects.
//
//   - Collection: A view over the sub-tree at its path. Creating a collection
//     handle registers its path. Snapshot returns the live sub-tree, not a copy.
//
//   - Doc: A view over one key of a collection. Get reports a missing document
//     with false, not with an error.
//
//   - Query: Created by Collection.Where and extended with And / Or. Each step
//     evaluates its predicate against the current documents of the collection
//     and combines the per-document result with the accumulated one.
//
// Operators: ==, !=, >, <, >=, <=, in, not. Ordering operators compare arrays
// and strings by length, not by content. Misusing in / not with a non-array
// compare value, or == / != with an array field and a scalar compare value,
// is a configuration error (errors.Is(err, ErrConfiguration)).
//
// Malformed addressing never fails loudly: invalid namespaces and multi
// segment keys yield nil or false.
//
// Note on Concurrency:
//   - A Db assumes a single logical writer and reader. Addressing calls register
//     collections and materialize nodes, so concurrent use must be serialized
//     by the caller.
//
// Related Packages:
//
// The loader package (github.com/ValentinKolb/slashdb/lib/loader) materializes
// databases from directories of fragment files and connects Db instances to
// them. The testing package (github.com/ValentinKolb/slashdb/lib/db/testing)
// provides a conformance suite that runs against any source of a Db.
package db
