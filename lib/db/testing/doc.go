// Package testing provides a standardised test suite and benchmarks for
// db.Db instances, independent of where their tree comes from.
//
// The package contains:
//   - testing: A conformance suite for namespace validation, addressing, live
//     snapshots and query chains
//   - benchmark: Performance tests for common addressing and query operations
//
// A factory receives a seed tree and must return a Db whose tree contains that
// seed. This allows running the same suite against a plain db.New and against
// databases materialized from fragment files by the loader.
//
// Example usage:
//
//	factory := func(t testing.TB, seed db.Tree) *db.Db {
//		return db.New(&db.Options{Tree: seed})
//	}
//
//	dbtesting.RunDBTests(t, "Db", factory)
//	dbtesting.RunDBBenchmarks(b, "Db", factory)
package testing
