// Package util provides the path and tree primitives shared by the db engine
// and the directory loader.
//
// The package contains:
//   - namespace: path normalization (dot and slash notation are interchangeable),
//     path parsing, the structural Kind tag (collection or document) and the
//     MatchesType comparison gate used by queries
//   - tree: nested mapping helpers to resolve and set values by segments, deep
//     merge fragments (later keys win, arrays are replaced wholesale), deep copy
//     trees and compare values structurally
//
// All helpers operate on plain Go values (map[string]any, []any, strings, bools
// and numbers) as produced by the fragment parser or set by callers.
package util
