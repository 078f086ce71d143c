// Package loader materializes databases from directories of fragment files.
//
// Layout:
//
//	<root>/<database-name>/**/*.<ext>
//
// Every fragment contains one "<namespace>: <value>" row per line, where the
// namespace uses dot or slash notation and the value is JSON (or SEN, a
// relaxed JSON superset with unquoted strings, when Config.Relaxed is set).
// Rows of a fragment are applied in order. The fragments of a database are
// ordered by their creation time and deep merged, so values in newer
// fragments override older ones while sibling keys are kept.
//
// Loading is strictly sequential: all fragments of a directory are read and
// parsed before they are ordered and merged, and directories are processed
// one after another. Any I/O or parse error aborts the load.
//
// Example usage:
//
//	l := loader.New(loader.Config{Root: "data"})
//	if _, err := l.Load(); err != nil {
//		return err
//	}
//	defer l.Close()
//
//	users := l.Connect("app").Collection("users")
//	admins, err := users.Where("roles", db.OpIn, []any{"admin"}).Get()
//
// Connected databases own a deep copy of the loaded tree. Mutations are never
// written back automatically; rows written to Db.Output (see FormatRow) are
// appended to the entry's fragment file and picked up by the next load.
package loader
