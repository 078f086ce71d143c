// Package cmd implements the command-line interface of slashdb. It provides
// commands to load, inspect and query databases materialized from fragment
// directories, and to serve them over HTTP.
//
// The package is organized into several subpackages:
//
//   - db: Commands operating on loaded databases (load, get, doc, query, append)
//   - serve: Command for starting and configuring the query server
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// All flags can also be set as SLASHDB_<FLAG> environment variables or in
// .env / .env.local files. See slashdb -help for a list of all commands.
package cmd
