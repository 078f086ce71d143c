// Package common provides the configuration and logging shared by the
// slashdb server and command line interface.
//
// Key Components:
//
//   - ServerConfig: Configuration of the query server (fragment root, watcher,
//     HTTP endpoint, logging) with a human readable String dump.
//
//   - Logger: Custom logging implementation that plugs into Dragonboat's
//     logger factory and prints "LEVEL | package | message" lines.
package common
