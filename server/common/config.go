package common

import (
	"fmt"
	"strings"
)

// --------------------------------------------------------------------------
// Server configuration struct
// --------------------------------------------------------------------------

// ServerConfig holds all configuration parameters of the query server.
type ServerConfig struct {
	// Fragment loading
	Root      string
	Extension string
	Relaxed   bool

	// Reload the databases when fragment files change
	Watch           bool
	WatchDebounceMs int64

	// HTTP api settings
	Endpoint string

	// Logging configuration
	LogLevel string
}

// String returns a formatted string representation of the configuration
func (c *ServerConfig) String() string {
	var sb strings.Builder

	// Create helper functions for consistent formatting
	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	// HTTP settings
	addSection("HTTP Server")
	addField("Endpoint", c.Endpoint)

	// Storage
	addSection("Fragments")
	addField("Root Directory", c.Root)
	addField("Extension", c.Extension)
	addField("Relaxed Values", fmt.Sprintf("%t", c.Relaxed))

	// Watcher
	addSection("Watcher")
	addField("Enabled", fmt.Sprintf("%t", c.Watch))
	if c.Watch {
		addField("Debounce", fmt.Sprintf("%d ms", c.WatchDebounceMs))
	}

	// Logging configuration
	addSection("Logging")
	addField("Log Level", c.LogLevel)

	return sb.String()
}
