package loader

import (
	"github.com/go-git/go-billy/v5"
	"github.com/google/uuid"
	"os"
	"time"
)

// DefaultExtension is the file extension of fragment files.
const DefaultExtension = "sla"

// Config holds the loader settings.
type Config struct {
	Root      string // Directory containing one sub directory per database
	Extension string // Fragment file extension without dot (default "sla")
	Relaxed   bool   // Parse values as SEN (unquoted strings, optional commas) instead of strict JSON
}

// withDefaults returns a copy of the config with empty fields set to their defaults.
func (c Config) withDefaults() Config {
	if c.Extension == "" {
		c.Extension = DefaultExtension
	}
	if c.Root == "" {
		c.Root = "."
	}
	return c
}

// TimestampFunc returns the creation time used to order a fragment.
// path is relative to the loader filesystem.
type TimestampFunc func(path string, info os.FileInfo) time.Time

// ModTime orders fragments by modification time.
func ModTime(_ string, info os.FileInfo) time.Time {
	return info.ModTime()
}

// Option configures a Loader.
type Option func(*Loader)

// WithFilesystem loads fragments from fs instead of the OS directory Config.Root.
func WithFilesystem(fs billy.Filesystem) Option {
	return func(l *Loader) {
		l.fs = fs
		l.osBacked = false
	}
}

// WithTimestamp overrides how fragment creation times are determined.
func WithTimestamp(stamp TimestampFunc) Option {
	return func(l *Loader) {
		l.stamp = stamp
	}
}

// WithIDGenerator overrides the generator of ids for new fragment files.
func WithIDGenerator(newID func() string) Option {
	return func(l *Loader) {
		l.newID = newID
	}
}

func defaultIDGenerator() string {
	return uuid.NewString()
}
