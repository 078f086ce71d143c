package loader

import (
	"errors"
	"fmt"
	"github.com/ValentinKolb/slashdb/lib/db"
	"github.com/ValentinKolb/slashdb/lib/db/util"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Loader materializes databases from fragment directories and hands out
// connections to them.
//
// Thread-safety: Load must not run concurrently with itself. Connect, Close
// and the Registry are safe for concurrent use; the returned Db instances are not.
type Loader struct {
	cfg      Config
	fs       billy.Filesystem
	osBacked bool
	stamp    TimestampFunc
	newID    func() string
	registry *Registry

	mu        sync.Mutex
	connected []*db.Db
}

// New creates a loader for the given config. Without WithFilesystem the
// fragments are read from the OS directory cfg.Root.
func New(cfg Config, opts ...Option) *Loader {
	cfg = cfg.withDefaults()

	l := &Loader{
		cfg:      cfg,
		fs:       osfs.New(cfg.Root),
		osBacked: true,
		newID:    defaultIDGenerator,
		registry: newRegistry(),
	}
	for _, opt := range opts {
		opt(l)
	}

	if l.stamp == nil {
		l.stamp = ModTime
		if l.osBacked {
			l.stamp = func(path string, info os.FileInfo) time.Time {
				return BirthTime(filepath.Join(l.fs.Root(), path), info)
			}
		}
	}
	return l
}

// Config returns the effective configuration.
func (l *Loader) Config() Config {
	return l.cfg
}

// Registry returns the registry of loaded databases.
func (l *Loader) Registry() *Registry {
	return l.registry
}

// Load loads the given database directories, or every top-level directory of
// the root in lexical order if none are given. Directories are processed one
// after another; directories without fragments are skipped. The first error
// aborts loading, entries registered until then stay in the registry.
func (l *Loader) Load(dirs ...string) (*Registry, error) {
	if len(dirs) == 0 {
		var err error
		if dirs, err = l.listRoot(); err != nil {
			loadErrors.Inc()
			return l.registry, err
		}
	}

	for _, dir := range dirs {
		entry, err := l.LoadDirectory(dir)
		if err != nil {
			loadErrors.Inc()
			return l.registry, err
		}
		if entry == nil {
			continue
		}
		if !l.registry.add(entry) {
			loadErrors.Inc()
			return l.registry, &Error{
				Code: ErrCodeDuplicateName,
				Msg:  fmt.Sprintf("database %q is already loaded", entry.Name),
				File: dir,
				Name: entry.Name,
			}
		}
		databasesLoaded.Inc()
	}
	return l.registry, nil
}

// Connect returns a new Db for the named database. Unknown names get an empty
// entry whose fragment file is created on the first write. Every Db owns a
// copy of the entry tree; its output appends rows to the entry's fragment.
func (l *Loader) Connect(name string) *db.Db {
	entry, ok := l.registry.Get(name)
	if !ok {
		entry = l.registry.getOrAdd(&Entry{
			Name:     name,
			Tree:     db.Tree{},
			Filename: filepath.Join(name, l.newID()+"."+l.cfg.Extension),
		})
	}

	database := db.New(&db.Options{
		Name:     entry.Name,
		Filename: entry.Filename,
		Tree:     util.CopyTree(entry.Tree),
		Output:   newFragmentWriter(l.fs, entry.Filename),
	})

	l.mu.Lock()
	l.connected = append(l.connected, database)
	l.mu.Unlock()
	return database
}

// Close closes every database handed out by Connect. All databases are closed
// even if some fail; the errors are joined.
func (l *Loader) Close() error {
	l.mu.Lock()
	connected := l.connected
	l.connected = nil
	l.mu.Unlock()

	var errs []error
	for _, database := range connected {
		if err := database.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", database.Name(), err))
		}
	}
	return errors.Join(errs...)
}
