package loader

import (
	"github.com/ValentinKolb/slashdb/lib/db"
	"github.com/ValentinKolb/slashdb/lib/db/util"
	billyutil "github.com/go-git/go-billy/v5/util"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Fragment is one parsed fragment file.
type Fragment struct {
	Path    string    // Path relative to the loader filesystem
	Created time.Time // Creation time, the merge order key
	Tree    db.Tree   // Parsed rows
}

// --------------------------------------------------------------------------
// Discovery
// --------------------------------------------------------------------------

// discover returns all fragment files below dir in lexical walk order.
func (l *Loader) discover(dir string) ([]string, error) {
	var paths []string
	err := billyutil.Walk(l.fs, dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return ioError(path, err)
		}
		if info.IsDir() {
			return nil
		}
		if strings.TrimPrefix(filepath.Ext(path), ".") == l.cfg.Extension {
			paths = append(paths, path)
		}
		return nil
	})
	return paths, err
}

// listRoot returns the names of all top-level directories in lexical order.
func (l *Loader) listRoot() ([]string, error) {
	infos, err := l.fs.ReadDir(".")
	if err != nil {
		return nil, ioError(l.cfg.Root, err)
	}
	var dirs []string
	for _, info := range infos {
		if info.IsDir() {
			dirs = append(dirs, info.Name())
		}
	}
	sort.Strings(dirs)
	return dirs, nil
}

// --------------------------------------------------------------------------
// Loading
// --------------------------------------------------------------------------

// LoadFiles stamps, reads and parses every file. The result is in input order.
func (l *Loader) LoadFiles(paths []string) ([]Fragment, error) {
	fragments := make([]Fragment, 0, len(paths))
	for _, path := range paths {
		info, err := l.fs.Stat(path)
		if err != nil {
			return nil, ioError(path, err)
		}
		content, err := billyutil.ReadFile(l.fs, path)
		if err != nil {
			return nil, ioError(path, err)
		}
		tree, err := l.ParseFile(path, content)
		if err != nil {
			return nil, err
		}

		fragments = append(fragments, Fragment{
			Path:    path,
			Created: l.stamp(path, info),
			Tree:    tree,
		})
		fragmentsLoaded.Inc()
	}
	return fragments, nil
}

// LoadDirectory loads all fragments below dir, orders them by creation time
// (ties keep discovery order) and deep merges them, most recent last. A
// directory without fragments yields a nil entry.
func (l *Loader) LoadDirectory(dir string) (*Entry, error) {
	start := time.Now()
	defer directoryDuration.UpdateDuration(start)

	paths, err := l.discover(dir)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, nil
	}

	fragments, err := l.LoadFiles(paths)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(fragments, func(i, j int) bool {
		return fragments[i].Created.Before(fragments[j].Created)
	})

	tree := db.Tree{}
	for _, fragment := range fragments {
		util.DeepMerge(tree, fragment.Tree)
	}

	return &Entry{
		Name:     filepath.Base(dir),
		Tree:     tree,
		Filename: fragments[len(fragments)-1].Path,
	}, nil
}
