package loader

import (
	"errors"
	"github.com/go-git/go-billy/v5"
	"os"
	"path/filepath"
)

// fragmentWriter appends to a fragment file. The file (and its directory) is
// only created on the first write, so connecting to a database never touches
// the filesystem.
type fragmentWriter struct {
	fs       billy.Filesystem
	filename string
	file     billy.File
}

func newFragmentWriter(fs billy.Filesystem, filename string) *fragmentWriter {
	return &fragmentWriter{fs: fs, filename: filename}
}

// Write implements io.Writer.
func (w *fragmentWriter) Write(p []byte) (int, error) {
	if w.file == nil {
		if err := w.open(); err != nil {
			return 0, err
		}
	}
	return w.file.Write(p)
}

// open opens the fragment for appending. An existing fragment whose last row
// is not terminated gets a newline first, so appended rows start on a line of
// their own.
func (w *fragmentWriter) open() error {
	if err := w.fs.MkdirAll(filepath.Dir(w.filename), 0o755); err != nil {
		return ioError(w.filename, err)
	}
	unterminated, err := w.unterminated()
	if err != nil {
		return err
	}

	f, err := w.fs.OpenFile(w.filename, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return ioError(w.filename, err)
	}
	if unterminated {
		if _, err := f.Write([]byte("\n")); err != nil {
			_ = f.Close()
			return ioError(w.filename, err)
		}
	}
	w.file = f
	return nil
}

// unterminated reports whether the fragment exists, is not empty and does not
// end with a newline.
func (w *fragmentWriter) unterminated() (bool, error) {
	info, err := w.fs.Stat(w.filename)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, ioError(w.filename, err)
	}
	if info.Size() == 0 {
		return false, nil
	}

	f, err := w.fs.Open(w.filename)
	if err != nil {
		return false, ioError(w.filename, err)
	}
	defer f.Close()

	last := make([]byte, 1)
	if _, err := f.ReadAt(last, info.Size()-1); err != nil {
		return false, ioError(w.filename, err)
	}
	return last[0] != '\n', nil
}

// Close implements io.Closer. Closing a writer that never wrote is a no-op.
func (w *fragmentWriter) Close() error {
	if w.file == nil {
		return nil
	}
	err := w.file.Close()
	w.file = nil
	return err
}
