//go:build darwin

package loader

import (
	"golang.org/x/sys/unix"
	"os"
	"time"
)

// BirthTime returns the creation time of the file at path. On failure the
// modification time is used.
func BirthTime(path string, info os.FileInfo) time.Time {
	var st unix.Stat_t
	if err := unix.Lstat(path, &st); err != nil {
		return info.ModTime()
	}
	return time.Unix(st.Birthtimespec.Unix())
}
