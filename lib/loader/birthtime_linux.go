//go:build linux

package loader

import (
	"golang.org/x/sys/unix"
	"os"
	"time"
)

// BirthTime returns the creation time of the file at path via statx. Kernels
// or filesystems without birth time support fall back to the modification time.
func BirthTime(path string, info os.FileInfo) time.Time {
	var stx unix.Statx_t
	err := unix.Statx(unix.AT_FDCWD, path, unix.AT_SYMLINK_NOFOLLOW, unix.STATX_BTIME, &stx)
	if err != nil || stx.Mask&unix.STATX_BTIME == 0 {
		return info.ModTime()
	}
	return time.Unix(stx.Btime.Sec, int64(stx.Btime.Nsec))
}
