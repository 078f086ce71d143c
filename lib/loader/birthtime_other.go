//go:build !linux && !darwin

package loader

import (
	"os"
	"time"
)

// BirthTime returns the modification time, creation times are not available
// on this platform.
func BirthTime(_ string, info os.FileInfo) time.Time {
	return info.ModTime()
}
