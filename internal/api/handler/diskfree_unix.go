//go:build linux || darwin || freebsd

package handler

import (
	"os"

	"golang.org/x/sys/unix"
)

// freeDiskSpace returns the bytes available to unprivileged users on the
// filesystem holding path, or 0 if it cannot be determined.
func freeDiskSpace(path string) int64 {
	stat, err := os.Stat(path)
	if err != nil || !stat.IsDir() {
		return 0
	}

	var fs unix.Statfs_t
	if err := unix.Statfs(path, &fs); err != nil {
		return 0
	}

	return int64(fs.Bavail) * int64(fs.Bsize)
}
