//go:build !linux && !darwin && !freebsd && !windows

package handler

func freeDiskSpace(path string) int64 {
	return 0
}
