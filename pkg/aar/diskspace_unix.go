//go:build unix

package aar

import "golang.org/x/sys/unix"

// availableDiskSpace returns the bytes available to the caller on the
// filesystem holding path.
func availableDiskSpace(path string) (uint64, error) {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return 0, err
	}
	return uint64(stat.Bavail) * uint64(stat.Bsize), nil
}
