//go:build windows

package aar

import "golang.org/x/sys/windows"

// availableDiskSpace returns the bytes available to the caller on the
// volume holding path.
func availableDiskSpace(path string) (uint64, error) {
	dir, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return 0, err
	}
	var free, total, totalFree uint64
	if err := windows.GetDiskFreeSpaceEx(dir, &free, &total, &totalFree); err != nil {
		return 0, err
	}
	return free, nil
}
