//go:build !unix && !windows

package aar

import "errors"

func availableDiskSpace(string) (uint64, error) {
	return 0, errors.ErrUnsupported
}
