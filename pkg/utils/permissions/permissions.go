// Package permissions decides the modes of files and directories the
// sandbox writes into its cache.
package permissions

import "os"

// Cache entries are private to the owner.
const (
	DefaultFilePerms       os.FileMode = 0o600
	DefaultExecutablePerms os.FileMode = 0o700
	DefaultDirPerms        os.FileMode = 0o700
)

// ForEntry maps the mode recorded in an archive entry onto the mode an
// extracted file gets. Only the owner execute bit survives.
func ForEntry(mode int64) os.FileMode {
	if mode&0o100 != 0 {
		return DefaultExecutablePerms
	}
	return DefaultFilePerms
}
