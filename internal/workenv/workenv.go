// Package workenv locates the sandbox cache and the directories extracted
// library archives live in.
package workenv

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// CacheDirEnv overrides the cache root.
const CacheDirEnv = "SANDBOX_CACHE_DIR"

// LibraryPath returns the directory an archive with the given name and
// content checksum is extracted to.
func LibraryPath(cacheRoot, name, checksum string) string {
	var identifier string
	if checksum != "" {
		if len(checksum) >= 8 {
			identifier = checksum[:8]
		} else {
			identifier = checksum
		}
	} else {
		h := sha256.Sum256([]byte(name))
		identifier = hex.EncodeToString(h[:])[:8]
	}

	return filepath.Join(cacheRoot, "libraries", name+"-"+identifier)
}

// GetCacheRoot returns the root cache directory
func GetCacheRoot() string {
	if cacheDir := os.Getenv(CacheDirEnv); cacheDir != "" {
		return cacheDir
	}

	switch runtime.GOOS {
	case "darwin":
		if home := os.Getenv("HOME"); home != "" {
			return filepath.Join(home, "Library", "Caches", "android-sandbox")
		}
	case "linux":
		if xdgCache := os.Getenv("XDG_CACHE_HOME"); xdgCache != "" {
			return filepath.Join(xdgCache, "android-sandbox")
		}
		if home := os.Getenv("HOME"); home != "" {
			return filepath.Join(home, ".cache", "android-sandbox")
		}
	case "windows":
		if localAppData := os.Getenv("LOCALAPPDATA"); localAppData != "" {
			return filepath.Join(localAppData, "android-sandbox", "cache")
		}
	}

	return filepath.Join(os.TempDir(), "android-sandbox", "cache")
}

// CreateWorkenv creates path and the listed subdirectories.
func CreateWorkenv(path string, dirs []DirectorySpec) error {
	if err := os.MkdirAll(path, 0o700); err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	for _, dir := range dirs {
		dirPath := filepath.Join(path, dir.Path)
		mode := dir.Mode
		if mode == 0 {
			mode = 0o700
		}

		if err := os.MkdirAll(dirPath, os.FileMode(mode)); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir.Path, err)
		}
	}

	return nil
}

// DirectorySpec specifies a directory to create
type DirectorySpec struct {
	Path string
	Mode uint32
}
