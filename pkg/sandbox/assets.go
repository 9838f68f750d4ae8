package sandbox

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// AssetRepository opens assets from the application's assets directory
// and then from module and library asset directories, first match wins.
type AssetRepository struct {
	dirs []string
}

// NewAssetRepository searches assetsDir first, then dirs in order.
func NewAssetRepository(assetsDir string, dirs []string) *AssetRepository {
	all := make([]string, 0, len(dirs)+1)
	if assetsDir != "" {
		all = append(all, assetsDir)
	}
	for _, dir := range dirs {
		if dir != "" {
			all = append(all, dir)
		}
	}
	return &AssetRepository{dirs: all}
}

// Dirs returns the search order.
func (r *AssetRepository) Dirs() []string {
	return r.dirs
}

// OpenAsset opens an asset by its slash-separated path inside an assets
// directory. Paths that leave the directory are rejected.
func (r *AssetRepository) OpenAsset(name string) (io.ReadCloser, error) {
	clean := path.Clean(strings.TrimPrefix(filepath.ToSlash(name), "/"))
	if !fs.ValidPath(clean) || clean == "." {
		return nil, &fs.PathError{Op: "open asset", Path: name, Err: fs.ErrInvalid}
	}
	for _, dir := range r.dirs {
		if f, err := openRegular(filepath.Join(dir, filepath.FromSlash(clean))); err == nil {
			return f, nil
		}
	}
	return nil, &fs.PathError{Op: "open asset", Path: name, Err: fs.ErrNotExist}
}

// OpenNonAsset opens a file by its own path, as the engine does for files
// outside the assets directories.
func (r *AssetRepository) OpenNonAsset(path string) (io.ReadCloser, error) {
	f, err := openRegular(path)
	if err != nil {
		return nil, &fs.PathError{Op: "open non-asset", Path: path, Err: fs.ErrNotExist}
	}
	return f, nil
}

func openRegular(path string) (*os.File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%s is not a regular file", path)
	}
	return os.Open(path)
}
