package bundle

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	sberrors "github.com/provide-io/playground/go/sandbox/pkg/errors"
)

// entryPath resolves an archive entry name below destDir. Absolute names and
// names that climb out of destDir are rejected.
func entryPath(destDir, name string) (string, string, error) {
	name = strings.ReplaceAll(name, "\\", "/")
	clean := path.Clean("/" + name)[1:]
	if clean == "" {
		return "", "", nil
	}
	if path.IsAbs(name) || strings.HasPrefix(name, "../") || strings.Contains(name, "/../") || strings.HasSuffix(name, "/..") || name == ".." {
		return "", "", fmt.Errorf("%w: %s", sberrors.ErrUnsafeArchivePath, name)
	}
	return clean, filepath.Join(destDir, filepath.FromSlash(clean)), nil
}
