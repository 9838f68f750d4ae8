package aar

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/provide-io/playground/go/sandbox/pkg/aar/operations"
	"github.com/provide-io/playground/go/sandbox/pkg/android"
	sberrors "github.com/provide-io/playground/go/sandbox/pkg/errors"
	"github.com/provide-io/playground/go/sandbox/pkg/logging"
	"github.com/provide-io/playground/go/sandbox/pkg/parsers"
)

const tagManifest = "manifest"

// Library is an unpacked Android library. Optional parts that are absent
// have empty paths.
type Library struct {
	Name        string
	PackageName string
	Dir         string
	Archive     string

	ResDir     string
	AssetsDir  string
	SymbolFile string
}

func (l *Library) String() string {
	if l.Archive != "" {
		return fmt.Sprintf("%s (%s, from %s)", l.Name, l.PackageName, filepath.Base(l.Archive))
	}
	return fmt.Sprintf("%s (%s)", l.Name, l.PackageName)
}

// OpenLibrary reads the library rooted at dir. A directory without a
// manifest whose only child directory has one is opened at that child.
func OpenLibrary(dir string) (*Library, error) {
	root, err := libraryRoot(dir)
	if err != nil {
		return nil, err
	}

	pkg, err := ReadPackageName(filepath.Join(root, android.FnAndroidManifest))
	if err != nil {
		return nil, err
	}

	lib := &Library{
		Name:        filepath.Base(dir),
		PackageName: pkg,
		Dir:         root,
	}
	if isDir(filepath.Join(root, android.FdRes)) {
		lib.ResDir = filepath.Join(root, android.FdRes)
	}
	if isDir(filepath.Join(root, android.FdAssets)) {
		lib.AssetsDir = filepath.Join(root, android.FdAssets)
	}
	if isFile(filepath.Join(root, android.FnRTxt)) {
		lib.SymbolFile = filepath.Join(root, android.FnRTxt)
	}
	return lib, nil
}

func libraryRoot(dir string) (string, error) {
	if isFile(filepath.Join(dir, android.FnAndroidManifest)) {
		return dir, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}
	var subdirs []string
	for _, entry := range entries {
		if entry.IsDir() && !strings.HasPrefix(entry.Name(), ".") {
			subdirs = append(subdirs, entry.Name())
		}
	}
	if len(subdirs) == 1 {
		nested := filepath.Join(dir, subdirs[0])
		if isFile(filepath.Join(nested, android.FnAndroidManifest)) {
			return nested, nil
		}
	}
	return "", fmt.Errorf("%w: %s", sberrors.ErrManifestMissing, dir)
}

// ReadPackageName returns the package attribute of a manifest.
func ReadPackageName(manifest string) (string, error) {
	f, err := os.Open(manifest)
	if err != nil {
		return "", err
	}
	defer f.Close()

	doc, err := parsers.Parse(f, parsers.WithPath(manifest))
	if err != nil {
		return "", err
	}
	root := doc.Root()
	if root.Name() != tagManifest {
		return "", &sberrors.ParseError{Path: manifest, Err: fmt.Errorf("%w: root is <%s>", sberrors.ErrMalformedDocument, root.Name())}
	}
	pkg, _ := root.AttributeValue("", "package")
	return pkg, nil
}

// Discover opens every library below dir in name order. Subdirectories are
// opened in place and archives are extracted with ex first. Without an
// extractor, archives are skipped.
func Discover(dir string, ex *Extractor, logger hclog.Logger) ([]*Library, error) {
	logger = logging.OrDiscard(logger)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &sberrors.ConstructionError{Op: "discover libraries", Path: dir, Err: err}
	}

	var libs []*Library
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		path := filepath.Join(dir, name)

		if entry.IsDir() {
			lib, err := OpenLibrary(path)
			if err != nil {
				return nil, &sberrors.ConstructionError{Op: "open library", Path: path, Err: err}
			}
			logger.Debug("📚 Found library", "library", lib.Name, "package", lib.PackageName)
			libs = append(libs, lib)
			continue
		}

		if _, err := operations.ChainForFile(name); err != nil {
			logger.Trace("Skipping non-library file", "path", path)
			continue
		}
		if ex == nil {
			logger.Warn("⚠️ Library archive skipped, no extractor configured", "path", path)
			continue
		}
		content, err := ex.Extract(path)
		if err != nil {
			return nil, &sberrors.ConstructionError{Op: "extract library", Path: path, Err: err}
		}
		lib, err := OpenLibrary(content)
		if err != nil {
			return nil, &sberrors.ConstructionError{Op: "open library", Path: path, Err: err}
		}
		lib.Name = operations.TrimArchiveSuffix(name)
		lib.Archive = path
		logger.Debug("📚 Found library archive", "library", lib.Name, "package", lib.PackageName)
		libs = append(libs, lib)
	}
	return libs, nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
