// Package aar finds Android libraries on disk and unpacks library archives
// into the sandbox cache so they can be loaded like plain directories.
package aar

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/provide-io/playground/go/sandbox/internal/workenv"
	"github.com/provide-io/playground/go/sandbox/pkg/aar/operations"
	_ "github.com/provide-io/playground/go/sandbox/pkg/aar/operations/bundle"
	_ "github.com/provide-io/playground/go/sandbox/pkg/aar/operations/compress"
	"github.com/provide-io/playground/go/sandbox/pkg/android"
	sberrors "github.com/provide-io/playground/go/sandbox/pkg/errors"
	"github.com/provide-io/playground/go/sandbox/pkg/logging"
)

// DefaultWaitTimeout bounds how long Extract waits for another process that
// holds the lock.
const DefaultWaitTimeout = 60 * time.Second

// DiskSpaceMultiplier is how many times the archive size must be free
// before extracting.
const DiskSpaceMultiplier = 2

// FnPublicTxt lists the public resources of a library.
const FnPublicTxt = "public.txt"

// Extractor unpacks library archives below a cache root.
type Extractor struct {
	cacheRoot string
	timeout   time.Duration
	logger    hclog.Logger
}

// NewExtractor returns an extractor rooted at cacheRoot; an empty root uses
// workenv.GetCacheRoot.
func NewExtractor(cacheRoot string, logger hclog.Logger) *Extractor {
	if cacheRoot == "" {
		cacheRoot = workenv.GetCacheRoot()
	}
	return &Extractor{cacheRoot: cacheRoot, timeout: DefaultWaitTimeout, logger: logging.OrDiscard(logger)}
}

// WithTimeout sets how long to wait for a concurrent extraction.
func (e *Extractor) WithTimeout(d time.Duration) *Extractor {
	e.timeout = d
	return e
}

// CacheRoot returns the cache root archives are extracted below.
func (e *Extractor) CacheRoot() string {
	return e.cacheRoot
}

// Extract unpacks archive and returns the content directory. A previous
// complete extraction of the same bytes is reused.
func (e *Extractor) Extract(archive string) (string, error) {
	ops, err := operations.ChainForFile(archive)
	if err != nil {
		return "", err
	}
	chain := operations.OperationsToString(ops)

	checksum, err := fileChecksum(archive)
	if err != nil {
		return "", err
	}
	paths := NewExtractionPaths(e.cacheRoot, archive, checksum)
	content := paths.Content()
	logger := e.logger.With("library", paths.Name(), "chain", chain)

	if workenv.IsValid(content, paths.Name(), chain, checksum) {
		logger.Trace("♻️ Reusing extracted library", "path", content)
		return content, nil
	}

	acquired, err := TryAcquireLock(paths, logger)
	if err != nil {
		return "", err
	}
	if !acquired {
		if err := WaitForExtraction(paths, e.timeout, logger); err != nil {
			return "", err
		}
		if workenv.IsValid(content, paths.Name(), chain, checksum) {
			return content, nil
		}
		return "", fmt.Errorf("extraction of %s by another process did not complete", paths.Name())
	}
	defer ReleaseLock(paths, logger)

	if err := CleanupStaleExtractions(paths, logger); err != nil {
		logger.Debug("⚠️ Failed to list stale extractions", "error", err)
	}

	n, err := e.unpack(archive, ops, paths)
	if err != nil {
		return "", err
	}

	marker := workenv.ValidationMarker{Name: paths.Name(), Chain: chain, Checksum: checksum, Files: n}
	if err := workenv.MarkComplete(content, marker); err != nil {
		return "", fmt.Errorf("marking %s complete: %w", paths.Name(), err)
	}
	logger.Debug("📦 Extracted library", "files", n, "path", content)
	return content, nil
}

func (e *Extractor) unpack(archive string, ops []uint8, paths *ExtractionPaths) (int, error) {
	if err := workenv.CreateWorkenv(paths.Metadata(), []workenv.DirectorySpec{{Path: tmpDir}, {Path: extractDir}}); err != nil {
		return 0, err
	}
	if err := e.checkDiskSpace(archive, paths.Metadata()); err != nil {
		return 0, err
	}
	tmp := paths.TempExtraction(os.Getpid())
	if err := os.RemoveAll(tmp); err != nil {
		return 0, err
	}
	if err := workenv.CreateWorkenv(tmp, nil); err != nil {
		return 0, err
	}

	f, err := os.Open(archive)
	if err != nil {
		return 0, err
	}
	n, err := operations.ReverseChain(f, ops, tmp, LibraryFilter)
	f.Close()
	if err != nil {
		workenv.MarkIncomplete(tmp, err.Error())
		return 0, fmt.Errorf("extracting %s: %w", archive, err)
	}

	content := paths.Content()
	if err := os.RemoveAll(content); err != nil {
		return 0, err
	}
	if err := os.Rename(tmp, content); err != nil {
		return 0, fmt.Errorf("moving extraction into place: %w", err)
	}
	return n, nil
}

// checkDiskSpace fails when the cache cannot hold the archive
// DiskSpaceMultiplier times over. A filesystem that cannot be queried is
// not an error.
func (e *Extractor) checkDiskSpace(archive, dir string) error {
	info, err := os.Stat(archive)
	if err != nil {
		return err
	}
	needed := uint64(info.Size()) * DiskSpaceMultiplier

	available, err := availableDiskSpace(dir)
	if err != nil {
		e.logger.Warn("⚠️ Could not check disk space", "path", dir, "error", err)
		return nil
	}
	e.logger.Trace("💾 Disk space check", "needed", needed, "available", available)
	if available < needed {
		return fmt.Errorf("%w: %s needs %d bytes, %d available", sberrors.ErrInsufficientDiskSpace, filepath.Base(archive), needed, available)
	}
	return nil
}

// LibraryFilter keeps the parts of a library archive the sandbox reads: the
// manifest, symbol files, res/ and assets/. Entries below one top-level
// directory are matched the same way.
func LibraryFilter(name string) bool {
	if keepEntry(name) {
		return true
	}
	if i := strings.IndexByte(name, '/'); i >= 0 {
		return keepEntry(name[i+1:])
	}
	return false
}

func keepEntry(name string) bool {
	switch name {
	case android.FnAndroidManifest, android.FnRTxt, FnPublicTxt, android.FdRes, android.FdAssets:
		return true
	}
	return strings.HasPrefix(name, android.FdRes+"/") || strings.HasPrefix(name, android.FdAssets+"/")
}

func fileChecksum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hashing %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
