package aar

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/provide-io/playground/go/sandbox/internal/workenv"
	"github.com/provide-io/playground/go/sandbox/pkg/aar/operations"
)

const (
	metadataSuffix = ".meta"
	tmpDir         = "tmp"
	extractDir     = "extract"
	lockFile       = "lock"
)

// ExtractionPaths names the directories used while extracting one archive.
//
//	<cache>/libraries/<name>-<sum>/          extracted content
//	<cache>/libraries/.<name>-<sum>.meta/    lock and per-PID scratch dirs
type ExtractionPaths struct {
	cacheRoot string
	name      string
	checksum  string
}

// NewExtractionPaths derives the paths for archive from its file name and
// content checksum.
func NewExtractionPaths(cacheRoot, archive, checksum string) *ExtractionPaths {
	return &ExtractionPaths{
		cacheRoot: cacheRoot,
		name:      operations.TrimArchiveSuffix(archive),
		checksum:  checksum,
	}
}

// Name returns the library name taken from the archive file name.
func (p *ExtractionPaths) Name() string {
	return p.name
}

// Content returns the directory the archive is extracted to.
func (p *ExtractionPaths) Content() string {
	return workenv.LibraryPath(p.cacheRoot, p.name, p.checksum)
}

// Metadata returns the hidden directory next to Content.
func (p *ExtractionPaths) Metadata() string {
	content := p.Content()
	return filepath.Join(filepath.Dir(content), "."+filepath.Base(content)+metadataSuffix)
}

// Tmp returns the root of the per-process scratch directories.
func (p *ExtractionPaths) Tmp() string {
	return filepath.Join(p.Metadata(), tmpDir)
}

// TempExtraction returns the scratch directory of one process.
func (p *ExtractionPaths) TempExtraction(pid int) string {
	return filepath.Join(p.Tmp(), strconv.Itoa(pid))
}

// Extract returns the directory holding the lock file.
func (p *ExtractionPaths) Extract() string {
	return filepath.Join(p.Metadata(), extractDir)
}

// LockFile returns the lock file path
func (p *ExtractionPaths) LockFile() string {
	return filepath.Join(p.Extract(), lockFile)
}

// ContentExists checks if the content directory exists
func (p *ExtractionPaths) ContentExists() bool {
	_, err := os.Stat(p.Content())
	return err == nil
}

// ListTempExtractions returns all temp extraction directories
func (p *ExtractionPaths) ListTempExtractions() ([]string, error) {
	entries, err := os.ReadDir(p.Tmp())
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var dirs []string
	for _, entry := range entries {
		if entry.IsDir() {
			dirs = append(dirs, filepath.Join(p.Tmp(), entry.Name()))
		}
	}
	return dirs, nil
}
