package bundle

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/provide-io/playground/go/sandbox/pkg/aar/operations"
	"github.com/provide-io/playground/go/sandbox/pkg/utils/permissions"
)

func init() {
	operations.Register(NewTarOperation())
}

// TarOperation implements TAR archive operations
type TarOperation struct {
	operations.BaseOperation
}

// NewTarOperation creates a new TAR operation
func NewTarOperation() *TarOperation {
	return &TarOperation{
		BaseOperation: operations.BaseOperation{
			OpID:   operations.OpTar,
			OpName: "TAR",
		},
	}
}

// Pack writes every regular file below srcDir as a tar stream.
func (o *TarOperation) Pack(srcDir string, w io.Writer) error {
	tw := tar.NewWriter(w)
	err := filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(srcDir, path)
		if err != nil || rel == "." {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if !info.Mode().IsRegular() && !info.IsDir() {
			return nil
		}
		header, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		header.Name = filepath.ToSlash(rel)
		if info.IsDir() {
			header.Name += "/"
		}
		if err := tw.WriteHeader(header); err != nil {
			return fmt.Errorf("writing tar header: %w", err)
		}
		if info.IsDir() {
			return nil
		}
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		if _, err := io.Copy(tw, f); err != nil {
			return fmt.Errorf("writing tar data: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	return tw.Close()
}

// Extract writes the regular files of a tar stream below destDir. Links and
// device entries are skipped.
func (o *TarOperation) Extract(r io.Reader, destDir string, filter operations.Filter) (int, error) {
	tr := tar.NewReader(r)
	count := 0
	for {
		header, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return count, nil
		}
		if err != nil {
			return count, fmt.Errorf("reading tar header: %w", err)
		}

		name, target, err := entryPath(destDir, header.Name)
		if err != nil {
			return count, err
		}
		if name == "" || (filter != nil && !filter(name)) {
			continue
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, permissions.DefaultDirPerms); err != nil {
				return count, err
			}
		case tar.TypeReg:
			if err := writeFile(target, tr, permissions.ForEntry(header.Mode)); err != nil {
				return count, err
			}
			count++
		}
	}
}

func writeFile(target string, r io.Reader, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(target), permissions.DefaultDirPerms); err != nil {
		return err
	}
	f, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", filepath.Base(target), err)
	}
	return f.Close()
}
