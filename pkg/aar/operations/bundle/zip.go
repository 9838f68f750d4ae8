package bundle

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zip"

	"github.com/provide-io/playground/go/sandbox/pkg/aar/operations"
	"github.com/provide-io/playground/go/sandbox/pkg/utils/permissions"
)

func init() {
	operations.Register(NewZipOperation())
}

// ZipOperation reads and writes zip containers such as .aar files.
type ZipOperation struct {
	operations.BaseOperation
}

// NewZipOperation creates a new ZIP operation
func NewZipOperation() *ZipOperation {
	return &ZipOperation{
		BaseOperation: operations.BaseOperation{
			OpID:   operations.OpZip,
			OpName: "ZIP",
		},
	}
}

// Pack writes every regular file below srcDir as a deflated zip archive.
func (o *ZipOperation) Pack(srcDir string, w io.Writer) error {
	zw := zip.NewWriter(w)
	err := filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !d.Type().IsRegular() {
			return err
		}
		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		header, err := zip.FileInfoHeader(info)
		if err != nil {
			return err
		}
		header.Name = filepath.ToSlash(rel)
		header.Method = zip.Deflate
		fw, err := zw.CreateHeader(header)
		if err != nil {
			return fmt.Errorf("writing zip header: %w", err)
		}
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = io.Copy(fw, f)
		return err
	})
	if err != nil {
		return err
	}
	return zw.Close()
}

// Extract writes the files of a zip archive below destDir. The central
// directory needs random access, so a plain stream is buffered first.
func (o *ZipOperation) Extract(r io.Reader, destDir string, filter operations.Filter) (int, error) {
	ra, size, err := readerAt(r)
	if err != nil {
		return 0, err
	}
	zr, err := zip.NewReader(ra, size)
	if err != nil {
		return 0, fmt.Errorf("opening zip: %w", err)
	}

	count := 0
	for _, file := range zr.File {
		name, target, err := entryPath(destDir, file.Name)
		if err != nil {
			return count, err
		}
		if name == "" || (filter != nil && !filter(name)) {
			continue
		}
		if file.FileInfo().IsDir() {
			if err := os.MkdirAll(target, permissions.DefaultDirPerms); err != nil {
				return count, err
			}
			continue
		}
		if !file.Mode().IsRegular() {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return count, fmt.Errorf("opening %s: %w", file.Name, err)
		}
		err = writeFile(target, rc, permissions.ForEntry(int64(file.Mode().Perm())))
		rc.Close()
		if err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

func readerAt(r io.Reader) (io.ReaderAt, int64, error) {
	if f, ok := r.(*os.File); ok {
		info, err := f.Stat()
		if err != nil {
			return nil, 0, err
		}
		return f, info.Size(), nil
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, 0, fmt.Errorf("buffering zip: %w", err)
	}
	return bytes.NewReader(data), int64(len(data)), nil
}
