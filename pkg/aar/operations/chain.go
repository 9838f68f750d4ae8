package operations

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	sberrors "github.com/provide-io/playground/go/sandbox/pkg/errors"
)

// PackOperations packs a list of operations into a 64-bit integer.
// Each operation takes 8 bits, allowing up to 8 operations in the chain.
// Operations are packed in execution order (first operation in LSB).
func PackOperations(operations []uint8) (uint64, error) {
	if len(operations) > 8 {
		return 0, fmt.Errorf("maximum 8 operations allowed, got %d", len(operations))
	}

	var packed uint64
	for i, op := range operations {
		packed |= uint64(op) << (i * 8)
	}
	return packed, nil
}

// UnpackOperations unpacks a 64-bit integer into a list of operations.
func UnpackOperations(packed uint64) []uint8 {
	var operations []uint8
	for i := 0; i < 8; i++ {
		op := uint8((packed >> (i * 8)) & 0xFF)
		if op == OpNone {
			break
		}
		operations = append(operations, op)
	}
	return operations
}

// OperationsToString names a chain, preferring the usual file suffix.
func OperationsToString(operations []uint8) string {
	if len(operations) == 0 {
		return "raw"
	}
	if name, ok := commonChains[operationsToChain(operations)]; ok {
		return name
	}
	var names []string
	for _, op := range operations {
		names = append(names, strings.ToLower(GetName(op)))
	}
	return strings.Join(names, "|")
}

// StringToOperations parses a chain name such as "tar.gz" or "tar|zstd".
func StringToOperations(opString string) ([]uint8, error) {
	opString = strings.ToLower(strings.TrimSpace(opString))
	if opString == "" || opString == "raw" {
		return nil, nil
	}
	if ops, ok := namedChains[opString]; ok {
		return ops, nil
	}
	if strings.Contains(opString, "|") {
		var operations []uint8
		for _, part := range strings.Split(opString, "|") {
			part = strings.TrimSpace(strings.ToUpper(part))
			if part == "" {
				continue
			}
			op, ok := namedOperations[part]
			if !ok {
				return nil, fmt.Errorf("unsupported operation: %s", part)
			}
			operations = append(operations, op)
		}
		return operations, nil
	}
	return nil, fmt.Errorf("unknown operation string: %s", opString)
}

func operationsToChain(ops []uint8) string {
	parts := make([]string, len(ops))
	for i, op := range ops {
		parts[i] = fmt.Sprintf("%02x", op)
	}
	return strings.Join(parts, "-")
}

var commonChains = map[string]string{
	"01-10": "tar.gz",
	"01-13": "tar.bz2",
	"01-1b": "tar.zst",
	"01":    "tar",
	"02":    "aar",
}

var namedChains = map[string][]uint8{
	"tar":     {OpTar},
	"zip":     {OpZip},
	"aar":     {OpZip},
	"tar.gz":  {OpTar, OpGzip},
	"tgz":     {OpTar, OpGzip},
	"tar.bz2": {OpTar, OpBzip2},
	"tbz2":    {OpTar, OpBzip2},
	"tar.zst": {OpTar, OpZstd},
	"tzst":    {OpTar, OpZstd},
}

var namedOperations = map[string]uint8{
	"TAR":   OpTar,
	"ZIP":   OpZip,
	"GZIP":  OpGzip,
	"BZIP2": OpBzip2,
	"ZSTD":  OpZstd,
}

// ChainForFile picks the chain from an archive file name. Anything that is
// not a known library archive is ErrUnsupportedArchive.
func ChainForFile(path string) ([]uint8, error) {
	name := strings.ToLower(filepath.Base(path))
	for _, suffix := range []string{"tar.gz", "tar.bz2", "tar.zst", "tgz", "tbz2", "tzst", "aar", "zip", "tar"} {
		if strings.HasSuffix(name, "."+suffix) {
			return namedChains[suffix], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", sberrors.ErrUnsupportedArchive, filepath.Base(path))
}

// TrimArchiveSuffix strips the archive suffix recognised by ChainForFile.
func TrimArchiveSuffix(path string) string {
	name := filepath.Base(path)
	lower := strings.ToLower(name)
	for _, suffix := range []string{".tar.gz", ".tar.bz2", ".tar.zst", ".tgz", ".tbz2", ".tzst", ".aar", ".zip", ".tar"} {
		if strings.HasSuffix(lower, suffix) {
			return name[:len(name)-len(suffix)]
		}
	}
	return name
}

func split(operations []uint8) (Bundle, []Codec, error) {
	if len(operations) == 0 {
		return nil, nil, errors.New("empty operation chain")
	}
	op, err := Get(operations[0])
	if err != nil {
		return nil, nil, err
	}
	bundle, ok := op.(Bundle)
	if !ok {
		return nil, nil, fmt.Errorf("chain must start with a bundle, got %s", op.Name())
	}
	codecs := make([]Codec, 0, len(operations)-1)
	for _, id := range operations[1:] {
		op, err := Get(id)
		if err != nil {
			return nil, nil, err
		}
		codec, ok := op.(Codec)
		if !ok {
			return nil, nil, fmt.Errorf("%s cannot follow a bundle", op.Name())
		}
		codecs = append(codecs, codec)
	}
	return bundle, codecs, nil
}

// ApplyChain packs srcDir with the chain and writes the archive to w.
func ApplyChain(srcDir string, operations []uint8, w io.Writer) error {
	bundle, codecs, err := split(operations)
	if err != nil {
		return err
	}

	var closers []io.Closer
	out := w
	for i := len(codecs) - 1; i >= 0; i-- {
		cw, err := codecs[i].Compress(out)
		if err != nil {
			return fmt.Errorf("applying %s: %w", codecs[i].Name(), err)
		}
		closers = append(closers, cw)
		out = cw
	}
	if err := bundle.Pack(srcDir, out); err != nil {
		return fmt.Errorf("applying %s: %w", bundle.Name(), err)
	}
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i].Close(); err != nil {
			return err
		}
	}
	return nil
}

// ReverseChain undoes the chain on r and extracts the result below destDir.
func ReverseChain(r io.Reader, operations []uint8, destDir string, filter Filter) (int, error) {
	bundle, codecs, err := split(operations)
	if err != nil {
		return 0, err
	}

	in := r
	for i := len(codecs) - 1; i >= 0; i-- {
		cr, err := codecs[i].Decompress(in)
		if err != nil {
			return 0, fmt.Errorf("reversing %s: %w", codecs[i].Name(), err)
		}
		defer cr.Close()
		in = cr
	}
	n, err := bundle.Extract(in, destDir, filter)
	if err != nil {
		return n, fmt.Errorf("reversing %s: %w", bundle.Name(), err)
	}
	return n, nil
}
