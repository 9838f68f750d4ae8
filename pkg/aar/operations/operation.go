// Package operations is the registry of archive operations used to unpack
// library archives: bundles that map a byte stream onto a directory tree
// and codecs that wrap a byte stream.
package operations

import (
	"fmt"
	"io"
)

// Operation identifiers. A chain lists them in the order they were applied
// when the archive was made, bundle first.
const (
	OpNone uint8 = 0x00

	// Bundle operations (0x01-0x0F)
	OpTar uint8 = 0x01
	OpZip uint8 = 0x02

	// Compression operations (0x10-0x2F)
	OpGzip  uint8 = 0x10
	OpBzip2 uint8 = 0x13
	OpZstd  uint8 = 0x1B
)

// Operation is anything the registry knows by id.
type Operation interface {
	ID() uint8
	Name() string
}

// Codec compresses and decompresses a stream.
type Codec interface {
	Operation
	Compress(w io.Writer) (io.WriteCloser, error)
	Decompress(r io.Reader) (io.ReadCloser, error)
}

// Filter decides which archive entries are extracted. Names use forward
// slashes and are relative to the archive root.
type Filter func(name string) bool

// Bundle packs a directory tree into a stream and back.
type Bundle interface {
	Operation
	Pack(srcDir string, w io.Writer) error
	// Extract writes the entries accepted by filter below destDir and
	// returns how many files were written.
	Extract(r io.Reader, destDir string, filter Filter) (int, error)
}

// BaseOperation carries the id and name of a registered operation.
type BaseOperation struct {
	OpID   uint8
	OpName string
}

func (o *BaseOperation) ID() uint8 {
	return o.OpID
}

func (o *BaseOperation) Name() string {
	return o.OpName
}

// Registry maps operation IDs to implementations
var Registry = make(map[uint8]Operation)

// Register registers an operation implementation
func Register(op Operation) {
	Registry[op.ID()] = op
}

// Get retrieves an operation by ID
func Get(id uint8) (Operation, error) {
	op, ok := Registry[id]
	if !ok {
		return nil, fmt.Errorf("unknown operation: 0x%02x", id)
	}
	return op, nil
}

// GetName returns the name of an operation by ID
func GetName(id uint8) string {
	switch id {
	case OpNone:
		return "NONE"
	case OpTar:
		return "TAR"
	case OpZip:
		return "ZIP"
	case OpGzip:
		return "GZIP"
	case OpBzip2:
		return "BZIP2"
	case OpZstd:
		return "ZSTD"
	default:
		return fmt.Sprintf("UNKNOWN_%02x", id)
	}
}
