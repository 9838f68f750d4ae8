package errors

import (
	"errors"
	"fmt"
)

var (
	// Construction errors 🏗️
	ErrResourceDirMissing  = errors.New("❌ resource directory missing")
	ErrPlatformDirMissing  = errors.New("❌ platform directory missing")
	ErrPlatformDataMissing = errors.New("❌ platform data directory missing")
	ErrNamespaceRequired   = errors.New("❌ package name required for namespaced resources")

	// Parse errors 📄
	ErrMalformedDocument = errors.New("❌ malformed XML document")
	ErrNothingAfterEnd   = errors.New("❌ nothing after the end of the document")
	ErrIndexOutOfRange   = errors.New("❌ attribute index out of range")

	// Resource errors 📂
	ErrInvalidQualifier    = errors.New("❌ invalid resource folder qualifier")
	ErrInvalidResourceName = errors.New("❌ invalid resource file name")
	ErrUnknownResourceType = errors.New("❌ unknown resource type")
	ErrDeclaredAttrMissing = errors.New("❌ declared attribute not found")
	ErrUnknownResource     = errors.New("❌ resource not found")

	// Session errors 🎨
	ErrSessionClosed = errors.New("❌ session closed")

	// Identifier errors 🔢
	ErrIDSpaceExhausted = errors.New("❌ resource identifier space exhausted")

	// Archive errors 📦
	ErrUnsupportedArchive    = errors.New("❌ unsupported library archive")
	ErrUnsafeArchivePath     = errors.New("❌ archive entry escapes destination")
	ErrManifestMissing       = errors.New("❌ library has no AndroidManifest.xml")
	ErrExtractionTimeout     = errors.New("❌ timed out waiting for library extraction")
	ErrInsufficientDiskSpace = errors.New("❌ insufficient disk space for extraction")
)

// ConstructionError is returned when a session cannot be built. No partial
// session exists when it is returned.
type ConstructionError struct {
	Op   string
	Path string
	Err  error
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *ConstructionError) Unwrap() error { return e.Err }

// ParseError reports a document that could not be turned into a snapshot.
type ParseError struct {
	Path string
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	switch {
	case e.Path != "" && e.Line > 0:
		return fmt.Sprintf("parse %s:%d: %v", e.Path, e.Line, e.Err)
	case e.Path != "":
		return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("parse: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
