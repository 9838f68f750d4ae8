package resources

import (
	"path/filepath"

	"github.com/provide-io/playground/go/sandbox/pkg/android"
	"github.com/provide-io/playground/go/sandbox/pkg/parsers"
)

// Item is one resource declaration: a value declared in a values file, a
// file that is itself the resource, or an id generated by "@+id/".
type Item struct {
	Namespace android.Namespace
	Type      android.ResourceType
	Name      string
	Config    Configuration

	// Value is the text of a simple value, the parent of a style or the
	// format of an attr. File resources leave it empty.
	Value string

	// File is the path of a file resource.
	File string

	Source *SourceFile

	// Tag is the declaring element for value resources and the root element
	// of a parsed file resource.
	Tag parsers.Tag

	leaf *Store
}

// Store is the leaf store that loaded the item.
func (i *Item) Store() *Store { return i.leaf }

// IsFile reports whether the item is backed by a whole file.
func (i *Item) IsFile() bool { return i.File != "" }

// Reference names the item without its configuration.
func (i *Item) Reference() android.Reference {
	return android.NewReference(i.Namespace, i.Type, i.Name)
}

func (i *Item) String() string {
	s := i.Reference().String()
	if !i.Config.IsDefault() {
		s += " [" + i.Config.String() + "]"
	}
	return s
}

// SourceFile is a file inside a leaf folder together with every item it
// produced. Items of one values file share a SourceFile.
type SourceFile struct {
	Path     string
	Folder   android.FolderType
	Config   Configuration
	Document *parsers.Document
	Items    []*Item
}

// RelativePath is the path below the leaf's resource directory.
func (f *SourceFile) RelativePath(resDir string) string {
	rel, err := filepath.Rel(resDir, f.Path)
	if err != nil {
		return f.Path
	}
	return rel
}
