package parsers

import (
	"fmt"
	"io"
	"os"

	"github.com/provide-io/playground/go/sandbox/pkg/android"
)

// LayoutParser is the replayer handed to the rendering engine for a layout
// or drawable file. It also exposes every inline declared sub-document of
// the file so aapt values can be resolved later.
type LayoutParser struct {
	*Replayer
	doc             *Document
	declared        map[string]Tag
	layoutNamespace android.Namespace
}

// NewLayoutParser parses r and prepares a replay of its root.
func NewLayoutParser(r io.Reader, opts ...ParseOption) (*LayoutParser, error) {
	doc, err := Parse(r, opts...)
	if err != nil {
		return nil, err
	}
	return newLayoutParser(doc.Root(), doc.DeclaredAttrs()), nil
}

// LayoutParserFromFile opens and parses a layout file.
func LayoutParserFromFile(path string, opts ...ParseOption) (*LayoutParser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open layout: %w", err)
	}
	defer f.Close()
	return NewLayoutParser(f, append([]ParseOption{WithPath(path)}, opts...)...)
}

func LayoutParserFromString(s string, opts ...ParseOption) (*LayoutParser, error) {
	doc, err := ParseString(s, opts...)
	if err != nil {
		return nil, err
	}
	return newLayoutParser(doc.Root(), doc.DeclaredAttrs()), nil
}

// LayoutParserFromDeclared replays an inline declared sub-document. Its
// declared map is empty; nested declarations are already registered by the
// parser of the enclosing file.
func LayoutParserFromDeclared(tag Tag) *LayoutParser {
	return newLayoutParser(tag, map[string]Tag{})
}

func newLayoutParser(root Tag, declared map[string]Tag) *LayoutParser {
	return &LayoutParser{
		Replayer:        NewReplayer(root),
		doc:             root.Document(),
		declared:        declared,
		layoutNamespace: android.ResAuto,
	}
}

// Document is the snapshot being replayed.
func (p *LayoutParser) Document() *Document { return p.doc }

// DeclaredAttrs maps synthetic ids to declared sub-documents.
func (p *LayoutParser) DeclaredAttrs() map[string]Tag { return p.declared }

func (p *LayoutParser) LayoutNamespace() android.Namespace { return p.layoutNamespace }

func (p *LayoutParser) SetLayoutNamespace(ns android.Namespace) { p.layoutNamespace = ns }

// ViewCookie returns the tools attributes of a list-like widget, which the
// rendering engine uses to pick preview list items. Other elements have no
// cookie.
func (p *LayoutParser) ViewCookie() map[string]string {
	switch p.Name() {
	case android.ListView, android.ExpandableListView, android.GridView, android.Spinner:
	default:
		return nil
	}
	cookie := map[string]string{}
	for _, attr := range p.Current().node().attrs {
		if attr.Namespace == android.ToolsURI && attr.Name != android.AttrIgnore {
			cookie[attr.Name] = attr.Value
		}
	}
	return cookie
}
