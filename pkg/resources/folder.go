package resources

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"github.com/hashicorp/go-hclog"

	"github.com/provide-io/playground/go/sandbox/pkg/android"
	sberrors "github.com/provide-io/playground/go/sandbox/pkg/errors"
	"github.com/provide-io/playground/go/sandbox/pkg/logging"
	"github.com/provide-io/playground/go/sandbox/pkg/parsers"
)

type loadOptions struct {
	logger      hclog.Logger
	counter     *parsers.Counter
	diagnostics *Diagnostics
	name        string
}

// LoadOption configures LoadFolder and the composite constructors.
type LoadOption func(*loadOptions)

func WithLogger(logger hclog.Logger) LoadOption {
	return func(o *loadOptions) { o.logger = logger }
}

// WithCounter shares the declared-attribute counter of the load context.
func WithCounter(c *parsers.Counter) LoadOption {
	return func(o *loadOptions) { o.counter = c }
}

// WithDiagnostics records skipped folders, files and declarations.
func WithDiagnostics(d *Diagnostics) LoadOption {
	return func(o *loadOptions) { o.diagnostics = d }
}

// WithName overrides the display name, which defaults to the directory.
func WithName(name string) LoadOption {
	return func(o *loadOptions) { o.name = name }
}

func newLoadOptions(opts []LoadOption) loadOptions {
	o := loadOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.counter == nil {
		o.counter = parsers.NewCounter()
	}
	return o
}

// LoadFolder scans one resource directory into a leaf store. Invalid
// folders, badly named files and unparsable files are skipped and recorded;
// only a missing directory is an error. Nothing is visible in the store
// until the whole directory has been scanned.
func LoadFolder(dir string, ns android.Namespace, opts ...LoadOption) (*Store, error) {
	o := newLoadOptions(opts)
	if o.name == "" {
		o.name = filepath.Base(dir)
	}
	logger := logging.Component(o.logger, "folder")

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, &sberrors.ConstructionError{Op: "load resources", Path: dir, Err: sberrors.ErrResourceDirMissing}
	}

	l := &folderLoader{dir: dir, ns: ns, opts: o, logger: logger}
	if err := l.scan(); err != nil {
		return nil, &sberrors.ConstructionError{Op: "load resources", Path: dir, Err: err}
	}

	leaf := &Store{
		kind:      KindLeaf,
		name:      o.name,
		namespace: ns,
		logger:    logger,
		dir:       dir,
	}
	leaf.commit(l.sources)
	logger.Debug("📂 loaded resource folder", "dir", dir, "namespace", ns, "files", len(l.sources))
	return leaf, nil
}

type folderLoader struct {
	dir     string
	ns      android.Namespace
	opts    loadOptions
	logger  hclog.Logger
	sources []*SourceFile
}

func (l *folderLoader) skip(kind DiagnosticKind, path string, err error) {
	l.logger.Warn("⚠️ skipping resource", "kind", kind, "path", path, "error", err)
	l.opts.diagnostics.Add(kind, path, err)
}

func (l *folderLoader) scan() error {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return fmt.Errorf("failed to list resource directory: %w", err)
	}
	// ReadDir sorts by name
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		path := filepath.Join(l.dir, entry.Name())
		folder, config, err := ParseFolderName(entry.Name())
		if err != nil {
			l.skip(InvalidQualifier, path, err)
			continue
		}
		if err := l.scanFolder(path, folder, config); err != nil {
			return err
		}
	}
	return nil
}

func (l *folderLoader) scanFolder(path string, folder android.FolderType, config Configuration) error {
	files, err := os.ReadDir(path)
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", path, err)
	}
	for _, file := range files {
		if file.IsDir() || strings.HasPrefix(file.Name(), ".") {
			continue
		}
		filePath := filepath.Join(path, file.Name())
		if folder == android.FolderValues {
			if strings.EqualFold(filepath.Ext(file.Name()), android.DotXML) {
				l.loadValues(filePath, config)
			}
			continue
		}
		l.loadFile(filePath, folder, config)
	}
	return nil
}

func (l *folderLoader) parse(path string) (*parsers.Document, bool) {
	f, err := os.Open(path)
	if err != nil {
		l.skip(ParseFailure, path, err)
		return nil, false
	}
	defer f.Close()
	doc, err := parsers.Parse(f,
		parsers.WithPath(path),
		parsers.WithCounter(l.opts.counter),
		parsers.WithLogger(l.logger))
	if err != nil {
		l.skip(ParseFailure, path, err)
		return nil, false
	}
	return doc, true
}

func (l *folderLoader) loadValues(path string, config Configuration) {
	doc, ok := l.parse(path)
	if !ok {
		return
	}
	items, problems := extractValues(doc, l.ns, config)
	for _, p := range problems {
		l.skip(p.kind, path, p.err)
	}
	source := &SourceFile{Path: path, Folder: android.FolderValues, Config: config, Document: doc, Items: items}
	for _, item := range items {
		item.Source = source
	}
	l.sources = append(l.sources, source)
}

func (l *folderLoader) loadFile(path string, folder android.FolderType, config Configuration) {
	t, _ := folder.ResourceType()
	name := FileNameToResourceName(filepath.Base(path))
	if !IsValidResourceName(name) {
		l.skip(InvalidResourceName, path, fmt.Errorf("%w: %q", sberrors.ErrInvalidResourceName, name))
		return
	}

	source := &SourceFile{Path: path, Folder: folder, Config: config}
	item := &Item{Namespace: l.ns, Type: t, Name: name, Config: config, File: path, Source: source}

	if folder.IsIDGenerating() && strings.EqualFold(filepath.Ext(path), android.DotXML) {
		doc, ok := l.parse(path)
		if !ok {
			return
		}
		source.Document = doc
		item.Tag = doc.Root()
		for _, id := range generatedIDs(doc) {
			source.Items = append(source.Items, &Item{
				Namespace: l.ns,
				Type:      android.TypeID,
				Name:      id,
				Config:    config,
				Source:    source,
			})
		}
	}
	source.Items = append([]*Item{item}, source.Items...)
	l.sources = append(l.sources, source)
}

// commit publishes the scanned sources. Sources are ordered by
// configuration, keeping discovery order among equals.
func (s *Store) commit(sources []*SourceFile) {
	sort.SliceStable(sources, func(i, j int) bool {
		return sources[i].Config.Compare(sources[j].Config) < 0
	})
	builders := make(map[android.ResourceType]*viewBuilder)
	for _, source := range sources {
		for _, item := range source.Items {
			item.leaf = s
			b, ok := builders[item.Type]
			if !ok {
				b = newViewBuilder(item.Type, nil)
				builders[item.Type] = b
			}
			b.add(item)
		}
	}
	s.sources = sources
	s.views = make(map[android.ResourceType]*View, len(builders))
	for t, b := range builders {
		s.views[t] = b.build()
	}
}

// FileNameToResourceName strips everything from the first dot.
func FileNameToResourceName(fileName string) string {
	if i := strings.IndexByte(fileName, '.'); i >= 0 {
		return fileName[:i]
	}
	return fileName
}

var javaKeywords = map[string]bool{
	"abstract": true, "assert": true, "boolean": true, "break": true, "byte": true,
	"case": true, "catch": true, "char": true, "class": true, "const": true,
	"continue": true, "default": true, "do": true, "double": true, "else": true,
	"enum": true, "extends": true, "final": true, "finally": true, "float": true,
	"for": true, "goto": true, "if": true, "implements": true, "import": true,
	"instanceof": true, "int": true, "interface": true, "long": true, "native": true,
	"new": true, "package": true, "private": true, "protected": true, "public": true,
	"return": true, "short": true, "static": true, "strictfp": true, "super": true,
	"switch": true, "synchronized": true, "this": true, "throw": true, "throws": true,
	"transient": true, "try": true, "void": true, "volatile": true, "while": true,
	"true": true, "false": true, "null": true, "_": true,
}

// IsValidResourceName reports whether name can become a field of the
// generated R class: a Java identifier that is not a keyword or literal.
func IsValidResourceName(name string) bool {
	if name == "" || javaKeywords[name] {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_' || r == '$' || unicode.IsLetter(r):
		case i > 0 && unicode.IsDigit(r):
		default:
			return false
		}
	}
	return true
}
