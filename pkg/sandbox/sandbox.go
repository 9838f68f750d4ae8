// Package sandbox assembles a rendering session: the framework and
// application resource stores, the identifier allocator, the compiled
// symbol table, assets and the callback the rendering engine talks to.
package sandbox

import (
	"fmt"
	"path/filepath"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"github.com/provide-io/playground/go/sandbox/pkg/aar"
	"github.com/provide-io/playground/go/sandbox/pkg/android"
	sberrors "github.com/provide-io/playground/go/sandbox/pkg/errors"
	"github.com/provide-io/playground/go/sandbox/pkg/logging"
	"github.com/provide-io/playground/go/sandbox/pkg/parsers"
	"github.com/provide-io/playground/go/sandbox/pkg/resids"
	"github.com/provide-io/playground/go/sandbox/pkg/resources"
)

// Session is everything one rendering pass reads. Sessions share nothing;
// each owns its counter, stores, allocator and symbol table.
type Session struct {
	id     uuid.UUID
	config Config
	logger hclog.Logger

	counter     *parsers.Counter
	diagnostics *resources.Diagnostics

	framework *resources.Store
	project   *resources.Store
	app       *resources.Store
	libraries []*aar.Library

	allocator *resids.Allocator
	symbols   *resids.SymbolTable
	assets    *AssetRepository
	callback  *Callback

	closed atomic.Bool
}

type options struct {
	logger    hclog.Logger
	extractor *aar.Extractor
}

// Option configures New.
type Option func(*options)

// WithLogger sets the parent logger; the session logs under "session".
func WithLogger(logger hclog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithExtractor overrides the extractor used for library archives.
func WithExtractor(ex *aar.Extractor) Option {
	return func(o *options) { o.extractor = ex }
}

// New validates cfg and loads every store. On error no session exists.
func New(cfg Config, opts ...Option) (*Session, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	mode, _ := cfg.NamespacingMode()

	id := uuid.New()
	logger := logging.Component(o.logger, "session").With("session", id.String())
	s := &Session{
		id:          id,
		config:      cfg,
		logger:      logger,
		counter:     parsers.NewCounter(),
		diagnostics: resources.NewDiagnostics(),
	}
	loadOpts := []resources.LoadOption{
		resources.WithLogger(logger),
		resources.WithCounter(s.counter),
		resources.WithDiagnostics(s.diagnostics),
	}

	var err error
	s.framework, err = resources.LoadFolder(cfg.PlatformResDir(), android.Framework, append(loadOpts, resources.WithName("framework"))...)
	if err != nil {
		return nil, err
	}

	main := resources.ModuleSpec{Name: "main", PackageName: cfg.App.PackageName, Dirs: cfg.ResDirs()}
	modules := make([]resources.ModuleSpec, 0, len(cfg.Modules))
	for _, m := range cfg.Modules {
		if len(m.ResDirs) == 0 {
			continue
		}
		modules = append(modules, resources.ModuleSpec{Name: m.Name, PackageName: m.PackageName, Dirs: m.ResDirs})
	}
	s.project, err = resources.NewProjectStore(mode, main, modules, loadOpts...)
	if err != nil {
		return nil, err
	}

	s.libraries, err = s.findLibraries(o.extractor)
	if err != nil {
		return nil, err
	}
	libStores := make([]*resources.Store, 0, len(s.libraries))
	for _, lib := range s.libraries {
		if lib.ResDir == "" {
			continue
		}
		store, err := resources.NewLibraryStore(mode, lib.PackageName, lib.ResDir, loadOpts...)
		if err != nil {
			return nil, err
		}
		libStores = append(libStores, store)
	}
	s.app = resources.NewAppStore(s.project, libStores).WithLogger(logger)

	s.symbols = resids.NewSymbolTable(s.diagnostics, logger)
	if err := s.loadSymbols(mode); err != nil {
		return nil, err
	}
	s.allocator = resids.NewAllocator(logger)
	s.assets = NewAssetRepository(cfg.AssetsDir(), s.assetDirs())
	s.callback = newCallback(cfg.App.ApplicationID, s.symbols, s.allocator, s.counter, logging.Component(logger, "callback"))

	logger.Info("🚀 Session ready",
		"framework_items", s.framework.Resources(android.Framework, android.TypeString).Size(),
		"leaves", len(s.app.Leaves()),
		"libraries", len(s.libraries),
		"symbols", s.symbols.Len(),
		"diagnostics", s.diagnostics.Len(),
	)
	return s, nil
}

// findLibraries discovers libraries in the libraries dir and adds the
// configured library res dirs. A res dir's library is its parent folder.
func (s *Session) findLibraries(ex *aar.Extractor) ([]*aar.Library, error) {
	var libs []*aar.Library
	if dir := s.config.Libraries.Dir; dir != "" {
		if ex == nil {
			ex = aar.NewExtractor(s.config.CacheDir, logging.Component(s.logger, "aar"))
		}
		found, err := aar.Discover(dir, ex, logging.Component(s.logger, "aar"))
		if err != nil {
			return nil, err
		}
		libs = append(libs, found...)
	}

	for _, resDir := range s.config.Libraries.ResDirs {
		parent := filepath.Dir(resDir)
		lib, err := aar.OpenLibrary(parent)
		if err != nil {
			lib = &aar.Library{Name: filepath.Base(parent), PackageName: filepath.Base(parent), Dir: parent}
		}
		lib.ResDir = resDir
		libs = append(libs, lib)
	}
	return libs, nil
}

// loadSymbols reads the application's R.txt files into the main module's
// namespace. With namespacing required each library's own R.txt is read
// into its namespace too; otherwise the application's table already covers
// library resources.
func (s *Session) loadSymbols(mode resources.Namespacing) error {
	mainNS, err := resources.NamespaceFor(mode, s.config.App.PackageName)
	if err != nil {
		return &sberrors.ConstructionError{Op: "module namespace", Path: "main", Err: err}
	}
	for _, path := range s.config.App.SymbolFiles {
		if err := s.symbols.LoadFile(path, mainNS); err != nil {
			return &sberrors.ConstructionError{Op: "load symbols", Path: path, Err: err}
		}
	}
	if mode != resources.NamespacingRequired {
		return nil
	}
	for _, lib := range s.libraries {
		if lib.SymbolFile == "" {
			continue
		}
		if err := s.symbols.LoadFile(lib.SymbolFile, android.NamespaceForPackage(lib.PackageName)); err != nil {
			return &sberrors.ConstructionError{Op: "load symbols", Path: lib.SymbolFile, Err: err}
		}
	}
	return nil
}

func (s *Session) assetDirs() []string {
	var dirs []string
	for _, m := range s.config.Modules {
		dirs = append(dirs, m.AssetDirs...)
	}
	dirs = append(dirs, s.config.Libraries.AssetDirs...)
	for _, lib := range s.libraries {
		if lib.AssetsDir != "" {
			dirs = append(dirs, lib.AssetsDir)
		}
	}
	return dirs
}

// ID identifies the session in logs and render requests.
func (s *Session) ID() uuid.UUID { return s.id }

func (s *Session) Config() Config { return s.config }

func (s *Session) Logger() hclog.Logger { return s.logger }

// Counter is the declared-attribute counter shared by every parse of the
// session.
func (s *Session) Counter() *parsers.Counter { return s.counter }

// Diagnostics lists everything skipped while loading.
func (s *Session) Diagnostics() *resources.Diagnostics { return s.diagnostics }

func (s *Session) Framework() *resources.Store { return s.framework }

func (s *Session) Project() *resources.Store { return s.project }

// App is the application store: the project above its libraries.
func (s *Session) App() *resources.Store { return s.app }

func (s *Session) Libraries() []*aar.Library { return s.libraries }

func (s *Session) Allocator() *resids.Allocator { return s.allocator }

func (s *Session) Symbols() *resids.SymbolTable { return s.symbols }

func (s *Session) Assets() *AssetRepository { return s.assets }

func (s *Session) Callback() *Callback { return s.callback }

// Store returns the framework store for the framework namespace and the
// application store for everything else.
func (s *Session) Store(ns android.Namespace) *resources.Store {
	if ns == android.Framework {
		return s.framework
	}
	return s.app
}

// Resources returns the merged view of one namespace and type.
func (s *Session) Resources(ns android.Namespace, t android.ResourceType) *resources.View {
	return s.Store(ns).Resources(ns, t)
}

// BestMatch resolves ref for a device configuration.
func (s *Session) BestMatch(ref android.Reference, device resources.Configuration) (*resources.Item, bool) {
	return s.Store(ref.Namespace).BestMatch(ref.Namespace, ref.Type, ref.Name, device)
}

// GetOrGenerateResourceID is the callback's id lookup.
func (s *Session) GetOrGenerateResourceID(ref android.Reference) (android.ResourceID, error) {
	return s.callback.GetOrGenerateResourceID(ref)
}

// ResolveResourceID is the callback's reverse lookup.
func (s *Session) ResolveResourceID(id android.ResourceID) (android.Reference, bool) {
	return s.callback.ResolveResourceID(id)
}

// LayoutParser returns a parser for the layout that best matches device.
func (s *Session) LayoutParser(ref android.Reference, device resources.Configuration) (*parsers.LayoutParser, error) {
	item, ok := s.BestMatch(ref, device)
	if !ok || !item.IsFile() {
		return nil, fmt.Errorf("%w: %s", sberrors.ErrUnknownResource, ref)
	}
	p, err := s.callback.GetParser(ref.Type, item.File)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: %s", sberrors.ErrUnknownResource, item.File)
	}
	p.SetLayoutNamespace(ref.Namespace)
	return p, nil
}

// Close ends the session. Later renders are refused.
func (s *Session) Close() error {
	if s.closed.CompareAndSwap(false, true) {
		s.logger.Debug("👋 Session closed", "dynamic_ids", s.allocator.Len())
	}
	return nil
}

// Closed reports whether Close was called.
func (s *Session) Closed() bool { return s.closed.Load() }
