package resources

import (
	"sync"

	"github.com/hashicorp/go-hclog"

	"github.com/provide-io/playground/go/sandbox/pkg/android"
	"github.com/provide-io/playground/go/sandbox/pkg/logging"
)

// Kind tags a Store as a leaf or a composite.
type Kind int

const (
	KindLeaf Kind = iota
	KindComposite
)

func (k Kind) String() string {
	if k == KindLeaf {
		return "leaf"
	}
	return "composite"
}

// VisitResult tells Accept whether to keep going.
type VisitResult int

const (
	Continue VisitResult = iota
	Abort
)

// Visitor walks every item of a store.
type Visitor interface {
	ShouldVisitNamespace(ns android.Namespace) bool
	ShouldVisitType(t android.ResourceType) bool
	Visit(item *Item) VisitResult
}

// VisitorFunc visits everything with a single function.
type VisitorFunc func(item *Item) VisitResult

func (f VisitorFunc) ShouldVisitNamespace(android.Namespace) bool { return true }
func (f VisitorFunc) ShouldVisitType(android.ResourceType) bool   { return true }
func (f VisitorFunc) Visit(item *Item) VisitResult                { return f(item) }

type cacheKey struct {
	ns  android.Namespace
	typ android.ResourceType
}

type cachedView struct {
	generation uint64
	view       *View
}

// Store is either a leaf, loaded from one resource directory, or a
// composite merging child stores. Leaves are immutable once loaded.
// A composite caches merged views until its children change.
type Store struct {
	kind      Kind
	name      string
	namespace android.Namespace
	logger    hclog.Logger

	// leaf
	dir     string
	sources []*SourceFile
	views   map[android.ResourceType]*View

	// composite
	mu         sync.RWMutex
	local      []*Store
	libraries  []*Store
	leaves     []*Store
	byNS       map[android.Namespace][]*Store
	namespaces []android.Namespace
	generation uint64
	cache      map[cacheKey]cachedView

	// composites holding this composite as a child
	parentsMu sync.Mutex
	parents   map[*Store]struct{}
}

// NewComposite merges local stores ahead of library stores. Within each
// list earlier stores win over later ones.
func NewComposite(name string, local, libraries []*Store) *Store {
	s := &Store{
		kind:   KindComposite,
		name:   name,
		logger: hclog.NewNullLogger(),
	}
	s.SetChildren(local, libraries)
	return s
}

// newSingleNamespaceComposite is a composite whose leaves all share ns.
func newSingleNamespaceComposite(name string, ns android.Namespace, children []*Store) *Store {
	s := NewComposite(name, children, nil)
	s.namespace = ns
	return s
}

// WithLogger sets the logger used for cache activity.
func (s *Store) WithLogger(logger hclog.Logger) *Store {
	if logger != nil {
		s.logger = logging.Component(logger, s.name)
	}
	return s
}

func (s *Store) Kind() Kind { return s.kind }

func (s *Store) Name() string { return s.name }

// Namespace is the namespace of a leaf or of a single-namespace composite.
func (s *Store) Namespace() android.Namespace { return s.namespace }

// Dir is the resource directory of a leaf.
func (s *Store) Dir() string { return s.dir }

// Sources lists the files a leaf loaded.
func (s *Store) Sources() []*SourceFile { return s.sources }

// Generation counts SetChildren calls on a composite.
func (s *Store) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// Children returns the local and library children of a composite.
func (s *Store) Children() (local, libraries []*Store) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.local, s.libraries
}

// SetChildren replaces the children of a composite. Priorities depend on
// the whole child set, so every cached view is dropped. Composites holding
// s as a child recompute their leaves and drop their caches too.
func (s *Store) SetChildren(local, libraries []*Store) {
	if s.kind != KindComposite {
		return
	}
	local = append([]*Store(nil), local...)
	libraries = append([]*Store(nil), libraries...)

	var leaves []*Store
	for _, child := range local {
		leaves = append(leaves, child.Leaves()...)
	}
	for _, child := range libraries {
		leaves = append(leaves, child.Leaves()...)
	}
	byNS := make(map[android.Namespace][]*Store)
	var namespaces []android.Namespace
	for _, leaf := range leaves {
		if _, ok := byNS[leaf.namespace]; !ok {
			namespaces = append(namespaces, leaf.namespace)
		}
		byNS[leaf.namespace] = append(byNS[leaf.namespace], leaf)
	}

	s.mu.Lock()
	oldLocal, oldLibraries := s.local, s.libraries
	s.local = local
	s.libraries = libraries
	s.leaves = leaves
	s.byNS = byNS
	s.namespaces = namespaces
	s.generation++
	s.cache = make(map[cacheKey]cachedView)
	s.logger.Debug("🔄 children replaced", "leaves", len(leaves), "generation", s.generation)
	s.mu.Unlock()

	for _, list := range [][]*Store{oldLocal, oldLibraries} {
		for _, child := range list {
			child.unlinkParent(s)
		}
	}
	for _, list := range [][]*Store{local, libraries} {
		for _, child := range list {
			child.linkParent(s)
		}
	}
	for _, parent := range s.parentList() {
		parent.SetChildren(parent.Children())
	}
}

func (s *Store) linkParent(parent *Store) {
	if s.kind != KindComposite {
		return
	}
	s.parentsMu.Lock()
	defer s.parentsMu.Unlock()
	if s.parents == nil {
		s.parents = make(map[*Store]struct{})
	}
	s.parents[parent] = struct{}{}
}

func (s *Store) unlinkParent(parent *Store) {
	if s.kind != KindComposite {
		return
	}
	s.parentsMu.Lock()
	defer s.parentsMu.Unlock()
	delete(s.parents, parent)
}

func (s *Store) parentList() []*Store {
	s.parentsMu.Lock()
	defer s.parentsMu.Unlock()
	parents := make([]*Store, 0, len(s.parents))
	for p := range s.parents {
		parents = append(parents, p)
	}
	return parents
}

// Leaves returns the pre-order flattened leaf list; a leaf's index is its
// priority rank, lower wins.
func (s *Store) Leaves() []*Store {
	if s.kind == KindLeaf {
		return []*Store{s}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*Store(nil), s.leaves...)
}

// Namespaces lists the namespaces with at least one leaf, in first
// appearance order.
func (s *Store) Namespaces() []android.Namespace {
	if s.kind == KindLeaf {
		return []android.Namespace{s.namespace}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]android.Namespace(nil), s.namespaces...)
}

// Resources returns the view of one (namespace, type). A namespace served
// by a single leaf is answered by that leaf directly; otherwise the merged
// view is built on first use and cached.
func (s *Store) Resources(ns android.Namespace, t android.ResourceType) *View {
	if s.kind == KindLeaf {
		if ns != s.namespace {
			return emptyView
		}
		if v, ok := s.views[t]; ok {
			return v
		}
		return emptyView
	}

	key := cacheKey{ns: ns, typ: t}
	s.mu.RLock()
	leaves := s.byNS[ns]
	switch len(leaves) {
	case 0:
		s.mu.RUnlock()
		return emptyView
	case 1:
		s.mu.RUnlock()
		return leaves[0].Resources(ns, t)
	}
	if cached, ok := s.cache[key]; ok && cached.generation == s.generation {
		s.mu.RUnlock()
		return cached.view
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if cached, ok := s.cache[key]; ok && cached.generation == s.generation {
		return cached.view
	}
	leaves = s.byNS[ns]
	views := make([]*View, len(leaves))
	for i, leaf := range leaves {
		views[i] = leaf.Resources(ns, t)
	}
	view := mergeViews(t, leaves, views)
	s.cache[key] = cachedView{generation: s.generation, view: view}
	s.logger.Trace("🧮 merged view", "namespace", ns, "type", t, "names", view.Len(), "leaves", len(leaves))
	return view
}

// Get is a shortcut for Resources(ns, t).Get(name).
func (s *Store) Get(ns android.Namespace, t android.ResourceType, name string) []*Item {
	return s.Resources(ns, t).Get(name)
}

// BestMatch returns the first merged variant whose configuration matches
// the device.
func (s *Store) BestMatch(ns android.Namespace, t android.ResourceType, name string, device Configuration) (*Item, bool) {
	for _, item := range s.Resources(ns, t).Get(name) {
		if item.Config.Matches(device) {
			return item, true
		}
	}
	return nil, false
}

// Accept walks every item of every namespace and type, in merged order.
func (s *Store) Accept(visitor Visitor) VisitResult {
	for _, ns := range s.Namespaces() {
		if !visitor.ShouldVisitNamespace(ns) {
			continue
		}
		for _, t := range android.ResourceTypes() {
			if !visitor.ShouldVisitType(t) {
				continue
			}
			view := s.Resources(ns, t)
			for _, name := range view.names {
				for _, bk := range view.entries[name] {
					for _, item := range bk.items {
						if visitor.Visit(item) == Abort {
							return Abort
						}
					}
				}
			}
		}
	}
	return Continue
}
