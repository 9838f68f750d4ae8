// Package resids hands out numeric resource identifiers: the compiled ones
// from R.txt symbol tables and synthetic ones for everything else.
package resids

import (
	"fmt"
	"sync"

	"github.com/hashicorp/go-hclog"

	"github.com/provide-io/playground/go/sandbox/pkg/android"
	sberrors "github.com/provide-io/playground/go/sandbox/pkg/errors"
	"github.com/provide-io/playground/go/sandbox/pkg/logging"
)

// Package bytes of the two fixed namespaces and the first one handed to
// library namespaces.
const (
	FrameworkPackage    uint8 = 0x01
	FirstDynamicPackage uint8 = 0x02
	AppPackage          uint8 = 0x7F

	firstEntry = 0xFFFF
)

// provider counts entries downwards per type for one package.
type provider struct {
	pkg     uint8
	counter [android.TypeAapt + 1]int32
}

func newProvider(pkg uint8) *provider {
	p := &provider{pkg: pkg}
	for i := range p.counter {
		p.counter[i] = firstEntry
	}
	return p
}

func (p *provider) next(t android.ResourceType) (android.ResourceID, error) {
	if int(t) >= len(p.counter) {
		return 0, fmt.Errorf("%w: %d", sberrors.ErrUnknownResourceType, t)
	}
	if p.counter[t] <= 0 {
		return 0, fmt.Errorf("%w: package 0x%02x type %s", sberrors.ErrIDSpaceExhausted, p.pkg, t)
	}
	p.counter[t]--
	return android.PackResourceID(p.pkg, uint8(t.Ordinal()+1), uint16(p.counter[t])), nil
}

// Allocator synthesizes stable identifiers for references without a
// compiled constant. Lookups of known references never take the lock.
type Allocator struct {
	known sync.Map // android.Reference -> android.ResourceID
	byID  sync.Map // android.ResourceID -> android.Reference

	mu          sync.Mutex
	providers   map[android.Namespace]*provider
	nextPackage int

	logger hclog.Logger
}

// NewAllocator reserves 0x01 for the framework and 0x7F for the
// application namespace.
func NewAllocator(logger hclog.Logger) *Allocator {
	return &Allocator{
		providers: map[android.Namespace]*provider{
			android.Framework: newProvider(FrameworkPackage),
			android.ResAuto:   newProvider(AppPackage),
		},
		nextPackage: int(FirstDynamicPackage),
		logger:      logging.Component(logger, "ids"),
	}
}

// GetOrGenerateID returns the identifier of ref, allocating one on first
// use. Every call for the same reference returns the same value.
func (a *Allocator) GetOrGenerateID(ref android.Reference) (android.ResourceID, error) {
	if id, ok := a.known.Load(ref); ok {
		return id.(android.ResourceID), nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if id, ok := a.known.Load(ref); ok {
		return id.(android.ResourceID), nil
	}

	p, ok := a.providers[ref.Namespace]
	if !ok {
		pkg, err := a.allocatePackage()
		if err != nil {
			return 0, err
		}
		p = newProvider(pkg)
		a.providers[ref.Namespace] = p
		a.logger.Debug("📦 package assigned", "namespace", ref.Namespace, "package", fmt.Sprintf("0x%02x", pkg))
	}
	id, err := p.next(ref.Type)
	if err != nil {
		return 0, err
	}
	a.byID.Store(id, ref)
	a.known.Store(ref, id)
	a.logger.Trace("🔢 id generated", "reference", ref, "id", id)
	return id, nil
}

func (a *Allocator) allocatePackage() (uint8, error) {
	if a.nextPackage == int(AppPackage) {
		a.nextPackage++
	}
	if a.nextPackage > 0xFF {
		return 0, fmt.Errorf("%w: no package byte left", sberrors.ErrIDSpaceExhausted)
	}
	pkg := uint8(a.nextPackage)
	a.nextPackage++
	return pkg, nil
}

// FindByID maps a generated identifier back to its reference.
func (a *Allocator) FindByID(id android.ResourceID) (android.Reference, bool) {
	ref, ok := a.byID.Load(id)
	if !ok {
		return android.Reference{}, false
	}
	return ref.(android.Reference), true
}

// Len is the number of identifiers generated so far.
func (a *Allocator) Len() int {
	n := 0
	a.known.Range(func(any, any) bool {
		n++
		return true
	})
	return n
}
