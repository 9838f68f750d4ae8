package sandbox

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"github.com/hashicorp/go-hclog"

	"github.com/provide-io/playground/go/sandbox/pkg/android"
	sberrors "github.com/provide-io/playground/go/sandbox/pkg/errors"
	"github.com/provide-io/playground/go/sandbox/pkg/parsers"
	"github.com/provide-io/playground/go/sandbox/pkg/resids"
)

// Callback answers the rendering engine's questions about identifiers and
// parsers during one session. It is safe for concurrent use.
type Callback struct {
	applicationID string
	symbols       *resids.SymbolTable
	allocator     *resids.Allocator
	counter       *parsers.Counter
	logger        hclog.Logger

	mu       sync.RWMutex
	declared map[string]parsers.Tag
}

func newCallback(applicationID string, symbols *resids.SymbolTable, allocator *resids.Allocator, counter *parsers.Counter, logger hclog.Logger) *Callback {
	return &Callback{
		applicationID: applicationID,
		symbols:       symbols,
		allocator:     allocator,
		counter:       counter,
		logger:        logger,
		declared:      map[string]parsers.Tag{},
	}
}

// ApplicationID is the application id the session was configured with.
func (c *Callback) ApplicationID() string {
	return c.applicationID
}

// GetOrGenerateResourceID returns the compiled id of ref when the symbol
// table has one and a dynamic id otherwise. Style names are looked up with
// dots replaced by underscores, the way they appear in R.
func (c *Callback) GetOrGenerateResourceID(ref android.Reference) (android.ResourceID, error) {
	if ref.Type == android.TypeStyle {
		ref.Name = strings.ReplaceAll(ref.Name, ".", "_")
	}
	if id, ok := c.symbols.Lookup(ref); ok {
		return id, nil
	}
	return c.allocator.GetOrGenerateID(ref)
}

// ResolveResourceID maps an id back to its reference.
func (c *Callback) ResolveResourceID(id android.ResourceID) (android.Reference, bool) {
	if ref, ok := c.symbols.Resolve(id); ok {
		return ref, true
	}
	return c.allocator.FindByID(id)
}

// GetParser returns a parser for a layout-like resource value. An aapt
// value replays a declared sub-document collected from an earlier parser;
// anything else is a file path. A missing file yields a nil parser and no
// error.
func (c *Callback) GetParser(t android.ResourceType, value string) (*parsers.LayoutParser, error) {
	if value == "" {
		return nil, nil
	}
	if t == android.TypeAapt {
		return c.ParserForDeclared(value)
	}

	p, err := parsers.LayoutParserFromFile(value, parsers.WithCounter(c.counter), parsers.WithLogger(c.logger))
	if errors.Is(err, fs.ErrNotExist) {
		c.logger.Debug("layout file not found", "path", value)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if declared := p.DeclaredAttrs(); len(declared) > 0 {
		c.mu.Lock()
		for id, tag := range declared {
			c.declared[id] = tag
		}
		c.mu.Unlock()
	}
	return p, nil
}

// ParserForDeclared replays the declared sub-document with the given id.
// Both the bare id and the full "@aapt:_aapt/<id>" value are accepted.
func (c *Callback) ParserForDeclared(id string) (*parsers.LayoutParser, error) {
	id = strings.TrimPrefix(id, android.AaptAttrPrefix)

	c.mu.RLock()
	tag, ok := c.declared[id]
	c.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s%s", sberrors.ErrDeclaredAttrMissing, android.AaptAttrPrefix, id)
	}
	return parsers.LayoutParserFromDeclared(tag), nil
}

// DeclaredCount is the number of declared sub-documents collected so far.
func (c *Callback) DeclaredCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.declared)
}
