package resids

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/hashicorp/go-hclog"

	"github.com/provide-io/playground/go/sandbox/pkg/android"
	sberrors "github.com/provide-io/playground/go/sandbox/pkg/errors"
	"github.com/provide-io/playground/go/sandbox/pkg/logging"
	"github.com/provide-io/playground/go/sandbox/pkg/resources"
)

// SymbolTable holds the identifiers compiled into an application, read
// from aapt's R.txt. It is filled during session construction and read
// concurrently afterwards.
type SymbolTable struct {
	mu     sync.RWMutex
	byRef  map[android.Reference]android.ResourceID
	byID   map[android.ResourceID]android.Reference
	diags  *resources.Diagnostics
	logger hclog.Logger
}

func NewSymbolTable(diags *resources.Diagnostics, logger hclog.Logger) *SymbolTable {
	return &SymbolTable{
		byRef:  make(map[android.Reference]android.ResourceID),
		byID:   make(map[android.ResourceID]android.Reference),
		diags:  diags,
		logger: logging.Component(logger, "symbols"),
	}
}

// LoadFile reads an R.txt file into the table under ns.
func (t *SymbolTable) LoadFile(path string, ns android.Namespace) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open symbol table: %w", err)
	}
	defer f.Close()
	return t.Load(f, path, ns)
}

// Load reads lines of the form "int <type> <name> <hex id>". Array lines
// and styleable indices carry no identifier and are ignored. A line that
// cannot be read is recorded as a lookup failure and skipped.
func (t *SymbolTable) Load(r io.Reader, path string, ns android.Namespace) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	loaded := 0
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		fields := strings.Fields(text)
		if fields[0] == "int[]" {
			continue
		}
		if len(fields) != 4 || fields[0] != "int" {
			t.skip(path, line, fmt.Errorf("malformed symbol line %q", text))
			continue
		}
		typ, ok := android.ParseResourceType(fields[1])
		if !ok {
			t.skip(path, line, fmt.Errorf("%w: %q", sberrors.ErrUnknownResourceType, fields[1]))
			continue
		}
		if typ == android.TypeStyleable {
			continue
		}
		value, err := strconv.ParseUint(strings.TrimPrefix(strings.ToLower(fields[3]), "0x"), 16, 32)
		if err != nil {
			t.skip(path, line, fmt.Errorf("malformed identifier %q: %w", fields[3], err))
			continue
		}
		t.Put(android.NewReference(ns, typ, fields[2]), android.ResourceID(value))
		loaded++
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read symbol table %s: %w", path, err)
	}
	t.logger.Debug("📇 symbols loaded", "path", path, "namespace", ns, "count", loaded)
	return nil
}

func (t *SymbolTable) skip(path string, line int, err error) {
	t.logger.Warn("⚠️ skipping symbol", "path", path, "line", line, "error", err)
	t.diags.Add(resources.LookupFailure, fmt.Sprintf("%s:%d", path, line), err)
}

// Put registers one compiled identifier.
func (t *SymbolTable) Put(ref android.Reference, id android.ResourceID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.byRef[ref] = id
	t.byID[id] = ref
}

func (t *SymbolTable) Lookup(ref android.Reference) (android.ResourceID, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	id, ok := t.byRef[ref]
	return id, ok
}

func (t *SymbolTable) Resolve(id android.ResourceID) (android.Reference, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	ref, ok := t.byID[id]
	return ref, ok
}

func (t *SymbolTable) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.byRef)
}
