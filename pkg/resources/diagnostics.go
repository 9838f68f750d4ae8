package resources

import (
	"fmt"
	"sync"
)

// DiagnosticKind classifies a non-fatal loading or lookup problem.
type DiagnosticKind int

const (
	InvalidQualifier DiagnosticKind = iota
	InvalidResourceName
	ParseFailure
	LookupFailure
)

func (k DiagnosticKind) String() string {
	switch k {
	case InvalidQualifier:
		return "invalid-qualifier"
	case InvalidResourceName:
		return "invalid-resource-name"
	case ParseFailure:
		return "parse-failure"
	case LookupFailure:
		return "lookup-failure"
	}
	return fmt.Sprintf("DiagnosticKind(%d)", int(k))
}

// Diagnostic records something that was skipped.
type Diagnostic struct {
	Kind DiagnosticKind
	Path string
	Err  error
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s %s: %v", d.Kind, d.Path, d.Err)
}

// Diagnostics collects problems from every loader of one session. It is
// safe for concurrent use; a nil *Diagnostics discards everything.
type Diagnostics struct {
	mu      sync.Mutex
	entries []Diagnostic
}

func NewDiagnostics() *Diagnostics { return &Diagnostics{} }

func (d *Diagnostics) Add(kind DiagnosticKind, path string, err error) {
	if d == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.entries = append(d.entries, Diagnostic{Kind: kind, Path: path, Err: err})
}

// Entries returns a copy of everything recorded so far.
func (d *Diagnostics) Entries() []Diagnostic {
	if d == nil {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Diagnostic(nil), d.entries...)
}

// Of returns the entries of one kind.
func (d *Diagnostics) Of(kind DiagnosticKind) []Diagnostic {
	var out []Diagnostic
	for _, e := range d.Entries() {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

func (d *Diagnostics) Len() int {
	if d == nil {
		return 0
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.entries)
}
