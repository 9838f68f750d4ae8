package sandbox

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/provide-io/playground/go/sandbox/pkg/android"
	"github.com/provide-io/playground/go/sandbox/pkg/resources"
)

// ItemEnv is what a filter expression sees for one item.
type ItemEnv struct {
	Namespace string `expr:"namespace"`
	Type      string `expr:"type"`
	Name      string `expr:"name"`
	Config    string `expr:"config"`
	Value     string `expr:"value"`
	File      string `expr:"file"`
	Store     string `expr:"store"`
	Default   bool   `expr:"default"`
}

func itemEnv(item *resources.Item) ItemEnv {
	env := ItemEnv{
		Namespace: item.Namespace.String(),
		Type:      item.Type.String(),
		Name:      item.Name,
		Config:    item.Config.String(),
		Value:     item.Value,
		File:      item.File,
		Default:   item.Config.IsDefault(),
	}
	if leaf := item.Store(); leaf != nil {
		env.Store = leaf.Name()
	}
	return env
}

// Filter selects resource items.
type Filter struct {
	source  string
	program *vm.Program
}

// CompileFilter compiles a boolean expression over ItemEnv, for example
//
//	type == "string" && config contains "fr"
//
// An empty expression matches everything.
func CompileFilter(source string) (*Filter, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return &Filter{}, nil
	}
	program, err := expr.Compile(source, expr.Env(ItemEnv{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compiling filter %q: %w", source, err)
	}
	return &Filter{source: source, program: program}, nil
}

func (f *Filter) String() string { return f.source }

// Match evaluates the filter for one item.
func (f *Filter) Match(item *resources.Item) (bool, error) {
	if f == nil || f.program == nil {
		return true, nil
	}
	out, err := expr.Run(f.program, itemEnv(item))
	if err != nil {
		return false, fmt.Errorf("evaluating filter %q on %s: %w", f.source, item, err)
	}
	return out.(bool), nil
}

// queryVisitor walks a store, limited to one namespace and type when set.
type queryVisitor struct {
	ns     *android.Namespace
	typ    *android.ResourceType
	filter *Filter
	items  []*resources.Item
	err    error
}

func (v *queryVisitor) ShouldVisitNamespace(ns android.Namespace) bool {
	return v.ns == nil || *v.ns == ns
}

func (v *queryVisitor) ShouldVisitType(t android.ResourceType) bool {
	return v.typ == nil || *v.typ == t
}

func (v *queryVisitor) Visit(item *resources.Item) resources.VisitResult {
	ok, err := v.filter.Match(item)
	if err != nil {
		v.err = err
		return resources.Abort
	}
	if ok {
		v.items = append(v.items, item)
	}
	return resources.Continue
}

// Query narrows a Session.Query call. Nil fields match everything.
type Query struct {
	Namespace *android.Namespace
	Type      *android.ResourceType
	Filter    *Filter
	// Framework searches the framework store instead of the application.
	Framework bool
}

// Query returns every item variant accepted by q, in merged order.
func (s *Session) Query(q Query) ([]*resources.Item, error) {
	store := s.app
	if q.Framework {
		store = s.framework
	}
	v := &queryVisitor{ns: q.Namespace, typ: q.Type, filter: q.Filter}
	store.Accept(v)
	if v.err != nil {
		return nil, v.err
	}
	return v.items, nil
}
