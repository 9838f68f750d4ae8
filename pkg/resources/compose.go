package resources

import (
	"fmt"
	"strings"

	"github.com/provide-io/playground/go/sandbox/pkg/android"
	sberrors "github.com/provide-io/playground/go/sandbox/pkg/errors"
)

// Namespacing decides whether modules and libraries keep their own
// namespace or share the application namespace.
type Namespacing int

const (
	NamespacingDisabled Namespacing = iota
	NamespacingRequired
)

func (n Namespacing) String() string {
	if n == NamespacingRequired {
		return "required"
	}
	return "disabled"
}

// ParseNamespacing accepts "disabled" and "required"; empty means disabled.
func ParseNamespacing(s string) (Namespacing, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "disabled":
		return NamespacingDisabled, nil
	case "required":
		return NamespacingRequired, nil
	}
	return NamespacingDisabled, fmt.Errorf("unknown namespacing mode %q", s)
}

// NamespaceFor derives the namespace of a module or library. With
// namespacing disabled everything lives in the application namespace.
func NamespaceFor(mode Namespacing, packageName string) (android.Namespace, error) {
	if mode == NamespacingDisabled {
		return android.ResAuto, nil
	}
	if packageName == "" {
		return android.Namespace{}, sberrors.ErrNamespaceRequired
	}
	return android.NamespaceForPackage(packageName), nil
}

// NewModuleStore loads the resource directories of one module. Later
// directories override earlier ones, as flavor and build type folders
// override main.
func NewModuleStore(name string, ns android.Namespace, dirs []string, opts ...LoadOption) (*Store, error) {
	o := newLoadOptions(opts)
	shared := []LoadOption{WithLogger(o.logger), WithCounter(o.counter), WithDiagnostics(o.diagnostics)}

	leaves := make([]*Store, 0, len(dirs))
	for i := len(dirs) - 1; i >= 0; i-- {
		leaf, err := LoadFolder(dirs[i], ns, shared...)
		if err != nil {
			return nil, err
		}
		leaves = append(leaves, leaf)
	}
	return newSingleNamespaceComposite(name, ns, leaves).WithLogger(o.logger), nil
}

// ModuleSpec describes one module of the project.
type ModuleSpec struct {
	Name        string
	PackageName string
	Dirs        []string
}

// NewProjectStore builds the main module followed by the embedded modules.
// The main module wins over every embedded module.
func NewProjectStore(mode Namespacing, main ModuleSpec, modules []ModuleSpec, opts ...LoadOption) (*Store, error) {
	o := newLoadOptions(opts)
	children := make([]*Store, 0, len(modules)+1)
	for _, spec := range append([]ModuleSpec{main}, modules...) {
		ns, err := NamespaceFor(mode, spec.PackageName)
		if err != nil {
			return nil, &sberrors.ConstructionError{Op: "module namespace", Path: spec.Name, Err: err}
		}
		name := spec.Name
		if name == "" {
			name = "main"
		}
		module, err := NewModuleStore(name, ns, spec.Dirs, opts...)
		if err != nil {
			return nil, err
		}
		children = append(children, module)
	}
	o.logger.Debug("🏗️ project store built", "modules", len(children), "namespacing", mode)
	return NewComposite("project", children, nil).WithLogger(o.logger), nil
}

// NewLibraryStore loads the resource directory of an unpacked library.
func NewLibraryStore(mode Namespacing, packageName, dir string, opts ...LoadOption) (*Store, error) {
	ns, err := NamespaceFor(mode, packageName)
	if err != nil {
		return nil, &sberrors.ConstructionError{Op: "library namespace", Path: dir, Err: err}
	}
	name := packageName
	if name == "" {
		name = dir
	}
	return LoadFolder(dir, ns, append(opts, WithName(name))...)
}

// NewAppStore layers the project above its libraries.
func NewAppStore(project *Store, libraries []*Store) *Store {
	return NewComposite("app", []*Store{project}, libraries)
}
