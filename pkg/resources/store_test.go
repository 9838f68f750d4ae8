package resources

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/provide-io/playground/go/sandbox/pkg/android"
	sberrors "github.com/provide-io/playground/go/sandbox/pkg/errors"
)

func TestCompositePriority(t *testing.T) {
	local := loadLeaf(t, map[string]string{
		"values/strings.xml": values(`<string name="title">local</string><string name="only_local">l</string>`),
	}, android.ResAuto)
	library := loadLeaf(t, map[string]string{
		"values/strings.xml":       values(`<string name="title">library</string><string name="only_lib">x</string>`),
		"values-xhdpi/strings.xml": values(`<string name="title">library-xhdpi</string>`),
	}, android.ResAuto)

	app := NewComposite("app", []*Store{local}, []*Store{library})
	view := app.Resources(android.ResAuto, android.TypeString)

	assert.Equal(t, []string{"only_lib", "only_local", "title"}, view.Names())
	assert.Equal(t, []string{"library-xhdpi", "local", "library"}, itemValues(view.Get("title")))
	assert.Equal(t, []string{"library-xhdpi", "local"}, itemValues(view.Winners("title")))
	assert.Equal(t, 5, view.Size())

	// the same leaves listed the other way round flip the default winner
	reversed := NewComposite("app", []*Store{library}, []*Store{local})
	assert.Equal(t, "library", reversed.Resources(android.ResAuto, android.TypeString).Winners("title")[1].Value)
}

func TestCompositeSpecificity(t *testing.T) {
	def := loadLeaf(t, map[string]string{"drawable/icon.png": "a"}, android.ResAuto)
	xhdpi := loadLeaf(t, map[string]string{"drawable-xhdpi/icon.png": "b"}, android.ResAuto)
	app := NewComposite("app", []*Store{def, xhdpi}, nil)

	device := MustParseConfiguration("en-rUS-xhdpi-v31")
	item, ok := app.BestMatch(android.ResAuto, android.TypeDrawable, "icon", device)
	require.True(t, ok)
	assert.Equal(t, "xhdpi", item.Config.String())
	assert.Same(t, xhdpi, item.Store())

	item, ok = app.BestMatch(android.ResAuto, android.TypeDrawable, "icon", MustParseConfiguration("mdpi"))
	require.True(t, ok)
	assert.True(t, item.Config.IsDefault())

	_, ok = app.BestMatch(android.ResAuto, android.TypeDrawable, "missing", device)
	assert.False(t, ok)
}

func TestCompositeSingleLeafBypass(t *testing.T) {
	leaf := loadLeaf(t, map[string]string{"values/strings.xml": values(`<string name="a">a</string>`)}, android.ResAuto)
	app := NewComposite("app", []*Store{leaf}, nil)

	assert.Same(t, leaf.Resources(android.ResAuto, android.TypeString), app.Resources(android.ResAuto, android.TypeString))
}

func TestCompositeEmptyView(t *testing.T) {
	leaf := loadLeaf(t, map[string]string{"values/strings.xml": values(`<string name="a">a</string>`)}, android.ResAuto)
	app := NewComposite("app", []*Store{leaf}, nil)

	view := app.Resources(android.Framework, android.TypeString)
	assert.Equal(t, 0, view.Len())
	assert.Nil(t, view.Get("a"))
	assert.Nil(t, view.First("a"))
	assert.Equal(t, 0, app.Resources(android.ResAuto, android.TypeLayout).Size())
	assert.Equal(t, 0, NewComposite("empty", nil, nil).Resources(android.ResAuto, android.TypeString).Len())
}

func TestCompositeInvalidation(t *testing.T) {
	a := loadLeaf(t, map[string]string{"values/strings.xml": values(`<string name="s">a</string>`)}, android.ResAuto)
	b := loadLeaf(t, map[string]string{"values/strings.xml": values(`<string name="s">b</string>`)}, android.ResAuto)
	c := loadLeaf(t, map[string]string{"values/strings.xml": values(`<string name="s">c</string>`)}, android.ResAuto)

	app := NewComposite("app", []*Store{a, b}, nil)
	generation := app.Generation()
	first := app.Resources(android.ResAuto, android.TypeString)
	assert.Same(t, first, app.Resources(android.ResAuto, android.TypeString), "cached")
	assert.Equal(t, "a", first.First("s").Value)

	app.SetChildren([]*Store{c, a}, []*Store{b})
	assert.Equal(t, generation+1, app.Generation())
	second := app.Resources(android.ResAuto, android.TypeString)
	assert.NotSame(t, first, second)
	assert.Equal(t, []string{"c", "a", "b"}, itemValues(second.Get("s")))
	assert.Equal(t, []*Store{c, a, b}, app.Leaves())
}

func TestNestedCompositeInvalidatesParent(t *testing.T) {
	a := loadLeaf(t, map[string]string{"values/strings.xml": values(`<string name="s">a</string>`)}, android.ResAuto)
	b := loadLeaf(t, map[string]string{"values/strings.xml": values(`<string name="s">b</string>`)}, android.ResAuto)
	c := loadLeaf(t, map[string]string{"values/strings.xml": values(`<string name="s">c</string>`)}, android.ResAuto)
	lib := loadLeaf(t, map[string]string{"values/strings.xml": values(`<string name="s">lib</string>`)}, android.ResAuto)

	module := NewComposite("module", []*Store{a, b}, nil)
	app := NewComposite("app", []*Store{module}, []*Store{lib})
	assert.Equal(t, []string{"a", "b", "lib"}, itemValues(app.Get(android.ResAuto, android.TypeString, "s")))
	generation := app.Generation()

	module.SetChildren([]*Store{c}, nil)
	assert.Equal(t, []string{"c"}, itemValues(module.Get(android.ResAuto, android.TypeString, "s")))
	assert.Equal(t, []string{"c", "lib"}, itemValues(app.Get(android.ResAuto, android.TypeString, "s")))
	assert.Equal(t, []*Store{c, lib}, app.Leaves())
	assert.Greater(t, app.Generation(), generation)

	app.SetChildren(nil, []*Store{lib})
	module.SetChildren([]*Store{a}, nil)
	assert.Equal(t, []*Store{lib}, app.Leaves(), "detached module no longer reaches app")
}

func TestCompositeIDsConcatenate(t *testing.T) {
	layout := `<FrameLayout xmlns:android="http://schemas.android.com/apk/res/android"><View android:id="@+id/shared"/></FrameLayout>`
	a := loadLeaf(t, map[string]string{"layout/a.xml": layout, "layout-land/a.xml": layout}, android.ResAuto)
	b := loadLeaf(t, map[string]string{"layout/b.xml": layout}, android.ResAuto)

	app := NewComposite("app", []*Store{a}, []*Store{b})
	ids := app.Resources(android.ResAuto, android.TypeID).Get("shared")
	require.Len(t, ids, 3)
	assert.Same(t, a, ids[0].Store())
	assert.Same(t, a, ids[1].Store())
	assert.Same(t, b, ids[2].Store())
	assert.Len(t, app.Resources(android.ResAuto, android.TypeID).Winners("shared"), 3)
}

func TestCompositeNamespaces(t *testing.T) {
	lib := android.NamespaceForPackage("com.example.lib")
	app := loadLeaf(t, map[string]string{"values/strings.xml": values(`<string name="s">app</string>`)}, android.ResAuto)
	library := loadLeaf(t, map[string]string{"values/strings.xml": values(`<string name="s">lib</string>`)}, lib)

	store := NewComposite("app", []*Store{app}, []*Store{library})
	assert.Equal(t, []android.Namespace{android.ResAuto, lib}, store.Namespaces())
	assert.Equal(t, "app", store.Resources(android.ResAuto, android.TypeString).First("s").Value)
	assert.Equal(t, "lib", store.Resources(lib, android.TypeString).First("s").Value)
	assert.Len(t, store.Get(android.ResAuto, android.TypeString, "s"), 1)
}

func TestAccept(t *testing.T) {
	leaf := loadLeaf(t, fixture, android.ResAuto)
	other := loadLeaf(t, map[string]string{"values/strings.xml": values(`<string name="app_name">other</string>`)}, android.ResAuto)
	app := NewComposite("app", []*Store{leaf, other}, nil)

	var visited int
	result := app.Accept(VisitorFunc(func(item *Item) VisitResult {
		visited++
		return Continue
	}))
	assert.Equal(t, Continue, result)

	var total int
	for _, typ := range android.ResourceTypes() {
		total += app.Resources(android.ResAuto, typ).Size()
	}
	assert.Equal(t, total, visited)

	visited = 0
	result = app.Accept(VisitorFunc(func(item *Item) VisitResult {
		visited++
		if visited == 3 {
			return Abort
		}
		return Continue
	}))
	assert.Equal(t, Abort, result)
	assert.Equal(t, 3, visited)
}

func TestModuleStoreLaterDirsWin(t *testing.T) {
	main := writeTree(t, map[string]string{"values/strings.xml": values(`<string name="s">main</string>`)})
	debug := writeTree(t, map[string]string{"values/strings.xml": values(`<string name="s">debug</string>`)})

	module, err := NewModuleStore("app", android.ResAuto, []string{main, debug})
	require.NoError(t, err)
	assert.Equal(t, android.ResAuto, module.Namespace())
	assert.Equal(t, []string{"debug", "main"}, itemValues(module.Get(android.ResAuto, android.TypeString, "s")))
}

func TestProjectStore(t *testing.T) {
	main := writeTree(t, map[string]string{"values/strings.xml": values(`<string name="s">main</string>`)})
	feature := writeTree(t, map[string]string{"values/strings.xml": values(`<string name="s">feature</string><string name="f">f</string>`)})

	t.Run("disabled", func(t *testing.T) {
		project, err := NewProjectStore(NamespacingDisabled,
			ModuleSpec{Dirs: []string{main}},
			[]ModuleSpec{{Name: "feature", PackageName: "com.example.feature", Dirs: []string{feature}}})
		require.NoError(t, err)
		assert.Equal(t, []android.Namespace{android.ResAuto}, project.Namespaces())
		assert.Equal(t, "main", project.Resources(android.ResAuto, android.TypeString).First("s").Value)
	})

	t.Run("required", func(t *testing.T) {
		project, err := NewProjectStore(NamespacingRequired,
			ModuleSpec{PackageName: "com.example.app", Dirs: []string{main}},
			[]ModuleSpec{{Name: "feature", PackageName: "com.example.feature", Dirs: []string{feature}}})
		require.NoError(t, err)
		featureNS := android.NamespaceForPackage("com.example.feature")
		assert.Len(t, project.Namespaces(), 2)
		assert.Equal(t, "feature", project.Resources(featureNS, android.TypeString).First("s").Value)
	})

	t.Run("required without package", func(t *testing.T) {
		_, err := NewProjectStore(NamespacingRequired, ModuleSpec{Dirs: []string{main}}, nil)
		assert.True(t, errors.Is(err, sberrors.ErrNamespaceRequired))
	})

	t.Run("missing dir", func(t *testing.T) {
		_, err := NewProjectStore(NamespacingDisabled, ModuleSpec{Dirs: []string{main + "-missing"}}, nil)
		assert.ErrorIs(t, err, sberrors.ErrResourceDirMissing)
	})
}

func TestAppStoreWithLibraries(t *testing.T) {
	main := writeTree(t, map[string]string{"values/strings.xml": values(`<string name="s">main</string>`)})
	libDir := writeTree(t, map[string]string{"values/strings.xml": values(`<string name="s">lib</string><string name="l">l</string>`)})

	project, err := NewProjectStore(NamespacingDisabled, ModuleSpec{Dirs: []string{main}}, nil)
	require.NoError(t, err)
	lib, err := NewLibraryStore(NamespacingDisabled, "com.example.lib", libDir)
	require.NoError(t, err)
	assert.Equal(t, "com.example.lib", lib.Name())

	app := NewAppStore(project, []*Store{lib})
	strs := app.Resources(android.ResAuto, android.TypeString)
	assert.Equal(t, []string{"main", "lib"}, itemValues(strs.Get("s")))
	assert.True(t, strs.Contains("l"))

	_, err = NewLibraryStore(NamespacingRequired, "", libDir)
	assert.ErrorIs(t, err, sberrors.ErrNamespaceRequired)
}

func TestCompositeConcurrentReads(t *testing.T) {
	a := loadLeaf(t, fixture, android.ResAuto)
	b := loadLeaf(t, fixture, android.ResAuto)
	app := NewComposite("app", []*Store{a}, []*Store{b})

	var wg sync.WaitGroup
	views := make([]*View, 16)
	for i := range views {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			views[i] = app.Resources(android.ResAuto, android.TypeString)
		}(i)
	}
	wg.Wait()
	for _, v := range views {
		assert.Same(t, views[0], v)
	}
}

func TestNamespacing(t *testing.T) {
	mode, err := ParseNamespacing("REQUIRED")
	require.NoError(t, err)
	assert.Equal(t, NamespacingRequired, mode)
	_, err = ParseNamespacing("sometimes")
	assert.Error(t, err)

	ns, err := NamespaceFor(NamespacingDisabled, "com.example")
	require.NoError(t, err)
	assert.Equal(t, android.ResAuto, ns)
}
