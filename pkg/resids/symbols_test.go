package resids

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/provide-io/playground/go/sandbox/pkg/android"
	"github.com/provide-io/playground/go/sandbox/pkg/resources"
)

const rTxt = `int attr chipColor 0x7f010000
int drawable icon 0x7f020000
int id title 0x7f030001
int[] styleable Chip { 0x7f010000 }
int styleable Chip_chipColor 0
int widget oops 0x7f040000
int string broken 0xzz
garbage line

int style Theme_App 0x7f050000
`

func TestSymbolTableLoad(t *testing.T) {
	diags := resources.NewDiagnostics()
	table := NewSymbolTable(diags, nil)
	require.NoError(t, table.Load(strings.NewReader(rTxt), "R.txt", android.ResAuto))

	assert.Equal(t, 4, table.Len())

	id, ok := table.Lookup(android.NewReference(android.ResAuto, android.TypeDrawable, "icon"))
	require.True(t, ok)
	assert.Equal(t, android.ResourceID(0x7f020000), id)

	ref, ok := table.Resolve(0x7f030001)
	require.True(t, ok)
	assert.Equal(t, android.NewReference(android.ResAuto, android.TypeID, "title"), ref)

	_, ok = table.Lookup(android.NewReference(android.ResAuto, android.TypeStyleable, "Chip_chipColor"))
	assert.False(t, ok, "styleable indices are not identifiers")
	_, ok = table.Lookup(android.NewReference(android.Framework, android.TypeDrawable, "icon"))
	assert.False(t, ok)

	failures := diags.Of(resources.LookupFailure)
	require.Len(t, failures, 3)
	assert.Equal(t, "R.txt:6", failures[0].Path)
}

func TestSymbolTableLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "R.txt")
	require.NoError(t, os.WriteFile(path, []byte("int layout main 0x7f0d0000\n"), 0o644))

	table := NewSymbolTable(nil, nil)
	require.NoError(t, table.LoadFile(path, android.ResAuto))
	_, ok := table.Lookup(android.NewReference(android.ResAuto, android.TypeLayout, "main"))
	assert.True(t, ok)

	assert.Error(t, table.LoadFile(filepath.Join(t.TempDir(), "missing"), android.ResAuto))
}
