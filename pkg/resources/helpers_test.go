package resources

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/require"

	"github.com/provide-io/playground/go/sandbox/pkg/android"
)

// writeTree creates files below a fresh temp dir and returns it.
func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func testLogger(t *testing.T) hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:   t.Name(),
		Level:  hclog.Trace,
		Output: hclog.DefaultOutput,
	})
}

func loadLeaf(t *testing.T, files map[string]string, ns android.Namespace, opts ...LoadOption) *Store {
	t.Helper()
	leaf, err := LoadFolder(writeTree(t, files), ns, opts...)
	require.NoError(t, err)
	return leaf
}

func values(body string) string {
	return `<?xml version="1.0" encoding="utf-8"?>
<resources xmlns:android="http://schemas.android.com/apk/res/android">` + body + `</resources>`
}

func itemValues(items []*Item) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Value
	}
	return out
}
