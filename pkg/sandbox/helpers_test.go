package sandbox

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
}

func testLogger(t *testing.T) hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:   t.Name(),
		Level:  hclog.Trace,
		Output: hclog.DefaultOutput,
	})
}

const androidNS = `xmlns:android="http://schemas.android.com/apk/res/android"`

var platformFiles = map[string]string{
	"data/res/values/strings.xml": `<resources>
  <string name="ok">OK</string>
  <string name="cancel">Cancel</string>
</resources>`,
	"data/res/layout/simple_list_item_1.xml": `<TextView ` + androidNS + ` android:id="@+id/text1"/>`,
}

var appFiles = map[string]string{
	"res/values/strings.xml": `<resources>
  <string name="app_name">Sandbox</string>
  <string name="shared">from app</string>
  <style name="Theme.App" parent="Theme.AppCompat"/>
</resources>`,
	"res/values-fr/strings.xml": `<resources><string name="app_name">Bac a sable</string></resources>`,
	"res/layout/main.xml": `<LinearLayout ` + androidNS + `
    xmlns:aapt="http://schemas.android.com/aapt"
    android:id="@+id/root">
  <ImageView android:id="@+id/icon">
    <aapt:attr name="android:src">
      <vector android:width="24dp"><path android:fillColor="#000"/></vector>
    </aapt:attr>
  </ImageView>
  <include layout="@layout/header"/>
</LinearLayout>`,
	"res/layout/header.xml": `<TextView ` + androidNS + ` android:id="@+id/title"/>`,
	"assets/config.json":    "app",
	"R.txt": `int string app_name 0x7f0e0001
int style Theme_App 0x7f100001
int id root 0x7f080001
int[] styleable Foo { 0x7f040001 }
`,
}

var libraryFiles = map[string]string{
	"widgets/AndroidManifest.xml": `<manifest package="com.example.widgets"/>`,
	"widgets/res/values/strings.xml": `<resources>
  <string name="shared">from library</string>
  <string name="lib_only">L</string>
</resources>`,
	"widgets/R.txt":              "int string lib_only 0x7f0e0042\n",
	"widgets/assets/lib.txt":     "lib",
	"widgets/assets/config.json": "lib",
}

type fixture struct {
	sdk     string
	appDir  string
	libsDir string
	cfg     Config
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	root := t.TempDir()
	f := &fixture{
		sdk:     filepath.Join(root, "sdk"),
		appDir:  filepath.Join(root, "app"),
		libsDir: filepath.Join(root, "libs"),
	}
	writeTree(t, filepath.Join(f.sdk, "platforms", "android-31"), platformFiles)
	writeTree(t, f.appDir, appFiles)
	writeTree(t, f.libsDir, libraryFiles)

	f.cfg = DefaultConfig()
	f.cfg.App.Dir = f.appDir
	f.cfg.App.SymbolFiles = []string{filepath.Join(f.appDir, "R.txt")}
	f.cfg.Libraries.Dir = f.libsDir
	f.cfg.Platform.AndroidHome = f.sdk
	f.cfg.CacheDir = filepath.Join(root, "cache")
	return f
}

func (f *fixture) session(t *testing.T) *Session {
	t.Helper()
	s, err := New(f.cfg, WithLogger(testLogger(t)))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}
