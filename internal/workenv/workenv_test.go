package workenv

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestGetCacheRootFromEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(CacheDirEnv, dir)

	if got := GetCacheRoot(); got != dir {
		t.Errorf("GetCacheRoot() = %s, want %s", got, dir)
	}
}

func TestLibraryPath(t *testing.T) {
	tests := []struct {
		name     string
		checksum string
		suffix   string
	}{
		{"appcompat", "0123456789abcdef", "appcompat-01234567"},
		{"short", "abc", "short-abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LibraryPath("/cache", tt.name, tt.checksum)
			want := filepath.Join("/cache", "libraries", tt.suffix)
			if got != want {
				t.Errorf("LibraryPath = %s, want %s", got, want)
			}
		})
	}

	noSum := LibraryPath("/cache", "lib", "")
	if !strings.HasPrefix(filepath.Base(noSum), "lib-") || len(filepath.Base(noSum)) != len("lib-")+8 {
		t.Errorf("LibraryPath without checksum = %s", noSum)
	}
}

func TestCreateWorkenv(t *testing.T) {
	root := filepath.Join(t.TempDir(), "env")
	if err := CreateWorkenv(root, []DirectorySpec{{Path: "tmp"}, {Path: "extract", Mode: 0o750}}); err != nil {
		t.Fatalf("CreateWorkenv: %v", err)
	}
	for _, dir := range []string{"tmp", "extract"} {
		if info, err := os.Stat(filepath.Join(root, dir)); err != nil || !info.IsDir() {
			t.Errorf("%s not created: %v", dir, err)
		}
	}
}

func TestMarkers(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "res"), 0o700); err != nil {
		t.Fatal(err)
	}

	if IsValid(dir, "lib", "aar", "sum") {
		t.Fatal("valid before marking")
	}

	if err := MarkComplete(dir, ValidationMarker{Name: "lib", Chain: "aar", Checksum: "sum", Files: 3}); err != nil {
		t.Fatalf("MarkComplete: %v", err)
	}

	tests := []struct {
		name      string
		libName   string
		chain     string
		checksum  string
		essential []string
		want      bool
	}{
		{"matching", "lib", "aar", "sum", nil, true},
		{"no checksum to compare", "lib", "aar", "", nil, true},
		{"essential present", "lib", "aar", "sum", []string{"res"}, true},
		{"essential missing", "lib", "aar", "sum", []string{"assets"}, false},
		{"other name", "other", "aar", "sum", nil, false},
		{"other chain", "lib", "tar.gz", "sum", nil, false},
		{"other checksum", "lib", "aar", "nope", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValid(dir, tt.libName, tt.chain, tt.checksum, tt.essential...); got != tt.want {
				t.Errorf("IsValid = %v, want %v", got, tt.want)
			}
		})
	}

	marker, err := ReadMarker(dir)
	if err != nil {
		t.Fatal(err)
	}
	if marker.Files != 3 {
		t.Errorf("marker files = %d", marker.Files)
	}

	if err := MarkIncomplete(dir, "interrupted"); err != nil {
		t.Fatal(err)
	}
	if IsValid(dir, "lib", "aar", "sum") {
		t.Error("valid after MarkIncomplete")
	}

	Clean(dir)
	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		if IsMarker(e.Name()) {
			t.Errorf("marker %s left after Clean", e.Name())
		}
	}
}

func TestStaleMarker(t *testing.T) {
	dir := t.TempDir()
	old := time.Now().Add(-MaxMarkerAge - time.Hour)
	if err := MarkComplete(dir, ValidationMarker{Name: "lib", Chain: "aar", Timestamp: old}); err != nil {
		t.Fatal(err)
	}
	if IsValid(dir, "lib", "aar", "") {
		t.Error("stale marker accepted")
	}
}
