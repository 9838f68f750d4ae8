package logging

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/hashicorp/go-hclog"
)

func TestPrefixWriter(t *testing.T) {
	var out bytes.Buffer
	pw := NewPrefixWriter("> ", &out)

	writes := []string{"first li", "ne\nsecond line\n", "partial"}
	for _, w := range writes {
		n, err := pw.Write([]byte(w))
		if err != nil {
			t.Fatalf("Write(%q): %v", w, err)
		}
		if n != len(w) {
			t.Errorf("Write(%q) = %d", w, n)
		}
	}

	want := "> first line\n> second line\n"
	if out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}

	if _, err := pw.Write([]byte("\n")); err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(out.String(), "> partial\n") {
		t.Errorf("buffered line not flushed: %q", out.String())
	}
}

func TestPrefixWriterFlush(t *testing.T) {
	var out bytes.Buffer
	pw := NewPrefixWriter("> ", &out)

	if err := pw.Flush(); err != nil {
		t.Fatal(err)
	}
	if out.Len() != 0 {
		t.Errorf("empty flush wrote %q", out.String())
	}

	pw.Write([]byte("tail"))
	if err := pw.Flush(); err != nil {
		t.Fatal(err)
	}
	if out.String() != "> tail\n" {
		t.Errorf("output = %q", out.String())
	}
}

func TestPrefixWriterConcurrentLines(t *testing.T) {
	var out bytes.Buffer
	pw := NewPrefixWriter("> ", &out)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pw.Write([]byte("resource loaded\n"))
		}()
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	if len(lines) != 16 {
		t.Fatalf("got %d lines", len(lines))
	}
	for _, line := range lines {
		if line != "> resource loaded" {
			t.Errorf("interleaved line %q", line)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name  string
		arg   string
		env   string
		level hclog.Level
	}{
		{"default", "", "", DefaultLevel},
		{"environment", "", "trace", hclog.Trace},
		{"argument wins", "error", "trace", hclog.Error},
		{"unknown argument", "loud", "debug", hclog.Debug},
		{"unknown everywhere", "loud", "louder", DefaultLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(LogLevelEnv, tt.env)
			if got := ParseLevel(tt.arg); got != tt.level {
				t.Errorf("ParseLevel(%q) = %s, want %s", tt.arg, got, tt.level)
			}
		})
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name   string
		env    string
		json   bool
		prefix bool
	}{
		{"text", "", false, true},
		{"json from environment", "1", false, false},
		{"json option", "", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(JSONLogEnv, tt.env)
			t.Setenv(LogLevelEnv, "")
			var out bytes.Buffer
			logger := New(Options{Name: "sandbox", Level: "info", JSON: tt.json, Output: &out})
			logger.Info("loaded", "items", 3)
			logger.Debug("hidden")

			got := out.String()
			if strings.HasPrefix(got, Prefix) != tt.prefix {
				t.Errorf("prefix present = %v, output %q", !tt.prefix, got)
			}
			if strings.Contains(got, "hidden") {
				t.Errorf("debug line logged at info level: %q", got)
			}
			if !strings.Contains(got, "loaded") {
				t.Errorf("info line missing: %q", got)
			}
		})
	}
}

func TestComponent(t *testing.T) {
	t.Setenv(JSONLogEnv, "")
	var out bytes.Buffer
	root := New(Options{Name: "sandbox", Level: "debug", Output: &out})

	Component(Component(root, "session"), "folder").Debug("scanned")
	if !strings.Contains(out.String(), "sandbox.session.folder: scanned") {
		t.Errorf("component name missing: %q", out.String())
	}

	silent := Component(nil, "ids")
	if silent == nil {
		t.Fatal("nil parent gave a nil logger")
	}
	silent.Error("dropped")
	if strings.Contains(out.String(), "dropped") {
		t.Errorf("nil parent logged through root: %q", out.String())
	}
}

func TestOrDiscard(t *testing.T) {
	if OrDiscard(nil) == nil {
		t.Fatal("OrDiscard(nil) = nil")
	}
	root := hclog.NewNullLogger()
	if OrDiscard(root) != root {
		t.Error("OrDiscard replaced a non-nil logger")
	}
}
