package permissions

import (
	"os"
	"testing"
)

func TestForEntry(t *testing.T) {
	tests := []struct {
		mode int64
		want os.FileMode
	}{
		{0o644, DefaultFilePerms},
		{0o755, DefaultExecutablePerms},
		{0o4755, DefaultExecutablePerms},
		{0o077, DefaultFilePerms},
		{0, DefaultFilePerms},
	}

	for _, tt := range tests {
		if got := ForEntry(tt.mode); got != tt.want {
			t.Errorf("ForEntry(%o) = %o, want %o", tt.mode, got, tt.want)
		}
	}
}
