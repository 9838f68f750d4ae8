package workenv

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

const (
	completeMarker   = ".extraction.complete"
	incompleteMarker = ".extraction.incomplete"

	// MaxMarkerAge is how long a completed extraction is trusted.
	MaxMarkerAge = 30 * 24 * time.Hour
)

// ValidationMarker records a finished extraction.
type ValidationMarker struct {
	Timestamp time.Time `json:"timestamp"`
	Name      string    `json:"name"`
	Chain     string    `json:"chain"`
	Checksum  string    `json:"checksum"`
	Files     int       `json:"files"`
}

// ReadMarker returns the completion marker in path, if any.
func ReadMarker(path string) (*ValidationMarker, error) {
	data, err := os.ReadFile(filepath.Join(path, completeMarker))
	if err != nil {
		return nil, err
	}
	var marker ValidationMarker
	if err := json.Unmarshal(data, &marker); err != nil {
		return nil, err
	}
	return &marker, nil
}

// IsValid reports whether path holds a complete extraction of the named
// archive. Every directory in essentialDirs must exist below path.
func IsValid(path, name, chain, checksum string, essentialDirs ...string) bool {
	marker, err := ReadMarker(path)
	if err != nil {
		return false
	}

	if marker.Name != name || marker.Chain != chain {
		return false
	}
	if checksum != "" && marker.Checksum != checksum {
		return false
	}
	if time.Since(marker.Timestamp) > MaxMarkerAge {
		return false
	}

	for _, dir := range essentialDirs {
		info, err := os.Stat(filepath.Join(path, dir))
		if err != nil || !info.IsDir() {
			return false
		}
	}

	return true
}

// MarkComplete writes the completion marker into path.
func MarkComplete(path string, marker ValidationMarker) error {
	if marker.Timestamp.IsZero() {
		marker.Timestamp = time.Now()
	}

	data, err := json.MarshalIndent(marker, "", "  ")
	if err != nil {
		return err
	}

	os.Remove(filepath.Join(path, incompleteMarker))
	return os.WriteFile(filepath.Join(path, completeMarker), data, 0o600)
}

// MarkIncomplete marks a failed extraction.
func MarkIncomplete(path string, reason string) error {
	marker := map[string]interface{}{
		"timestamp": time.Now(),
		"reason":    reason,
	}

	data, err := json.MarshalIndent(marker, "", "  ")
	if err != nil {
		return err
	}

	os.Remove(filepath.Join(path, completeMarker))

	return os.WriteFile(filepath.Join(path, incompleteMarker), data, 0o600)
}

// IsMarker reports whether a file name is one of the markers written here.
func IsMarker(name string) bool {
	return name == completeMarker || name == incompleteMarker
}

// Clean removes the markers from path.
func Clean(path string) {
	os.Remove(filepath.Join(path, incompleteMarker))
	os.Remove(filepath.Join(path, completeMarker))
}
