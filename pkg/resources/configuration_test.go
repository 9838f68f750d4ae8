package resources

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/provide-io/playground/go/sandbox/pkg/android"
	sberrors "github.com/provide-io/playground/go/sandbox/pkg/errors"
)

func TestParseFolderName(t *testing.T) {
	tests := []struct {
		name   string
		folder android.FolderType
		config string
	}{
		{"values", android.FolderValues, ""},
		{"drawable-xhdpi", android.FolderDrawable, "xhdpi"},
		{"values-en-rUS", android.FolderValues, "en-rUS"},
		{"values-b+sr+Latn", android.FolderValues, "b+sr+Latn"},
		{"layout-land-v21", android.FolderLayout, "land-v21"},
		{"values-mcc310-mnc004-fr-ldrtl-sw600dp-w720dp-h1024dp-large-long-round-widecg-highdr-port-car-night-xxhdpi-finger-keyshidden-qwerty-navhidden-dpad-640x480-v26",
			android.FolderValues,
			"mcc310-mnc004-fr-ldrtl-sw600dp-w720dp-h1024dp-large-long-round-widecg-highdr-port-car-night-xxhdpi-finger-keyshidden-qwerty-navhidden-dpad-640x480-v26"},
		{"mipmap-anydpi-v26", android.FolderMipmap, "anydpi-v26"},
		{"values-feminine", android.FolderValues, "feminine"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			folder, config, err := ParseFolderName(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.folder, folder)
			assert.Equal(t, tt.config, config.String())
		})
	}
}

func TestParseFolderNameInvalid(t *testing.T) {
	tests := []string{
		"values-foo",
		"values-v21-en",     // out of order
		"values-xhdpi-hdpi", // same axis twice
		"unknown",
		"drawable-",
		"values-eng",
	}

	for _, name := range tests {
		t.Run(name, func(t *testing.T) {
			_, _, err := ParseFolderName(name)
			assert.ErrorIs(t, err, sberrors.ErrInvalidQualifier)
		})
	}
}

func TestConfigurationCompare(t *testing.T) {
	tests := []struct {
		first, second string
	}{
		{"xhdpi", ""},
		{"en-rUS", "en"},
		{"en", "xhdpi"},
		{"v26", "v21"},
		{"sw720dp", "sw600dp"},
		{"land-v21", "land"},
	}

	for _, tt := range tests {
		t.Run(tt.first+" before "+tt.second, func(t *testing.T) {
			a := MustParseConfiguration(tt.first)
			b := MustParseConfiguration(tt.second)
			assert.Negative(t, a.Compare(b))
			assert.Positive(t, b.Compare(a))
			assert.Zero(t, a.Compare(a))
		})
	}
}

func TestConfigurationMatches(t *testing.T) {
	tests := []struct {
		resource string
		device   string
		want     bool
	}{
		{"", "en-rUS-xhdpi-v31", true},
		{"xhdpi", "xhdpi", true},
		{"xhdpi", "hdpi", false},
		{"nodpi", "hdpi", true},
		{"en", "en-rUS", true},
		{"en-rGB", "en-rUS", false},
		{"fr", "en-rUS", false},
		{"b+sr+Latn", "b+sr+Latn+RS", true},
		{"v21", "v31", true},
		{"v33", "v31", false},
		{"sw600dp", "sw411dp", false},
		{"w320dp", "w411dp", true},
		{"night", "notnight", false},
		{"night", "v31", true},
	}

	for _, tt := range tests {
		t.Run(tt.resource+" on "+tt.device, func(t *testing.T) {
			assert.Equal(t, tt.want, MustParseConfiguration(tt.resource).Matches(MustParseConfiguration(tt.device)))
		})
	}
}

func TestConfigurationAxes(t *testing.T) {
	c := MustParseConfiguration("en-rUS-xhdpi-v31")
	density, ok := c.Get(AxisDensity)
	require.True(t, ok)
	assert.Equal(t, DensityXHigh, density.Num)
	assert.False(t, c.Has(AxisOrientation))
	assert.True(t, Default.IsDefault())
	assert.Equal(t, MustParseConfiguration("xhdpi"), Default.With(AxisDensity, density))
}
