// Package resources loads resource folders into leaf stores and merges them
// into layered composite stores with override and priority semantics.
package resources

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/language"

	"github.com/provide-io/playground/go/sandbox/pkg/android"
	sberrors "github.com/provide-io/playground/go/sandbox/pkg/errors"
)

// Axis is one independent device condition of a Configuration. Axes are
// declared most significant first, which is also the order their segments
// must appear in a folder name.
type Axis uint8

const (
	AxisMCC Axis = iota
	AxisMNC
	AxisLocale
	AxisGrammaticalGender
	AxisLayoutDirection
	AxisSmallestWidth
	AxisWidth
	AxisHeight
	AxisScreenSize
	AxisScreenRatio
	AxisScreenRound
	AxisWideColorGamut
	AxisHDR
	AxisOrientation
	AxisUIMode
	AxisNightMode
	AxisDensity
	AxisTouchscreen
	AxisKeyboardState
	AxisTextInput
	AxisNavigationState
	AxisNavigationMethod
	AxisScreenDimension
	AxisVersion

	axisCount
)

var axisNames = [axisCount]string{
	"mcc", "mnc", "locale", "grammatical-gender", "layout-direction",
	"smallest-width", "width", "height", "screen-size", "screen-ratio",
	"screen-round", "wide-color-gamut", "hdr", "orientation", "ui-mode",
	"night-mode", "density", "touchscreen", "keyboard-state", "text-input",
	"navigation-state", "navigation-method", "screen-dimension", "version",
}

func (a Axis) String() string {
	if a < axisCount {
		return axisNames[a]
	}
	return fmt.Sprintf("Axis(%d)", uint8(a))
}

// Qualifier is the parsed value of one axis. Segment is the folder name form;
// Num orders qualifiers of the same axis, higher first.
type Qualifier struct {
	Segment string
	Num     int
}

// Density values in dots per inch.
const (
	DensityLow     = 120
	DensityMedium  = 160
	DensityTV      = 213
	DensityHigh    = 240
	DensityXHigh   = 320
	DensityXXHigh  = 480
	DensityXXXHigh = 640
	DensityAny     = 0xFFFE
	DensityNone    = 0xFFFF
)

// Configuration is a set of qualifiers, at most one per axis. The zero value
// is the default configuration. Configurations are comparable and can be map
// keys.
type Configuration struct {
	qualifiers [axisCount]Qualifier
	set        uint32
}

// Default is the unqualified configuration.
var Default = Configuration{}

// Get returns the qualifier set on axis.
func (c Configuration) Get(axis Axis) (Qualifier, bool) {
	if !c.Has(axis) {
		return Qualifier{}, false
	}
	return c.qualifiers[axis], true
}

func (c Configuration) Has(axis Axis) bool {
	return axis < axisCount && c.set&(1<<axis) != 0
}

// IsDefault reports whether no axis is qualified.
func (c Configuration) IsDefault() bool { return c.set == 0 }

// With returns a copy of c with axis set to q.
func (c Configuration) With(axis Axis, q Qualifier) Configuration {
	c.qualifiers[axis] = q
	c.set |= 1 << axis
	return c
}

// String is the qualifier suffix of a folder name, without the leading dash.
func (c Configuration) String() string {
	var parts []string
	for axis := Axis(0); axis < axisCount; axis++ {
		if c.Has(axis) {
			parts = append(parts, c.qualifiers[axis].Segment)
		}
	}
	return strings.Join(parts, "-")
}

// Compare orders configurations by specificity. Axes are compared most
// significant first; at the first axis qualified on only one side, that
// side sorts first. When both sides qualify an axis the higher Num sorts
// first, then the segment text.
func (c Configuration) Compare(o Configuration) int {
	for axis := Axis(0); axis < axisCount; axis++ {
		cs, os := c.Has(axis), o.Has(axis)
		switch {
		case cs && !os:
			return -1
		case !cs && os:
			return 1
		case !cs:
			continue
		}
		a, b := c.qualifiers[axis], o.qualifiers[axis]
		if a.Num != b.Num {
			if a.Num > b.Num {
				return -1
			}
			return 1
		}
		if cmp := strings.Compare(a.Segment, b.Segment); cmp != 0 {
			return cmp
		}
	}
	return 0
}

// Matches reports whether a resource qualified with c can be used on device.
// Axes the device leaves unset match anything.
func (c Configuration) Matches(device Configuration) bool {
	for axis := Axis(0); axis < axisCount; axis++ {
		if !c.Has(axis) || !device.Has(axis) {
			continue
		}
		mine, theirs := c.qualifiers[axis], device.qualifiers[axis]
		switch axis {
		case AxisSmallestWidth, AxisWidth, AxisHeight, AxisScreenSize, AxisVersion:
			if mine.Num > theirs.Num {
				return false
			}
		case AxisDensity:
			if mine.Num != theirs.Num && mine.Num != DensityAny && mine.Num != DensityNone {
				return false
			}
		case AxisLocale:
			if !localeMatches(mine.Segment, theirs.Segment) {
				return false
			}
		default:
			if mine.Segment != theirs.Segment {
				return false
			}
		}
	}
	return true
}

// ParseFolderName splits a resource folder name such as "drawable-en-xhdpi"
// into its folder type and configuration.
func ParseFolderName(name string) (android.FolderType, Configuration, error) {
	head, rest, dashed := strings.Cut(name, "-")
	folder, ok := android.ParseFolderType(head)
	if !ok {
		return 0, Configuration{}, fmt.Errorf("%w: unknown folder type %q", sberrors.ErrInvalidQualifier, head)
	}
	if dashed && rest == "" {
		return 0, Configuration{}, fmt.Errorf("%w: trailing dash in %q", sberrors.ErrInvalidQualifier, name)
	}
	config, err := ParseConfiguration(rest)
	if err != nil {
		return 0, Configuration{}, fmt.Errorf("folder %q: %w", name, err)
	}
	return folder, config, nil
}

// ParseConfiguration parses a dash separated qualifier list. The empty
// string is the default configuration.
func ParseConfiguration(qualifiers string) (Configuration, error) {
	var c Configuration
	if qualifiers == "" {
		return c, nil
	}
	segments := strings.Split(qualifiers, "-")
	next := Axis(0)
	for i := 0; i < len(segments); i++ {
		segment := segments[i]
		matched := false
		for axis := next; axis < axisCount; axis++ {
			q, ok := axisParsers[axis](segment)
			if !ok {
				continue
			}
			if axis == AxisLocale && i+1 < len(segments) && !strings.HasPrefix(segment, "b+") {
				if region, ok := parseRegion(segments[i+1]); ok {
					q.Segment += "-r" + region
					q.Num++
					i++
				}
			}
			c = c.With(axis, q)
			next = axis + 1
			matched = true
			break
		}
		if !matched {
			return Configuration{}, fmt.Errorf("%w: %q", sberrors.ErrInvalidQualifier, segment)
		}
	}
	return c, nil
}

// MustParseConfiguration is ParseConfiguration for known-good literals.
func MustParseConfiguration(qualifiers string) Configuration {
	c, err := ParseConfiguration(qualifiers)
	if err != nil {
		panic(err)
	}
	return c
}

type qualifierParser func(string) (Qualifier, bool)

var axisParsers = [axisCount]qualifierParser{
	AxisMCC:               prefixedNumber("mcc", "", 3, 3),
	AxisMNC:               prefixedNumber("mnc", "", 1, 3),
	AxisLocale:            parseLocale,
	AxisGrammaticalGender: keywords("neuter", "feminine", "masculine"),
	AxisLayoutDirection:   keywords("ldltr", "ldrtl"),
	AxisSmallestWidth:     prefixedNumber("sw", "dp", 1, 5),
	AxisWidth:             prefixedNumber("w", "dp", 1, 5),
	AxisHeight:            prefixedNumber("h", "dp", 1, 5),
	AxisScreenSize:        keywords("small", "normal", "large", "xlarge"),
	AxisScreenRatio:       keywords("notlong", "long"),
	AxisScreenRound:       keywords("notround", "round"),
	AxisWideColorGamut:    keywords("nowidecg", "widecg"),
	AxisHDR:               keywords("lowdr", "highdr"),
	AxisOrientation:       keywords("port", "land", "square"),
	AxisUIMode:            keywords("car", "desk", "television", "appliance", "watch", "vrheadset"),
	AxisNightMode:         keywords("notnight", "night"),
	AxisDensity:           parseDensity,
	AxisTouchscreen:       keywords("notouch", "stylus", "finger"),
	AxisKeyboardState:     keywords("keysexposed", "keyshidden", "keyssoft"),
	AxisTextInput:         keywords("nokeys", "qwerty", "12key"),
	AxisNavigationState:   keywords("navexposed", "navhidden"),
	AxisNavigationMethod:  keywords("nonav", "dpad", "trackball", "wheel"),
	AxisScreenDimension:   parseScreenDimension,
	AxisVersion:           prefixedNumber("v", "", 1, 3),
}

// keywords accepts a fixed vocabulary; Num is the position plus one.
func keywords(words ...string) qualifierParser {
	return func(s string) (Qualifier, bool) {
		for i, w := range words {
			if s == w {
				return Qualifier{Segment: s, Num: i + 1}, true
			}
		}
		return Qualifier{}, false
	}
}

func prefixedNumber(prefix, suffix string, minDigits, maxDigits int) qualifierParser {
	return func(s string) (Qualifier, bool) {
		digits, ok := strings.CutPrefix(s, prefix)
		if !ok {
			return Qualifier{}, false
		}
		if digits, ok = strings.CutSuffix(digits, suffix); !ok {
			return Qualifier{}, false
		}
		if len(digits) < minDigits || len(digits) > maxDigits || !allDigits(digits) {
			return Qualifier{}, false
		}
		n, err := strconv.Atoi(digits)
		if err != nil {
			return Qualifier{}, false
		}
		return Qualifier{Segment: s, Num: n}, true
	}
}

var namedDensities = map[string]int{
	"ldpi":    DensityLow,
	"mdpi":    DensityMedium,
	"tvdpi":   DensityTV,
	"hdpi":    DensityHigh,
	"xhdpi":   DensityXHigh,
	"xxhdpi":  DensityXXHigh,
	"xxxhdpi": DensityXXXHigh,
	"anydpi":  DensityAny,
	"nodpi":   DensityNone,
}

func parseDensity(s string) (Qualifier, bool) {
	if n, ok := namedDensities[s]; ok {
		return Qualifier{Segment: s, Num: n}, true
	}
	return prefixedNumber("", "dpi", 1, 4)(s)
}

func parseScreenDimension(s string) (Qualifier, bool) {
	a, b, ok := strings.Cut(s, "x")
	if !ok || !allDigits(a) || !allDigits(b) || a == "" || b == "" {
		return Qualifier{}, false
	}
	x, err1 := strconv.Atoi(a)
	y, err2 := strconv.Atoi(b)
	if err1 != nil || err2 != nil || x < y {
		return Qualifier{}, false
	}
	return Qualifier{Segment: s, Num: x<<16 | y}, true
}

// parseLocale accepts a two letter language ("en") or a BCP-47 tag in the
// "b+" form ("b+sr+Latn"). Three letter languages are only accepted in the
// "b+" form so they cannot shadow later vocabulary such as "car".
func parseLocale(s string) (Qualifier, bool) {
	if tagText, ok := strings.CutPrefix(s, "b+"); ok {
		tag, err := language.Parse(strings.ReplaceAll(tagText, "+", "-"))
		if err != nil {
			return Qualifier{}, false
		}
		return Qualifier{Segment: s, Num: strings.Count(tag.String(), "-") + 1}, true
	}
	if len(s) != 2 || !allLower(s) {
		return Qualifier{}, false
	}
	if _, err := language.ParseBase(s); err != nil {
		return Qualifier{}, false
	}
	return Qualifier{Segment: s, Num: 1}, true
}

// parseRegion accepts the "rUS" or "r419" segment following a language.
func parseRegion(s string) (string, bool) {
	region, ok := strings.CutPrefix(s, "r")
	if !ok || (len(region) != 2 && len(region) != 3) {
		return "", false
	}
	if _, err := language.ParseRegion(region); err != nil {
		return "", false
	}
	return region, true
}

// localeTag converts a locale segment to a language tag.
func localeTag(segment string) (language.Tag, bool) {
	if tagText, ok := strings.CutPrefix(segment, "b+"); ok {
		tag, err := language.Parse(strings.ReplaceAll(tagText, "+", "-"))
		return tag, err == nil
	}
	lang, region, _ := strings.Cut(segment, "-r")
	text := lang
	if region != "" {
		text += "-" + region
	}
	tag, err := language.Parse(text)
	return tag, err == nil
}

// localeMatches reports whether a resource locale applies to a device
// locale: the language must agree and any script or region the resource
// names must agree too.
func localeMatches(resource, device string) bool {
	rt, ok := localeTag(resource)
	if !ok {
		return false
	}
	dt, ok := localeTag(device)
	if !ok {
		return false
	}
	rb, _ := rt.Base()
	db, _ := dt.Base()
	if rb != db {
		return false
	}
	if rs, conf := rt.Script(); conf == language.Exact {
		if ds, _ := dt.Script(); ds != rs {
			return false
		}
	}
	if rr, conf := rt.Region(); conf == language.Exact {
		if dr, _ := dt.Region(); dr != rr {
			return false
		}
	}
	return true
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func allLower(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}
