package android

import "fmt"

// ResourceType is a closed enumeration. The declaration order is the ordinal
// used when packing dynamic identifiers, so new values go at the end.
type ResourceType uint8

const (
	TypeAnim ResourceType = iota
	TypeAnimator
	TypeArray
	TypeAttr
	TypeBool
	TypeColor
	TypeDimen
	TypeDrawable
	TypeFont
	TypeFraction
	TypeID
	TypeInteger
	TypeInterpolator
	TypeLayout
	TypeMenu
	TypeMipmap
	TypeNavigation
	TypePlurals
	TypeRaw
	TypeString
	TypeStyle
	TypeStyleable
	TypeTransition
	TypeXML
	TypeAapt

	resourceTypeCount
)

var resourceTypeNames = [...]string{
	TypeAnim:         "anim",
	TypeAnimator:     "animator",
	TypeArray:        "array",
	TypeAttr:         "attr",
	TypeBool:         "bool",
	TypeColor:        "color",
	TypeDimen:        "dimen",
	TypeDrawable:     "drawable",
	TypeFont:         "font",
	TypeFraction:     "fraction",
	TypeID:           "id",
	TypeInteger:      "integer",
	TypeInterpolator: "interpolator",
	TypeLayout:       "layout",
	TypeMenu:         "menu",
	TypeMipmap:       "mipmap",
	TypeNavigation:   "navigation",
	TypePlurals:      "plurals",
	TypeRaw:          "raw",
	TypeString:       "string",
	TypeStyle:        "style",
	TypeStyleable:    "styleable",
	TypeTransition:   "transition",
	TypeXML:          "xml",
	TypeAapt:         "_aapt",
}

// ResourceTypes returns every type in ordinal order.
func ResourceTypes() []ResourceType {
	types := make([]ResourceType, resourceTypeCount)
	for i := range types {
		types[i] = ResourceType(i)
	}
	return types
}

// ResourceTypeCount is the number of declared resource types.
func ResourceTypeCount() int { return int(resourceTypeCount) }

// Ordinal is the declaration index of t.
func (t ResourceType) Ordinal() int { return int(t) }

func (t ResourceType) String() string {
	if t < resourceTypeCount {
		return resourceTypeNames[t]
	}
	return fmt.Sprintf("ResourceType(%d)", uint8(t))
}

// ParseResourceType accepts the names used in resource URLs and R.txt
// ("string", "drawable", "styleable", ...).
func ParseResourceType(name string) (ResourceType, bool) {
	for i, n := range resourceTypeNames {
		if n == name {
			return ResourceType(i), true
		}
	}
	// aapt reference values use "aapt" without the underscore
	if name == "aapt" {
		return TypeAapt, true
	}
	return 0, false
}

// FolderType is the resource category encoded as the first segment of a
// folder name under res/.
type FolderType uint8

const (
	FolderAnim FolderType = iota
	FolderAnimator
	FolderColor
	FolderDrawable
	FolderFont
	FolderInterpolator
	FolderLayout
	FolderMenu
	FolderMipmap
	FolderNavigation
	FolderRaw
	FolderTransition
	FolderValues
	FolderXML

	folderTypeCount
)

var folderTypeNames = [...]string{
	FolderAnim:         "anim",
	FolderAnimator:     "animator",
	FolderColor:        "color",
	FolderDrawable:     "drawable",
	FolderFont:         "font",
	FolderInterpolator: "interpolator",
	FolderLayout:       "layout",
	FolderMenu:         "menu",
	FolderMipmap:       "mipmap",
	FolderNavigation:   "navigation",
	FolderRaw:          "raw",
	FolderTransition:   "transition",
	FolderValues:       "values",
	FolderXML:          "xml",
}

var folderResourceTypes = [...]ResourceType{
	FolderAnim:         TypeAnim,
	FolderAnimator:     TypeAnimator,
	FolderColor:        TypeColor,
	FolderDrawable:     TypeDrawable,
	FolderFont:         TypeFont,
	FolderInterpolator: TypeInterpolator,
	FolderLayout:       TypeLayout,
	FolderMenu:         TypeMenu,
	FolderMipmap:       TypeMipmap,
	FolderNavigation:   TypeNavigation,
	FolderRaw:          TypeRaw,
	FolderTransition:   TypeTransition,
	FolderXML:          TypeXML,
}

func (f FolderType) String() string {
	if f < folderTypeCount {
		return folderTypeNames[f]
	}
	return fmt.Sprintf("FolderType(%d)", uint8(f))
}

// ParseFolderType maps the first segment of a folder name.
func ParseFolderType(name string) (FolderType, bool) {
	for i, n := range folderTypeNames {
		if n == name {
			return FolderType(i), true
		}
	}
	return 0, false
}

// ResourceType is the type of the single resource a file in this folder
// declares. Values folders declare many and report false.
func (f FolderType) ResourceType() (ResourceType, bool) {
	if f == FolderValues || f >= folderTypeCount {
		return 0, false
	}
	return folderResourceTypes[f], true
}

// IsIDGenerating reports whether XML files in this folder may declare ids
// with "@+id/".
func (f FolderType) IsIDGenerating() bool {
	switch f {
	case FolderLayout, FolderMenu, FolderNavigation, FolderDrawable, FolderTransition, FolderXML:
		return true
	}
	return false
}
