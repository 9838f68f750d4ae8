// Package android holds the resource vocabulary shared by the parsers, the
// resource stores and the identifier allocator.
package android

// Namespace URIs
const (
	AndroidURI = "http://schemas.android.com/apk/res/android"
	ResAutoURI = "http://schemas.android.com/apk/res-auto"
	ToolsURI   = "http://schemas.android.com/tools"
	AaptURI    = "http://schemas.android.com/aapt"
	XMLNSURI   = "http://www.w3.org/2000/xmlns/"

	// URIPrefix is prepended to a package name for namespaced libraries.
	URIPrefix = "http://schemas.android.com/apk/res/"
)

// Inline declared sub-documents (aapt:attr)
const (
	TagAttr = "attr"

	// AaptAttrPrefix starts every attribute value that points at a declared
	// sub-document; the synthetic id follows it.
	AaptAttrPrefix = "@aapt:_aapt/"
)

// Layout and values tag names
const (
	TagResources        = "resources"
	TagString           = "string"
	TagDimen            = "dimen"
	TagColor            = "color"
	TagBool             = "bool"
	TagInteger          = "integer"
	TagFraction         = "fraction"
	TagDrawable         = "drawable"
	TagStyle            = "style"
	TagDeclareStyleable = "declare-styleable"
	TagPlurals          = "plurals"
	TagStringArray      = "string-array"
	TagIntegerArray     = "integer-array"
	TagArray            = "array"
	TagItem             = "item"
	TagID               = "id"
	TagPublic           = "public"
	TagEatComment       = "eat-comment"
	TagSkip             = "skip"
	TagJavaSymbol       = "java-symbol"

	ListView           = "ListView"
	ExpandableListView = "ExpandableListView"
	GridView           = "GridView"
	Spinner            = "Spinner"
	FrameLayout        = "FrameLayout"
)

// Attribute names
const (
	AttrName   = "name"
	AttrType   = "type"
	AttrParent = "parent"
	AttrIgnore = "ignore"
	AttrFormat = "format"

	NewIDPrefix = "@+id/"
)

// File names found in an unpacked library
const (
	FnAndroidManifest = "AndroidManifest.xml"
	FnRTxt            = "R.txt"
	FdRes             = "res"
	FdAssets          = "assets"
	FdData            = "data"
	FdPlatforms       = "platforms"

	DotXML = ".xml"
)
