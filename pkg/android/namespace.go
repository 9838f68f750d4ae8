package android

// Namespace separates identifier spaces. The zero value is not a valid
// namespace; use Framework, ResAuto or NamespaceForPackage.
type Namespace struct {
	packageName string
	uri         string
}

var (
	// Framework holds platform resources (android.R).
	Framework = Namespace{packageName: "android", uri: AndroidURI}

	// ResAuto holds application resources when namespacing is disabled.
	ResAuto = Namespace{uri: ResAutoURI}
)

// NamespaceForPackage returns the namespace of a namespaced library or module.
// An empty package name yields ResAuto.
func NamespaceForPackage(packageName string) Namespace {
	switch packageName {
	case "":
		return ResAuto
	case Framework.packageName:
		return Framework
	}
	return Namespace{packageName: packageName, uri: URIPrefix + packageName}
}

// NamespaceForURI maps an XML namespace URI back to a resource namespace.
func NamespaceForURI(uri string) (Namespace, bool) {
	switch uri {
	case AndroidURI:
		return Framework, true
	case ResAutoURI:
		return ResAuto, true
	}
	if len(uri) > len(URIPrefix) && uri[:len(URIPrefix)] == URIPrefix {
		return NamespaceForPackage(uri[len(URIPrefix):]), true
	}
	return Namespace{}, false
}

// PackageName is empty for ResAuto.
func (n Namespace) PackageName() string { return n.packageName }

// URI is the XML namespace URI bound to this namespace.
func (n Namespace) URI() string { return n.uri }

// IsValid reports whether n is one of the constructed namespaces.
func (n Namespace) IsValid() bool { return n.uri != "" }

func (n Namespace) String() string {
	if n == ResAuto {
		return "res-auto"
	}
	return n.packageName
}

// ParseNamespace is the inverse of String.
func ParseNamespace(s string) Namespace {
	if s == "res-auto" || s == "" {
		return ResAuto
	}
	return NamespaceForPackage(s)
}
