// Package parsers turns XML resource documents into immutable in-memory
// snapshots and replays them through a pull-style event interface.
package parsers

import "github.com/provide-io/playground/go/sandbox/pkg/android"

// NodeID indexes a node inside its Document.
type NodeID int32

// InvalidNode marks an absent child, sibling or root.
const InvalidNode NodeID = -1

// Document owns every tag snapshot of one parsed file, including the
// sub-documents declared inline with aapt:attr. Child and sibling links are
// indices into nodes, so a node is owned exactly once.
type Document struct {
	nodes []node
	root  NodeID
	path  string
}

type node struct {
	name        string
	namespace   string
	prefix      string
	text        string
	inner       string
	attrs       []Attribute
	firstChild  NodeID
	lastChild   NodeID
	next        NodeID
	hasDeclared bool
}

// Attribute is a snapshot of one attribute. For an attribute declared
// inline, DeclaredID is the synthetic id and Bundled is the root of the
// declared sub-document in the same Document.
type Attribute struct {
	Namespace  string
	Prefix     string
	Name       string
	Value      string
	DeclaredID string
	Bundled    NodeID
}

// IsDeclared reports whether the attribute value is an inline sub-document.
func (a Attribute) IsDeclared() bool { return a.DeclaredID != "" }

func (a Attribute) String() string { return a.Name + ": " + a.Value }

func (d *Document) newNode(name, namespace, prefix string) NodeID {
	d.nodes = append(d.nodes, node{
		name:       name,
		namespace:  namespace,
		prefix:     prefix,
		firstChild: InvalidNode,
		lastChild:  InvalidNode,
		next:       InvalidNode,
	})
	return NodeID(len(d.nodes) - 1)
}

func (d *Document) appendChild(parent, child NodeID) {
	p := &d.nodes[parent]
	if p.lastChild == InvalidNode {
		p.firstChild = child
	} else {
		d.nodes[p.lastChild].next = child
	}
	p.lastChild = child
}

func (d *Document) valid(id NodeID) bool {
	return d != nil && id >= 0 && int(id) < len(d.nodes)
}

// Root returns the document element.
func (d *Document) Root() Tag {
	if d == nil {
		return Tag{}
	}
	return d.Tag(d.root)
}

// Tag returns a handle for id; the handle is invalid if id is out of range.
func (d *Document) Tag(id NodeID) Tag {
	if !d.valid(id) {
		return Tag{}
	}
	return Tag{doc: d, id: id}
}

// Len is the number of nodes held, declared sub-documents included.
func (d *Document) Len() int {
	if d == nil {
		return 0
	}
	return len(d.nodes)
}

// Path is the file the document was read from, if any.
func (d *Document) Path() string {
	if d == nil {
		return ""
	}
	return d.path
}

// DeclaredAttrs collects every inline declared sub-document reachable from
// the root, keyed by synthetic id.
func (d *Document) DeclaredAttrs() map[string]Tag {
	declared := map[string]Tag{}
	collectDeclared(d.Root(), declared)
	return declared
}

func collectDeclared(tag Tag, into map[string]Tag) {
	if !tag.HasDeclaredAttrs() {
		return
	}
	for _, attr := range tag.node().attrs {
		if !attr.IsDeclared() {
			continue
		}
		bundled := tag.doc.Tag(attr.Bundled)
		into[attr.DeclaredID] = bundled
		collectDeclared(bundled, into)
	}
	for child := tag.FirstChild(); child.IsValid(); child = child.Next() {
		collectDeclared(child, into)
	}
}

// Tag is a read-only handle on one node of a Document. The zero Tag is
// invalid and every accessor returns zero values for it.
type Tag struct {
	doc *Document
	id  NodeID
}

func (t Tag) node() *node { return &t.doc.nodes[t.id] }

// IsValid reports whether t refers to a node.
func (t Tag) IsValid() bool { return t.doc.valid(t.id) }

// ID is the node index within its document.
func (t Tag) ID() NodeID {
	if !t.IsValid() {
		return InvalidNode
	}
	return t.id
}

// Document is the owning document.
func (t Tag) Document() *Document { return t.doc }

func (t Tag) Name() string {
	if !t.IsValid() {
		return ""
	}
	return t.node().name
}

func (t Tag) Namespace() string {
	if !t.IsValid() {
		return ""
	}
	return t.node().namespace
}

func (t Tag) Prefix() string {
	if !t.IsValid() {
		return ""
	}
	return t.node().prefix
}

// Text is the character data found directly under the element.
func (t Tag) Text() string {
	if !t.IsValid() {
		return ""
	}
	return t.node().text
}

// InnerText is the character data of the whole subtree in document
// order, so markup such as <b> or <xliff:g> inside a string keeps its
// text. Declared sub-documents contribute nothing.
func (t Tag) InnerText() string {
	if !t.IsValid() {
		return ""
	}
	return t.node().inner
}

// HasDeclaredAttrs reports whether this element or any descendant carries an
// inline declared sub-document.
func (t Tag) HasDeclaredAttrs() bool {
	return t.IsValid() && t.node().hasDeclared
}

func (t Tag) AttributeCount() int {
	if !t.IsValid() {
		return 0
	}
	return len(t.node().attrs)
}

// Attribute returns the i-th attribute; ok is false when out of range.
func (t Tag) Attribute(i int) (Attribute, bool) {
	if !t.IsValid() || i < 0 || i >= len(t.node().attrs) {
		return Attribute{}, false
	}
	return t.node().attrs[i], true
}

// Attributes returns a copy of the attribute list.
func (t Tag) Attributes() []Attribute {
	if !t.IsValid() {
		return nil
	}
	return append([]Attribute(nil), t.node().attrs...)
}

// AttributeValue looks an attribute up by namespace URI and local name.
func (t Tag) AttributeValue(namespace, name string) (string, bool) {
	if !t.IsValid() {
		return "", false
	}
	for _, attr := range t.node().attrs {
		if attr.Namespace == namespace && attr.Name == name {
			return attr.Value, true
		}
	}
	return "", false
}

func (t Tag) FirstChild() Tag {
	if !t.IsValid() {
		return Tag{}
	}
	return t.doc.Tag(t.node().firstChild)
}

// Next is the following sibling.
func (t Tag) Next() Tag {
	if !t.IsValid() {
		return Tag{}
	}
	return t.doc.Tag(t.node().next)
}

// Children returns the child elements in document order.
func (t Tag) Children() []Tag {
	var children []Tag
	for child := t.FirstChild(); child.IsValid(); child = child.Next() {
		children = append(children, child)
	}
	return children
}

// DeclaredAttr returns the sub-document bundled in the attribute named by
// namespace and local name.
func (t Tag) DeclaredAttr(namespace, name string) (Tag, bool) {
	if !t.IsValid() {
		return Tag{}, false
	}
	for _, attr := range t.node().attrs {
		if attr.IsDeclared() && attr.Namespace == namespace && attr.Name == name {
			return t.doc.Tag(attr.Bundled), true
		}
	}
	return Tag{}, false
}

// LocalNamespace maps the element namespace onto a resource namespace.
func (t Tag) LocalNamespace() (android.Namespace, bool) {
	return android.NamespaceForURI(t.Namespace())
}
