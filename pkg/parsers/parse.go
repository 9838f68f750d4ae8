package parsers

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync/atomic"
	"unicode"

	"github.com/hashicorp/go-hclog"

	"github.com/provide-io/playground/go/sandbox/pkg/android"
	sberrors "github.com/provide-io/playground/go/sandbox/pkg/errors"
	"github.com/provide-io/playground/go/sandbox/pkg/logging"
)

// Counter hands out synthetic ids for inline declared attributes. One
// counter belongs to one load context; ids are never reset or reused.
type Counter struct {
	n atomic.Int64
}

// NewCounter returns a counter whose first id is "1".
func NewCounter() *Counter { return &Counter{} }

// Next returns the next unused id.
func (c *Counter) Next() string {
	return strconv.FormatInt(c.n.Add(1), 10)
}

type parseOptions struct {
	counter *Counter
	path    string
	logger  hclog.Logger
}

// ParseOption configures Parse.
type ParseOption func(*parseOptions)

// WithCounter shares the declared-attribute id counter of a load context.
func WithCounter(c *Counter) ParseOption {
	return func(o *parseOptions) { o.counter = c }
}

// WithPath names the source in errors and logs.
func WithPath(path string) ParseOption {
	return func(o *parseOptions) { o.path = path }
}

func WithLogger(logger hclog.Logger) ParseOption {
	return func(o *parseOptions) { o.logger = logger }
}

// Parse reads a whole XML document into a snapshot. Elements in the aapt
// namespace never become children: an aapt:attr wrapper turns its nested
// element into a declared sub-document attached to the host as an attribute.
func Parse(r io.Reader, opts ...ParseOption) (*Document, error) {
	o := parseOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.counter == nil {
		o.counter = NewCounter()
	}

	b := &builder{
		dec:     xml.NewDecoder(r),
		doc:     &Document{root: InvalidNode, path: o.path},
		counter: o.counter,
		logger:  logging.OrDiscard(o.logger),
	}
	if err := b.document(); err != nil {
		line, _ := b.dec.InputPos()
		return nil, &sberrors.ParseError{Path: o.path, Line: line, Err: err}
	}
	b.logger.Trace("📄 parsed document", "path", o.path, "nodes", len(b.doc.nodes))
	return b.doc, nil
}

// ParseString is Parse over an in-memory document.
func ParseString(s string, opts ...ParseOption) (*Document, error) {
	return Parse(strings.NewReader(s), opts...)
}

type builder struct {
	dec     *xml.Decoder
	doc     *Document
	ns      nsStack
	counter *Counter
	logger  hclog.Logger
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", sberrors.ErrMalformedDocument, fmt.Sprintf(format, args...))
}

func (b *builder) token() (xml.Token, error) {
	tok, err := b.dec.RawToken()
	if err == io.EOF {
		return nil, malformed("unexpected end of document")
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", sberrors.ErrMalformedDocument, err)
	}
	return tok, nil
}

func (b *builder) document() error {
	for {
		tok, err := b.dec.RawToken()
		if err == io.EOF {
			if b.doc.root == InvalidNode {
				return malformed("no root element")
			}
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: %v", sberrors.ErrMalformedDocument, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if b.doc.root != InvalidNode {
				return malformed("unexpected element %s after document end", t.Name.Local)
			}
			uri, err := b.open(t)
			if err != nil {
				return err
			}
			root, err := b.element(t, uri)
			if err != nil {
				return err
			}
			b.doc.root = root
		case xml.EndElement:
			return malformed("unexpected end element %s", t.Name.Local)
		case xml.CharData:
			if !isIgnorable(t) {
				return malformed("character data outside root element")
			}
		}
	}
}

// open pushes the namespace scope declared on start and resolves its URI.
// The caller pops the scope once the element is consumed.
func (b *builder) open(start xml.StartElement) (string, error) {
	b.ns.push(scopeOf(start))
	uri, ok := b.ns.lookup(start.Name.Space)
	if !ok {
		b.ns.pop()
		return "", malformed("%v %q on element %s", errUnboundPrefix, start.Name.Space, start.Name.Local)
	}
	return uri, nil
}

// element consumes tokens up to the end tag of start and pops its scope.
func (b *builder) element(start xml.StartElement, uri string) (NodeID, error) {
	defer b.ns.pop()

	id := b.doc.newNode(start.Name.Local, uri, start.Name.Space)
	attrs, err := b.attributes(start)
	if err != nil {
		return InvalidNode, err
	}
	hasDeclared := false
	var text, inner strings.Builder

	for {
		tok, err := b.token()
		if err != nil {
			return InvalidNode, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			childURI, err := b.open(t)
			if err != nil {
				return InvalidNode, err
			}
			if childURI == android.AaptURI {
				attr, ok, err := b.aapt(t)
				b.ns.pop()
				if err != nil {
					return InvalidNode, err
				}
				if ok {
					attrs = append(attrs, attr)
					hasDeclared = true
				}
				continue
			}
			child, err := b.element(t, childURI)
			if err != nil {
				return InvalidNode, err
			}
			b.doc.appendChild(id, child)
			inner.WriteString(b.doc.nodes[child].inner)
			if b.doc.nodes[child].hasDeclared {
				hasDeclared = true
			}

		case xml.EndElement:
			if t.Name != start.Name {
				return InvalidNode, malformed("element %s closed by %s", qualified(start.Name), qualified(t.Name))
			}
			n := &b.doc.nodes[id]
			n.attrs = attrs
			n.text = text.String()
			n.inner = inner.String()
			n.hasDeclared = hasDeclared
			return id, nil

		case xml.CharData:
			text.Write(t)
			inner.Write(t)
		}
	}
}

func (b *builder) attributes(start xml.StartElement) ([]Attribute, error) {
	attrs := make([]Attribute, 0, len(start.Attr))
	for _, a := range start.Attr {
		if isNamespaceDecl(a.Name) {
			continue
		}
		namespace := ""
		if a.Name.Space != "" {
			ns, ok := b.ns.lookup(a.Name.Space)
			if !ok {
				return nil, malformed("%v %q on attribute %s", errUnboundPrefix, a.Name.Space, a.Name.Local)
			}
			namespace = ns
		}
		attrs = append(attrs, Attribute{
			Namespace: namespace,
			Prefix:    a.Name.Space,
			Name:      a.Name.Local,
			Value:     a.Value,
			Bundled:   InvalidNode,
		})
	}
	return attrs, nil
}

// aapt handles an element in the aapt namespace. Only a named attr wrapper
// with a nested element yields a declared attribute; anything else is
// skipped whole.
func (b *builder) aapt(start xml.StartElement) (Attribute, bool, error) {
	if start.Name.Local != android.TagAttr {
		b.logger.Debug("⏭️ skipping aapt element", "name", start.Name.Local)
		return Attribute{}, false, b.skip()
	}
	qname := ""
	for _, a := range start.Attr {
		if a.Name.Space == "" && a.Name.Local == android.AttrName {
			qname = a.Value
		}
	}
	if qname == "" {
		b.logger.Debug("⏭️ skipping aapt:attr without name")
		return Attribute{}, false, b.skip()
	}

	prefix, local := "", qname
	if i := strings.IndexByte(qname, ':'); i >= 0 {
		prefix = qname[:i]
		local = qname[strings.LastIndexByte(qname, ':')+1:]
	}
	namespace, ok := b.ns.lookup(prefix)
	if !ok {
		// kept with no namespace; the host element still gets the reference
		b.logger.Debug("🔍 unbound prefix in aapt:attr name", "prefix", prefix, "name", qname)
		namespace = ""
	}

	id := b.counter.Next()
	bundled := InvalidNode
	for {
		tok, err := b.token()
		if err != nil {
			return Attribute{}, false, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if bundled != InvalidNode {
				if err := b.skip(); err != nil {
					return Attribute{}, false, err
				}
				continue
			}
			uri, err := b.open(t)
			if err != nil {
				return Attribute{}, false, err
			}
			if uri == android.AaptURI {
				// nested wrappers have no host here
				err = b.skip()
				b.ns.pop()
				if err != nil {
					return Attribute{}, false, err
				}
				continue
			}
			if bundled, err = b.element(t, uri); err != nil {
				return Attribute{}, false, err
			}
		case xml.EndElement:
			if t.Name != start.Name {
				return Attribute{}, false, malformed("element %s closed by %s", qualified(start.Name), qualified(t.Name))
			}
			if bundled == InvalidNode {
				b.logger.Debug("⏭️ aapt:attr without nested element", "name", qname)
				return Attribute{}, false, nil
			}
			b.logger.Trace("🧩 declared attribute", "name", qname, "id", id)
			return Attribute{
				Namespace:  namespace,
				Prefix:     prefix,
				Name:       local,
				Value:      android.AaptAttrPrefix + id,
				DeclaredID: id,
				Bundled:    bundled,
			}, true, nil
		}
	}
}

// skip discards everything up to the end tag of the element just opened.
func (b *builder) skip() error {
	depth := 1
	for depth > 0 {
		tok, err := b.token()
		if err != nil {
			return err
		}
		switch tok.(type) {
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
		}
	}
	return nil
}

func qualified(name xml.Name) string {
	if name.Space == "" {
		return name.Local
	}
	return name.Space + ":" + name.Local
}

func isIgnorable(data []byte) bool {
	for _, r := range string(data) {
		if r == '\uFEFF' {
			continue
		}
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}
