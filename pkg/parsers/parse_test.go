package parsers

import (
	"encoding/xml"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/provide-io/playground/go/sandbox/pkg/android"
	sberrors "github.com/provide-io/playground/go/sandbox/pkg/errors"
)

const plainLayout = `<?xml version="1.0" encoding="utf-8"?>
<!-- header -->
<LinearLayout xmlns:android="http://schemas.android.com/apk/res/android"
    xmlns:tools="http://schemas.android.com/tools"
    android:orientation="vertical"
    tools:context=".Main">
    <TextView android:id="@+id/title" android:text="Hello"/>
    <FrameLayout>
        <ImageView android:id="@+id/icon"/>
        <View/>
    </FrameLayout>
    <Button android:id="@+id/ok">OK</Button>
</LinearLayout>
`

const declaredLayout = `<FrameLayout xmlns:android="http://schemas.android.com/apk/res/android"
    xmlns:aapt="http://schemas.android.com/aapt">
    <ImageView android:id="@+id/image">
        <aapt:attr name="android:src">
            <vector android:width="24dp">
                <path>
                    <aapt:attr name="android:fillColor">
                        <gradient android:type="linear"/>
                    </aapt:attr>
                </path>
            </vector>
        </aapt:attr>
    </ImageView>
    <TextView/>
</FrameLayout>`

// referenceEvents walks the document with the namespace-resolving decoder.
func referenceEvents(t *testing.T, doc string) []string {
	t.Helper()
	dec := xml.NewDecoder(strings.NewReader(doc))
	var events []string
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return events
		}
		require.NoError(t, err)
		switch tok := tok.(type) {
		case xml.StartElement:
			events = append(events, "start {"+tok.Name.Space+"}"+tok.Name.Local)
		case xml.EndElement:
			events = append(events, "end {"+tok.Name.Space+"}"+tok.Name.Local)
		}
	}
}

func replayEvents(t *testing.T, r *Replayer) []string {
	t.Helper()
	var events []string
	for {
		ev, err := r.Next()
		require.NoError(t, err)
		switch ev {
		case StartTag:
			events = append(events, "start {"+r.Namespace()+"}"+r.Name())
		case EndTag:
			events = append(events, "end {"+r.Namespace()+"}"+r.Name())
		case EndDocument:
			return events
		}
	}
}

func TestParseRoundTrip(t *testing.T) {
	doc, err := ParseString(plainLayout)
	require.NoError(t, err)

	want := referenceEvents(t, plainLayout)
	assert.Equal(t, want, replayEvents(t, NewReplayer(doc.Root())))

	// a second replay of the same snapshot yields the same events
	assert.Equal(t, want, replayEvents(t, NewReplayer(doc.Root())))
}

func TestParseAttributes(t *testing.T) {
	doc, err := ParseString(plainLayout)
	require.NoError(t, err)

	root := doc.Root()
	assert.Equal(t, "LinearLayout", root.Name())
	assert.Equal(t, "", root.Namespace())

	attrs := root.Attributes()
	require.Len(t, attrs, 2, "xmlns declarations are not attributes")
	assert.Equal(t, Attribute{
		Namespace: android.AndroidURI,
		Prefix:    "android",
		Name:      "orientation",
		Value:     "vertical",
		Bundled:   InvalidNode,
	}, attrs[0])
	assert.Equal(t, android.ToolsURI, attrs[1].Namespace)
	assert.Equal(t, "tools", attrs[1].Prefix)

	children := root.Children()
	require.Len(t, children, 3)
	assert.Equal(t, []string{"TextView", "FrameLayout", "Button"},
		[]string{children[0].Name(), children[1].Name(), children[2].Name()})
	assert.Equal(t, "OK", children[2].Text())
	assert.Equal(t, "OK", children[2].InnerText())

	value, ok := children[0].AttributeValue(android.AndroidURI, "id")
	assert.True(t, ok)
	assert.Equal(t, "@+id/title", value)
	assert.False(t, root.HasDeclaredAttrs())
}

func TestParseInnerText(t *testing.T) {
	doc, err := ParseString(`<string xmlns:aapt="http://schemas.android.com/aapt">one <b>two <i>three</i></b> four<aapt:attr name="x"><v>skip</v></aapt:attr></string>`)
	require.NoError(t, err)

	root := doc.Root()
	assert.Equal(t, "one  four", root.Text())
	assert.Equal(t, "one two three four", root.InnerText())
	assert.Equal(t, "two three", root.FirstChild().InnerText())
}

func TestParseDefaultNamespace(t *testing.T) {
	doc, err := ParseString(`<a xmlns="urn:x" xmlns:p="urn:p"><p:b/><c/></a>`)
	require.NoError(t, err)

	root := doc.Root()
	assert.Equal(t, "urn:x", root.Namespace())
	assert.Equal(t, "", root.Prefix())
	children := root.Children()
	require.Len(t, children, 2)
	assert.Equal(t, "urn:p", children[0].Namespace())
	assert.Equal(t, "p", children[0].Prefix())
	assert.Equal(t, "urn:x", children[1].Namespace())
}

func TestParseDeclaredAttributes(t *testing.T) {
	doc, err := ParseString(declaredLayout)
	require.NoError(t, err)

	root := doc.Root()
	assert.True(t, root.HasDeclaredAttrs(), "ancestors of a host are flagged")

	children := root.Children()
	require.Len(t, children, 2)
	image := children[0]
	assert.True(t, image.HasDeclaredAttrs())
	assert.False(t, image.FirstChild().IsValid(), "aapt:attr is not a child")
	assert.False(t, children[1].HasDeclaredAttrs())

	value, ok := image.AttributeValue(android.AndroidURI, "src")
	require.True(t, ok)
	assert.Equal(t, "@aapt:_aapt/1", value)

	attr, ok := image.Attribute(1)
	require.True(t, ok)
	assert.True(t, attr.IsDeclared())
	assert.Equal(t, "1", attr.DeclaredID)
	assert.Equal(t, "android", attr.Prefix)

	vector, ok := image.DeclaredAttr(android.AndroidURI, "src")
	require.True(t, ok)
	assert.Equal(t, "vector", vector.Name())
	assert.False(t, vector.Next().IsValid())

	path := vector.FirstChild()
	assert.Equal(t, "path", path.Name())
	fill, ok := path.AttributeValue(android.AndroidURI, "fillColor")
	require.True(t, ok)
	assert.Equal(t, "@aapt:_aapt/2", fill)

	declared := doc.DeclaredAttrs()
	require.Len(t, declared, 2)
	assert.Equal(t, "vector", declared["1"].Name())
	assert.Equal(t, "gradient", declared["2"].Name())
}

func TestParseDeclaredUnboundPrefix(t *testing.T) {
	doc, err := ParseString(`<ImageView xmlns:aapt="http://schemas.android.com/aapt">` +
		`<aapt:attr name="app:srcCompat"><vector/></aapt:attr></ImageView>`)
	require.NoError(t, err)

	root := doc.Root()
	assert.True(t, root.HasDeclaredAttrs())
	require.Equal(t, 1, root.AttributeCount())

	attr, ok := root.Attribute(0)
	require.True(t, ok)
	assert.Equal(t, "", attr.Namespace)
	assert.Equal(t, "app", attr.Prefix)
	assert.Equal(t, "srcCompat", attr.Name)
	assert.Equal(t, "1", attr.DeclaredID)
	assert.Equal(t, "@aapt:_aapt/1", attr.Value)

	vector, ok := root.DeclaredAttr("", "srcCompat")
	require.True(t, ok)
	assert.Equal(t, "vector", vector.Name())
}

func TestParseCounterSharedAcrossDocuments(t *testing.T) {
	counter := NewCounter()

	first, err := ParseString(declaredLayout, WithCounter(counter))
	require.NoError(t, err)
	second, err := ParseString(declaredLayout, WithCounter(counter))
	require.NoError(t, err)

	assert.Contains(t, first.DeclaredAttrs(), "1")
	assert.Contains(t, first.DeclaredAttrs(), "2")
	assert.Contains(t, second.DeclaredAttrs(), "3")
	assert.Contains(t, second.DeclaredAttrs(), "4")

	// no shared counter means a private one
	third, err := ParseString(declaredLayout)
	require.NoError(t, err)
	assert.Contains(t, third.DeclaredAttrs(), "1")
}

func TestParseIgnoredAaptElements(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no name", `<aapt:attr><vector/></aapt:attr>`},
		{"no nested element", `<aapt:attr name="android:src">text</aapt:attr>`},
		{"other aapt element", `<aapt:other name="android:src"><vector/></aapt:other>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := ParseString(`<ImageView xmlns:android="http://schemas.android.com/apk/res/android"` +
				` xmlns:aapt="http://schemas.android.com/aapt">` + tt.body + `<View/></ImageView>`)
			require.NoError(t, err)

			root := doc.Root()
			assert.Equal(t, 0, root.AttributeCount())
			assert.False(t, root.HasDeclaredAttrs())
			children := root.Children()
			require.Len(t, children, 1)
			assert.Equal(t, "View", children[0].Name())
			assert.Empty(t, doc.DeclaredAttrs())
		})
	}
}

func TestParseMalformed(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"truncated", `<LinearLayout><TextView>`},
		{"empty", ``},
		{"mismatched end", `<a><b></a></b>`},
		{"unbound prefix", `<a><x:b/></a>`},
		{"second root", `<a/><b/>`},
		{"truncated declaration", `<a xmlns:aapt="http://schemas.android.com/aapt"><aapt:attr name="src"><v>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse(strings.NewReader(tt.doc), WithPath("layout/main.xml"))
			require.Error(t, err)
			assert.Nil(t, doc)
			assert.True(t, errors.Is(err, sberrors.ErrMalformedDocument), "got %v", err)

			var perr *sberrors.ParseError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, "layout/main.xml", perr.Path)
		})
	}
}
