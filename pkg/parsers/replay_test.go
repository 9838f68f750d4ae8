package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/provide-io/playground/go/sandbox/pkg/android"
	sberrors "github.com/provide-io/playground/go/sandbox/pkg/errors"
)

func TestReplayStates(t *testing.T) {
	doc, err := ParseString(`<a><b/><c><d/></c></a>`)
	require.NoError(t, err)

	r := NewReplayer(doc.Root())
	assert.Equal(t, StartDocument, r.EventType())
	assert.Equal(t, "", r.Name())
	assert.Equal(t, 0, r.Depth())

	type step struct {
		event EventType
		name  string
		depth int
	}
	want := []step{
		{StartTag, "a", 1},
		{StartTag, "b", 2},
		{EndTag, "b", 2},
		{StartTag, "c", 2},
		{StartTag, "d", 3},
		{EndTag, "d", 3},
		{EndTag, "c", 2},
		{EndTag, "a", 1},
		{EndDocument, "", 0},
	}
	for i, w := range want {
		ev, err := r.Next()
		require.NoError(t, err, "step %d", i)
		assert.Equal(t, w, step{ev, r.Name(), r.Depth()}, "step %d", i)
	}

	ev, err := r.Next()
	assert.ErrorIs(t, err, sberrors.ErrNothingAfterEnd)
	assert.Equal(t, EndDocument, ev)

	r.Reset()
	ev, err = r.Next()
	require.NoError(t, err)
	assert.Equal(t, StartTag, ev)
	assert.Equal(t, "a", r.Name())
}

func TestReplayEmptyRoot(t *testing.T) {
	r := NewReplayer(Tag{})
	ev, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, EndDocument, ev)
}

func TestReplaySubtreeStopsAtRoot(t *testing.T) {
	doc, err := ParseString(`<a><b><x/></b><c/></a>`)
	require.NoError(t, err)

	b := doc.Root().FirstChild()
	require.Equal(t, "b", b.Name())
	assert.Equal(t, []string{"start {}b", "start {}x", "end {}x", "end {}b"},
		replayEvents(t, NewReplayer(b)))
}

func TestReplayAttributes(t *testing.T) {
	doc, err := ParseString(`<a xmlns:android="http://schemas.android.com/apk/res/android" android:text="hi" plain="1"/>`)
	require.NoError(t, err)

	r := NewReplayer(doc.Root())
	_, err = r.Attribute(0)
	assert.ErrorIs(t, err, sberrors.ErrIndexOutOfRange, "no attributes before the first tag")

	_, err = r.Next()
	require.NoError(t, err)
	require.Equal(t, 2, r.AttributeCount())

	name, err := r.AttributeName(0)
	require.NoError(t, err)
	assert.Equal(t, "text", name)
	ns, err := r.AttributeNamespace(0)
	require.NoError(t, err)
	assert.Equal(t, android.AndroidURI, ns)
	prefix, err := r.AttributePrefix(0)
	require.NoError(t, err)
	assert.Equal(t, "android", prefix)
	value, err := r.AttributeValue(1)
	require.NoError(t, err)
	assert.Equal(t, "1", value)

	_, err = r.Attribute(2)
	assert.ErrorIs(t, err, sberrors.ErrIndexOutOfRange)
	_, err = r.Attribute(-1)
	assert.ErrorIs(t, err, sberrors.ErrIndexOutOfRange)

	v, ok := r.AttributeValueNS(android.AndroidURI, "text")
	assert.True(t, ok)
	assert.Equal(t, "hi", v)
	_, ok = r.AttributeValueNS("", "text")
	assert.False(t, ok)

	ev, err := r.Next()
	require.NoError(t, err)
	require.Equal(t, EndTag, ev)
	_, err = r.AttributeName(0)
	assert.ErrorIs(t, err, sberrors.ErrIndexOutOfRange, "attributes only on start tags")
}
