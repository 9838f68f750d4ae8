package parsers

import (
	"fmt"

	sberrors "github.com/provide-io/playground/go/sandbox/pkg/errors"
)

// EventType is a pull parser event. The values match the XmlPullParser
// constants consumed by the rendering engine.
type EventType int

const (
	StartDocument EventType = 0
	EndDocument   EventType = 1
	StartTag      EventType = 2
	EndTag        EventType = 3
)

func (e EventType) String() string {
	switch e {
	case StartDocument:
		return "START_DOCUMENT"
	case EndDocument:
		return "END_DOCUMENT"
	case StartTag:
		return "START_TAG"
	case EndTag:
		return "END_TAG"
	}
	return fmt.Sprintf("EventType(%d)", int(e))
}

// Replayer walks a snapshot subtree depth first and reports it as pull
// events. Character data is never reported. A Replayer is not safe for
// concurrent use; the snapshot it reads is.
type Replayer struct {
	root  Tag
	stack []NodeID
	state EventType
}

// NewReplayer replays the subtree rooted at root. The root's own siblings
// are never visited.
func NewReplayer(root Tag) *Replayer {
	return &Replayer{root: root, state: StartDocument}
}

// Reset rewinds to StartDocument so the same tree can be replayed again.
func (r *Replayer) Reset() {
	r.stack = r.stack[:0]
	r.state = StartDocument
}

// Root is the tag the replay starts from.
func (r *Replayer) Root() Tag { return r.root }

// Next advances to the next event.
func (r *Replayer) Next() (EventType, error) {
	switch r.state {
	case EndDocument:
		return r.state, sberrors.ErrNothingAfterEnd
	case StartDocument:
		if r.root.IsValid() {
			r.stack = append(r.stack, r.root.id)
			r.state = StartTag
		} else {
			r.state = EndDocument
		}
	case StartTag:
		if child := r.Current().FirstChild(); child.IsValid() {
			r.stack = append(r.stack, child.id)
			r.state = StartTag
		} else {
			r.state = EndTag
		}
	case EndTag:
		current := r.Current()
		sibling := current.Next()
		if len(r.stack) > 1 && sibling.IsValid() {
			r.stack[len(r.stack)-1] = sibling.id
			r.state = StartTag
			break
		}
		r.stack = r.stack[:len(r.stack)-1]
		if len(r.stack) == 0 {
			r.state = EndDocument
		} else {
			r.state = EndTag
		}
	}
	return r.state, nil
}

// EventType is the current event.
func (r *Replayer) EventType() EventType { return r.state }

// Depth is the number of open elements.
func (r *Replayer) Depth() int { return len(r.stack) }

// Current is the tag on top of the stack, or the zero Tag.
func (r *Replayer) Current() Tag {
	if len(r.stack) == 0 {
		return Tag{}
	}
	return r.root.doc.Tag(r.stack[len(r.stack)-1])
}

func (r *Replayer) onTag() bool {
	return r.state == StartTag || r.state == EndTag
}

// Name is the element name on StartTag and EndTag, empty otherwise.
func (r *Replayer) Name() string {
	if !r.onTag() {
		return ""
	}
	return r.Current().Name()
}

func (r *Replayer) Namespace() string {
	if !r.onTag() {
		return ""
	}
	return r.Current().Namespace()
}

func (r *Replayer) Prefix() string {
	if !r.onTag() {
		return ""
	}
	return r.Current().Prefix()
}

// AttributeCount is the attribute count of the current element.
func (r *Replayer) AttributeCount() int {
	return r.Current().AttributeCount()
}

// Attribute returns the i-th attribute of the element just started.
func (r *Replayer) Attribute(i int) (Attribute, error) {
	if r.state != StartTag {
		return Attribute{}, fmt.Errorf("%w: no attributes in state %s", sberrors.ErrIndexOutOfRange, r.state)
	}
	attr, ok := r.Current().Attribute(i)
	if !ok {
		return Attribute{}, fmt.Errorf("%w: %d of %d", sberrors.ErrIndexOutOfRange, i, r.AttributeCount())
	}
	return attr, nil
}

func (r *Replayer) AttributeName(i int) (string, error) {
	attr, err := r.Attribute(i)
	return attr.Name, err
}

func (r *Replayer) AttributeValue(i int) (string, error) {
	attr, err := r.Attribute(i)
	return attr.Value, err
}

func (r *Replayer) AttributeNamespace(i int) (string, error) {
	attr, err := r.Attribute(i)
	return attr.Namespace, err
}

func (r *Replayer) AttributePrefix(i int) (string, error) {
	attr, err := r.Attribute(i)
	return attr.Prefix, err
}

// AttributeValueNS looks up an attribute of the current element by
// namespace URI and local name.
func (r *Replayer) AttributeValueNS(namespace, name string) (string, bool) {
	return r.Current().AttributeValue(namespace, name)
}
