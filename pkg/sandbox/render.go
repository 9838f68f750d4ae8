package sandbox

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/provide-io/playground/go/sandbox/pkg/android"
	sberrors "github.com/provide-io/playground/go/sandbox/pkg/errors"
	"github.com/provide-io/playground/go/sandbox/pkg/parsers"
	"github.com/provide-io/playground/go/sandbox/pkg/resources"
)

// Layout size sentinels, as used by the view system.
const (
	MatchParent = -1
	WrapContent = -2
)

const defaultRootLayout = `<?xml version="1.0" encoding="utf-8"?>
<FrameLayout
    xmlns:android="http://schemas.android.com/apk/res/android"
    android:layout_width="match_parent"
    android:layout_height="match_parent"
/>`

// RenderOptions are the caller's output preferences.
type RenderOptions struct {
	Format string `json:"format"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Pack   bool   `json:"pack"`
	Debug  bool   `json:"debug"`
	Device string `json:"device"`
}

// DefaultRenderOptions renders a full-width, content-high PNG.
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{Format: "png", Width: MatchParent, Height: WrapContent, Device: "pixel_5"}
}

// RenderRequest is everything a renderer needs for one pass.
type RenderRequest struct {
	ID      uuid.UUID
	Session *Session
	Layout  *parsers.LayoutParser
	Device  resources.Configuration
	Theme   string
	Options RenderOptions
}

// Bounds is a view rectangle in pixels.
type Bounds struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Node is one view of the rendered hierarchy.
type Node struct {
	Class    string  `json:"class"`
	ID       string  `json:"id,omitempty"`
	Bounds   Bounds  `json:"bounds"`
	Children []*Node `json:"children"`
}

// RenderResult is the encoded image, if any, and the view hierarchy.
type RenderResult struct {
	RequestID uuid.UUID `json:"request_id"`
	Format    string    `json:"format"`
	Image     []byte    `json:"-"`
	Root      *Node     `json:"view"`
}

// Renderer is the rendering engine boundary. The sandbox never measures or
// draws; it prepares the request and hands it over.
type Renderer interface {
	Render(ctx context.Context, req *RenderRequest) (*RenderResult, error)
}

// DefaultRootLayout is the match_parent FrameLayout used when a request
// names no layout.
func DefaultRootLayout(counter *parsers.Counter) (*parsers.LayoutParser, error) {
	return parsers.LayoutParserFromString(defaultRootLayout, parsers.WithCounter(counter))
}

// NewRenderRequest fills the defaults of a request: a fresh id, the
// default root layout and the session theme.
func (s *Session) NewRenderRequest(layout *parsers.LayoutParser, device resources.Configuration, opts RenderOptions) (*RenderRequest, error) {
	if layout == nil {
		var err error
		if layout, err = DefaultRootLayout(s.counter); err != nil {
			return nil, err
		}
	}
	if opts.Format == "" {
		opts.Format = DefaultRenderOptions().Format
	}
	return &RenderRequest{
		ID:      uuid.New(),
		Session: s,
		Layout:  layout,
		Device:  device,
		Theme:   s.config.Theme,
		Options: opts,
	}, nil
}

// Render hands req to r. A closed session is refused.
func (s *Session) Render(ctx context.Context, r Renderer, req *RenderRequest) (*RenderResult, error) {
	if s.Closed() {
		return nil, sberrors.ErrSessionClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	logger := s.logger.With("request", req.ID.String())
	logger.Debug("🎨 Rendering", "device", req.Device.String(), "theme", req.Theme, "format", req.Options.Format)

	result, err := r.Render(ctx, req)
	if err != nil {
		logger.Error("❌ Render failed", "error", err)
		return nil, err
	}
	result.RequestID = req.ID
	return result, nil
}

// OutlineRenderer replays the layout into a view tree without measuring
// it. Bounds stay zero and no image is produced. Include tags are
// expanded through the session callback.
type OutlineRenderer struct{}

func (OutlineRenderer) Render(ctx context.Context, req *RenderRequest) (*RenderResult, error) {
	b := &outlineBuilder{ctx: ctx, req: req}
	root, err := b.build(req.Layout)
	if err != nil {
		return nil, err
	}
	return &RenderResult{Format: "outline", Root: root}, nil
}

const maxIncludeDepth = 16

type outlineBuilder struct {
	ctx   context.Context
	req   *RenderRequest
	depth int
}

func (b *outlineBuilder) build(p *parsers.LayoutParser) (*Node, error) {
	var root *Node
	var stack []*Node
	for {
		if err := b.ctx.Err(); err != nil {
			return nil, err
		}
		ev, err := p.Next()
		if err != nil {
			return nil, err
		}
		switch ev {
		case parsers.StartTag:
			node, err := b.node(p)
			if err != nil {
				return nil, err
			}
			if len(stack) == 0 {
				root = node
			} else if parent := stack[len(stack)-1]; parent != nil && node != nil {
				parent.Children = append(parent.Children, node)
			}
			stack = append(stack, node)
		case parsers.EndTag:
			stack = stack[:len(stack)-1]
		case parsers.EndDocument:
			return root, nil
		}
	}
}

func (b *outlineBuilder) node(p *parsers.LayoutParser) (*Node, error) {
	if p.Name() == "include" {
		return b.include(p)
	}
	node := &Node{Class: p.Name(), Children: []*Node{}}
	if id, ok := p.AttributeValueNS(android.AndroidURI, "id"); ok {
		node.ID = strings.TrimPrefix(strings.TrimPrefix(id, android.NewIDPrefix), "@id/")
	}
	return node, nil
}

func (b *outlineBuilder) include(p *parsers.LayoutParser) (*Node, error) {
	value, ok := p.AttributeValueNS("", "layout")
	if !ok {
		return nil, nil
	}
	ref, err := android.ParseReference(value, p.LayoutNamespace())
	if err != nil {
		return nil, err
	}
	if b.depth >= maxIncludeDepth {
		return nil, fmt.Errorf("include of %s nested too deeply", ref)
	}
	included, err := b.req.Session.LayoutParser(ref, b.req.Device)
	if err != nil {
		return nil, err
	}
	b.depth++
	defer func() { b.depth-- }()
	return b.build(included)
}
