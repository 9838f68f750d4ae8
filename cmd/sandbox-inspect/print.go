package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/provide-io/playground/go/sandbox/pkg/aar"
	"github.com/provide-io/playground/go/sandbox/pkg/parsers"
	"github.com/provide-io/playground/go/sandbox/pkg/resources"
	"github.com/provide-io/playground/go/sandbox/pkg/sandbox"
)

// printer writes human readable output. Colors follow color.NoColor.
type printer struct {
	w io.Writer

	ref    func(a ...interface{}) string
	config func(a ...interface{}) string
	value  func(a ...interface{}) string
	dim    func(a ...interface{}) string
}

func newPrinter(w io.Writer) *printer {
	return &printer{
		w:      w,
		ref:    color.New(color.FgCyan, color.Bold).SprintFunc(),
		config: color.New(color.FgYellow).SprintFunc(),
		value:  color.New(color.FgGreen).SprintFunc(),
		dim:    color.New(color.Faint).SprintFunc(),
	}
}

func configLabel(c resources.Configuration) string {
	if c.IsDefault() {
		return "default"
	}
	return c.String()
}

// item prints one variant: reference, configuration, then the value or
// the file it comes from.
func (p *printer) item(item *resources.Item) {
	body := p.value(item.Value)
	if item.IsFile() {
		body = p.dim(item.File)
	}
	fmt.Fprintf(p.w, "%s [%s] = %s\n", p.ref(item.Reference()), p.config(configLabel(item.Config)), body)
}

func (p *printer) outline(node *sandbox.Node, depth int) {
	if node == nil {
		return
	}
	line := strings.Repeat("  ", depth) + p.ref(node.Class)
	if node.ID != "" {
		line += " " + p.value("#"+node.ID)
	}
	fmt.Fprintln(p.w, line)
	for _, child := range node.Children {
		p.outline(child, depth+1)
	}
}

// events replays a layout as pull events, one line per tag.
func (p *printer) events(lp *parsers.LayoutParser) error {
	for {
		ev, err := lp.Next()
		if err != nil {
			return err
		}
		switch ev {
		case parsers.StartTag:
			indent := strings.Repeat("  ", lp.Depth()-1)
			fmt.Fprintf(p.w, "%s%s\n", indent, p.ref("<"+lp.Name()+">"))
			for _, attr := range lp.Current().Attributes() {
				name := attr.Name
				if attr.Prefix != "" {
					name = attr.Prefix + ":" + name
				}
				value := p.value(attr.Value)
				if attr.IsDeclared() {
					value = p.config(attr.Value)
				}
				fmt.Fprintf(p.w, "%s    %s=%s\n", indent, name, value)
			}
		case parsers.EndTag:
			fmt.Fprintf(p.w, "%s%s\n", strings.Repeat("  ", lp.Depth()-1), p.dim("</"+lp.Name()+">"))
		case parsers.EndDocument:
			return nil
		}
	}
}

func (p *printer) library(lib *aar.Library) {
	fmt.Fprintf(p.w, "%s %s\n", p.ref(lib.Name), p.value(lib.PackageName))
	fmt.Fprintf(p.w, "  dir:     %s\n", lib.Dir)
	if lib.Archive != "" {
		fmt.Fprintf(p.w, "  archive: %s\n", lib.Archive)
	}
	for _, part := range []struct{ label, path string }{
		{"res", lib.ResDir},
		{"assets", lib.AssetsDir},
		{"symbols", lib.SymbolFile},
	} {
		if part.path == "" {
			fmt.Fprintf(p.w, "  %-8s %s\n", part.label+":", p.dim("-"))
		} else {
			fmt.Fprintf(p.w, "  %-8s %s\n", part.label+":", part.path)
		}
	}
}
