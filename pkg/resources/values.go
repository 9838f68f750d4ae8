package resources

import (
	"fmt"
	"strings"

	"github.com/provide-io/playground/go/sandbox/pkg/android"
	sberrors "github.com/provide-io/playground/go/sandbox/pkg/errors"
	"github.com/provide-io/playground/go/sandbox/pkg/parsers"
)

var valueTagTypes = map[string]android.ResourceType{
	android.TagString:           android.TypeString,
	android.TagDimen:            android.TypeDimen,
	android.TagColor:            android.TypeColor,
	android.TagBool:             android.TypeBool,
	android.TagInteger:          android.TypeInteger,
	android.TagFraction:         android.TypeFraction,
	android.TagDrawable:         android.TypeDrawable,
	android.TagStyle:            android.TypeStyle,
	android.TagAttr:             android.TypeAttr,
	android.TagDeclareStyleable: android.TypeStyleable,
	android.TagPlurals:          android.TypePlurals,
	android.TagStringArray:      android.TypeArray,
	android.TagIntegerArray:     android.TypeArray,
	android.TagArray:            android.TypeArray,
	android.TagID:               android.TypeID,
}

var ignoredValueTags = map[string]bool{
	android.TagPublic:     true,
	android.TagEatComment: true,
	android.TagSkip:       true,
	android.TagJavaSymbol: true,
}

// valueProblem is a declaration that was skipped.
type valueProblem struct {
	kind DiagnosticKind
	err  error
}

// extractValues turns the declarations under <resources> into items.
func extractValues(doc *parsers.Document, ns android.Namespace, config Configuration) ([]*Item, []valueProblem) {
	root := doc.Root()
	if root.Name() != android.TagResources {
		return nil, []valueProblem{{ParseFailure, fmt.Errorf("%w: root element is <%s>, want <resources>", sberrors.ErrMalformedDocument, root.Name())}}
	}

	var items []*Item
	var problems []valueProblem
	newItem := func(t android.ResourceType, name, value string, tag parsers.Tag) {
		items = append(items, &Item{Namespace: ns, Type: t, Name: name, Config: config, Value: value, Tag: tag})
	}

	for _, tag := range root.Children() {
		if tag.Namespace() != "" || ignoredValueTags[tag.Name()] {
			continue
		}
		name, _ := tag.AttributeValue("", android.AttrName)

		t, ok := valueTagTypes[tag.Name()]
		if tag.Name() == android.TagItem {
			typeName, _ := tag.AttributeValue("", android.AttrType)
			if t, ok = android.ParseResourceType(typeName); !ok {
				problems = append(problems, valueProblem{InvalidResourceName,
					fmt.Errorf("%w: <item name=%q type=%q>", sberrors.ErrUnknownResourceType, name, typeName)})
				continue
			}
		} else if !ok {
			problems = append(problems, valueProblem{ParseFailure,
				fmt.Errorf("%w: <%s>", sberrors.ErrUnknownResourceType, tag.Name())})
			continue
		}

		if name == "" {
			problems = append(problems, valueProblem{InvalidResourceName,
				fmt.Errorf("%w: <%s> without name", sberrors.ErrInvalidResourceName, tag.Name())})
			continue
		}

		switch t {
		case android.TypeStyle:
			newItem(t, name, styleParent(tag, name), tag)
		case android.TypeAttr:
			if strings.Contains(name, ":") {
				continue
			}
			format, _ := tag.AttributeValue("", android.AttrFormat)
			newItem(t, name, format, tag)
		case android.TypeStyleable:
			newItem(t, name, "", tag)
			for _, child := range tag.Children() {
				attrName, _ := child.AttributeValue("", android.AttrName)
				// android:foo reuses a framework attr rather than declaring one
				if child.Name() != android.TagAttr || attrName == "" || strings.Contains(attrName, ":") {
					continue
				}
				format, _ := child.AttributeValue("", android.AttrFormat)
				newItem(android.TypeAttr, attrName, format, child)
			}
		case android.TypePlurals, android.TypeArray:
			newItem(t, name, "", tag)
		default:
			newItem(t, name, strings.TrimSpace(tag.InnerText()), tag)
		}
	}
	return items, problems
}

// styleParent is the explicit parent, or the prefix up to the last dot of
// a dotted style name.
func styleParent(tag parsers.Tag, name string) string {
	if parent, ok := tag.AttributeValue("", android.AttrParent); ok {
		return parent
	}
	if i := strings.LastIndexByte(name, '.'); i > 0 {
		return name[:i]
	}
	return ""
}

// generatedIDs collects the names of every "@+id/" attribute value in the
// document, first occurrence first.
func generatedIDs(doc *parsers.Document) []string {
	var names []string
	seen := map[string]bool{}
	var walk func(tag parsers.Tag)
	walk = func(tag parsers.Tag) {
		for _, attr := range tag.Attributes() {
			name, ok := strings.CutPrefix(attr.Value, android.NewIDPrefix)
			if !ok || name == "" || seen[name] {
				continue
			}
			seen[name] = true
			names = append(names, name)
		}
		for _, child := range tag.Children() {
			walk(child)
		}
		for _, attr := range tag.Attributes() {
			if attr.IsDeclared() {
				walk(doc.Tag(attr.Bundled))
			}
		}
	}
	walk(doc.Root())
	return names
}
