package parsers

import (
	"encoding/xml"
	"errors"
)

const xmlNamespace = "http://www.w3.org/XML/1998/namespace"

var errUnboundPrefix = errors.New("unbound namespace prefix")

type nsScope struct {
	prefixes   map[string]string
	defaultNS  string
	defaultSet bool
}

// nsStack tracks the xmlns declarations in scope while tokens are read raw.
type nsStack struct {
	scopes []nsScope
}

func (s *nsStack) push(scope nsScope) {
	s.scopes = append(s.scopes, scope)
}

func (s *nsStack) pop() {
	if len(s.scopes) == 0 {
		return
	}
	s.scopes = s.scopes[:len(s.scopes)-1]
}

func (s *nsStack) lookup(prefix string) (string, bool) {
	if prefix == "xml" {
		return xmlNamespace, true
	}
	for i := len(s.scopes) - 1; i >= 0; i-- {
		scope := s.scopes[i]
		if prefix == "" {
			if scope.defaultSet {
				return scope.defaultNS, true
			}
			continue
		}
		if ns, ok := scope.prefixes[prefix]; ok {
			return ns, true
		}
	}
	if prefix == "" {
		return "", true
	}
	return "", false
}

// scopeOf collects the xmlns declarations of a raw start element.
func scopeOf(start xml.StartElement) nsScope {
	scope := nsScope{}
	for _, attr := range start.Attr {
		switch {
		case attr.Name.Space == "" && attr.Name.Local == "xmlns":
			scope.defaultNS = attr.Value
			scope.defaultSet = true
		case attr.Name.Space == "xmlns":
			if scope.prefixes == nil {
				scope.prefixes = make(map[string]string, 2)
			}
			scope.prefixes[attr.Name.Local] = attr.Value
		}
	}
	return scope
}

func isNamespaceDecl(name xml.Name) bool {
	return name.Space == "xmlns" || (name.Space == "" && name.Local == "xmlns")
}
