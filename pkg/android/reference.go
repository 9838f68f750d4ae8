package android

import (
	"fmt"
	"strings"
)

// Reference names one resource independent of configuration.
type Reference struct {
	Namespace Namespace
	Type      ResourceType
	Name      string
}

// NewReference is a convenience constructor.
func NewReference(ns Namespace, t ResourceType, name string) Reference {
	return Reference{Namespace: ns, Type: t, Name: name}
}

func (r Reference) String() string {
	if r.Namespace == ResAuto {
		return fmt.Sprintf("@%s/%s", r.Type, r.Name)
	}
	return fmt.Sprintf("@%s:%s/%s", r.Namespace, r.Type, r.Name)
}

// ParseReference parses "@type/name", "@pkg:type/name" and "@+id/name".
// Unqualified references resolve into def.
func ParseReference(s string, def Namespace) (Reference, error) {
	if !strings.HasPrefix(s, "@") {
		return Reference{}, fmt.Errorf("resource reference %q must start with @", s)
	}
	body := strings.TrimPrefix(s[1:], "+")
	ns := def
	if i := strings.IndexByte(body, ':'); i >= 0 {
		ns = NamespaceForPackage(body[:i])
		body = body[i+1:]
	}
	slash := strings.IndexByte(body, '/')
	if slash <= 0 || slash == len(body)-1 {
		return Reference{}, fmt.Errorf("resource reference %q has no type/name", s)
	}
	t, ok := ParseResourceType(body[:slash])
	if !ok {
		return Reference{}, fmt.Errorf("resource reference %q has unknown type %q", s, body[:slash])
	}
	return Reference{Namespace: ns, Type: t, Name: body[slash+1:]}, nil
}

// ResourceID is a packed 32-bit resource identifier:
// package byte, type byte, 16-bit entry.
type ResourceID uint32

// PackResourceID builds an identifier from its three parts.
func PackResourceID(pkg, typ uint8, entry uint16) ResourceID {
	return ResourceID(uint32(pkg)<<24 | uint32(typ)<<16 | uint32(entry))
}

// Package is the high byte.
func (id ResourceID) Package() uint8 { return uint8(id >> 24) }

// TypeByte is the 1-based type byte.
func (id ResourceID) TypeByte() uint8 { return uint8(id >> 16) }

// Entry is the low 16 bits.
func (id ResourceID) Entry() uint16 { return uint16(id) }

func (id ResourceID) String() string { return fmt.Sprintf("0x%08x", uint32(id)) }
