// Package schema answers which tags and attributes a document may use. It
// reads the element and attribute names of XSD files and of flat YAML
// whitelists; it does not validate content models.
package schema

import (
	"sort"
	"strings"
)

// NamespaceMap maps namespace URIs to the prefix a document binds them to.
type NamespaceMap map[string]string

// AttrSet is a set of attribute names.
type AttrSet map[string]struct{}

// Add inserts names into s.
func (s AttrSet) Add(names ...string) {
	for _, name := range names {
		s[name] = struct{}{}
	}
}

// Has reports whether name is in s.
func (s AttrSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Names returns the sorted members of s.
func (s AttrSet) Names() []string {
	out := make([]string, 0, len(s))
	for name := range s {
		out = append(out, name)
	}
	sort.Strings(out)

	return out
}

// Lookup is consulted by the diagnostics engine.
type Lookup interface {
	HasTag(name string, ns NamespaceMap) bool
	AttributesFor(name string, ns NamespaceMap) AttrSet
}

// Schema is the flattened content of one schema document.
type Schema struct {
	// Source is the file the schema was read from.
	Source string

	TargetNamespace string

	// Elements maps element names to their allowed attributes.
	Elements map[string]AttrSet

	// Attributes are globally declared attributes, usable on any element
	// with the schema's prefix.
	Attributes AttrSet
}

// NewSchema returns an empty schema for targetNamespace.
func NewSchema(source, targetNamespace string) *Schema {
	return &Schema{
		Source:          source,
		TargetNamespace: targetNamespace,
		Elements:        make(map[string]AttrSet),
		Attributes:      make(AttrSet),
	}
}

// Collection combines several schemas.
type Collection struct {
	schemas []*Schema
}

// NewCollection returns a collection over schemas.
func NewCollection(schemas ...*Schema) *Collection {
	return &Collection{schemas: schemas}
}

// Add appends schemas to c.
func (c *Collection) Add(schemas ...*Schema) {
	c.schemas = append(c.schemas, schemas...)
}

// Len returns the number of schemas in c.
func (c *Collection) Len() int {
	return len(c.schemas)
}

// Schemas returns the schemas in c.
func (c *Collection) Schemas() []*Schema {
	return c.schemas
}

// HasTag implements Lookup.
func (c *Collection) HasTag(name string, ns NamespaceMap) bool {
	prefix, local := splitName(name)

	for _, s := range c.candidates(prefix, ns) {
		if _, ok := s.Elements[local]; ok {
			return true
		}
	}

	return false
}

// AttributesFor implements Lookup. The result holds the element's own
// attributes plus the global attributes of every prefixed schema, qualified
// with that prefix.
func (c *Collection) AttributesFor(name string, ns NamespaceMap) AttrSet {
	prefix, local := splitName(name)
	out := make(AttrSet)

	for _, s := range c.candidates(prefix, ns) {
		for attr := range s.Elements[local] {
			out.Add(attr)
		}
	}

	for _, s := range c.schemas {
		p, bound := ns[s.TargetNamespace]
		if !bound || p == "" {
			continue
		}
		for attr := range s.Attributes {
			out.Add(p + ":" + attr)
		}
	}

	return out
}

// candidates returns the schemas a name with prefix can come from. An
// unprefixed name belongs to schemas whose namespace has no prefix in the
// document.
func (c *Collection) candidates(prefix string, ns NamespaceMap) []*Schema {
	var out []*Schema

	for _, s := range c.schemas {
		bound, ok := ns[s.TargetNamespace]
		switch {
		case prefix == "" && (!ok || bound == ""):
			out = append(out, s)
		case prefix != "" && ok && bound == prefix:
			out = append(out, s)
		}
	}

	return out
}

func splitName(name string) (prefix, local string) {
	if i := strings.IndexByte(name, ':'); i >= 0 {
		return name[:i], name[i+1:]
	}

	return "", name
}

// stripPrefix drops a namespace prefix from a QName reference.
func stripPrefix(name string) string {
	_, local := splitName(name)
	return local
}
