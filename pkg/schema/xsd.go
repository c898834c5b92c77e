package schema

import (
	"io"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
	"github.com/pkg/errors"
)

var (
	xpSchemaRoot      = xpath.MustCompile(`/*[local-name()='schema']`)
	xpNamedTypes      = xpath.MustCompile(`/*[local-name()='schema']/*[local-name()='complexType'][@name]`)
	xpAttributeGroups = xpath.MustCompile(`/*[local-name()='schema']/*[local-name()='attributeGroup'][@name]`)
	xpGlobalAttrs     = xpath.MustCompile(`/*[local-name()='schema']/*[local-name()='attribute'][@name]`)
	xpElements        = xpath.MustCompile(`//*[local-name()='element'][@name]`)
)

// typeDef is a complex type or attribute group before inheritance is
// resolved.
type typeDef struct {
	attrs  []string
	bases  []string
	groups []string
}

// LoadXSD reads the element and attribute declarations of an XSD document.
func LoadXSD(source string, r io.Reader) (*Schema, error) {
	doc, err := xmlquery.Parse(r)
	if err != nil {
		return nil, errors.Wrapf(err, "parse schema %s", source)
	}

	root := xmlquery.QuerySelector(doc, xpSchemaRoot)
	if root == nil {
		return nil, errors.Errorf("%s: missing <schema> root element", source)
	}

	s := NewSchema(source, root.SelectAttr("targetNamespace"))

	types := make(map[string]*typeDef)
	for _, n := range xmlquery.QuerySelectorAll(doc, xpNamedTypes) {
		types[n.SelectAttr("name")] = collectDef(n)
	}

	groups := make(map[string]*typeDef)
	for _, n := range xmlquery.QuerySelectorAll(doc, xpAttributeGroups) {
		groups[n.SelectAttr("name")] = collectDef(n)
	}

	for _, n := range xmlquery.QuerySelectorAll(doc, xpGlobalAttrs) {
		s.Attributes.Add(n.SelectAttr("name"))
	}

	r2 := resolver{types: types, groups: groups}

	for _, n := range xmlquery.QuerySelectorAll(doc, xpElements) {
		name := n.SelectAttr("name")

		attrs, ok := s.Elements[name]
		if !ok {
			attrs = make(AttrSet)
			s.Elements[name] = attrs
		}

		if typ := n.SelectAttr("type"); typ != "" {
			r2.addType(attrs, stripPrefix(typ))
		}

		r2.addDef(attrs, collectDef(n))
	}

	return s, nil
}

// collectDef gathers attribute names and references below n without
// descending into nested element declarations.
func collectDef(n *xmlquery.Node) *typeDef {
	def := &typeDef{}

	var walk func(*xmlquery.Node)
	walk = func(parent *xmlquery.Node) {
		for child := parent.FirstChild; child != nil; child = child.NextSibling {
			if child.Type != xmlquery.ElementNode {
				continue
			}

			switch child.Data {
			case "element":
				continue
			case "attribute":
				if name := child.SelectAttr("name"); name != "" {
					def.attrs = append(def.attrs, name)
				} else if ref := child.SelectAttr("ref"); ref != "" {
					def.attrs = append(def.attrs, ref)
				}
			case "attributeGroup":
				if ref := child.SelectAttr("ref"); ref != "" {
					def.groups = append(def.groups, stripPrefix(ref))
				}
			case "extension", "restriction":
				if base := child.SelectAttr("base"); base != "" {
					def.bases = append(def.bases, stripPrefix(base))
				}
				walk(child)
			default:
				walk(child)
			}
		}
	}
	walk(n)

	return def
}

type resolver struct {
	types  map[string]*typeDef
	groups map[string]*typeDef
}

func (r resolver) addType(out AttrSet, name string) {
	r.add(out, r.types[name], map[*typeDef]bool{})
}

func (r resolver) addDef(out AttrSet, def *typeDef) {
	r.add(out, def, map[*typeDef]bool{})
}

func (r resolver) add(out AttrSet, def *typeDef, seen map[*typeDef]bool) {
	if def == nil || seen[def] {
		return
	}
	seen[def] = true

	out.Add(def.attrs...)

	for _, base := range def.bases {
		r.add(out, r.types[base], seen)
	}

	for _, group := range def.groups {
		r.add(out, r.groups[group], seen)
	}
}
