package schema

import (
	"path"
	"strings"

	"github.com/yaklabco/goxaml/pkg/sax"
)

const xmlnsPrefix = "xmlns:"

// Mapping associates a namespace URI with whitespace-separated schema
// locations.
type Mapping struct {
	XMLNS  string
	XSDURI string
}

// NamespaceMapping collects the prefixed namespace declarations of text. A
// URI bound twice keeps the later prefix.
func NamespaceMapping(text string) NamespaceMap {
	out := make(NamespaceMap)

	for ev := range sax.Events(text) {
		if ev.Kind != sax.KindAttribute {
			continue
		}
		if prefix, ok := strings.CutPrefix(ev.Name, xmlnsPrefix); ok {
			out[ev.Value] = prefix
		}
	}

	return out
}

// SchemaURIs lists the schema locations text refers to: schemaLocation and
// noNamespaceSchemaLocation hints plus namespace declarations found in
// mappings. Relative locations are resolved against the directory of
// documentURI. Documents served from a git URI yield nothing.
func SchemaURIs(text, documentURI string, mappings []Mapping) []string {
	if strings.HasPrefix(documentURI, "git") {
		return nil
	}

	base := documentURI[:strings.LastIndexByte(documentURI, '/')+1]

	var out []string
	seen := make(map[string]bool)
	add := func(uris ...string) {
		for _, uri := range uris {
			if uri == "" || seen[uri] {
				continue
			}
			seen[uri] = true
			out = append(out, uri)
		}
	}

	for ev := range sax.Events(text) {
		if ev.Kind != sax.KindAttribute {
			continue
		}

		switch {
		case strings.HasSuffix(ev.Name, ":schemaLocation"):
			fields := strings.Fields(ev.Value)
			for i, field := range fields {
				if i%2 == 1 || strings.HasSuffix(strings.ToLower(field), ".xsd") {
					add(resolve(base, field))
				}
			}
		case strings.HasSuffix(ev.Name, ":noNamespaceSchemaLocation"):
			for _, field := range strings.Fields(ev.Value) {
				add(resolve(base, field))
			}
		case ev.Name == "xmlns" || strings.HasPrefix(ev.Name, xmlnsPrefix):
			for _, m := range mappings {
				if m.XMLNS == ev.Value {
					add(strings.Fields(m.XSDURI)...)
				}
			}
		}
	}

	return out
}

func resolve(base, uri string) string {
	if base == "" || strings.Contains(uri, "://") || strings.HasPrefix(uri, "/") {
		return uri
	}

	if scheme, rest, ok := strings.Cut(base, "://"); ok {
		return scheme + "://" + path.Join(rest, uri)
	}

	return path.Join(base, uri)
}
