package lint

import (
	"context"
	"fmt"
	"strings"

	"github.com/yaklabco/goxaml/pkg/config"
	"github.com/yaklabco/goxaml/pkg/sax"
	"github.com/yaklabco/goxaml/pkg/schema"
)

// Attribute names every element may carry regardless of its schema.
var allowedAttributeSuffixes = []string{":schemaLocation", ":noNamespaceSchemaLocation", "xml:space"}

// Engine turns scanner errors and schema lookups into diagnostics.
type Engine struct {
	// Schema is consulted for element and attribute names. Nil reports
	// well-formedness only.
	Schema schema.Lookup

	// Strict selects error and info severities instead of warning and hint.
	Strict bool

	// Resolver, when set, replaces Schema with a per-document lookup.
	Resolver SchemaResolver
}

// SchemaResolver picks the schema lookup for one document.
type SchemaResolver interface {
	LookupFor(ctx context.Context, path, text string) (schema.Lookup, error)
}

// NewEngine returns an engine over lookup.
func NewEngine(lookup schema.Lookup, strict bool) *Engine {
	return &Engine{Schema: lookup, Strict: strict}
}

// Diagnostics scans text once. Only the first scanner error on a line is
// reported, and none on a line that already has a diagnostic.
func (e *Engine) Diagnostics(ctx context.Context, path, text string) ([]Diagnostic, error) {
	lookup := e.Schema
	if e.Resolver != nil {
		var err error
		if lookup, err = e.Resolver.LookupFor(ctx, path, text); err != nil {
			return nil, fmt.Errorf("resolve schema: %w", err)
		}
	}

	pass := &pass{
		engine: e,
		lookup: lookup,
		path:   path,
		lines:  make(map[int]bool),
		cache:  make(map[string]schema.AttrSet),
	}

	if lookup != nil {
		pass.ns = schema.NamespaceMapping(text)
	}

	for ev := range sax.Events(text) {
		if err := ctx.Err(); err != nil {
			return pass.diags, fmt.Errorf("linting cancelled: %w", err)
		}

		switch ev.Kind {
		case sax.KindError:
			pass.scanError(ev)
		case sax.KindOpenTag:
			if lookup != nil {
				pass.openTag(ev)
			}
		}
	}

	return pass.diags, nil
}

type pass struct {
	engine *Engine
	lookup schema.Lookup
	path   string
	ns     schema.NamespaceMap
	diags  []Diagnostic
	lines  map[int]bool
	cache  map[string]schema.AttrSet
}

func (p *pass) add(rule Rule, ev sax.Event, subject, message string, wellformedness bool) {
	d := newDiagnostic(rule, p.path, ev.Line, ev.Column, message,
		config.SeverityFor(p.engine.Strict, wellformedness))
	d.Subject = subject
	p.diags = append(p.diags, d)
	p.lines[ev.Line] = true
}

func (p *pass) scanError(ev sax.Event) {
	if p.lines[ev.Line] {
		return
	}
	p.add(RuleWellFormed, ev, "", ev.Text, true)
}

func (p *pass) attributes(name string) schema.AttrSet {
	attrs, ok := p.cache[name]
	if !ok {
		attrs = p.lookup.AttributesFor(name, p.ns)
		p.cache[name] = attrs
	}
	return attrs
}

// openTag checks a tag against the schema. For a property element such as
// Grid.Row the dotted parts are checked as attributes of Grid.
func (p *pass) openTag(ev sax.Event) {
	parts := strings.Split(ev.Name, ".")

	if !p.lookup.HasTag(parts[0], p.ns) {
		if !strings.Contains(ev.Name, ":!") {
			p.add(RuleUnknownTag, ev, ev.Name, fmt.Sprintf("Unknown xml tag '%s'", ev.Name), false)
		}
		return
	}

	known := p.attributes(parts[0])

	names := make([]string, 0, len(ev.Attributes)+len(parts)-1)
	for _, attr := range ev.Attributes {
		names = append(names, attr.Name)
	}
	names = append(names, parts[1:]...)

	for _, name := range names {
		if known.Has(name) || exempt(name) {
			continue
		}
		p.add(RuleUnknownAttribute, ev, name,
			fmt.Sprintf("Unknown xml attribute '%s' for tag '%s'", name, ev.Name), false)
	}
}

func exempt(name string) bool {
	if name == "xmlns" || strings.HasPrefix(name, "xmlns:") || strings.Contains(name, ":!") {
		return true
	}

	for _, suffix := range allowedAttributeSuffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}

	return false
}
