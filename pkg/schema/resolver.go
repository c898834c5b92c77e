package schema

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
)

// Resolver combines a fixed base collection with the local schema files a
// document points at. Loaded files are cached for the resolver's lifetime
// and safe to share between goroutines.
type Resolver struct {
	Base     *Collection
	Mappings []Mapping

	// OnError is told once about each schema file that failed to load.
	// Such files are skipped.
	OnError func(uri string, err error)

	mu    sync.Mutex
	cache map[string]loaded
}

type loaded struct {
	schema *Schema
	err    error
}

// NewResolver returns a resolver over base, which may be nil.
func NewResolver(base *Collection, mappings []Mapping) *Resolver {
	return &Resolver{Base: base, Mappings: mappings, cache: make(map[string]loaded)}
}

// LookupFor returns the schemas that apply to the document at path. The
// result is nil when there are none, so callers can tell a document
// without schemas apart from one with an empty schema.
func (r *Resolver) LookupFor(ctx context.Context, path, text string) (Lookup, error) {
	c := NewCollection()
	if r.Base != nil {
		c.Add(r.Base.Schemas()...)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrap(err, "resolve document path")
	}

	for _, uri := range SchemaURIs(text, filepath.ToSlash(abs), r.Mappings) {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(err, "resolve schemas")
		}

		local, ok := LocalPath(uri)
		if !ok || !Supported(local) {
			continue
		}

		s, first, err := r.load(filepath.FromSlash(local))
		if err != nil {
			if first && r.OnError != nil {
				r.OnError(uri, err)
			}
			continue
		}
		c.Add(s)
	}

	if c.Len() == 0 {
		return nil, nil
	}

	return c, nil
}

// load reads path once. first is set on the call that did the reading.
func (r *Resolver) load(path string) (s *Schema, first bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cache == nil {
		r.cache = make(map[string]loaded)
	}
	if l, ok := r.cache[path]; ok {
		return l.schema, false, l.err
	}

	s, err = LoadFile(path)
	r.cache[path] = loaded{schema: s, err: err}

	return s, true, err
}
