package schema

import (
	"io"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Whitelist is the YAML form of a flat tag and attribute list:
//
//	namespace: http://schemas.microsoft.com/winfx/2006/xaml/presentation
//	tags:
//	  Window: [Title, Width, Height]
//	  Grid: []
//	attributes: [Name]
type Whitelist struct {
	Namespace  string              `yaml:"namespace"`
	Tags       map[string][]string `yaml:"tags"`
	Attributes []string            `yaml:"attributes,omitempty"`
}

// LoadYAML reads a YAML whitelist.
func LoadYAML(source string, r io.Reader) (*Schema, error) {
	var wl Whitelist

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	if err := dec.Decode(&wl); err != nil {
		if errors.Is(err, io.EOF) {
			return NewSchema(source, ""), nil
		}
		return nil, errors.Wrapf(err, "parse whitelist %s", source)
	}

	s := NewSchema(source, wl.Namespace)
	for tag, attrs := range wl.Tags {
		set := make(AttrSet, len(attrs))
		set.Add(attrs...)
		s.Elements[tag] = set
	}
	s.Attributes.Add(wl.Attributes...)

	return s, nil
}
