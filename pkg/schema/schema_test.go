package schema_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/goxaml/pkg/schema"
)

const presentationNS = "http://example.com/presentation"

const sampleXSD = `<?xml version="1.0" encoding="utf-8"?>
<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema" targetNamespace="http://example.com/presentation">
  <xs:attribute name="Key" type="xs:string"/>
  <xs:attributeGroup name="Common">
    <xs:attribute name="Name" type="xs:string"/>
  </xs:attributeGroup>
  <xs:complexType name="FrameworkElement">
    <xs:attribute name="Width" type="xs:double"/>
    <xs:attributeGroup ref="Common"/>
  </xs:complexType>
  <xs:complexType name="WindowType">
    <xs:complexContent>
      <xs:extension base="FrameworkElement">
        <xs:attribute name="Title" type="xs:string"/>
      </xs:extension>
    </xs:complexContent>
  </xs:complexType>
  <xs:element name="Window" type="WindowType"/>
  <xs:element name="Grid">
    <xs:complexType>
      <xs:sequence>
        <xs:element name="Button">
          <xs:complexType>
            <xs:attribute name="Content" type="xs:string"/>
          </xs:complexType>
        </xs:element>
      </xs:sequence>
      <xs:attribute name="Rows" type="xs:int"/>
    </xs:complexType>
  </xs:element>
</xs:schema>`

const sampleYAML = `namespace: http://example.com/extras
tags:
  Chart: [Title, Series]
  Legend: []
attributes: [Theme]
`

func loadSample(t *testing.T) *schema.Schema {
	t.Helper()

	s, err := schema.LoadXSD("sample.xsd", strings.NewReader(sampleXSD))
	require.NoError(t, err)

	return s
}

func TestLoadXSD(t *testing.T) {
	t.Parallel()

	s := loadSample(t)

	assert.Equal(t, presentationNS, s.TargetNamespace)
	assert.Equal(t, []string{"Name", "Title", "Width"}, s.Elements["Window"].Names())
	assert.Equal(t, []string{"Rows"}, s.Elements["Grid"].Names())
	assert.Equal(t, []string{"Content"}, s.Elements["Button"].Names())
	assert.Equal(t, []string{"Key"}, s.Attributes.Names())
}

func TestLoadXSD_Errors(t *testing.T) {
	t.Parallel()

	_, err := schema.LoadXSD("broken.xsd", strings.NewReader("<xs:schema"))
	require.Error(t, err)

	_, err = schema.LoadXSD("other.xsd", strings.NewReader("<root/>"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing <schema> root element")
}

func TestLoadYAML(t *testing.T) {
	t.Parallel()

	s, err := schema.LoadYAML("extras.yml", strings.NewReader(sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "http://example.com/extras", s.TargetNamespace)
	assert.Equal(t, []string{"Series", "Title"}, s.Elements["Chart"].Names())
	assert.Empty(t, s.Elements["Legend"])
	assert.True(t, s.Attributes.Has("Theme"))

	_, err = schema.LoadYAML("bad.yml", strings.NewReader("unknown_key: 1\n"))
	require.Error(t, err)

	empty, err := schema.LoadYAML("empty.yml", strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, empty.Elements)
}

func TestCollection_Lookup(t *testing.T) {
	t.Parallel()

	extras, err := schema.LoadYAML("extras.yml", strings.NewReader(sampleYAML))
	require.NoError(t, err)

	c := schema.NewCollection(loadSample(t), extras)
	ns := schema.NamespaceMap{"http://example.com/extras": "ex"}

	assert.True(t, c.HasTag("Window", ns))
	assert.True(t, c.HasTag("ex:Chart", ns))
	assert.False(t, c.HasTag("Chart", ns))
	assert.False(t, c.HasTag("other:Window", ns))
	assert.False(t, c.HasTag("Missing", ns))

	attrs := c.AttributesFor("Window", ns)
	assert.True(t, attrs.Has("Title"))
	assert.True(t, attrs.Has("ex:Theme"))
	assert.False(t, attrs.Has("Key"))

	assert.Equal(t, []string{"Series", "Title", "ex:Theme"}, c.AttributesFor("ex:Chart", ns).Names())
	assert.Equal(t, 2, c.Len())
}

func TestNamespaceMapping(t *testing.T) {
	t.Parallel()

	text := `<Window xmlns="urn:default" xmlns:x="urn:x" xmlns:local="urn:local"><Grid/></Window>`

	assert.Equal(t, schema.NamespaceMap{"urn:x": "x", "urn:local": "local"}, schema.NamespaceMapping(text))
	assert.Empty(t, schema.NamespaceMapping("<a></b"))
}

func TestSchemaURIs(t *testing.T) {
	t.Parallel()

	mappings := []schema.Mapping{
		{XMLNS: "urn:default", XSDURI: "/schemas/a.xsd /schemas/b.xsd"},
		{XMLNS: "urn:x", XSDURI: "/schemas/x.xsd"},
		{XMLNS: "urn:unused", XSDURI: "/schemas/unused.xsd"},
	}

	tests := []struct {
		name string
		text string
		uri  string
		want []string
	}{
		{
			name: "schema location pairs",
			text: `<r xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance" xsi:schemaLocation="urn:a a.xsd urn:b http://host/b"/>`,
			uri:  "file:///work/doc.xml",
			want: []string{"file:///work/a.xsd", "http://host/b"},
		},
		{
			name: "no namespace location",
			text: `<r xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance" xsi:noNamespaceSchemaLocation="sub/r.xsd"/>`,
			uri:  "/work/doc.xml",
			want: []string{"/work/sub/r.xsd"},
		},
		{
			name: "namespace mappings deduplicated",
			text: `<r xmlns="urn:default" xmlns:x="urn:x"><x:c xmlns:x="urn:x"/></r>`,
			uri:  "/work/doc.xml",
			want: []string{"/schemas/a.xsd", "/schemas/b.xsd", "/schemas/x.xsd"},
		},
		{
			name: "git documents",
			text: `<r xmlns="urn:default"/>`,
			uri:  "git:/work/doc.xml",
			want: nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, schema.SchemaURIs(tc.text, tc.uri, mappings))
		})
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	xsdPath := filepath.Join(dir, "p.xsd")
	ymlPath := filepath.Join(dir, "e.yaml")
	require.NoError(t, os.WriteFile(xsdPath, []byte(sampleXSD), 0o600))
	require.NoError(t, os.WriteFile(ymlPath, []byte(sampleYAML), 0o600))

	c, err := schema.Load(context.Background(), []string{xsdPath, ymlPath})
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())

	_, err = schema.Load(context.Background(), []string{filepath.Join(dir, "p.txt")})
	require.ErrorIs(t, err, schema.ErrUnsupportedFormat)

	_, err = schema.Load(context.Background(), []string{filepath.Join(dir, "missing.xsd")})
	require.ErrorIs(t, err, os.ErrNotExist)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = schema.Load(ctx, []string{xsdPath})
	require.ErrorIs(t, err, context.Canceled)
}

func TestLocalPath(t *testing.T) {
	t.Parallel()

	p, ok := schema.LocalPath("file:///work/a.xsd")
	assert.True(t, ok)
	assert.Equal(t, "/work/a.xsd", p)

	_, ok = schema.LocalPath("https://host/a.xsd")
	assert.False(t, ok)

	p, ok = schema.LocalPath("rel/a.xsd")
	assert.True(t, ok)
	assert.Equal(t, "rel/a.xsd", p)
}
