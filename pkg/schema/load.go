package schema

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// ErrUnsupportedFormat is returned for schema files that are neither XSD
// nor YAML.
var ErrUnsupportedFormat = errors.New("unsupported schema format")

// Load reads the schema files at paths into one collection. The loader is
// picked by extension: .xsd for XML Schema, .yml and .yaml for whitelists.
func Load(ctx context.Context, paths []string) (*Collection, error) {
	c := NewCollection()

	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(err, "load schemas")
		}

		s, err := LoadFile(p)
		if err != nil {
			return nil, err
		}

		c.Add(s)
	}

	return c, nil
}

// Supported reports whether path has a schema file extension LoadFile
// understands.
func Supported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xsd", ".yml", ".yaml":
		return true
	default:
		return false
	}
}

// LoadFile reads one schema file.
func LoadFile(path string) (*Schema, error) {
	ext := strings.ToLower(filepath.Ext(path))

	var loader func(string, *os.File) (*Schema, error)
	switch ext {
	case ".xsd":
		loader = func(src string, f *os.File) (*Schema, error) { return LoadXSD(src, f) }
	case ".yml", ".yaml":
		loader = func(src string, f *os.File) (*Schema, error) { return LoadYAML(src, f) }
	default:
		return nil, errors.Wrapf(ErrUnsupportedFormat, "%s", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open schema")
	}
	defer f.Close()

	return loader(path, f)
}

// LocalPath turns a schema URI into a filesystem path. Remote URIs are not
// fetched and report false.
func LocalPath(uri string) (string, bool) {
	if p, ok := strings.CutPrefix(uri, "file://"); ok {
		return p, true
	}

	if strings.Contains(uri, "://") {
		return "", false
	}

	return uri, true
}
