package config

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Full writes every key with its default value instead of a commented
	// minimal file.
	Full bool

	// Format is the output format: "yaml" or "json".
	Format string
}

// GenerateTemplate creates a configuration file template.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	if opts.Format == "json" {
		return templateToJSON()
	}

	if opts.Full {
		return NewConfig().EncodeYAML(DefaultTemplateHeader())
	}

	return generateMinimalTemplate(), nil
}

func generateMinimalTemplate() []byte {
	var buf bytes.Buffer

	buf.WriteString(DefaultTemplateHeader())
	buf.WriteString(`

# Formatting style: singleLineAttributes, multiLineAttributes or fileSizeOptimized
formatting_style: singleLineAttributes

# Indentation: indent_size spaces, or one tab per level with use_tabs
indent_size: 2
# use_tabs: false

# Line terminator written by the formatter: lf or crlf
# end_of_line: lf

# Strict mode reports well-formedness problems as errors
strict: true

# Schema files (XSD or YAML whitelists) consulted by lint
# schemas:
#   - schemas/presentation.xsd

# Schemas loaded when a document declares a namespace
# schema_mapping:
#   - xmlns: http://schemas.microsoft.com/winfx/2006/xaml/presentation
#     xsd_uri: schemas/presentation.xsd

# File patterns to ignore (glob patterns)
# ignore:
#   - "bin/**"
#   - "obj/**"

# Closing-tag insertion
# auto_close:
#   enabled: true
#   languages: [xml, xaml]
#   delay: 250ms
`)

	return buf.Bytes()
}

func templateToJSON() ([]byte, error) {
	cfg := NewConfig()

	out := map[string]any{
		"formatting_style": cfg.FormattingStyle,
		"indent_size":      cfg.IndentSize,
		"use_tabs":         cfg.UseTabs,
		"end_of_line":      cfg.EndOfLine,
		"strict":           cfg.Strict,
		"schemas":          []string{},
		"schema_mapping":   []SchemaMapping{},
		"extensions":       cfg.Extensions,
		"ignore":           []string{},
		"backups": map[string]any{
			"enabled": cfg.Backups.Enabled,
			"mode":    cfg.Backups.Mode,
		},
		"auto_close": map[string]any{
			"enabled":        cfg.AutoClose.Enabled,
			"languages":      cfg.AutoClose.Languages,
			"delay":          cfg.AutoClose.Delay.String(),
			"max_lines":      cfg.AutoClose.MaxLines,
			"max_line_chars": cfg.AutoClose.MaxLineChars,
		},
	}

	jsonBytes, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal JSON: %w", err)
	}

	return jsonBytes, nil
}

// DefaultTemplateHeader returns the default header for generated configs.
func DefaultTemplateHeader() string {
	return `# goxaml configuration
# See: https://github.com/yaklabco/goxaml`
}
