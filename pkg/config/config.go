// Package config defines the configuration types for goxaml.
// These are plain data structures; discovery and merging live in internal/configloader.
package config

import "time"

// Severity represents the severity level of a diagnostic.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
	SeverityHint    Severity = "hint"
)

// IsValid reports whether s is a known severity.
func (s Severity) IsValid() bool {
	switch s {
	case SeverityError, SeverityWarning, SeverityInfo, SeverityHint:
		return true
	default:
		return false
	}
}

// EndOfLine selects the line terminator the formatter emits.
type EndOfLine string

const (
	EndOfLineLF   EndOfLine = "lf"
	EndOfLineCRLF EndOfLine = "crlf"
)

// String returns the terminator itself.
func (e EndOfLine) String() string {
	if e == EndOfLineCRLF {
		return "\r\n"
	}
	return "\n"
}

// IsValid reports whether e is a known terminator name.
func (e EndOfLine) IsValid() bool {
	return e == EndOfLineLF || e == EndOfLineCRLF
}

// SchemaMapping binds a namespace URI to whitespace-separated schema locations.
type SchemaMapping struct {
	XMLNS  string `mapstructure:"xmlns" yaml:"xmlns"`
	XSDURI string `mapstructure:"xsd_uri" yaml:"xsd_uri"`
}

// BackupsConfig controls backup behavior when formatted files are written.
type BackupsConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Mode    string `mapstructure:"mode" yaml:"mode"` // "sidecar"
}

// AutoCloseConfig tunes the closing-tag transformer.
type AutoCloseConfig struct {
	Enabled      bool          `mapstructure:"enabled" yaml:"enabled"`
	Languages    []string      `mapstructure:"languages" yaml:"languages"`
	Delay        time.Duration `mapstructure:"delay" yaml:"delay"`
	MaxLines     int           `mapstructure:"max_lines" yaml:"max_lines"`
	MaxLineChars int           `mapstructure:"max_line_chars" yaml:"max_line_chars"`
}

// OutputFormat specifies the output format for results.
type OutputFormat string

const (
	FormatText    OutputFormat = "text"
	FormatJSON    OutputFormat = "json"
	FormatDiff    OutputFormat = "diff"
	FormatSummary OutputFormat = "summary"
)

// RuleFormat controls how rule identifiers appear in output.
type RuleFormat string

const (
	RuleFormatName     RuleFormat = "name"     // "unknown-tag"
	RuleFormatID       RuleFormat = "id"       // "XML002"
	RuleFormatCombined RuleFormat = "combined" // "XML002/unknown-tag"
)

// Default values.
const (
	DefaultFormattingStyle = "singleLineAttributes"
	DefaultIndentSize      = 2
	DefaultBackupMode      = "sidecar"
	DefaultAutoCloseDelay  = 250 * time.Millisecond
	DefaultMaxLines        = 8096
	DefaultMaxLineChars    = 1024
)

// Config is the root configuration structure.
type Config struct {
	// FormattingStyle is one of singleLineAttributes, multiLineAttributes
	// or fileSizeOptimized.
	FormattingStyle string `mapstructure:"formatting_style" yaml:"formatting_style"`

	IndentSize int       `mapstructure:"indent_size" yaml:"indent_size"`
	UseTabs    bool      `mapstructure:"use_tabs" yaml:"use_tabs"`
	EndOfLine  EndOfLine `mapstructure:"end_of_line" yaml:"end_of_line"`

	// Strict reports well-formedness problems as errors and unknown names
	// as info; otherwise warnings and hints.
	Strict bool `mapstructure:"strict" yaml:"strict"`

	// Schemas lists XSD or YAML whitelist files consulted by lint.
	Schemas []string `mapstructure:"schemas" yaml:"schemas"`

	// SchemaMapping resolves namespace declarations to schema files.
	SchemaMapping []SchemaMapping `mapstructure:"schema_mapping" yaml:"schema_mapping"`

	// Extensions are the file extensions considered during discovery.
	Extensions []string `mapstructure:"extensions" yaml:"extensions"`

	// Ignore contains glob patterns for files to ignore.
	Ignore []string `mapstructure:"ignore" yaml:"ignore"`

	Backups   BackupsConfig   `mapstructure:"backups" yaml:"backups"`
	AutoClose AutoCloseConfig `mapstructure:"auto_close" yaml:"auto_close"`

	// CLI-level options (not persisted to config files).

	// Write replaces files with their formatted content.
	Write bool `mapstructure:"-" yaml:"-"`

	// DryRun shows what formatting would change without writing.
	DryRun bool `mapstructure:"-" yaml:"-"`

	// Format specifies the output format.
	Format OutputFormat `mapstructure:"-" yaml:"-"`

	// RuleFormat controls how rule identifiers appear in output.
	RuleFormat RuleFormat `mapstructure:"-" yaml:"-"`

	// Jobs specifies the number of parallel workers.
	Jobs int `mapstructure:"-" yaml:"-"`

	// NoBackups disables backup creation when writing.
	NoBackups bool `mapstructure:"-" yaml:"-"`
}

// DefaultExtensions are the file extensions treated as XML documents.
func DefaultExtensions() []string {
	return []string{
		".xml", ".xaml", ".axaml", ".xsd", ".xsl", ".xslt", ".svg", ".config",
		".csproj", ".vbproj", ".fsproj", ".props", ".targets", ".nuspec", ".resx", ".plist",
	}
}

// NewConfig returns a Config with defaults.
func NewConfig() *Config {
	return &Config{
		FormattingStyle: DefaultFormattingStyle,
		IndentSize:      DefaultIndentSize,
		EndOfLine:       EndOfLineLF,
		Strict:          true,
		Extensions:      DefaultExtensions(),
		Backups: BackupsConfig{
			Enabled: false,
			Mode:    DefaultBackupMode,
		},
		AutoClose: AutoCloseConfig{
			Enabled:      true,
			Languages:    []string{"xml", "xaml"},
			Delay:        DefaultAutoCloseDelay,
			MaxLines:     DefaultMaxLines,
			MaxLineChars: DefaultMaxLineChars,
		},
		Format:     FormatText,
		RuleFormat: RuleFormatName,
		Jobs:       0, // 0 means use GOMAXPROCS
	}
}

// Indent returns the indentation unit implied by UseTabs and IndentSize.
func (c *Config) Indent() string {
	if c.UseTabs {
		return "\t"
	}

	size := c.IndentSize
	if size < 0 {
		size = 0
	}

	buf := make([]byte, size)
	for i := range buf {
		buf[i] = ' '
	}

	return string(buf)
}

// SeverityFor returns the severity of a diagnostic class under the strict
// setting. Well-formedness problems are errors or warnings; unknown names
// are info or hints.
func (c *Config) SeverityFor(wellformedness bool) Severity {
	return SeverityFor(c.Strict, wellformedness)
}

// SeverityFor maps the strict flag and diagnostic class to a severity.
func SeverityFor(strict, wellformedness bool) Severity {
	switch {
	case strict && wellformedness:
		return SeverityError
	case strict:
		return SeverityInfo
	case wellformedness:
		return SeverityWarning
	default:
		return SeverityHint
	}
}
