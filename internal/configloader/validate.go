package configloader

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/yaklabco/goxaml/pkg/config"
	"github.com/yaklabco/goxaml/pkg/schema"
	"github.com/yaklabco/goxaml/pkg/xmlformat"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Field is the path to the invalid field (e.g., "auto_close.delay").
	Field string

	Value any

	Message string

	// FilePath is the config file containing the error (if known).
	FilePath string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string

	if e.FilePath != "" {
		parts = append(parts, e.FilePath)
	}
	if e.Field != "" {
		parts = append(parts, e.Field)
	}
	parts = append(parts, e.Message)

	return strings.Join(parts, ": ")
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	// Errors are validation failures that prevent loading.
	Errors []ValidationError

	// Warnings are non-fatal issues.
	Warnings []ValidationError
}

// Valid returns true if there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// HasWarnings returns true if there are any warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// AllMessages returns all error and warning messages combined.
func (r *ValidationResult) AllMessages() []string {
	messages := make([]string, 0, len(r.Errors)+len(r.Warnings))
	for _, e := range r.Errors {
		messages = append(messages, "error: "+e.Error())
	}
	for _, w := range r.Warnings {
		messages = append(messages, "warning: "+w.Error())
	}
	return messages
}

func (r *ValidationResult) fail(field string, value any, format string, args ...any) {
	r.Errors = append(r.Errors, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

func (r *ValidationResult) warn(field string, value any, format string, args ...any) {
	r.Warnings = append(r.Warnings, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

//nolint:gochecknoglobals // Read-only lookup table.
var knownFormats = map[config.OutputFormat]bool{
	config.FormatText:    true,
	config.FormatJSON:    true,
	config.FormatDiff:    true,
	config.FormatSummary: true,
}

//nolint:gochecknoglobals // Read-only lookup table.
var knownBackupModes = map[string]bool{
	"sidecar": true,
	"none":    true,
}

// Validate checks a configuration for errors and warnings.
func Validate(cfg *config.Config) *ValidationResult {
	result := &ValidationResult{}
	if cfg == nil {
		return result
	}

	if _, err := xmlformat.ParseStyle(cfg.FormattingStyle); err != nil {
		result.fail("formatting_style", cfg.FormattingStyle, "%v", err)
	}

	if cfg.IndentSize < 0 {
		result.fail("indent_size", cfg.IndentSize, "indent_size must be >= 0")
	}

	if cfg.EndOfLine != "" && !cfg.EndOfLine.IsValid() {
		result.fail("end_of_line", cfg.EndOfLine, "invalid end_of_line %q; must be one of: lf, crlf", cfg.EndOfLine)
	}

	if cfg.Format != "" && !knownFormats[cfg.Format] {
		result.fail("format", cfg.Format, "invalid format %q; must be one of: text, json, diff, summary", cfg.Format)
	}

	if cfg.Jobs < 0 {
		result.fail("jobs", cfg.Jobs, "jobs must be >= 0 (0 means auto)")
	}

	if cfg.Backups.Mode != "" && !knownBackupModes[cfg.Backups.Mode] {
		result.fail("backups.mode", cfg.Backups.Mode, "invalid backup mode %q; must be one of: sidecar, none", cfg.Backups.Mode)
	}

	validateSchemas(cfg, result)
	validateAutoClose(cfg, result)
	validateExtensions(cfg, result)
	validateIgnorePatterns(cfg, result)

	return result
}

func validateSchemas(cfg *config.Config, result *ValidationResult) {
	for i, path := range cfg.Schemas {
		if !schema.Supported(path) {
			result.fail(fmt.Sprintf("schemas[%d]", i), path, "unsupported schema file %q; expected .xsd, .yml or .yaml", path)
		}
	}

	for i, m := range cfg.SchemaMapping {
		field := fmt.Sprintf("schema_mapping[%d]", i)
		if strings.TrimSpace(m.XMLNS) == "" {
			result.fail(field+".xmlns", m.XMLNS, "xmlns must not be empty")
		}
		if strings.TrimSpace(m.XSDURI) == "" {
			result.fail(field+".xsd_uri", m.XSDURI, "xsd_uri must not be empty")
		}
	}
}

func validateAutoClose(cfg *config.Config, result *ValidationResult) {
	ac := cfg.AutoClose

	if ac.Delay < 0 {
		result.fail("auto_close.delay", ac.Delay, "delay must be >= 0")
	}
	if ac.MaxLines <= 0 {
		result.fail("auto_close.max_lines", ac.MaxLines, "max_lines must be > 0")
	}
	if ac.MaxLineChars <= 0 {
		result.fail("auto_close.max_line_chars", ac.MaxLineChars, "max_line_chars must be > 0")
	}
	if ac.Enabled && len(ac.Languages) == 0 {
		result.warn("auto_close.languages", ac.Languages, "no languages listed; auto-closing never triggers")
	}
}

func validateExtensions(cfg *config.Config, result *ValidationResult) {
	for i, ext := range cfg.Extensions {
		if !strings.HasPrefix(ext, ".") {
			result.warn(fmt.Sprintf("extensions[%d]", i), ext, "extension %q does not start with a dot and matches nothing", ext)
		}
	}
}

// validateIgnorePatterns checks that ignore patterns are valid globs.
func validateIgnorePatterns(cfg *config.Config, result *ValidationResult) {
	for i, pattern := range cfg.Ignore {
		if _, err := filepath.Match(pattern, ""); err != nil {
			result.fail(fmt.Sprintf("ignore[%d]", i), pattern, "invalid glob pattern: %v", err)
		}
	}
}

// ValidateWithFile validates configuration and includes file path in errors.
func ValidateWithFile(cfg *config.Config, filePath string) *ValidationResult {
	result := Validate(cfg)

	for i := range result.Errors {
		result.Errors[i].FilePath = filePath
	}
	for i := range result.Warnings {
		result.Warnings[i].FilePath = filePath
	}

	return result
}

// IsValidFormat returns true if the format is valid.
func IsValidFormat(f config.OutputFormat) bool {
	return knownFormats[f]
}

// IsValidBackupMode returns true if the backup mode is valid.
func IsValidBackupMode(mode string) bool {
	return knownBackupModes[mode]
}
