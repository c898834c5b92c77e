package configloader

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/yaklabco/goxaml/pkg/config"
)

// envVarPrefix is the prefix for all goxaml environment variables.
const envVarPrefix = "GOXAML_"

type envFieldType int

const (
	envTypeString envFieldType = iota
	envTypeBool
	envTypeInt
	envTypeSlice
	envTypeDuration
)

type envMapping struct {
	field       string
	typ         envFieldType
	description string
}

// envMappings maps environment variable names (without prefix) to config fields.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envMappings = map[string]envMapping{
	"FORMATTING_STYLE": {"formatting_style", envTypeString, "Formatting style: singleLineAttributes, multiLineAttributes or fileSizeOptimized"},
	"INDENT_SIZE":      {"indent_size", envTypeInt, "Spaces per indentation level"},
	"USE_TABS":         {"use_tabs", envTypeBool, "Indent with tabs: true or false"},
	"END_OF_LINE":      {"end_of_line", envTypeString, "Line terminator: lf or crlf"},
	"STRICT":           {"strict", envTypeBool, "Report problems as errors and info: true or false"},
	"SCHEMAS":          {"schemas", envTypeSlice, "Comma-separated list of schema files"},
	"EXTENSIONS":       {"extensions", envTypeSlice, "Comma-separated list of file extensions"},
	"IGNORE":           {"ignore", envTypeSlice, "Comma-separated list of ignore patterns"},
	"JOBS":             {"jobs", envTypeInt, "Number of parallel workers (0 = auto)"},
	"FORMAT":           {"format", envTypeString, "Output format: text, json, diff or summary"},
	"BACKUPS_ENABLED":  {"backups.enabled", envTypeBool, "Back up files before writing: true or false"},
	"BACKUPS_MODE":     {"backups.mode", envTypeString, "Backup mode: sidecar or none"},
	"NO_BACKUPS":       {"no_backups", envTypeBool, "Disable backups: true or false"},
	"AUTO_CLOSE_DELAY": {"auto_close.delay", envTypeDuration, "Auto-close debounce delay, e.g. 250ms"},
}

// LoadFromEnv applies environment variable overrides to the configuration.
// Variables are prefixed with GOXAML_ (e.g., GOXAML_INDENT_SIZE).
func LoadFromEnv(cfg *config.Config) error {
	if cfg == nil {
		return nil
	}

	for envSuffix, mapping := range envMappings {
		envVar := envVarPrefix + envSuffix
		value := os.Getenv(envVar)
		if value == "" {
			continue
		}

		if err := applyEnvValue(cfg, mapping, value, envVar); err != nil {
			return err
		}
	}

	return nil
}

func applyEnvValue(cfg *config.Config, mapping envMapping, value, envVar string) error {
	switch mapping.typ {
	case envTypeString:
		return setStringField(cfg, mapping.field, value)
	case envTypeBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for %s: %q (expected true/false/1/0)", envVar, value)
		}
		return setBoolField(cfg, mapping.field, b)
	case envTypeInt:
		i, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer for %s: %q", envVar, value)
		}
		return setIntField(cfg, mapping.field, i)
	case envTypeSlice:
		return setSliceField(cfg, mapping.field, parseSliceValue(value))
	case envTypeDuration:
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration for %s: %q", envVar, value)
		}
		cfg.AutoClose.Delay = d
		return nil
	default:
		return fmt.Errorf("unknown field type for %s", envVar)
	}
}

// parseSliceValue splits a comma-separated value, trimming each element.
func parseSliceValue(value string) []string {
	if value == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func setStringField(cfg *config.Config, field, value string) error {
	switch field {
	case "formatting_style":
		cfg.FormattingStyle = value
	case "end_of_line":
		cfg.EndOfLine = config.EndOfLine(strings.ToLower(value))
	case "format":
		cfg.Format = config.OutputFormat(value)
	case "backups.mode":
		cfg.Backups.Mode = value
	default:
		return fmt.Errorf("unknown string field: %s", field)
	}
	return nil
}

func setBoolField(cfg *config.Config, field string, value bool) error {
	switch field {
	case "use_tabs":
		cfg.UseTabs = value
	case "strict":
		cfg.Strict = value
	case "backups.enabled":
		cfg.Backups.Enabled = value
	case "no_backups":
		cfg.NoBackups = value
	default:
		return fmt.Errorf("unknown boolean field: %s", field)
	}
	return nil
}

func setIntField(cfg *config.Config, field string, value int) error {
	switch field {
	case "indent_size":
		cfg.IndentSize = value
	case "jobs":
		cfg.Jobs = value
	default:
		return fmt.Errorf("unknown integer field: %s", field)
	}
	return nil
}

func setSliceField(cfg *config.Config, field string, value []string) error {
	switch field {
	case "schemas":
		cfg.Schemas = value
	case "extensions":
		cfg.Extensions = value
	case "ignore":
		cfg.Ignore = value
	default:
		return fmt.Errorf("unknown slice field: %s", field)
	}
	return nil
}

// GetEnvVarName returns the full environment variable name for a config field.
func GetEnvVarName(field string) string {
	for suffix, mapping := range envMappings {
		if mapping.field == field {
			return envVarPrefix + suffix
		}
	}
	return ""
}

// ListEnvVars returns all supported environment variables with their descriptions.
func ListEnvVars() map[string]string {
	out := make(map[string]string, len(envMappings))
	for suffix, mapping := range envMappings {
		out[envVarPrefix+suffix] = mapping.description
	}
	return out
}
