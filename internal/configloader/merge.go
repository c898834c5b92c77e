package configloader

import (
	"slices"

	"github.com/yaklabco/goxaml/pkg/config"
)

// merge combines two configurations, with override taking precedence over
// base. It is used for the CLI layer, where only set flags carry values:
//   - Scalars: override wins when non-zero
//   - Booleans: override can only switch a value on
//   - Schemas: override entries are appended, skipping duplicates
//   - Other slices: override replaces base when non-nil
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := *base

	if override.FormattingStyle != "" {
		result.FormattingStyle = override.FormattingStyle
	}
	if override.IndentSize != 0 {
		result.IndentSize = override.IndentSize
	}
	if override.EndOfLine != "" {
		result.EndOfLine = override.EndOfLine
	}
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.RuleFormat != "" {
		result.RuleFormat = override.RuleFormat
	}
	if override.Jobs != 0 {
		result.Jobs = override.Jobs
	}
	if override.Backups.Mode != "" {
		result.Backups.Mode = override.Backups.Mode
	}
	if override.AutoClose.Delay != 0 {
		result.AutoClose.Delay = override.AutoClose.Delay
	}

	if override.UseTabs {
		result.UseTabs = true
	}
	if override.Strict {
		result.Strict = true
	}
	if override.Write {
		result.Write = true
	}
	if override.DryRun {
		result.DryRun = true
	}
	if override.NoBackups {
		result.NoBackups = true
	}
	if override.Backups.Enabled {
		result.Backups.Enabled = true
	}

	result.Schemas = slices.Clone(base.Schemas)
	for _, s := range override.Schemas {
		if !slices.Contains(result.Schemas, s) {
			result.Schemas = append(result.Schemas, s)
		}
	}

	if override.SchemaMapping != nil {
		result.SchemaMapping = override.SchemaMapping
	}
	if override.Extensions != nil {
		result.Extensions = override.Extensions
	}
	if override.Ignore != nil {
		result.Ignore = override.Ignore
	}

	return &result
}

// MergeAll merges multiple configurations in order, with later configs taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return nil
	}

	result := configs[0]
	for i := 1; i < len(configs); i++ {
		result = merge(result, configs[i])
	}
	return result
}
