package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/goxaml/pkg/config"
)

func TestRuleFormat_Label(t *testing.T) {
	tests := []struct {
		format config.RuleFormat
		name   string
		want   string
	}{
		{config.RuleFormatName, "unknown-tag", "unknown-tag"},
		{config.RuleFormatID, "unknown-tag", "XML002"},
		{config.RuleFormatCombined, "unknown-tag", "XML002/unknown-tag"},
		{config.RuleFormatCombined, "", "XML002"},
		{"", "unknown-tag", "unknown-tag"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.format.Label("XML002", tt.name), "format %q name %q", tt.format, tt.name)
	}
}

func TestParseRuleFormat(t *testing.T) {
	got, err := config.ParseRuleFormat("")
	require.NoError(t, err)
	assert.Equal(t, config.RuleFormatName, got)

	got, err = config.ParseRuleFormat("combined")
	require.NoError(t, err)
	assert.Equal(t, config.RuleFormatCombined, got)

	_, err = config.ParseRuleFormat("ID")
	require.Error(t, err)
}
