package lint_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/goxaml/pkg/config"
	"github.com/yaklabco/goxaml/pkg/lint"
	"github.com/yaklabco/goxaml/pkg/sax"
	"github.com/yaklabco/goxaml/pkg/schema"
)

const whitelist = `namespace: urn:p
tags:
  Window: [Title]
  Grid: [Row, Column]
`

func presentation(t *testing.T) *schema.Collection {
	t.Helper()

	s, err := schema.LoadYAML("p.yml", strings.NewReader(whitelist))
	require.NoError(t, err)

	return schema.NewCollection(s)
}

func messages(diags []lint.Diagnostic) []string {
	out := make([]string, 0, len(diags))
	for _, d := range diags {
		out = append(out, d.Message)
	}
	return out
}

func TestEngine_SchemaDiagnostics(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "known names",
			text: `<Window xmlns="urn:p" Title="a"><Grid Row="1"/></Window>`,
			want: []string{},
		},
		{
			name: "unknown attribute",
			text: `<Window xmlns="urn:p" Title="a" Width="3"/>`,
			want: []string{"Unknown xml attribute 'Width' for tag 'Window'"},
		},
		{
			name: "unknown tag",
			text: `<Window><Button/></Window>`,
			want: []string{"Unknown xml tag 'Button'"},
		},
		{
			name: "property element",
			text: `<Window><Grid.Row/><Grid.Height/></Window>`,
			want: []string{"Unknown xml attribute 'Height' for tag 'Grid.Height'"},
		},
		{
			name: "exempt attributes",
			text: `<Window xmlns:xsi="urn:xsi" xsi:schemaLocation="a b" xml:space="preserve"/>`,
			want: []string{},
		},
		{
			name: "prefixed namespace",
			text: `<p:Window xmlns:p="urn:p"><Window/></p:Window>`,
			want: []string{"Unknown xml tag 'Window'"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			engine := lint.NewEngine(presentation(t), true)
			diags, err := engine.Diagnostics(context.Background(), "doc.xaml", tc.text)
			require.NoError(t, err)
			assert.Equal(t, tc.want, messages(diags))

			for _, d := range diags {
				assert.Equal(t, config.SeverityInfo, d.Severity)
				assert.Equal(t, "doc.xaml", d.FilePath)
				assert.Equal(t, 1, d.Line)
			}
		})
	}
}

func TestEngine_WellFormedness(t *testing.T) {
	t.Parallel()

	engine := lint.NewEngine(nil, false)

	diags, err := engine.Diagnostics(context.Background(), "a.xml", "<a></b></c>\n</a>\nx")
	require.NoError(t, err)

	require.Len(t, diags, 2)
	assert.Equal(t, sax.ErrUnmatchedCloseTag+"b", diags[0].Message)
	assert.Equal(t, 1, diags[0].Line)
	assert.Equal(t, config.SeverityWarning, diags[0].Severity)
	assert.Equal(t, lint.RuleWellFormed.ID, diags[0].RuleID)
	assert.Equal(t, "wellformed", diags[0].RuleName)
	assert.Empty(t, diags[0].Subject)
	assert.Equal(t, sax.ErrTextOutsideRoot, diags[1].Message)
	assert.Equal(t, 3, diags[1].Line)
}

func TestEngine_ErrorAfterTagDiagnosticOnSameLine(t *testing.T) {
	t.Parallel()

	engine := lint.NewEngine(presentation(t), false)

	diags, err := engine.Diagnostics(context.Background(), "a.xml", "<Window><Button></Grid></Window>")
	require.NoError(t, err)

	assert.Equal(t, []string{"Unknown xml tag 'Button'"}, messages(diags))
	assert.Equal(t, config.SeverityHint, diags[0].Severity)
	assert.Equal(t, "Button", diags[0].Subject)
}

func TestEngine_NoSchemaReportsOnlyWellFormedness(t *testing.T) {
	t.Parallel()

	diags, err := lint.NewEngine(nil, true).Diagnostics(context.Background(), "a.xml", `<Anything at="1"/>`)
	require.NoError(t, err)
	assert.Empty(t, diags)
}

func TestEngine_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := lint.NewEngine(nil, true).Diagnostics(ctx, "a.xml", "<a/>")
	require.ErrorIs(t, err, context.Canceled)
}

func TestRules(t *testing.T) {
	t.Parallel()

	rule, ok := lint.RuleByID("unknown-tag")
	require.True(t, ok)
	assert.Equal(t, "XML002", rule.ID)

	_, ok = lint.RuleByID("MD001")
	assert.False(t, ok)
	assert.Len(t, lint.Rules(), 3)
}
