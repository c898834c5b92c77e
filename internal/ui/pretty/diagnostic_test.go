package pretty_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/goxaml/internal/ui/pretty"
	"github.com/yaklabco/goxaml/pkg/config"
	"github.com/yaklabco/goxaml/pkg/lint"
)

func unknownTag() *lint.Diagnostic {
	return &lint.Diagnostic{
		RuleID:   "XML002",
		RuleName: "unknown-tag",
		Message:  "Unknown xml tag 'Gird'",
		Severity: config.SeverityWarning,
		FilePath: "MainWindow.xaml",
		Line:     3,
		Column:   6,
	}
}

func TestFormatDiagnostic_Basic(t *testing.T) {
	styles := pretty.NewStyles(false)

	result := styles.FormatDiagnostic(unknownTag(), false, "")

	assert.Contains(t, result, "MainWindow.xaml:3:6")
	assert.Contains(t, result, "warning")
	assert.Contains(t, result, "Unknown xml tag 'Gird'")
	assert.Contains(t, result, "(XML002)")
}

func TestFormatDiagnosticWithFormat_RuleName(t *testing.T) {
	styles := pretty.NewStyles(false)

	result := styles.FormatDiagnosticWithFormat(unknownTag(), false, "", config.RuleFormatName)
	assert.Contains(t, result, "(unknown-tag)")

	result = styles.FormatDiagnosticWithFormat(unknownTag(), false, "", config.RuleFormatCombined)
	assert.Contains(t, result, "(XML002/unknown-tag)")
}

func TestFormatDiagnostic_WithContext(t *testing.T) {
	styles := pretty.NewStyles(false)

	result := styles.FormatDiagnostic(unknownTag(), true, "  <Gird>")
	lines := strings.Split(strings.TrimRight(result, "\n"), "\n")

	assert.Len(t, lines, 3)
	assert.Equal(t, "          <Gird>", lines[1])
	assert.Equal(t, "             ^", lines[2])
}

func TestFormatSourceContext_WideCharacters(t *testing.T) {
	styles := pretty.NewStyles(false)

	// Each CJK rune takes two terminal cells.
	result := styles.FormatSourceContext("<名前>", 3)
	lines := strings.Split(strings.TrimRight(result, "\n"), "\n")

	assert.Equal(t, strings.Repeat(" ", 8+3)+"^", lines[1])
}

func TestFormatSourceContext_ColumnPastEnd(t *testing.T) {
	styles := pretty.NewStyles(false)

	result := styles.FormatSourceContext("<a>", 10)
	lines := strings.Split(strings.TrimRight(result, "\n"), "\n")

	assert.Equal(t, strings.Repeat(" ", 8+3)+"^", lines[1])
}

func TestFormatSourceContext_NoColumn(t *testing.T) {
	styles := pretty.NewStyles(false)

	result := styles.FormatSourceContext("<a>", 0)
	assert.NotContains(t, result, "^")
}

func TestFormatSeverity(t *testing.T) {
	styles := pretty.NewStyles(false)

	assert.Equal(t, "error", styles.FormatSeverity(config.SeverityError))
	assert.Equal(t, "warning", styles.FormatSeverity(config.SeverityWarning))
	assert.Equal(t, "info", styles.FormatSeverity(config.SeverityInfo))
	assert.Equal(t, "hint", styles.FormatSeverity(config.SeverityHint))
	assert.Equal(t, "custom", styles.FormatSeverity(config.Severity("custom")))
}

func TestFormatFileHeader(t *testing.T) {
	styles := pretty.NewStyles(false)

	assert.Equal(t, "a.xml (2 issues)", styles.FormatFileHeader("a.xml", 2))
	assert.Equal(t, "a.xml", styles.FormatFileHeader("a.xml", 0))
}

func TestSourceLine(t *testing.T) {
	text := "<a>\r\n  <b/>\n</a>"

	assert.Equal(t, "<a>", pretty.SourceLine(text, 1))
	assert.Equal(t, "  <b/>", pretty.SourceLine(text, 2))
	assert.Equal(t, "</a>", pretty.SourceLine(text, 3))
	assert.Empty(t, pretty.SourceLine(text, 4))
	assert.Empty(t, pretty.SourceLine(text, 0))
}
