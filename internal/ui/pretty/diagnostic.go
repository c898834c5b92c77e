package pretty

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/yaklabco/goxaml/pkg/config"
	"github.com/yaklabco/goxaml/pkg/lint"
)

// FormatDiagnostic formats a single diagnostic for terminal output.
func (s *Styles) FormatDiagnostic(diag *lint.Diagnostic, showContext bool, sourceLine string) string {
	return s.FormatDiagnosticWithFormat(diag, showContext, sourceLine, config.RuleFormatID)
}

// FormatDiagnosticWithFormat formats a diagnostic with configurable rule identifier format.
func (s *Styles) FormatDiagnosticWithFormat(diag *lint.Diagnostic, showContext bool, sourceLine string, ruleFormat config.RuleFormat) string {
	var builder strings.Builder

	location := fmt.Sprintf("%s:%d:%d",
		s.FilePath.Render(diag.FilePath),
		diag.Line,
		diag.Column,
	)

	ruleIdentifier := ruleFormat.Label(diag.RuleID, diag.RuleName)

	fmt.Fprintf(&builder, "  %s  %s  %s  %s\n",
		location,
		s.FormatSeverity(diag.Severity),
		s.Message.Render(diag.Message),
		s.RuleID.Render("("+ruleIdentifier+")"),
	)

	if showContext && sourceLine != "" {
		builder.WriteString(s.FormatSourceContext(sourceLine, diag.Column))
	}

	return builder.String()
}

// FormatSeverity returns a styled severity string.
func (s *Styles) FormatSeverity(sev config.Severity) string {
	switch sev {
	case config.SeverityError:
		return s.Error.Render("error")
	case config.SeverityWarning:
		return s.Warning.Render("warning")
	case config.SeverityInfo:
		return s.Info.Render("info")
	case config.SeverityHint:
		return s.Hint.Render("hint")
	default:
		return string(sev)
	}
}

// FormatSourceContext formats the source line with a caret under the
// column-th character. Wide characters shift the caret by their cell width.
func (s *Styles) FormatSourceContext(line string, column int) string {
	const indent = "        "

	line = strings.ReplaceAll(line, "\t", " ")

	var builder strings.Builder
	builder.WriteString(indent + s.SourceLine.Render(line) + "\n")

	if column > 0 {
		runes := []rune(line)
		prefix := string(runes[:min(column-1, len(runes))])
		padding := indent + strings.Repeat(" ", runewidth.StringWidth(prefix))
		builder.WriteString(padding + s.Caret.Render("^") + "\n")
	}

	return builder.String()
}

// FormatFileHeader formats a file header for grouped output.
func (s *Styles) FormatFileHeader(path string, issueCount int) string {
	header := s.FilePath.Render(path)
	if issueCount > 0 {
		header += s.Dim.Render(fmt.Sprintf(" (%d issues)", issueCount))
	}
	return header
}

// SourceLine returns the 1-based line of text without its terminator, or
// "" when out of range.
func SourceLine(text string, line int) string {
	if line < 1 {
		return ""
	}

	for i := 1; ; i++ {
		idx := strings.IndexByte(text, '\n')
		if i == line {
			if idx >= 0 {
				text = text[:idx]
			}
			return strings.TrimSuffix(text, "\r")
		}
		if idx < 0 {
			return ""
		}
		text = text[idx+1:]
	}
}
