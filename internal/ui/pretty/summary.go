package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yaklabco/goxaml/pkg/config"
	"github.com/yaklabco/goxaml/pkg/runner"
)

const (
	summaryDividerWidth = 40
	wordFile            = "file"
	wordFiles           = "files"
)

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "3 issues (1 error, 2 warnings) in 2 files, 1 malformed".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats) string {
	var changes string
	switch {
	case stats.FilesWritten > 0:
		changes = s.Success.Render(fmt.Sprintf("%d %s formatted", stats.FilesWritten, plural(stats.FilesWritten, wordFile, wordFiles)))
	case stats.FilesChanged > 0:
		changes = s.Warning.Render(fmt.Sprintf("%d %s formatting", stats.FilesChanged, plural(stats.FilesChanged, "file needs", "files need")))
	}

	if stats.DiagnosticsTotal == 0 {
		msg := s.Success.Render("No issues found") + s.Dim.Render(fmt.Sprintf(" (%d files checked)", stats.FilesProcessed))
		if changes != "" {
			msg += ", " + changes
		}
		return msg + "\n"
	}

	var severityParts []string
	for _, sev := range []config.Severity{config.SeverityError, config.SeverityWarning, config.SeverityInfo, config.SeverityHint} {
		n := stats.DiagnosticsBySeverity[sev]
		if n == 0 {
			continue
		}
		label := fmt.Sprintf("%d %s", n, sev)
		if n != 1 && (sev == config.SeverityError || sev == config.SeverityWarning || sev == config.SeverityHint) {
			label += "s"
		}
		severityParts = append(severityParts, s.severityStyle(sev).Render(label))
	}

	issues := fmt.Sprintf("%d %s", stats.DiagnosticsTotal, plural(stats.DiagnosticsTotal, "issue", "issues"))
	if len(severityParts) > 0 {
		issues += " (" + strings.Join(severityParts, ", ") + ")"
	}

	parts := []string{
		issues,
		fmt.Sprintf("in %d %s", stats.FilesWithIssues, plural(stats.FilesWithIssues, wordFile, wordFiles)),
	}
	if stats.FilesMalformed > 0 {
		parts = append(parts, s.Failure.Render(fmt.Sprintf("%d malformed", stats.FilesMalformed)))
	}
	if changes != "" {
		parts = append(parts, changes)
	}

	return strings.Join(parts, ", ") + "\n"
}

// FormatSummary formats run statistics as a summary block.
func (s *Styles) FormatSummary(stats runner.Stats) string {
	var builder strings.Builder

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	row := func(label string, style func(...string) string, n int) {
		fmt.Fprintf(&builder, "  %-19s%s\n", label, style(strconv.Itoa(n)))
	}

	row("Files checked:", s.SummaryValue.Render, stats.FilesProcessed)
	if stats.FilesWithIssues > 0 {
		row("Files with issues:", s.Failure.Render, stats.FilesWithIssues)
	}
	if stats.FilesMalformed > 0 {
		row("Files malformed:", s.Failure.Render, stats.FilesMalformed)
	}
	if stats.FilesChanged > 0 {
		row("Files changed:", s.Warning.Render, stats.FilesChanged)
	}
	if stats.FilesWritten > 0 {
		row("Files written:", s.Success.Render, stats.FilesWritten)
	}
	if stats.FilesErrored > 0 {
		row("Files errored:", s.Failure.Render, stats.FilesErrored)
	}

	builder.WriteString("\n")
	row("Total issues:", s.SummaryValue.Render, stats.DiagnosticsTotal)

	labels := map[config.Severity]string{
		config.SeverityError:   "  Errors:",
		config.SeverityWarning: "  Warnings:",
		config.SeverityInfo:    "  Info:",
		config.SeverityHint:    "  Hints:",
	}
	for _, sev := range []config.Severity{config.SeverityError, config.SeverityWarning, config.SeverityInfo, config.SeverityHint} {
		if n := stats.DiagnosticsBySeverity[sev]; n > 0 {
			row(labels[sev], s.severityStyle(sev).Render, n)
		}
	}

	builder.WriteString("\n")

	switch {
	case stats.DiagnosticsBySeverity[config.SeverityError] > 0 || stats.FilesErrored > 0:
		builder.WriteString(s.Failure.Render("Check failed with errors"))
	case stats.DiagnosticsTotal > 0:
		builder.WriteString(s.Warning.Render("Check completed with issues"))
	default:
		builder.WriteString(s.Success.Render("Check passed"))
	}
	builder.WriteString("\n")

	return builder.String()
}

func (s *Styles) severityStyle(sev config.Severity) lipgloss.Style {
	switch sev {
	case config.SeverityError:
		return s.Error
	case config.SeverityWarning:
		return s.Warning
	case config.SeverityInfo:
		return s.Info
	default:
		return s.Hint
	}
}
