package reporter

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/yaklabco/goxaml/internal/ui/pretty"
	"github.com/yaklabco/goxaml/pkg/analysis"
	"github.com/yaklabco/goxaml/pkg/lint"
	"github.com/yaklabco/goxaml/pkg/runner"
)

// Table layout. Cells are padded before styling so ANSI codes do not skew
// the columns.
const (
	tableWidth   = 80
	labelWidth   = 44
	numColWidth  = 8
	maxLabelCell = labelWidth - 2
)

// SummaryReporter formats results as aggregated tables: rules, files and
// the most frequent undeclared names.
type SummaryReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewSummaryReporter creates a new summary reporter.
func NewSummaryReporter(opts Options) *SummaryReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &SummaryReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter. The count is the number of diagnostics.
func (r *SummaryReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	aopts := analysis.DefaultOptions()
	aopts.WorkingDir = r.opts.WorkingDir
	report := analysis.Analyze(result, aopts)

	if !report.Totals.HasIssues() {
		fmt.Fprintln(r.bw, r.styles.Success.Render("No issues found")+
			r.styles.Dim.Render(fmt.Sprintf(" (%d files checked)", report.Totals.Files)))
		return 0, nil
	}

	r.renderRules(report.ByRule)
	r.renderFiles(report.ByFile)
	r.renderSubjects(report.BySubject)
	r.renderTotals(report.Totals)

	return report.Totals.Issues, nil
}

func (r *SummaryReporter) heading(title string, columns ...string) {
	sep := r.styles.Dim.Render(strings.Repeat("─", tableWidth))

	fmt.Fprintln(r.bw, r.styles.Bold.Render(title))
	fmt.Fprintln(r.bw, sep)

	cells := make([]string, 0, len(columns))
	for i, col := range columns {
		if i == 0 {
			cells = append(cells, r.styles.Bold.Render(runewidth.FillRight(col, labelWidth)))
			continue
		}
		cells = append(cells, r.styles.Bold.Render(runewidth.FillLeft(col, numColWidth)))
	}
	fmt.Fprintln(r.bw, strings.Join(cells, " "))
	fmt.Fprintln(r.bw, sep)
}

// row writes a label cell followed by right-aligned numbers. The label is
// styled by the worst severity it carries.
func (r *SummaryReporter) row(label string, counts analysis.Counts, nums ...int) {
	cell := runewidth.FillRight(truncateLeft(label, maxLabelCell), labelWidth)

	var style lipgloss.Style
	switch {
	case counts.Errors > 0:
		style = r.styles.Error
	case counts.Warnings > 0:
		style = r.styles.Warning
	default:
		style = lipgloss.NewStyle()
	}

	cells := []string{style.Render(cell)}
	for _, n := range nums {
		cells = append(cells, runewidth.FillLeft(strconv.Itoa(n), numColWidth))
	}
	fmt.Fprintln(r.bw, strings.Join(cells, " "))
}

func (r *SummaryReporter) renderRules(rules []analysis.RuleAnalysis) {
	if len(rules) == 0 {
		return
	}

	r.heading("Rules", "Rule", "Count", "Errors", "Warnings", "Files")
	for _, rule := range rules {
		label := r.opts.RuleFormat.Label(rule.RuleID, rule.RuleName)
		r.row(label, rule.Counts, rule.Issues, rule.Errors, rule.Warnings, len(rule.Files))
	}
	fmt.Fprintln(r.bw)
}

func (r *SummaryReporter) renderFiles(files []analysis.FileAnalysis) {
	if len(files) == 0 {
		return
	}

	r.heading("Files", "File", "Count", "Errors", "Warnings")
	for _, file := range files {
		label := file.Path
		if !file.WellFormed {
			label += " (malformed)"
		}
		r.row(label, file.Counts, file.Issues, file.Errors, file.Warnings)
	}
	fmt.Fprintln(r.bw)
}

func (r *SummaryReporter) renderSubjects(subjects []analysis.SubjectAnalysis) {
	if len(subjects) == 0 {
		return
	}

	r.heading("Undeclared names", "Name", "Count", "Files")
	for _, s := range subjects {
		label := s.Name
		if s.RuleID == lint.RuleUnknownAttribute.ID {
			label = "@" + label
		}
		r.row(label, analysis.Counts{}, s.Issues, s.Files)
	}
	fmt.Fprintln(r.bw)
}

func (r *SummaryReporter) renderTotals(totals analysis.Totals) {
	var severities []string
	add := func(n int, one, many string, style lipgloss.Style) {
		if n == 0 {
			return
		}
		word := many
		if n == 1 {
			word = one
		}
		severities = append(severities, style.Render(fmt.Sprintf("%d %s", n, word)))
	}
	add(totals.Errors, "error", "errors", r.styles.Error)
	add(totals.Warnings, "warning", "warnings", r.styles.Warning)
	add(totals.Infos, "info", "info", r.styles.Info)
	add(totals.Hints, "hint", "hints", r.styles.Hint)

	issueWord := "issues"
	if totals.Issues == 1 {
		issueWord = "issue"
	}
	fileWord := "files"
	if totals.FilesWithIssues == 1 {
		fileWord = "file"
	}

	line := fmt.Sprintf("%d %s (%s) in %d %s", totals.Issues, issueWord,
		strings.Join(severities, ", "), totals.FilesWithIssues, fileWord)
	if totals.FilesMalformed > 0 {
		line += ", " + r.styles.Failure.Render(fmt.Sprintf("%d malformed", totals.FilesMalformed))
	}

	fmt.Fprintln(r.bw, r.styles.Bold.Render("Total: ")+line)
}

// truncateLeft keeps the tail of s, which is the informative end of a path.
func truncateLeft(s string, width int) string {
	if runewidth.StringWidth(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && runewidth.StringWidth(string(runes))+1 > width {
		runes = runes[1:]
	}
	return "…" + string(runes)
}
