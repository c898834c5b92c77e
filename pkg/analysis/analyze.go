// Package analysis aggregates a run into per-file, per-rule and per-name
// views for summary output.
package analysis

import (
	"cmp"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/yaklabco/goxaml/pkg/config"
	"github.com/yaklabco/goxaml/pkg/lint"
	"github.com/yaklabco/goxaml/pkg/runner"
)

// ReportVersion is the current report format version.
const ReportVersion = "1.0.0"

// relativePath makes path relative to workDir unless that would climb out
// of it.
func relativePath(path, workDir string) string {
	if workDir == "" || !filepath.IsAbs(path) {
		return path
	}
	rel, err := filepath.Rel(workDir, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return filepath.ToSlash(rel)
}

func (c *Counts) add(sev config.Severity) {
	c.Issues++
	switch sev {
	case config.SeverityError:
		c.Errors++
	case config.SeverityInfo:
		c.Infos++
	case config.SeverityHint:
		c.Hints++
	default:
		c.Warnings++
	}
}

type subjectKey struct {
	name   string
	ruleID string
}

// analysisContext holds temporary state during analysis.
type analysisContext struct {
	rules        map[string]*RuleAnalysis
	ruleFiles    map[string]map[string]bool
	files        []*FileAnalysis
	fileRules    map[*FileAnalysis]map[string]bool
	subjects     map[subjectKey]*SubjectAnalysis
	subjectFiles map[subjectKey]map[string]bool
}

func newAnalysisContext() *analysisContext {
	return &analysisContext{
		rules:        make(map[string]*RuleAnalysis),
		ruleFiles:    make(map[string]map[string]bool),
		fileRules:    make(map[*FileAnalysis]map[string]bool),
		subjects:     make(map[subjectKey]*SubjectAnalysis),
		subjectFiles: make(map[subjectKey]map[string]bool),
	}
}

func (ctx *analysisContext) rule(diag *lint.Diagnostic) *RuleAnalysis {
	ra, ok := ctx.rules[diag.RuleID]
	if !ok {
		ra = &RuleAnalysis{RuleID: diag.RuleID, RuleName: diag.RuleName}
		ctx.rules[diag.RuleID] = ra
		ctx.ruleFiles[diag.RuleID] = make(map[string]bool)
	}
	return ra
}

func (ctx *analysisContext) subject(diag *lint.Diagnostic, path string) {
	key := subjectKey{name: diag.Subject, ruleID: diag.RuleID}
	sa, ok := ctx.subjects[key]
	if !ok {
		sa = &SubjectAnalysis{Name: diag.Subject, RuleID: diag.RuleID}
		ctx.subjects[key] = sa
		ctx.subjectFiles[key] = make(map[string]bool)
	}
	sa.Issues++
	if !ctx.subjectFiles[key][path] {
		ctx.subjectFiles[key][path] = true
		sa.Files++
	}
}

// Analyze transforms a runner.Result into a Report in a single pass over the
// diagnostics.
func Analyze(result *runner.Result, opts Options) *Report {
	report := &Report{
		Version:   ReportVersion,
		Timestamp: time.Now(),
	}

	if result == nil {
		return report
	}

	ctx := newAnalysisContext()

	for _, outcome := range result.Files {
		report.Totals.Files++
		if outcome.Error != nil {
			report.Totals.FilesErrored++
			continue
		}
		pr := outcome.Result
		if pr == nil {
			continue
		}

		if !pr.WellFormed {
			report.Totals.FilesMalformed++
		}
		if pr.Modified {
			report.Totals.NeedsFormatting++
		}
		if len(pr.Diagnostics) == 0 {
			continue
		}
		report.Totals.FilesWithIssues++

		path := relativePath(outcome.Path, opts.WorkingDir)
		fa := &FileAnalysis{Path: path, WellFormed: pr.WellFormed}
		ctx.files = append(ctx.files, fa)
		ctx.fileRules[fa] = make(map[string]bool)

		for i := range pr.Diagnostics {
			diag := &pr.Diagnostics[i]

			report.Totals.add(diag.Severity)
			fa.add(diag.Severity)
			ctx.fileRules[fa][diag.RuleID] = true

			ctx.rule(diag).add(diag.Severity)
			ctx.ruleFiles[diag.RuleID][path] = true

			if diag.Subject != "" {
				ctx.subject(diag, path)
			}
		}
	}

	if opts.IncludeByRule {
		report.ByRule = ctx.buildByRule(opts)
	}
	if opts.IncludeByFile {
		report.ByFile = ctx.buildByFile(opts)
	}
	if opts.IncludeByName {
		report.BySubject = ctx.buildBySubject(opts)
	}

	return report
}

func (ctx *analysisContext) buildByRule(opts Options) []RuleAnalysis {
	out := make([]RuleAnalysis, 0, len(ctx.rules))
	for id, ra := range ctx.rules {
		for f := range ctx.ruleFiles[id] {
			ra.Files = append(ra.Files, f)
		}
		slices.Sort(ra.Files)
		out = append(out, *ra)
	}
	slices.SortFunc(out, func(a, b RuleAnalysis) int {
		return compareCounts(a.Counts, b.Counts, a.RuleID, b.RuleID, opts)
	})
	return out
}

func (ctx *analysisContext) buildByFile(opts Options) []FileAnalysis {
	out := make([]FileAnalysis, 0, len(ctx.files))
	for _, fa := range ctx.files {
		for r := range ctx.fileRules[fa] {
			fa.Rules = append(fa.Rules, r)
		}
		slices.Sort(fa.Rules)
		out = append(out, *fa)
	}
	slices.SortFunc(out, func(a, b FileAnalysis) int {
		return compareCounts(a.Counts, b.Counts, a.Path, b.Path, opts)
	})
	return out
}

func (ctx *analysisContext) buildBySubject(opts Options) []SubjectAnalysis {
	out := make([]SubjectAnalysis, 0, len(ctx.subjects))
	for _, sa := range ctx.subjects {
		out = append(out, *sa)
	}
	slices.SortFunc(out, func(a, b SubjectAnalysis) int {
		if opts.SortBy != SortByAlpha {
			if c := cmp.Compare(b.Issues, a.Issues); c != 0 {
				return c
			}
		}
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.RuleID, b.RuleID))
	})
	if opts.TopNames > 0 && len(out) > opts.TopNames {
		out = out[:opts.TopNames]
	}
	return out
}

// compareCounts orders two entries by opts.SortBy. Ties fall back to the
// key so output is stable.
func compareCounts(a, b Counts, keyA, keyB string, opts Options) int {
	var result int
	switch opts.SortBy {
	case SortByAlpha:
		// Key order only.
	case SortBySeverity:
		result = cmp.Or(
			cmp.Compare(b.Errors, a.Errors),
			cmp.Compare(b.Warnings, a.Warnings),
			cmp.Compare(b.Issues, a.Issues),
		)
	default:
		result = cmp.Compare(a.Issues, b.Issues)
		if opts.SortDesc {
			result = -result
		}
	}
	return cmp.Or(result, cmp.Compare(keyA, keyB))
}
