package analysis_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/goxaml/pkg/analysis"
	"github.com/yaklabco/goxaml/pkg/config"
	"github.com/yaklabco/goxaml/pkg/lint"
	"github.com/yaklabco/goxaml/pkg/runner"
)

func diag(rule lint.Rule, subject string, sev config.Severity) lint.Diagnostic {
	return lint.Diagnostic{RuleID: rule.ID, RuleName: rule.Name, Subject: subject, Severity: sev}
}

func sampleResult(dir string) *runner.Result {
	return &runner.Result{
		Files: []runner.FileOutcome{
			{
				Path: filepath.Join(dir, "a.xaml"),
				Result: &lint.PipelineResult{
					WellFormed: true,
					Diagnostics: []lint.Diagnostic{
						diag(lint.RuleUnknownTag, "Gird", config.SeverityInfo),
						diag(lint.RuleUnknownTag, "Gird", config.SeverityInfo),
						diag(lint.RuleUnknownAttribute, "Hieght", config.SeverityInfo),
					},
				},
			},
			{
				Path: filepath.Join(dir, "b.xaml"),
				Result: &lint.PipelineResult{
					Modified: true,
					Diagnostics: []lint.Diagnostic{
						diag(lint.RuleWellFormed, "", config.SeverityError),
						diag(lint.RuleUnknownTag, "Gird", config.SeverityInfo),
					},
				},
			},
			{
				Path:   filepath.Join(dir, "clean.xaml"),
				Result: &lint.PipelineResult{WellFormed: true},
			},
			{
				Path:  filepath.Join(dir, "gone.xaml"),
				Error: errors.New("file not found"),
			},
		},
	}
}

func TestAnalyze_NilResult(t *testing.T) {
	t.Parallel()

	report := analysis.Analyze(nil, analysis.DefaultOptions())

	require.NotNil(t, report)
	assert.Equal(t, analysis.ReportVersion, report.Version)
	assert.False(t, report.Totals.HasIssues())
	assert.Empty(t, report.ByFile)
}

func TestAnalyze_Totals(t *testing.T) {
	t.Parallel()

	report := analysis.Analyze(sampleResult(t.TempDir()), analysis.DefaultOptions())
	totals := report.Totals

	assert.Equal(t, 4, totals.Files)
	assert.Equal(t, 2, totals.FilesWithIssues)
	assert.Equal(t, 1, totals.FilesMalformed)
	assert.Equal(t, 1, totals.FilesErrored)
	assert.Equal(t, 1, totals.NeedsFormatting)
	assert.Equal(t, 5, totals.Issues)
	assert.Equal(t, 1, totals.Errors)
	assert.Equal(t, 4, totals.Infos)
	assert.True(t, totals.HasErrors())
}

func TestAnalyze_ByRule(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	opts := analysis.DefaultOptions()
	opts.WorkingDir = dir

	report := analysis.Analyze(sampleResult(dir), opts)

	require.Len(t, report.ByRule, 3)
	assert.Equal(t, "XML002", report.ByRule[0].RuleID)
	assert.Equal(t, "unknown-tag", report.ByRule[0].RuleName)
	assert.Equal(t, 3, report.ByRule[0].Issues)
	assert.Equal(t, []string{"a.xaml", "b.xaml"}, report.ByRule[0].Files)

	// Equal counts fall back to rule ID order.
	assert.Equal(t, "XML001", report.ByRule[1].RuleID)
	assert.Equal(t, "XML003", report.ByRule[2].RuleID)
}

func TestAnalyze_ByFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	opts := analysis.DefaultOptions()
	opts.WorkingDir = dir
	opts.SortBy = analysis.SortBySeverity

	report := analysis.Analyze(sampleResult(dir), opts)

	require.Len(t, report.ByFile, 2)
	assert.Equal(t, "b.xaml", report.ByFile[0].Path)
	assert.False(t, report.ByFile[0].WellFormed)
	assert.Equal(t, []string{"XML001", "XML002"}, report.ByFile[0].Rules)
	assert.Equal(t, "a.xaml", report.ByFile[1].Path)
	assert.Equal(t, 3, report.ByFile[1].Issues)
}

func TestAnalyze_BySubject(t *testing.T) {
	t.Parallel()

	report := analysis.Analyze(sampleResult(t.TempDir()), analysis.DefaultOptions())

	require.Len(t, report.BySubject, 2)
	assert.Equal(t, analysis.SubjectAnalysis{Name: "Gird", RuleID: "XML002", Issues: 3, Files: 2}, report.BySubject[0])
	assert.Equal(t, analysis.SubjectAnalysis{Name: "Hieght", RuleID: "XML003", Issues: 1, Files: 1}, report.BySubject[1])
}

func TestAnalyze_TopNames(t *testing.T) {
	t.Parallel()

	opts := analysis.DefaultOptions()
	opts.TopNames = 1

	report := analysis.Analyze(sampleResult(t.TempDir()), opts)

	require.Len(t, report.BySubject, 1)
	assert.Equal(t, "Gird", report.BySubject[0].Name)
}

func TestAnalyze_AlphaOrder(t *testing.T) {
	t.Parallel()

	opts := analysis.DefaultOptions()
	opts.SortBy = analysis.SortByAlpha

	report := analysis.Analyze(sampleResult(t.TempDir()), opts)

	ids := make([]string, 0, len(report.ByRule))
	for _, r := range report.ByRule {
		ids = append(ids, r.RuleID)
	}
	assert.Equal(t, []string{"XML001", "XML002", "XML003"}, ids)
}

func TestAnalyze_ViewsDisabled(t *testing.T) {
	t.Parallel()

	report := analysis.Analyze(sampleResult(t.TempDir()), analysis.Options{})

	assert.Empty(t, report.ByFile)
	assert.Empty(t, report.ByRule)
	assert.Empty(t, report.BySubject)
	assert.Equal(t, 5, report.Totals.Issues)
}

func TestSortField_IsValid(t *testing.T) {
	t.Parallel()

	for _, f := range []analysis.SortField{analysis.SortByCount, analysis.SortByAlpha, analysis.SortBySeverity} {
		assert.True(t, f.IsValid(), f)
	}
	assert.False(t, analysis.SortField("size").IsValid())
}
