package analysis

import "time"

// Report contains pre-computed views of a run. It is computed once by
// Analyze and shared by every renderer.
type Report struct {
	ByFile []FileAnalysis `json:"byFile,omitempty"`
	ByRule []RuleAnalysis `json:"byRule,omitempty"`

	// BySubject ranks the element and attribute names the schemas did not
	// declare.
	BySubject []SubjectAnalysis `json:"bySubject,omitempty"`

	Totals Totals `json:"summary"`

	Version   string    `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

// Counts tallies diagnostics by severity.
type Counts struct {
	Issues   int `json:"issues"`
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Infos    int `json:"infos"`
	Hints    int `json:"hints"`
}

// Totals contains aggregate statistics for the report.
type Totals struct {
	Counts

	Files           int `json:"filesChecked"`
	FilesWithIssues int `json:"filesWithIssues"`
	FilesMalformed  int `json:"filesMalformed"`
	FilesErrored    int `json:"filesErrored"`

	// NeedsFormatting counts files whose formatted text differs from the
	// source.
	NeedsFormatting int `json:"needsFormatting"`
}

// HasIssues returns true if there are any issues.
func (t Totals) HasIssues() bool {
	return t.Issues > 0
}

// HasErrors returns true if there are error diagnostics or files that could
// not be processed.
func (t Totals) HasErrors() bool {
	return t.Errors > 0 || t.FilesErrored > 0
}

// FileAnalysis contains aggregated data for a single file.
type FileAnalysis struct {
	Counts

	Path       string   `json:"path"`
	WellFormed bool     `json:"wellFormed"`
	Rules      []string `json:"rules,omitempty"`
}

// RuleAnalysis contains aggregated data for a single rule.
type RuleAnalysis struct {
	Counts

	RuleID   string   `json:"ruleId"`
	RuleName string   `json:"ruleName"`
	Files    []string `json:"files,omitempty"`
}

// SubjectAnalysis counts the reports of one undeclared name.
type SubjectAnalysis struct {
	Name   string `json:"name"`
	RuleID string `json:"ruleId"`
	Issues int    `json:"issues"`
	Files  int    `json:"files"`
}
