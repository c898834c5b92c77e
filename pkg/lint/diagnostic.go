package lint

import "github.com/yaklabco/goxaml/pkg/config"

// Diagnostic is a single issue found in a document.
type Diagnostic struct {
	// RuleID is the identifier of the rule that produced this diagnostic.
	RuleID string

	// RuleName is the human-readable name of the rule.
	RuleName string

	Message string

	// Subject is the unknown element or attribute name, empty for
	// well-formedness errors.
	Subject string

	Severity config.Severity
	FilePath string

	// Line is 1-based.
	Line int

	// Column is the 1-based column of the last character the scanner
	// consumed when the problem was detected.
	Column int
}

func newDiagnostic(rule Rule, path string, line, column int, message string, severity config.Severity) Diagnostic {
	return Diagnostic{
		RuleID:   rule.ID,
		RuleName: rule.Name,
		Message:  message,
		Severity: severity,
		FilePath: path,
		Line:     line + 1,
		Column:   column,
	}
}
