// Package logging wraps charmbracelet/log with the defaults goxaml uses.
package logging

// Structured log keys. Keep these stable, scripts grep for them.
const (
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldURI        = "uri"
	FieldWorkingDir = "working_dir"
	FieldConfig     = "config"

	// Run options.
	FieldStyle  = "style"
	FieldWrite  = "write"
	FieldDryRun = "dry_run"
	FieldJobs   = "jobs"
	FieldStrict = "strict"
	FieldSchema = "schema"

	// Run statistics.
	FieldFilesDiscovered  = "files_discovered"
	FieldFilesProcessed   = "files_processed"
	FieldFilesWithIssues  = "files_with_issues"
	FieldDiagnosticsTotal = "diagnostics_total"
	FieldFilesModified    = "files_modified"

	// Editing.
	FieldLine      = "line"
	FieldCharacter = "character"
	FieldOffset    = "offset"
	FieldTag       = "tag"
	FieldContext   = "context"
	FieldReason    = "reason"

	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
