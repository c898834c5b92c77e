package lint

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/yaklabco/goxaml/pkg/config"
	"github.com/yaklabco/goxaml/pkg/fix"
	"github.com/yaklabco/goxaml/pkg/fsutil"
	"github.com/yaklabco/goxaml/pkg/wellformed"
	"github.com/yaklabco/goxaml/pkg/xmlformat"
)

// Pipeline error types for categorization.
var (
	// ErrFileNotFound indicates the file does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrPermissionDenied indicates a permission error.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrDecodeFailure indicates the file bytes are not valid in their encoding.
	ErrDecodeFailure = errors.New("decode failure")

	// ErrWriteFailure indicates a write error.
	ErrWriteFailure = errors.New("write failure")
)

// SkipMalformed is the skip reason for documents that cannot be formatted.
const SkipMalformed = "document is not well-formed"

// PipelineResult is the outcome of processing one document.
type PipelineResult struct {
	Path string

	// Info is the file state before processing; nil for in-memory content.
	Info *fsutil.FileInfo

	// Source is the decoded text that was linted.
	Source string

	WellFormed  bool
	Diagnostics []Diagnostic

	// Modified is true if formatting changed the content.
	Modified bool

	// Formatted is the formatted text, set when formatting ran.
	Formatted string

	// Diff is set in dry-run mode when the content changed.
	Diff *fix.Diff

	Skipped    bool
	SkipReason string

	BackupCreated bool
	Written       bool
}

// HasIssues reports whether any diagnostics were found.
func (pr *PipelineResult) HasIssues() bool {
	return len(pr.Diagnostics) > 0
}

// Summary returns a human-readable summary of the result.
func (pr *PipelineResult) Summary() string {
	switch {
	case pr.Skipped:
		return "skipped: " + pr.SkipReason
	case pr.Written && pr.BackupCreated:
		return "formatted (backup created)"
	case pr.Written:
		return "formatted"
	case pr.Modified:
		return "changes pending"
	case pr.HasIssues():
		return "issues found"
	default:
		return "ok"
	}
}

// PipelineOptions controls per-file processing.
type PipelineOptions struct {
	// Format re-serializes well-formed documents.
	Format bool

	// FormatOptions are used when Format is set.
	FormatOptions xmlformat.Options

	// Write stores formatted content back to disk.
	Write bool

	// DryRun computes a diff instead of writing.
	DryRun bool

	Backup fsutil.BackupConfig

	// StrictRaceDetection re-hashes the file before writing instead of
	// comparing size and modification time only.
	StrictRaceDetection bool
}

// DefaultPipelineOptions returns lint-only options.
func DefaultPipelineOptions() PipelineOptions {
	return PipelineOptions{
		FormatOptions:       xmlformat.DefaultOptions(),
		Backup:              fsutil.DefaultBackupConfig(),
		StrictRaceDetection: true,
	}
}

// Pipeline processes single documents.
type Pipeline struct {
	Engine *Engine
}

// NewPipeline creates a pipeline around engine.
func NewPipeline(engine *Engine) *Pipeline {
	return &Pipeline{Engine: engine}
}

// ProcessFile reads path, lints it and, when requested, formats it. Writes
// keep the file's encoding, are skipped if the file changed on disk
// meanwhile, and go through a backup and an atomic rename.
func (p *Pipeline) ProcessFile(ctx context.Context, path string, opts PipelineOptions) (*PipelineResult, error) {
	doc, err := fsutil.ReadDocument(ctx, path)
	if err != nil {
		return nil, categorizeError(err)
	}

	result, err := p.ProcessContent(ctx, path, doc.Text, opts)
	if err != nil {
		return nil, err
	}
	result.Info = doc.Info

	if !result.Modified || !opts.Write || opts.DryRun {
		return result, nil
	}

	modified, err := fsutil.CheckModified(ctx, doc.Info, opts.StrictRaceDetection)
	if err != nil {
		return nil, fmt.Errorf("check modified: %w", err)
	}
	if modified {
		result.Skipped = true
		result.SkipReason = "file modified during processing"
		return result, nil
	}

	if opts.Backup.Enabled {
		created, err := fsutil.CreateBackup(ctx, path, opts.Backup)
		if err != nil {
			return nil, fmt.Errorf("create backup: %w", err)
		}
		result.BackupCreated = created
	}

	content, err := fsutil.Encode(result.Formatted, doc.Info.Encoding)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWriteFailure, err)
	}

	if err := fsutil.WriteAtomic(ctx, path, content, doc.Info.Mode); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWriteFailure, err)
	}
	result.Written = true

	return result, nil
}

// ProcessContent lints and formats text without file I/O.
func (p *Pipeline) ProcessContent(ctx context.Context, path, text string, opts PipelineOptions) (*PipelineResult, error) {
	diags, err := p.Engine.Diagnostics(ctx, path, text)
	if err != nil {
		return nil, err
	}

	result := &PipelineResult{
		Path:        path,
		Source:      text,
		Diagnostics: diags,
		WellFormed:  wellformed.Check(text),
	}

	if !opts.Format {
		return result, nil
	}

	if !result.WellFormed {
		result.Skipped = true
		result.SkipReason = SkipMalformed
		return result, nil
	}

	result.Formatted = xmlformat.Format(text, opts.FormatOptions)
	result.Modified = result.Formatted != text

	if result.Modified && opts.DryRun {
		result.Diff = fix.Compute(path, text, result.Formatted)
	}

	return result, nil
}

// categorizeError wraps an error with the matching pipeline error type.
func categorizeError(err error) error {
	switch {
	case errors.Is(err, fsutil.ErrNotFound) || errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("%w: %w", ErrFileNotFound, err)
	case errors.Is(err, fsutil.ErrPermissionDenied) || errors.Is(err, os.ErrPermission):
		return fmt.Errorf("%w: %w", ErrPermissionDenied, err)
	case errors.Is(err, fsutil.ErrDecode):
		return fmt.Errorf("%w: %w", ErrDecodeFailure, err)
	default:
		return err
	}
}

// IsPipelineError checks if an error is a known pipeline error type.
func IsPipelineError(err error) bool {
	return errors.Is(err, ErrFileNotFound) ||
		errors.Is(err, ErrPermissionDenied) ||
		errors.Is(err, ErrDecodeFailure) ||
		errors.Is(err, ErrWriteFailure)
}

// BackupConfigFromConfig creates an fsutil.BackupConfig from cfg.
func BackupConfigFromConfig(cfg *config.Config) fsutil.BackupConfig {
	if cfg == nil {
		return fsutil.DefaultBackupConfig()
	}
	return fsutil.BackupConfig{
		Enabled: cfg.Backups.Enabled && !cfg.NoBackups,
		Mode:    fsutil.BackupMode(cfg.Backups.Mode),
	}
}

// FormatOptionsFromConfig maps the formatting keys of cfg. An unknown style
// is an error.
func FormatOptionsFromConfig(cfg *config.Config) (xmlformat.Options, error) {
	if cfg == nil {
		return xmlformat.DefaultOptions(), nil
	}

	style, err := xmlformat.ParseStyle(cfg.FormattingStyle)
	if err != nil {
		return xmlformat.Options{}, err
	}

	return xmlformat.Options{
		Indent: cfg.Indent(),
		EOL:    cfg.EndOfLine.String(),
		Style:  style,
	}, nil
}

// PipelineOptionsFromConfig creates PipelineOptions from cfg.
func PipelineOptionsFromConfig(cfg *config.Config, format bool) (PipelineOptions, error) {
	opts := DefaultPipelineOptions()
	if cfg == nil {
		opts.Format = format
		return opts, nil
	}

	formatOpts, err := FormatOptionsFromConfig(cfg)
	if err != nil {
		return PipelineOptions{}, err
	}

	opts.Format = format
	opts.FormatOptions = formatOpts
	opts.Write = cfg.Write
	opts.DryRun = cfg.DryRun
	opts.Backup = BackupConfigFromConfig(cfg)

	return opts, nil
}
