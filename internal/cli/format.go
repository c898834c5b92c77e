package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yaklabco/goxaml/internal/logging"
	"github.com/yaklabco/goxaml/pkg/config"
	"github.com/yaklabco/goxaml/pkg/fix"
	"github.com/yaklabco/goxaml/pkg/fsutil"
	"github.com/yaklabco/goxaml/pkg/lint"
	"github.com/yaklabco/goxaml/pkg/reporter"
	"github.com/yaklabco/goxaml/pkg/runner"
	"github.com/yaklabco/goxaml/pkg/wellformed"
	"github.com/yaklabco/goxaml/pkg/xmlformat"
)

const stdinName = "<stdin>"

type formatFlags struct {
	style      string
	indentSize int
	useTabs    bool
	eol        string
	write      bool
	dryRun     bool
	diff       bool
	rangeSpec  string
	ignore     []string
	jobs       int
}

// byteRange is a half-open byte range of a document.
type byteRange struct {
	start, end int
}

func newFormatCommand() *cobra.Command {
	flags := &formatFlags{}

	cmd := &cobra.Command{
		Use:   "format [paths...]",
		Short: "Re-indent XML documents",
		Long: `Format XML documents with canonical indentation.

Styles:
  singleLineAttributes   one element per line, attributes kept on the tag line
  multiLineAttributes    every attribute on its own line
  fileSizeOptimized      no added whitespace at all

Without paths and with a document piped on stdin, the formatted document is
written to stdout. Malformed documents are never rewritten.

Examples:
  goxaml format App.xaml                 # Print the formatted document
  goxaml format --write Views/           # Rewrite files in place
  goxaml format --diff .                 # Show what would change
  goxaml format --range 120:480 a.xml    # Format bytes 120 to 480 only
  cat a.xml | goxaml format --use-tabs   # Format stdin`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFormat(cmd, args, flags)
		},
	}

	cmd.Flags().StringVar(&flags.style, "style", "", "formatting style: singleLineAttributes, multiLineAttributes, fileSizeOptimized")
	cmd.Flags().IntVar(&flags.indentSize, "indent-size", config.DefaultIndentSize, "spaces per indentation level")
	cmd.Flags().BoolVar(&flags.useTabs, "use-tabs", false, "indent with tabs")
	cmd.Flags().StringVar(&flags.eol, "eol", "", "line terminator: lf, crlf")
	cmd.Flags().BoolVarP(&flags.write, "write", "w", false, "write formatted content back to the files")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "show a diff instead of writing")
	cmd.Flags().BoolVar(&flags.diff, "diff", false, "alias for --dry-run")
	cmd.Flags().StringVar(&flags.rangeSpec, "range", "", "format only the byte range start:end of a single document")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to ignore")
	cmd.Flags().IntVar(&flags.jobs, "jobs", 0, "number of parallel workers (0 = auto)")

	return cmd
}

func runFormat(cmd *cobra.Command, args []string, flags *formatFlags) error {
	dryRun := flags.dryRun || flags.diff
	if dryRun && flags.write {
		return usageErrorf("--write cannot be combined with --dry-run or --diff")
	}

	if flags.style != "" {
		if _, err := xmlformat.ParseStyle(flags.style); err != nil {
			return usageError(err)
		}
	}
	if flags.eol != "" && !config.EndOfLine(strings.ToLower(flags.eol)).IsValid() {
		return usageErrorf("invalid --eol %q: must be lf or crlf", flags.eol)
	}
	if flags.indentSize < 0 {
		return usageErrorf("invalid --indent-size %d: must not be negative", flags.indentSize)
	}

	var rng *byteRange
	if flags.rangeSpec != "" {
		parsed, err := parseRange(flags.rangeSpec)
		if err != nil {
			return usageError(err)
		}
		rng = &parsed
	}

	cliCfg := &config.Config{
		FormattingStyle: flags.style,
		EndOfLine:       config.EndOfLine(strings.ToLower(flags.eol)),
		Ignore:          flags.ignore,
		Jobs:            flags.jobs,
	}

	sess, err := loadSession(cmd, cliCfg)
	if err != nil {
		return err
	}

	cfg := sess.cfg
	overrideBool(cmd, "use-tabs", &cfg.UseTabs, flags.useTabs)
	if cmd.Flags().Changed("indent-size") {
		cfg.IndentSize = flags.indentSize
	}
	cfg.Write = flags.write
	cfg.DryRun = dryRun

	fmtOpts, err := lint.FormatOptionsFromConfig(cfg)
	if err != nil {
		return &ExitError{Code: ExitConfigError, Err: err}
	}

	sess.logger.Debug("formatting",
		logging.FieldStyle, fmtOpts.Style,
		logging.FieldWrite, cfg.Write,
		logging.FieldDryRun, cfg.DryRun,
	)

	switch {
	case len(args) == 0 && !stdinIsTerminal(cmd):
		if flags.write {
			return usageErrorf("--write needs file arguments")
		}
		return formatStdin(cmd, fmtOpts, rng, dryRun)
	case rng != nil:
		if len(args) != 1 {
			return usageErrorf("--range needs exactly one file, got %d", len(args))
		}
		return formatRange(cmd, sess, args[0], fmtOpts, *rng, flags.write, dryRun)
	default:
		return formatFiles(cmd, sess, args)
	}
}

// stdinIsTerminal reports whether the command reads from an interactive
// terminal. Readers that are not files count as piped.
func stdinIsTerminal(cmd *cobra.Command) bool {
	f, ok := cmd.InOrStdin().(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func parseRange(arg string) (byteRange, error) {
	startStr, endStr, ok := strings.Cut(arg, ":")
	if !ok {
		return byteRange{}, fmt.Errorf("invalid --range %q: want start:end", arg)
	}

	start, err := strconv.Atoi(strings.TrimSpace(startStr))
	if err != nil {
		return byteRange{}, fmt.Errorf("invalid --range start %q: %w", startStr, err)
	}
	end, err := strconv.Atoi(strings.TrimSpace(endStr))
	if err != nil {
		return byteRange{}, fmt.Errorf("invalid --range end %q: %w", endStr, err)
	}

	if start < 0 || end < start {
		return byteRange{}, fmt.Errorf("invalid --range %q: need 0 <= start <= end", arg)
	}

	return byteRange{start: start, end: end}, nil
}

// formatText formats text, or only rng of it.
func formatText(text string, opts xmlformat.Options, rng *byteRange) (string, error) {
	if rng == nil {
		return xmlformat.Format(text, opts), nil
	}

	edit, err := xmlformat.Range(text, rng.start, rng.end, opts)
	if err != nil {
		return "", usageError(err)
	}

	return fix.Apply(text, edit)
}

// reportMalformed lists the scanner errors of a document on the error
// writer and returns ErrIssuesFound.
func reportMalformed(cmd *cobra.Command, name, text string) error {
	w := cmd.ErrOrStderr()
	for _, ev := range wellformed.Errors(text) {
		fmt.Fprintf(w, "%s:%d:%d: %s\n", name, ev.Line+1, ev.Column, ev.Text)
	}
	fmt.Fprintf(w, "%s: not formatted: %s\n", name, lint.SkipMalformed)

	return ErrIssuesFound
}

// emit prints formatted text, or the diff against text in dry-run mode.
// A non-empty diff is reported as ErrIssuesFound.
func emit(w io.Writer, name, text, formatted string, dryRun bool) error {
	if !dryRun {
		_, err := io.WriteString(w, formatted)
		return err
	}

	d := fix.Compute(name, text, formatted)
	if !d.HasChanges() {
		return nil
	}

	if _, err := io.WriteString(w, d.String()); err != nil {
		return err
	}

	return ErrIssuesFound
}

func formatStdin(cmd *cobra.Command, opts xmlformat.Options, rng *byteRange, dryRun bool) error {
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return &ExitError{Code: ExitIOError, Err: fmt.Errorf("read stdin: %w", err)}
	}

	text, err := fsutil.Decode(data, fsutil.DetectEncoding(data))
	if err != nil {
		return &ExitError{Code: ExitIOError, Err: fmt.Errorf("decode stdin: %w", err)}
	}

	if !wellformed.Check(text) {
		return reportMalformed(cmd, stdinName, text)
	}

	formatted, err := formatText(text, opts, rng)
	if err != nil {
		return err
	}

	return emit(cmd.OutOrStdout(), stdinName, text, formatted, dryRun)
}

func formatRange(cmd *cobra.Command, sess *session, path string, opts xmlformat.Options, rng byteRange, write, dryRun bool) error {
	doc, err := fsutil.ReadDocument(sess.ctx, path)
	if err != nil {
		return &ExitError{Code: ExitIOError, Err: err}
	}

	if !wellformed.Check(doc.Text) {
		return reportMalformed(cmd, path, doc.Text)
	}

	formatted, err := formatText(doc.Text, opts, &rng)
	if err != nil {
		return err
	}

	if !write {
		return emit(cmd.OutOrStdout(), path, doc.Text, formatted, dryRun)
	}

	if formatted == doc.Text {
		return nil
	}

	if err := writeBack(sess, doc, formatted); err != nil {
		return err
	}

	sess.logger.Info("formatted range", logging.FieldPath, path)

	return nil
}

// writeBack stores text in the file doc was read from, keeping its
// encoding and refusing to overwrite concurrent changes.
func writeBack(sess *session, doc *fsutil.Document, text string) error {
	modified, err := fsutil.CheckModified(sess.ctx, doc.Info, true)
	if err != nil {
		return &ExitError{Code: ExitIOError, Err: fmt.Errorf("check modified: %w", err)}
	}
	if modified {
		return &ExitError{Code: ExitIOError, Err: fmt.Errorf("%s changed on disk, not written", doc.Info.Path)}
	}

	backup := lint.BackupConfigFromConfig(sess.cfg)
	if backup.Enabled {
		if _, err := fsutil.CreateBackup(sess.ctx, doc.Info.Path, backup); err != nil {
			return &ExitError{Code: ExitIOError, Err: fmt.Errorf("create backup: %w", err)}
		}
	}

	content, err := fsutil.Encode(text, doc.Info.Encoding)
	if err != nil {
		return &ExitError{Code: ExitIOError, Err: err}
	}

	if err := fsutil.WriteAtomic(sess.ctx, doc.Info.Path, content, doc.Info.Mode); err != nil {
		return &ExitError{Code: ExitIOError, Err: err}
	}

	return nil
}

func formatFiles(cmd *cobra.Command, sess *session, args []string) error {
	cfg := sess.cfg

	pipelineOpts, err := lint.PipelineOptionsFromConfig(cfg, true)
	if err != nil {
		return &ExitError{Code: ExitConfigError, Err: err}
	}

	runOpts := runner.OptionsFromConfig(cfg, args, pipelineOpts)
	runOpts.WorkingDir = sess.workDir
	runOpts.Logger = sess.logger

	result, err := runner.New(lint.NewPipeline(lint.NewEngine(nil, cfg.Strict))).Run(sess.ctx, runOpts)
	if err != nil {
		return &ExitError{Code: ExitIOError, Err: fmt.Errorf("run failed: %w", err)}
	}

	switch {
	case cfg.DryRun:
		if err := report(cmd, sess, result, nil, reporter.FormatDiff); err != nil {
			return err
		}
		printSkipped(cmd, sess, result)
		return resultError(result, true)
	case cfg.Write:
		if err := report(cmd, sess, result, nil, reporter.FormatText); err != nil {
			return err
		}
		return resultError(result, false)
	default:
		if err := printFormatted(cmd, sess, result); err != nil {
			return err
		}
		return resultError(result, false)
	}
}

// printSkipped lists files the diff output leaves out.
func printSkipped(cmd *cobra.Command, sess *session, result *runner.Result) {
	w := cmd.ErrOrStderr()
	for _, outcome := range result.Files {
		name := displayName(sess, outcome.Path)
		switch {
		case outcome.Error != nil:
			fmt.Fprintf(w, "%s: error: %v\n", name, outcome.Error)
		case outcome.Result != nil && outcome.Result.Skipped:
			fmt.Fprintf(w, "%s: skipped: %s\n", name, outcome.Result.SkipReason)
		}
	}
}

// printFormatted writes the formatted documents to stdout. Several
// documents are separated by a header line naming each one.
func printFormatted(cmd *cobra.Command, sess *session, result *runner.Result) error {
	out := cmd.OutOrStdout()
	multi := len(result.Files) > 1

	for _, outcome := range result.Files {
		name := displayName(sess, outcome.Path)

		if outcome.Error != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: error: %v\n", name, outcome.Error)
			continue
		}

		pr := outcome.Result
		if pr.Skipped {
			if err := reportMalformed(cmd, name, pr.Source); !errors.Is(err, ErrIssuesFound) {
				return err
			}
			continue
		}

		if multi {
			fmt.Fprintf(out, "==> %s <==\n", name)
		}
		if _, err := io.WriteString(out, pr.Formatted); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		if multi && !strings.HasSuffix(pr.Formatted, "\n") {
			fmt.Fprintln(out)
		}
	}

	return nil
}

func displayName(sess *session, path string) string {
	opts := reporter.Options{WorkingDir: sess.workDir}
	return opts.DisplayPath(path)
}
