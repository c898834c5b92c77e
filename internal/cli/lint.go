package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/goxaml/internal/logging"
	"github.com/yaklabco/goxaml/pkg/config"
	"github.com/yaklabco/goxaml/pkg/lint"
	"github.com/yaklabco/goxaml/pkg/reporter"
	"github.com/yaklabco/goxaml/pkg/runner"
)

type lintFlags struct {
	format     string
	schemas    []string
	ignore     []string
	strict     bool
	noContext  bool
	compact    bool
	ruleFormat string
	jobs       int
}

// lintMode selects what a lint run reports.
type lintMode int

const (
	modeLint lintMode = iota
	modeCheck
)

func newLintCommand() *cobra.Command {
	flags := &lintFlags{}

	cmd := &cobra.Command{
		Use:   "lint [paths...]",
		Short: "Report malformed XML and names unknown to the schemas",
		Long: `Lint XML documents for well-formedness problems and for element and
attribute names that none of the configured schemas declare.

Schemas come from the configuration, from --schema, from schemaLocation
hints inside each document and from the schema_mapping of the
configuration. Without any schema only well-formedness is reported.

Examples:
  goxaml lint                          # Lint the current directory
  goxaml lint Views/                   # Lint one directory
  goxaml lint --schema ui.xsd App.xaml # Check names against ui.xsd
  goxaml lint --format json            # Machine-readable output
  goxaml lint --format summary         # Totals per rule, file and unknown name
  goxaml lint --strict=false           # Report warnings and hints`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLint(cmd, args, flags, modeLint)
		},
	}

	addLintFlags(cmd, flags)
	cmd.Flags().StringArrayVar(&flags.schemas, "schema", nil, "schema file (.xsd, .yml) to check names against; repeatable")

	return cmd
}

func newCheckCommand() *cobra.Command {
	flags := &lintFlags{}

	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Check XML documents for well-formedness",
		Long: `Check that XML documents are well-formed. Schemas are not consulted.

The exit status is 1 when any document is malformed.

Examples:
  goxaml check                 # Check the current directory
  goxaml check a.xml b.xaml    # Check two files`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLint(cmd, args, flags, modeCheck)
		},
	}

	addLintFlags(cmd, flags)

	return cmd
}

func addLintFlags(cmd *cobra.Command, flags *lintFlags) {
	cmd.Flags().StringVar(&flags.format, "format", "", "output format: text, json, summary (default from config, else text)")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to ignore")
	cmd.Flags().BoolVar(&flags.strict, "strict", true, "report errors and info instead of warnings and hints")
	cmd.Flags().BoolVar(&flags.noContext, "no-context", false, "hide source line context in output")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "use compact output format")
	cmd.Flags().StringVar(&flags.ruleFormat, "rule-format", "", "rule identifier format in output: name, id, combined")
	cmd.Flags().IntVar(&flags.jobs, "jobs", 0, "number of parallel workers (0 = auto)")
}

func runLint(cmd *cobra.Command, args []string, flags *lintFlags, mode lintMode) error {
	if flags.format != "" {
		format, err := reporter.ParseFormat(flags.format)
		if err != nil {
			return usageError(err)
		}
		if format == reporter.FormatDiff {
			return usageErrorf("format %q is only available to the format command", flags.format)
		}
	}
	if _, err := config.ParseRuleFormat(flags.ruleFormat); err != nil {
		return usageError(err)
	}

	cliCfg := &config.Config{
		Format:     config.OutputFormat(flags.format),
		RuleFormat: config.RuleFormat(flags.ruleFormat),
		Schemas:    flags.schemas,
		Ignore:     flags.ignore,
		Jobs:       flags.jobs,
	}

	sess, err := loadSession(cmd, cliCfg)
	if err != nil {
		return err
	}
	overrideBool(cmd, "strict", &sess.cfg.Strict, flags.strict)

	cfg := sess.cfg
	logger := sess.logger

	engine := lint.NewEngine(nil, cfg.Strict)
	if mode == modeLint {
		resolver, err := newSchemaResolver(sess)
		if err != nil {
			return err
		}
		engine.Resolver = resolver
	}

	pipelineOpts, err := lint.PipelineOptionsFromConfig(cfg, false)
	if err != nil {
		return &ExitError{Code: ExitConfigError, Err: err}
	}

	runOpts := runner.OptionsFromConfig(cfg, args, pipelineOpts)
	runOpts.WorkingDir = sess.workDir
	runOpts.Logger = logger

	logger.Debug("starting run",
		logging.FieldPaths, runOpts.Paths,
		logging.FieldWorkingDir, runOpts.WorkingDir,
		logging.FieldStrict, cfg.Strict,
		logging.FieldJobs, runOpts.Jobs,
	)

	result, err := runner.New(lint.NewPipeline(engine)).Run(sess.ctx, runOpts)
	if err != nil {
		return &ExitError{Code: ExitIOError, Err: fmt.Errorf("run failed: %w", err)}
	}

	logger.Debug("run finished",
		logging.FieldFilesProcessed, result.Stats.FilesProcessed,
		logging.FieldFilesWithIssues, result.Stats.FilesWithIssues,
		logging.FieldDiagnosticsTotal, result.Stats.DiagnosticsTotal,
	)

	if err := report(cmd, sess, result, flags, ""); err != nil {
		return err
	}

	return resultError(result, false)
}

// report renders result in format, or in the configured format when format
// is empty.
func report(cmd *cobra.Command, sess *session, result *runner.Result, flags *lintFlags, format reporter.Format) error {
	if format == "" {
		var err error
		if format, err = reporter.ParseFormat(string(sess.cfg.Format)); err != nil {
			return &ExitError{Code: ExitConfigError, Err: err}
		}
	}

	opts := reporter.DefaultOptions()
	opts.Writer = cmd.OutOrStdout()
	opts.ErrorWriter = cmd.ErrOrStderr()
	opts.Format = format
	opts.Color = sess.color
	opts.GroupByFile = true
	opts.WorkingDir = sess.workDir
	if sess.cfg.RuleFormat != "" {
		opts.RuleFormat = sess.cfg.RuleFormat
	}
	if flags != nil {
		opts.ShowContext = !flags.noContext
		opts.Compact = flags.compact
	}

	rep, err := reporter.New(opts)
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}

	if _, err := rep.Report(sess.ctx, result); err != nil {
		return errors.Join(errors.New("report results"), err)
	}

	return nil
}
