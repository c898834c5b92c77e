// Package cli provides the Cobra command structure for goxaml.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/goxaml/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root goxaml command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool
	var configPath string
	var color string

	rootCmd := &cobra.Command{
		Use:   "goxaml",
		Short: "Check, lint, format and auto-close XML and XAML documents",
		Long: `goxaml is a forgiving XML toolkit for editors and CI.

It reports well-formedness problems with exact positions, checks element
and attribute names against XSD or YAML whitelists, re-indents documents in
one of three styles and completes closing tags while you type. Documents
keep their encoding, and files are only rewritten when they are well-formed.`,
		Version: info.Version,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			if debug {
				logging.SetLevel("debug")
			}
			cmd.SetContext(logging.WithLogger(commandContext(cmd), logging.Default()))
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&color, "color", "auto", "colorize output: auto, always, never")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	rootCmd.AddCommand(
		newCheckCommand(),
		newLintCommand(),
		newFormatCommand(),
		newScopeCommand(),
		newAutocloseCommand(),
		newSchemasCommand(),
		newRulesCommand(),
		newInitCommand(),
		newVersionCommand(info),
	)

	helpFormatter := NewHelpFormatter(color, os.Stdout)
	helpFormatter.ApplyToCommand(rootCmd)

	return rootCmd
}
