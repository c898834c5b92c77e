package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/yaklabco/goxaml/pkg/config"
	"github.com/yaklabco/goxaml/pkg/lint"
)

type rulesFlags struct {
	ruleFormat string
	format     string
}

// ruleInfo represents a rule in JSON output.
type ruleInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Strict      string `json:"strict_severity"`
	Lenient     string `json:"lenient_severity"`
}

func newRulesCommand() *cobra.Command {
	flags := &rulesFlags{}

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the diagnostics goxaml reports",
		Long: `List the diagnostic rules with their IDs, descriptions and the severity
they are reported with in strict and lenient mode.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			switch flags.format {
			case "json":
				return writeRulesJSON(cmd.OutOrStdout())
			case "text", "":
				ruleFormat, err := config.ParseRuleFormat(flags.ruleFormat)
				if err != nil {
					return usageError(err)
				}
				writeRulesText(cmd.OutOrStdout(), ruleFormat)
				return nil
			default:
				return usageErrorf("invalid format %q: must be text or json", flags.format)
			}
		},
	}

	cmd.Flags().StringVar(&flags.ruleFormat, "rule-format", "combined",
		"rule identifier format in output: name, id, or combined")
	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json")

	return cmd
}

func describeRule(rule lint.Rule) ruleInfo {
	wellformedness := rule.ID == lint.RuleWellFormed.ID
	return ruleInfo{
		ID:          rule.ID,
		Name:        rule.Name,
		Description: rule.Description,
		Strict:      string(config.SeverityFor(true, wellformedness)),
		Lenient:     string(config.SeverityFor(false, wellformedness)),
	}
}

func writeRulesText(w io.Writer, format config.RuleFormat) {
	for _, rule := range lint.Rules() {
		info := describeRule(rule)
		fmt.Fprintf(w, "%-30s %-8s %-8s %s\n",
			format.Label(info.ID, info.Name), info.Strict, info.Lenient, info.Description)
	}
}

func writeRulesJSON(w io.Writer) error {
	rules := lint.Rules()
	infos := make([]ruleInfo, 0, len(rules))
	for _, rule := range rules {
		infos = append(infos, describeRule(rule))
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(infos); err != nil {
		return fmt.Errorf("encoding rules: %w", err)
	}
	return nil
}
