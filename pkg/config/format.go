package config

import "fmt"

// ParseRuleFormat accepts name, id or combined. The empty string selects
// RuleFormatName.
func ParseRuleFormat(s string) (RuleFormat, error) {
	switch f := RuleFormat(s); f {
	case "":
		return RuleFormatName, nil
	case RuleFormatName, RuleFormatID, RuleFormatCombined:
		return f, nil
	default:
		return "", fmt.Errorf("invalid rule format %q: must be name, id or combined", s)
	}
}

// Label renders a rule identifier in format f. A rule without a name is
// always shown by ID.
func (f RuleFormat) Label(id, name string) string {
	switch {
	case name == "" || f == RuleFormatID:
		return id
	case f == RuleFormatCombined:
		return id + "/" + name
	default:
		return name
	}
}
