// Package lint produces diagnostics for XML documents and runs the
// per-file check, lint and format pipeline.
package lint

// Rule describes one class of diagnostic.
type Rule struct {
	// ID is the stable identifier, for example "XML001".
	ID string

	// Name is the human-readable identifier, for example "wellformed".
	Name string

	Description string
}

// Built-in rules.
var (
	RuleWellFormed = Rule{
		ID:          "XML001",
		Name:        "wellformed",
		Description: "The document must scan as well-formed XML",
	}
	RuleUnknownTag = Rule{
		ID:          "XML002",
		Name:        "unknown-tag",
		Description: "Element names must be declared by a configured schema",
	}
	RuleUnknownAttribute = Rule{
		ID:          "XML003",
		Name:        "unknown-attribute",
		Description: "Attributes and property elements must be declared for their element",
	}
)

// Rules lists the built-in rules in ID order.
func Rules() []Rule {
	return []Rule{RuleWellFormed, RuleUnknownTag, RuleUnknownAttribute}
}

// RuleByID returns the rule with the given ID or name.
func RuleByID(id string) (Rule, bool) {
	for _, r := range Rules() {
		if r.ID == id || r.Name == id {
			return r, true
		}
	}
	return Rule{}, false
}
