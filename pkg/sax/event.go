// Package sax is a forgiving streaming XML scanner.
//
// The scanner never stops on malformed input. Syntax problems are reported as
// KindError events and scanning resumes with the next character, so a single
// pass always covers the whole document. Only a strict XML subset is checked:
// there is no DTD processing and no external entity resolution.
package sax

import "fmt"

// Kind identifies the type of an Event.
type Kind int

// Event kinds, in no particular order.
const (
	KindSGMLDeclaration Kind = iota
	KindProcessingInstruction
	KindDoctype
	KindComment
	KindOpenCDATA
	KindCDATA
	KindCloseCDATA
	KindText
	KindAttribute
	KindOpenTagStart
	KindOpenTag
	KindCloseTag
	KindError
)

var kindNames = [...]string{
	KindSGMLDeclaration:       "sgmldeclaration",
	KindProcessingInstruction: "processinginstruction",
	KindDoctype:               "doctype",
	KindComment:               "comment",
	KindOpenCDATA:             "opencdata",
	KindCDATA:                 "cdata",
	KindCloseCDATA:            "closecdata",
	KindText:                  "text",
	KindAttribute:             "attribute",
	KindOpenTagStart:          "opentagstart",
	KindOpenTag:               "opentag",
	KindCloseTag:              "closetag",
	KindError:                 "error",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}

	return kindNames[k]
}

// Positional reports whether the event kind marks a point the scope resolver
// can anchor on.
func (k Kind) Positional() bool {
	switch k {
	case KindText, KindOpenTagStart, KindAttribute, KindCloseTag:
		return true
	default:
		return false
	}
}

// Attr is a single attribute of an element, in document order.
type Attr struct {
	Name  string
	Value string
}

// Event is one scanner notification. Position fields describe the scanner
// state at the moment the event was raised, which is usually just after the
// character that completed the construct.
type Event struct {
	Kind Kind

	// Line is zero based. Column counts characters consumed on the line.
	Line   int
	Column int

	// Offset is the number of input bytes consumed so far.
	Offset int

	// TagStart is the byte offset of the '<' that opened the most recent
	// tag, or -1 before any tag was seen.
	TagStart int

	// Name is set for tags, attributes and processing instructions.
	Name string

	// Value is the decoded attribute value.
	Value string

	// Text carries character data, comment and CDATA bodies, doctype and
	// SGML declaration contents, processing instruction bodies and error
	// messages.
	Text string

	// SelfClosing and Attributes are set on KindOpenTag.
	SelfClosing bool
	Attributes  []Attr

	// Fatal marks errors found at end of input, after which the document
	// cannot be completed.
	Fatal bool
}

// Attribute returns the value of the named attribute of an open tag event.
func (e Event) Attribute(name string) (string, bool) {
	for _, attr := range e.Attributes {
		if attr.Name == name {
			return attr.Value, true
		}
	}

	return "", false
}

// Error formats an error event the way diagnostics print it.
func (e Event) Error() string {
	return fmt.Sprintf("%s (line %d, column %d)", e.Text, e.Line+1, e.Column)
}
