// Package scope works out what the cursor sits in: an element name, an
// attribute value or text between tags.
package scope

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/yaklabco/goxaml/pkg/sax"
)

// Context classifies a cursor position.
type Context int

// Cursor contexts.
const (
	Undefined Context = iota
	Element
	Attribute
	Text
)

func (c Context) String() string {
	switch c {
	case Element:
		return "element"
	case Attribute:
		return "attribute"
	case Text:
		return "text"
	default:
		return "undefined"
	}
}

// Scope is the enclosing syntactic unit at an offset. TagName is only
// meaningful when HasTagName is set.
type Scope struct {
	TagName    string
	HasTagName bool
	Context    Context
}

var tagNamePattern = regexp.MustCompile(`^[a-zA-Z0-9_:.\-]*$`)

// Resolve returns the scope at byte offset in text. It anchors on the first
// text, open-tag-start, attribute or close-tag event at or past offset and
// classifies the text between the last tag start and the offset.
func Resolve(text string, offset int) Scope {
	tagStart := 0

	for ev := range sax.Events(text) {
		if !ev.Kind.Positional() {
			continue
		}

		if ev.Offset >= offset {
			return classify(slice(text, tagStart, offset))
		}

		tagStart = max(ev.TagStart, 0)
	}

	return Scope{}
}

func slice(text string, from, to int) string {
	to = min(max(to, 0), len(text))
	from = min(max(from, 0), to)

	return text[from:to]
}

func classify(content string) Scope {
	lastOpen := strings.LastIndex(content, "<")
	if lastOpen >= 0 {
		content = content[lastOpen:]
	}

	var result Scope

	if name, ok := tagName(content); ok {
		result.TagName = name
		result.HasTagName = true
	}

	// lastIndex values are relative to the narrowed run.
	lastOpen = strings.LastIndex(content, "<")
	if strings.LastIndex(content, ">") >= lastOpen {
		result.Context = Text
		return result
	}

	tag := content[lastOpen:]

	switch {
	case strings.IndexFunc(tag, unicode.IsSpace) < 0:
		result.Context = Element
	case len(strings.Split(tag, `"`))%2 == 1:
		// Every attribute literal on the tag is closed.
		result.Context = Attribute
	}

	return result
}

// tagName returns the name typed after '<', cut at whitespace, '/' or '>'.
func tagName(content string) (string, bool) {
	if content == "" {
		return "", true
	}

	name := content[1:]
	if end := strings.IndexAny(name, " \t\r\n/>"); end >= 0 {
		name = name[:end]
	}

	return name, tagNamePattern.MatchString(name)
}
