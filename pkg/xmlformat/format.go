// Package xmlformat re-serialises XML documents with canonical indentation.
package xmlformat

import (
	"fmt"
	"strings"

	"github.com/yaklabco/goxaml/pkg/fix"
	"github.com/yaklabco/goxaml/pkg/sax"
)

// Options control a format pass.
type Options struct {
	// Indent is one level of indentation, for example "  " or "\t".
	Indent string

	// EOL is inserted before indented fragments.
	EOL string

	Style Style
}

// DefaultOptions are two-space indentation, LF line endings and single-line
// attributes.
func DefaultOptions() Options {
	return Options{Indent: "  ", EOL: "\n", Style: DefaultStyle}
}

type frame struct {
	tag           string
	selfClosing   bool
	isTextContent bool
}

type formatter struct {
	indent    string
	eol       string
	multiLine bool
	fragments []string
	depth     []frame
}

// Format re-serialises text. Scanner errors are ignored, so input that only
// tokenises is still formatted as far as possible.
func Format(text string, opts Options) string {
	f := &formatter{
		indent:    opts.Indent,
		eol:       opts.EOL,
		multiLine: opts.Style == MultiLineAttributes,
	}

	if f.eol == "" {
		f.eol = "\n"
	}

	if opts.Style == FileSizeOptimized {
		f.indent = ""
		f.eol = ""
	}

	for ev := range sax.Events(text) {
		f.handle(ev)
	}

	return strings.TrimPrefix(strings.Join(f.fragments, ""), f.eol)
}

// Range formats text[start:end] and returns the edit replacing that range.
func Range(text string, start, end int, opts Options) (fix.TextEdit, error) {
	if start < 0 || end > len(text) || start > end {
		return fix.TextEdit{}, fmt.Errorf("%w: [%d,%d) in %d bytes", fix.ErrInvalidRange, start, end, len(text))
	}

	return fix.TextEdit{
		StartOffset: start,
		EndOffset:   end,
		NewText:     Format(text[start:end], opts),
	}, nil
}

func (f *formatter) push(fragment string) {
	f.fragments = append(f.fragments, fragment)
}

// indentation is the line break plus one indent per open element, but only
// when the previous fragment was markup or nothing.
func (f *formatter) indentation() string {
	if n := len(f.fragments); n > 0 {
		last := f.fragments[n-1]
		if last != "" && !strings.ContainsAny(last, "<>") {
			return ""
		}
	}

	return f.eol + strings.Repeat(f.indent, len(f.depth))
}

func (f *formatter) handle(ev sax.Event) {
	switch ev.Kind {
	case sax.KindText:
		if strings.TrimSpace(ev.Text) == "" {
			f.push("")
		} else {
			f.push(encode(ev.Text))
		}

	case sax.KindDoctype:
		f.push(f.eol + "<!DOCTYPE" + ev.Text + ">")

	case sax.KindProcessingInstruction:
		f.push(f.eol + "<?" + ev.Name + " " + ev.Text + "?>")

	case sax.KindSGMLDeclaration:
		f.push(f.eol + "<!" + ev.Text + ">")

	case sax.KindOpenTag:
		f.openTag(ev)

	case sax.KindCloseTag:
		f.closeTag(ev.Name)

	case sax.KindComment:
		f.push("<!--" + ev.Text + "-->")

	case sax.KindOpenCDATA:
		f.push(f.eol + "<![CDATA[")

	case sax.KindCDATA:
		f.push(ev.Text)

	case sax.KindCloseCDATA:
		f.push("]]>")
	}
}

func (f *formatter) openTag(ev sax.Event) {
	attrs := make([]string, 0, len(ev.Attributes)+1)
	attrs = append(attrs, "")
	for _, attr := range ev.Attributes {
		attrs = append(attrs, " "+attr.Name+`="`+encode(attr.Value)+`"`)
	}

	if n := len(f.depth); n > 0 {
		f.depth[n-1].isTextContent = false
	}

	sep := ""
	if f.multiLine {
		sep = f.indentation() + f.indent
	}

	end := ">"
	if ev.SelfClosing {
		end = "/>"
	}

	f.push(f.indentation() + "<" + ev.Name + strings.Join(attrs, sep) + end)
	f.depth = append(f.depth, frame{tag: ev.Name, selfClosing: ev.SelfClosing, isTextContent: true})
}

func (f *formatter) closeTag(name string) {
	n := len(f.depth)
	if n == 0 {
		return
	}

	top := f.depth[n-1]
	f.depth = f.depth[:n-1]

	if top.selfClosing {
		return
	}

	if top.isTextContent {
		f.push("</" + name + ">")
		return
	}

	f.push(f.indentation() + "</" + name + ">")
}

var textEncoder = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

func encode(s string) string {
	return textEncoder.Replace(s)
}
