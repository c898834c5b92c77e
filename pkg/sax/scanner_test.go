package sax_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/goxaml/pkg/sax"
)

func collect(input string) []sax.Event {
	var events []sax.Event
	for ev := range sax.Events(input) {
		events = append(events, ev)
	}

	return events
}

func kinds(events []sax.Event) []sax.Kind {
	out := make([]sax.Kind, 0, len(events))
	for _, ev := range events {
		out = append(out, ev.Kind)
	}

	return out
}

func errorTexts(events []sax.Event) []string {
	var out []string
	for _, ev := range events {
		if ev.Kind == sax.KindError {
			out = append(out, ev.Text)
		}
	}

	return out
}

func TestEvents_WellFormedDocument(t *testing.T) {
	t.Parallel()

	events := collect(`<a x="1"><b/>hi</a>`)

	assert.Equal(t, []sax.Kind{
		sax.KindOpenTagStart,
		sax.KindAttribute,
		sax.KindOpenTag,
		sax.KindOpenTagStart,
		sax.KindOpenTag,
		sax.KindCloseTag,
		sax.KindText,
		sax.KindCloseTag,
	}, kinds(events))
	assert.Empty(t, errorTexts(events))

	open := events[2]
	assert.Equal(t, "a", open.Name)
	assert.False(t, open.SelfClosing)
	assert.Equal(t, []sax.Attr{{Name: "x", Value: "1"}}, open.Attributes)

	assert.True(t, events[4].SelfClosing)
	assert.Equal(t, "b", events[5].Name)
	assert.Equal(t, "hi", events[6].Text)
	assert.Equal(t, "a", events[7].Name)
}

func TestEvents_Positions(t *testing.T) {
	t.Parallel()

	events := collect("<a><b>")
	require.GreaterOrEqual(t, len(events), 4)

	assert.Equal(t, sax.KindOpenTagStart, events[0].Kind)
	assert.Equal(t, 3, events[0].Offset)
	assert.Equal(t, 0, events[0].TagStart)

	assert.Equal(t, sax.KindOpenTagStart, events[2].Kind)
	assert.Equal(t, 6, events[2].Offset)
	assert.Equal(t, 3, events[2].TagStart)

	assert.Equal(t, []string{sax.ErrUnclosedRoot}, errorTexts(events))
}

func TestEvents_LineAndColumn(t *testing.T) {
	t.Parallel()

	events := collect("<a>\n  <b/>\n</a>")

	var starts []sax.Event
	for _, ev := range events {
		if ev.Kind == sax.KindOpenTagStart {
			starts = append(starts, ev)
		}
	}

	require.Len(t, starts, 2)
	assert.Equal(t, 0, starts[0].Line)
	assert.Equal(t, 1, starts[1].Line)
	assert.Equal(t, 5, starts[1].Column)
}

func TestEvents_TagStartBeforeAnyTag(t *testing.T) {
	t.Parallel()

	events := collect("x")
	require.NotEmpty(t, events)
	assert.Equal(t, -1, events[0].TagStart)
}

func TestEvents_Entities(t *testing.T) {
	t.Parallel()

	events := collect(`<a t="&lt;&#65;&#x42;">&amp;&quot;&apos;&gt;</a>`)
	assert.Empty(t, errorTexts(events))

	for _, ev := range events {
		switch ev.Kind {
		case sax.KindAttribute:
			assert.Equal(t, "<AB", ev.Value)
		case sax.KindText:
			assert.Equal(t, `&"'>`, ev.Text)
		}
	}
}

func TestEvents_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"text before root", "hello<a/>", sax.ErrNonWhitespaceBeforeFirstTag},
		{"text after root", "<a/>x", sax.ErrTextOutsideRoot},
		{"bare less-than", "<a>1 < 2</a>", sax.ErrUnencodedLT},
		{"bad entity name", "<a>& b</a>", sax.ErrInvalidEntityName},
		{"unknown entity", "<a>&nbsp;</a>", sax.ErrInvalidCharacterEntity},
		{"mismatched names", "<a></b>", sax.ErrUnmatchedCloseTag + "b"},
		{"unexpected close", "<a><b></a>", sax.ErrUnexpectedCloseTag},
		{"unquoted attribute", "<a x=1/>", sax.ErrUnquotedAttributeValue},
		{"attribute without value", "<a x></a>", sax.ErrAttributeWithoutValue},
		{"no whitespace between attributes", `<a x="1"y="2"/>`, sax.ErrNoWhitespaceBetweenAttrs},
		{"slash in open tag", "<a / >", sax.ErrSlashInOpenTag},
		{"malformed comment", "<a><!-- a -- b --></a>", sax.ErrMalformedComment},
		{"late doctype", "<a><!DOCTYPE a></a>", sax.ErrMisplacedDoctype},
		{"unclosed root", "<a>", sax.ErrUnclosedRoot},
		{"unexpected end", "<a", sax.ErrUnexpectedEnd},
		{"duplicate attribute", `<a x="1" x="2"/>`, sax.ErrDuplicateAttribute + "x"},
		{"second root", "<a/><b/>", sax.ErrMultipleRoots},
		{"weird close", "<a></ >", sax.ErrInvalidCloseTagName},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Contains(t, errorTexts(collect(tc.input)), tc.want)
		})
	}
}

func TestEvents_ResumesAfterError(t *testing.T) {
	t.Parallel()

	events := collect("<a></b><c/></a>")

	var names []string
	for _, ev := range events {
		if ev.Kind == sax.KindOpenTag {
			names = append(names, ev.Name)
		}
	}

	assert.Equal(t, []string{"a", "c"}, names)
	assert.NotEmpty(t, errorTexts(events))
}

func TestEvents_DuplicateAttributeDropped(t *testing.T) {
	t.Parallel()

	events := collect(`<a x="1" x="2"/>`)
	assert.Equal(t, []string{sax.ErrDuplicateAttribute + "x"}, errorTexts(events))

	for _, ev := range events {
		if ev.Kind == sax.KindOpenTag {
			assert.Equal(t, []sax.Attr{{Name: "x", Value: "1"}}, ev.Attributes)
			v, ok := ev.Attribute("x")
			assert.True(t, ok)
			assert.Equal(t, "1", v)
		}
	}
}

func TestEvents_MarkupDeclarations(t *testing.T) {
	t.Parallel()

	input := `<?xml version="1.0"?><!DOCTYPE root [<!ENTITY e "x">]><root><!--note--><![CDATA[a<b]]></root>`
	events := collect(input)
	assert.Empty(t, errorTexts(events))

	byKind := map[sax.Kind]sax.Event{}
	for _, ev := range events {
		byKind[ev.Kind] = ev
	}

	assert.Equal(t, "xml", byKind[sax.KindProcessingInstruction].Name)
	assert.Equal(t, `version="1.0"`, byKind[sax.KindProcessingInstruction].Text)
	assert.Equal(t, ` root [<!ENTITY e "x">]`, byKind[sax.KindDoctype].Text)
	assert.Equal(t, "note", byKind[sax.KindComment].Text)
	assert.Equal(t, "a<b", byKind[sax.KindCDATA].Text)
	assert.Contains(t, byKind, sax.KindOpenCDATA)
	assert.Contains(t, byKind, sax.KindCloseCDATA)
}

func TestEvents_StopEarly(t *testing.T) {
	t.Parallel()

	count := 0
	for range sax.Events("<a><b/><c/><d/></a>") {
		count++
		if count == 2 {
			break
		}
	}

	assert.Equal(t, 2, count)
}

func TestEvents_NeverPanics(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"", "<", ">", "</", "<!", "<!-", "<![CDATA[", "<?", "<?x", "&", "<a &", `<a x="&`,
		"<a x='", "<<<<", "]]>", "<a/></a>", "\uFEFF<a/>", "<é/>", "<a>\x00</a>",
		"<a>< \xff</a>", "<a><\xff</a>", "<a><  \xff\xfe</a>", "< \xff",
	}

	for _, input := range inputs {
		assert.NotPanics(t, func() { collect(input) }, input)
	}
}

func TestEvents_InvalidByteAfterSpacedLessThan(t *testing.T) {
	t.Parallel()

	var text strings.Builder
	for _, ev := range collect("<a>< \xff</a>") {
		if ev.Kind == sax.KindText {
			text.WriteString(ev.Text)
		}
	}

	assert.Equal(t, "< \uFFFD", text.String())
}

func largeTokens(n int) map[string]string {
	body := strings.Repeat("x", n)

	return map[string]string{
		"comment":   "<a><!--" + body + "--></a>",
		"cdata":     "<a><![CDATA[" + body + "]]></a>",
		"attribute": `<a v="` + body + `"/>`,
		"doctype":   "<!DOCTYPE a [" + body + "]><a/>",
		"pi":        "<?pi " + body + "?><a/>",
		"tag name":  "<a" + body + "/>",
		"close tag": "<a" + body + "></a" + body + ">",
	}
}

func TestEvents_LargeTokens(t *testing.T) {
	t.Parallel()

	const n = 1 << 20

	for name, input := range largeTokens(n) {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			events := collect(input)
			require.Empty(t, errorTexts(events))

			longest := 0
			for _, ev := range events {
				longest = max(longest, len(ev.Text), len(ev.Name), len(ev.Value))
			}
			assert.GreaterOrEqual(t, longest, n)
		})
	}
}

func TestEvents_LargeTokensScaleLinearly(t *testing.T) {
	if testing.Short() {
		t.Skip("timing test")
	}

	// Best of three runs smooths out GC pauses.
	scan := func(input string) time.Duration {
		best := time.Duration(1<<63 - 1)
		for range 3 {
			start := time.Now()
			for range sax.Events(input) {
			}
			best = min(best, time.Since(start))
		}

		return max(best, time.Microsecond)
	}

	small, large := largeTokens(1<<17), largeTokens(1<<20)
	for name := range small {
		ratio := float64(scan(large[name])) / float64(scan(small[name]))
		// Eight times the input; quadratic scanning would be near 64.
		assert.Less(t, ratio, 32.0, name)
	}
}

func TestIsName(t *testing.T) {
	t.Parallel()

	assert.True(t, sax.IsName("Grid.Row"))
	assert.True(t, sax.IsName("x:Name"))
	assert.True(t, sax.IsName("_a-1"))
	assert.False(t, sax.IsName(""))
	assert.False(t, sax.IsName("1a"))
	assert.False(t, sax.IsName("a b"))
}

func TestKindString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "opentagstart", sax.KindOpenTagStart.String())
	assert.Equal(t, "Kind(99)", sax.Kind(99).String())
	assert.True(t, sax.KindCloseTag.Positional())
	assert.False(t, sax.KindOpenTag.Positional())
}
