package autoclose

import (
	"strings"

	"github.com/yaklabco/goxaml/pkg/scope"
)

// Rewrite decides how a line should change after an edit that left the
// cursor at byte position. It returns the new line text, or false when the
// line should be left alone.
func Rewrite(line string, position int) (string, bool) {
	text, reason := rewrite(line, position)
	return text, reason == ReasonApplied
}

func rewrite(line string, position int) (string, Reason) {
	if position > len(line) {
		return "", ReasonNoContext
	}

	// A '>' that was just typed already closed the tag, so look at the
	// tag it closed.
	probe := position
	if position > 0 && line[position-1] == '>' {
		probe = position - 1
	}

	sc := scope.Resolve(line+"\n", probe)

	pos := position - 1
	if pos < 0 {
		return "", ReasonNoContext
	}

	before, after := line[:pos], line[pos:]

	if (sc.Context != scope.Element && sc.Context != scope.Attribute) || !sc.HasTagName || sc.TagName == "" {
		return "", ReasonNoScope
	}

	if lt := strings.LastIndex(before, "<"); lt >= 0 && strings.HasPrefix(before[lt:], "</") {
		return "", ReasonClosingTag
	}

	tag := sc.TagName
	closing := "</" + tag + ">"

	closeIdx := strings.Index(after, ">")
	nextStart := strings.Index(after, "<")
	nextEnd, invalid := -1, -1
	if nextStart >= 0 {
		nextEnd = indexFrom(after, ">", nextStart)
	}
	if nextEnd >= 0 {
		invalid = indexFrom(after, "<", nextEnd)
	}

	selfClosing := (closeIdx >= 1 && after[closeIdx-1] == '/') ||
		(closeIdx == 0 && strings.HasSuffix(before, "/"))

	var result string

	switch {
	case closeIdx == 1 && strings.HasPrefix(after, "/>"+closing):
		// <Foo/></Foo> loses the redundant closing tag.
		result = line[:pos+nextStart] + line[pos+nextEnd+1:]

	case !selfClosing && invalid < 0:
		switch {
		case nextStart >= 0 && nextStart+1 < len(after) && after[nextStart+1] == '/':
			result = line[:pos+nextStart] + closing + line[min(pos+nextEnd+1, len(line)):]
		case nextStart < 0:
			at := pos + closeIdx + 1
			result = line[:at] + closing + line[at:]
		}
	}

	if result == "" || strings.TrimSpace(result) == strings.TrimSpace(line) {
		return "", ReasonNoRewrite
	}

	return strings.TrimRight(result, " \t\r\n\v\f"), ReasonApplied
}

func indexFrom(s, substr string, from int) int {
	if from > len(s) {
		return -1
	}

	idx := strings.Index(s[from:], substr)
	if idx < 0 {
		return -1
	}

	return idx + from
}
