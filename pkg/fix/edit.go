// Package fix describes text edits and applies them to documents.
package fix

import (
	"errors"
	"strings"
)

var (
	// ErrInvalidRange is returned for edits outside the document.
	ErrInvalidRange = errors.New("invalid edit range")

	// ErrOverlap is returned when two edits touch the same bytes.
	ErrOverlap = errors.New("overlapping edits")
)

// TextEdit replaces the bytes [StartOffset, EndOffset) with NewText.
type TextEdit struct {
	StartOffset int
	EndOffset   int
	NewText     string
}

// Replace returns an edit replacing [start, end).
func Replace(start, end int, text string) TextEdit {
	return TextEdit{StartOffset: start, EndOffset: end, NewText: text}
}

// Insert returns an edit inserting text at offset.
func Insert(offset int, text string) TextEdit {
	return Replace(offset, offset, text)
}

// Delete returns an edit removing [start, end).
func Delete(start, end int) TextEdit {
	return Replace(start, end, "")
}

// IsNoop reports whether applying e to text changes nothing.
func (e TextEdit) IsNoop(text string) bool {
	if e.StartOffset < 0 || e.EndOffset > len(text) || e.StartOffset > e.EndOffset {
		return false
	}

	return text[e.StartOffset:e.EndOffset] == e.NewText
}

// LineBounds returns the byte range of the zero-based line in text, without
// its terminator. ok is false when the line does not exist.
func LineBounds(text string, line int) (start, end int, ok bool) {
	if line < 0 {
		return 0, 0, false
	}

	for i := 0; i < line; i++ {
		next := strings.IndexByte(text[start:], '\n')
		if next < 0 {
			return 0, 0, false
		}
		start += next + 1
	}

	end = len(text)
	if next := strings.IndexByte(text[start:], '\n'); next >= 0 {
		end = start + next
	}

	if end > start && text[end-1] == '\r' {
		end--
	}

	return start, end, true
}

// ReplaceLine returns the edit that swaps the content of one line.
func ReplaceLine(text string, line int, newText string) (TextEdit, bool) {
	start, end, ok := LineBounds(text, line)
	if !ok {
		return TextEdit{}, false
	}

	return Replace(start, end, newText), true
}
