// Package editor is the boundary between the editing features and a host
// editor: documents, change events and line replacement.
package editor

import (
	"context"
	"errors"
)

// ErrLineOutOfRange is returned when a line index does not exist.
var ErrLineOutOfRange = errors.New("line out of range")

// Position is a zero-based line and character.
type Position struct {
	Line      int
	Character int
}

// Range spans two positions.
type Range struct {
	Start Position
	End   Position
}

// IsSingleLine reports whether the range starts and ends on the same line.
func (r Range) IsSingleLine() bool {
	return r.Start.Line == r.End.Line
}

// ContentChange is one replacement reported by the host.
type ContentChange struct {
	Range Range
	Text  string
}

// ChangeEvent is a batch of changes applied to a document.
type ChangeEvent struct {
	Document       Document
	ContentChanges []ContentChange
}

// LineRegion is one line of a document and its byte offsets.
type LineRegion struct {
	Text        string
	StartOffset int
	EndOffset   int
}

// Document is a read-only view of a host document.
type Document interface {
	URI() string
	LanguageID() string
	LineCount() int
	Line(index int) (LineRegion, error)
	Text() string
}

// EditOptions control undo grouping for an edit.
type EditOptions struct {
	UndoStopBefore bool
	UndoStopAfter  bool
}

// Editor applies edits in the host.
type Editor interface {
	// ActiveDocument returns the focused document, or nil.
	ActiveDocument() Document

	// ReplaceLine swaps the text of one line of doc.
	ReplaceLine(ctx context.Context, doc Document, line int, text string, opts EditOptions) error
}
