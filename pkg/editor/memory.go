package editor

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/yaklabco/goxaml/pkg/fix"
)

// MemoryDocument is a Document held in memory.
type MemoryDocument struct {
	mu         sync.RWMutex
	uri        string
	languageID string
	text       string
}

// NewDocument returns a document with the given URI, language and content.
func NewDocument(uri, languageID, text string) *MemoryDocument {
	return &MemoryDocument{uri: uri, languageID: languageID, text: text}
}

// URI implements Document.
func (d *MemoryDocument) URI() string { return d.uri }

// LanguageID implements Document.
func (d *MemoryDocument) LanguageID() string { return d.languageID }

// Text implements Document.
func (d *MemoryDocument) Text() string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return d.text
}

// LineCount implements Document. An empty document has one line.
func (d *MemoryDocument) LineCount() int {
	return strings.Count(d.Text(), "\n") + 1
}

// Line implements Document.
func (d *MemoryDocument) Line(index int) (LineRegion, error) {
	text := d.Text()

	start, end, ok := fix.LineBounds(text, index)
	if !ok {
		return LineRegion{}, fmt.Errorf("%w: %d of %d", ErrLineOutOfRange, index, d.LineCount())
	}

	return LineRegion{Text: text[start:end], StartOffset: start, EndOffset: end}, nil
}

func (d *MemoryDocument) apply(edit fix.TextEdit) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	text, err := fix.Apply(d.text, edit)
	if err != nil {
		return err
	}

	d.text = text

	return nil
}

// AppliedEdit records one edit made through a Memory editor.
type AppliedEdit struct {
	URI     string
	Line    int
	Text    string
	Options EditOptions
}

// Memory is an in-memory Editor. It tracks the focused document and records
// every edit it applies.
type Memory struct {
	mu      sync.Mutex
	active  Document
	applied []AppliedEdit
}

// NewMemory returns an editor focused on doc.
func NewMemory(doc Document) *Memory {
	return &Memory{active: doc}
}

// ActiveDocument implements Editor.
func (m *Memory) ActiveDocument() Document {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.active
}

// Focus changes the focused document.
func (m *Memory) Focus(doc Document) {
	m.mu.Lock()
	m.active = doc
	m.mu.Unlock()
}

// ReplaceLine implements Editor for MemoryDocument values.
func (m *Memory) ReplaceLine(ctx context.Context, doc Document, line int, text string, opts EditOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	mem, ok := doc.(*MemoryDocument)
	if !ok {
		return fmt.Errorf("replace line in %s: unsupported document type %T", doc.URI(), doc)
	}

	edit, ok := fix.ReplaceLine(mem.Text(), line, text)
	if !ok {
		return fmt.Errorf("replace line in %s: %w: %d", doc.URI(), ErrLineOutOfRange, line)
	}

	if err := mem.apply(edit); err != nil {
		return fmt.Errorf("replace line in %s: %w", doc.URI(), err)
	}

	m.mu.Lock()
	m.applied = append(m.applied, AppliedEdit{URI: doc.URI(), Line: line, Text: text, Options: opts})
	m.mu.Unlock()

	return nil
}

// Applied returns the edits applied so far.
func (m *Memory) Applied() []AppliedEdit {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]AppliedEdit, len(m.applied))
	copy(out, m.applied)

	return out
}

// Type inserts text at a position of doc, the way a keystroke would, and
// returns the change event the host would deliver.
func Type(doc *MemoryDocument, line, character int, text string) (ChangeEvent, error) {
	region, err := doc.Line(line)
	if err != nil {
		return ChangeEvent{}, err
	}

	if character < 0 || character > len(region.Text) {
		return ChangeEvent{}, fmt.Errorf("%w: character %d on line %d", fix.ErrInvalidRange, character, line)
	}

	if err := doc.apply(fix.Insert(region.StartOffset+character, text)); err != nil {
		return ChangeEvent{}, err
	}

	at := Position{Line: line, Character: character}

	return ChangeEvent{
		Document:       doc,
		ContentChanges: []ContentChange{{Range: Range{Start: at, End: at}, Text: text}},
	}, nil
}
