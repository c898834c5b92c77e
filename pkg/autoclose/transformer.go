// Package autoclose inserts, snaps and removes closing tags while the user
// types. Each keystroke is debounced, rewritten on a single line and only
// applied when the line and the whole document stay well-formed.
package autoclose

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/goxaml/internal/logging"
	"github.com/yaklabco/goxaml/pkg/editor"
	"github.com/yaklabco/goxaml/pkg/wellformed"
)

// Reason explains the outcome of processing a change.
type Reason int

// Outcomes of Process.
const (
	ReasonApplied Reason = iota
	ReasonLanguage
	ReasonChangeCount
	ReasonMultiLine
	ReasonNewline
	ReasonNoEditor
	ReasonNotFocused
	ReasonTooManyLines
	ReasonLineTooLong
	ReasonNoContext
	ReasonNoScope
	ReasonClosingTag
	ReasonNoRewrite
	ReasonLineMalformed
	ReasonDocumentMalformed
)

var reasonNames = map[Reason]string{
	ReasonApplied:           "applied",
	ReasonLanguage:          "language not handled",
	ReasonChangeCount:       "not exactly one change",
	ReasonMultiLine:         "change spans lines",
	ReasonNewline:           "change inserts a line break",
	ReasonNoEditor:          "no active editor",
	ReasonNotFocused:        "document not focused",
	ReasonTooManyLines:      "document too long",
	ReasonLineTooLong:       "line too long",
	ReasonNoContext:         "no character before cursor",
	ReasonNoScope:           "cursor not in a named tag",
	ReasonClosingTag:        "cursor in a closing tag",
	ReasonNoRewrite:         "nothing to change",
	ReasonLineMalformed:     "rewritten line is not well-formed",
	ReasonDocumentMalformed: "rewritten document is not well-formed",
}

func (r Reason) String() string {
	if name, ok := reasonNames[r]; ok {
		return name
	}

	return fmt.Sprintf("Reason(%d)", int(r))
}

// Outcome describes what Process did with a change event.
type Outcome struct {
	Reason Reason
	URI    string
	Line   int
	Text   string
}

// Applied reports whether the line was rewritten.
func (o Outcome) Applied() bool {
	return o.Reason == ReasonApplied
}

// Default limits and timings.
const (
	DefaultMaxLines     = 8096
	DefaultMaxLineChars = 1024
	DefaultDelay        = 250 * time.Millisecond
	DefaultTick         = 100 * time.Millisecond
)

// Options configure a Transformer. Zero fields take their defaults.
type Options struct {
	// Languages restricts processing to these document language IDs.
	// Empty accepts every language.
	Languages []string

	MaxLines     int
	MaxLineChars int

	// Delay is the quiet period Trigger waits for; Tick is how often the
	// wait loop checks it.
	Delay time.Duration
	Tick  time.Duration

	Logger *log.Logger

	// OnOutcome, when set, receives the result of every debounced pass.
	OnOutcome func(Outcome, error)
}

// DefaultOptions returns the defaults used for XAML editing.
func DefaultOptions() Options {
	return Options{
		Languages:    []string{"xaml", "xml"},
		MaxLines:     DefaultMaxLines,
		MaxLineChars: DefaultMaxLineChars,
		Delay:        DefaultDelay,
		Tick:         DefaultTick,
	}
}

func (o Options) withDefaults() Options {
	if o.MaxLines <= 0 {
		o.MaxLines = DefaultMaxLines
	}
	if o.MaxLineChars <= 0 {
		o.MaxLineChars = DefaultMaxLineChars
	}
	if o.Delay <= 0 {
		o.Delay = DefaultDelay
	}
	if o.Tick <= 0 {
		o.Tick = DefaultTick
	}
	if o.Logger == nil {
		o.Logger = logging.Default()
	}

	return o
}

// Transformer watches change events of one editor.
type Transformer struct {
	editor editor.Editor
	opts   Options

	mu        sync.Mutex
	remaining time.Duration
	pending   editor.ChangeEvent
	waiting   bool
	wg        sync.WaitGroup

	closeOnce sync.Once
	closed    chan struct{}
}

// New returns a Transformer applying its edits through ed.
func New(ed editor.Editor, opts Options) *Transformer {
	return &Transformer{
		editor: ed,
		opts:   opts.withDefaults(),
		closed: make(chan struct{}),
	}
}

// Process handles one change event immediately. Rejected changes are not
// errors; only failures of the host editor are returned.
func (t *Transformer) Process(ctx context.Context, ev editor.ChangeEvent) (Outcome, error) {
	doc := ev.Document
	if doc == nil {
		return Outcome{Reason: ReasonNoEditor}, nil
	}

	out := Outcome{URI: doc.URI()}

	if reason := t.precheck(ev); reason != ReasonApplied {
		out.Reason = reason
		return out, nil
	}

	change := ev.ContentChanges[0]
	out.Line = change.Range.End.Line

	region, err := doc.Line(out.Line)
	if err != nil {
		return out, fmt.Errorf("read line %d of %s: %w", out.Line, doc.URI(), err)
	}

	if len(region.Text) >= t.opts.MaxLineChars {
		out.Reason = ReasonLineTooLong
		return out, nil
	}

	position := change.Range.Start.Character + len(change.Text)

	text, reason := rewrite(region.Text, position)
	if reason != ReasonApplied {
		out.Reason = reason
		return out, nil
	}
	out.Text = text

	if !wellformed.CheckFragment(text) {
		out.Reason = ReasonLineMalformed
		return out, nil
	}

	lines := strings.Split(doc.Text(), "\n")
	if out.Line < len(lines) {
		lines[out.Line] = text
	}

	if !wellformed.Check(strings.Join(lines, "\n")) {
		out.Reason = ReasonDocumentMalformed
		return out, nil
	}

	err = t.editor.ReplaceLine(ctx, doc, out.Line, text, editor.EditOptions{UndoStopBefore: false, UndoStopAfter: false})
	if err != nil {
		return out, fmt.Errorf("replace line %d of %s: %w", out.Line, doc.URI(), err)
	}

	out.Reason = ReasonApplied
	t.opts.Logger.Debug("auto-closed tag",
		logging.FieldURI, out.URI,
		logging.FieldLine, out.Line,
		"text", out.Text,
	)

	return out, nil
}

func (t *Transformer) precheck(ev editor.ChangeEvent) Reason {
	doc := ev.Document

	if len(t.opts.Languages) > 0 && !slices.Contains(t.opts.Languages, doc.LanguageID()) {
		return ReasonLanguage
	}

	if len(ev.ContentChanges) != 1 {
		return ReasonChangeCount
	}

	change := ev.ContentChanges[0]
	if !change.Range.IsSingleLine() {
		return ReasonMultiLine
	}

	if strings.Contains(change.Text, "\n") {
		return ReasonNewline
	}

	active := t.editor.ActiveDocument()
	if active == nil {
		return ReasonNoEditor
	}

	if doc.LineCount() > t.opts.MaxLines {
		return ReasonTooManyLines
	}

	if active.URI() != doc.URI() {
		return ReasonNotFocused
	}

	return ReasonApplied
}
