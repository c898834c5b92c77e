package sax

import (
	"iter"
	"strings"
	"unicode/utf8"
)

type state int

const (
	stateBegin state = iota
	stateBeginWhitespace
	stateText
	stateTextEntity
	stateOpenWaka
	stateSGMLDecl
	stateSGMLDeclQuoted
	stateDoctype
	stateDoctypeQuoted
	stateDoctypeDTD
	stateDoctypeDTDQuoted
	stateComment
	stateCommentEnding
	stateCommentEnded
	stateCDATA
	stateCDATAEnding
	stateCDATAEnding2
	stateProcInst
	stateProcInstBody
	stateProcInstEnding
	stateOpenTag
	stateOpenTagSlash
	stateAttrib
	stateAttribName
	stateAttribNameSawWhite
	stateAttribValue
	stateAttribValueQuoted
	stateAttribValueClosed
	stateAttribValueUnquoted
	stateAttribValueEntityQ
	stateAttribValueEntityU
	stateCloseTag
	stateCloseTagSawWhite
)

// Error messages raised by the scanner.
const (
	ErrNonWhitespaceBeforeFirstTag = "Non-whitespace before first tag."
	ErrTextOutsideRoot             = "Text data outside of root node."
	ErrUnencodedLT                 = "Unencoded <"
	ErrMisplacedDoctype            = "Inappropriately located doctype declaration"
	ErrMalformedComment            = "Malformed comment"
	ErrInvalidTagNameChar          = "Invalid character in tag name"
	ErrSlashInOpenTag              = "Forward-slash in opening tag not followed by >"
	ErrInvalidAttributeName        = "Invalid attribute name"
	ErrAttributeWithoutValue       = "Attribute without value"
	ErrUnquotedAttributeValue      = "Unquoted attribute value"
	ErrNoWhitespaceBetweenAttrs    = "No whitespace between attributes"
	ErrInvalidCloseTagName         = "Invalid tagname in closing tag."
	ErrInvalidCloseTagChars        = "Invalid characters in closing tag"
	ErrWeirdEmptyCloseTag          = "Weird empty close tag."
	ErrUnexpectedCloseTag          = "Unexpected close tag"
	ErrUnmatchedCloseTag           = "Unmatched closing tag: "
	ErrInvalidEntityName           = "Invalid character in entity name"
	ErrInvalidCharacterEntity      = "Invalid character entity"
	ErrDuplicateAttribute          = "Duplicate attribute: "
	ErrMultipleRoots               = "Multiple root elements"
	ErrUnclosedRoot                = "Unclosed root tag"
	ErrUnexpectedEnd               = "Unexpected end"
)

const (
	cdataMarker   = "[CDATA["
	doctypeMarker = "DOCTYPE"
	byteOrderMark = '\uFEFF'
)

type openTag struct {
	name  string
	attrs []Attr
}

// Scanner holds the state of one pass over an input string. A Scanner is
// single use; create a new one per document.
type Scanner struct {
	input string
	yield func(Event) bool
	done  bool

	state state
	quote rune

	offset   int
	line     int
	column   int
	tagStart int

	text      strings.Builder
	sgmlDecl  strings.Builder
	doctype   strings.Builder
	comment   strings.Builder
	cdata     strings.Builder
	piName    strings.Builder
	piBody    strings.Builder
	entity    strings.Builder
	tagName   strings.Builder
	attrName  strings.Builder
	attrValue strings.Builder

	tag        *openTag
	tags       []*openTag
	sawRoot    bool
	closedRoot bool
	sawDoctype bool
}

// NewScanner returns a scanner over input.
func NewScanner(input string) *Scanner {
	return &Scanner{input: input}
}

// Events returns a single-pass sequence of the events raised while scanning
// input. Stopping the iteration early abandons the scan.
func Events(input string) iter.Seq[Event] {
	return NewScanner(input).Scan
}

// Scan runs the scanner to the end of the input, handing each event to
// yield. It returns early once yield returns false.
func (s *Scanner) Scan(yield func(Event) bool) {
	if s.yield != nil {
		return
	}
	s.yield = yield

	for i, c := range s.input {
		if s.done {
			return
		}

		width := utf8.RuneLen(c)
		if c == utf8.RuneError {
			_, width = utf8.DecodeRuneInString(s.input[i:])
		}

		s.step(c, width)
	}

	if !s.done {
		s.end()
	}
}

func (s *Scanner) emit(ev Event) {
	if s.done {
		return
	}

	ev.Line = s.line
	ev.Column = s.column
	ev.Offset = s.offset
	ev.TagStart = s.tagStart - 1

	if !s.yield(ev) {
		s.done = true
	}
}

// emitNode flushes pending text before raising ev.
func (s *Scanner) emitNode(ev Event) {
	s.closeText()
	s.emit(ev)
}

func (s *Scanner) closeText() {
	if s.text.Len() == 0 {
		return
	}

	text := s.text.String()
	s.text.Reset()
	s.emit(Event{Kind: KindText, Text: text})
}

func (s *Scanner) fail(msg string) {
	s.closeText()
	s.emit(Event{Kind: KindError, Text: msg})
}

func (s *Scanner) step(c rune, width int) {
	s.offset += width
	if c == '\n' {
		s.line++
		s.column = 0
	} else {
		s.column++
	}

	switch s.state {
	case stateBegin:
		s.state = stateBeginWhitespace
		if c == byteOrderMark {
			return
		}
		s.beginWhitespace(c)

	case stateBeginWhitespace:
		s.beginWhitespace(c)

	case stateText:
		s.inText(c)

	case stateOpenWaka:
		s.openWaka(c, width)

	case stateSGMLDecl, stateSGMLDeclQuoted:
		s.inSGMLDecl(c)

	case stateDoctype, stateDoctypeQuoted, stateDoctypeDTD, stateDoctypeDTDQuoted:
		s.inDoctype(c)

	case stateComment, stateCommentEnding, stateCommentEnded:
		s.inComment(c)

	case stateCDATA, stateCDATAEnding, stateCDATAEnding2:
		s.inCDATA(c)

	case stateProcInst, stateProcInstBody, stateProcInstEnding:
		s.inProcInst(c)

	case stateOpenTag, stateOpenTagSlash:
		s.inOpenTag(c)

	case stateAttrib, stateAttribName, stateAttribNameSawWhite:
		s.inAttribName(c)

	case stateAttribValue, stateAttribValueQuoted, stateAttribValueClosed, stateAttribValueUnquoted:
		s.inAttribValue(c)

	case stateCloseTag, stateCloseTagSawWhite:
		s.inCloseTag(c)

	case stateTextEntity, stateAttribValueEntityQ, stateAttribValueEntityU:
		s.inEntity(c)
	}
}

func (s *Scanner) beginWhitespace(c rune) {
	if c == '<' {
		s.state = stateOpenWaka
		s.tagStart = s.offset
		return
	}

	if !isWhitespace(c) {
		s.fail(ErrNonWhitespaceBeforeFirstTag)
		s.text.WriteRune(c)
		s.state = stateText
	}
}

func (s *Scanner) inText(c rune) {
	if c == '<' {
		s.state = stateOpenWaka
		s.tagStart = s.offset
		return
	}

	if !isWhitespace(c) && (!s.sawRoot || s.closedRoot) {
		s.fail(ErrTextOutsideRoot)
	}

	if c == '&' {
		s.state = stateTextEntity
		return
	}

	s.text.WriteRune(c)
}

// openWaka handles the rune after '<'; width is its encoded length in the
// input, which differs from utf8.RuneLen for invalid bytes.
func (s *Scanner) openWaka(c rune, width int) {
	switch {
	case c == '!':
		s.state = stateSGMLDecl
		s.sgmlDecl.Reset()
	case isWhitespace(c):
		// "< foo>" is still waiting for a name.
	case isNameStart(c):
		s.state = stateOpenTag
		s.tagName.Reset()
		s.tagName.WriteRune(c)
	case c == '/':
		s.state = stateCloseTag
		s.tagName.Reset()
	case c == '?':
		s.state = stateProcInst
		s.piName.Reset()
		s.piBody.Reset()
	default:
		s.fail(ErrUnencodedLT)

		pad := ""
		if n := s.offset - s.tagStart - width; n > 0 {
			pad = strings.Repeat(" ", n)
		}

		s.text.WriteString("<" + pad + string(c))
		s.state = stateText
	}
}

func (s *Scanner) inSGMLDecl(c rune) {
	if s.state == stateSGMLDeclQuoted {
		if c == s.quote {
			s.state = stateSGMLDecl
			s.quote = 0
		}
		s.sgmlDecl.WriteRune(c)
		return
	}

	if c == '>' {
		s.emitNode(Event{Kind: KindSGMLDeclaration, Text: s.sgmlDecl.String()})
		s.sgmlDecl.Reset()
		s.state = stateText
		return
	}

	s.sgmlDecl.WriteRune(c)
	candidate := s.sgmlDecl.String()

	switch {
	case isMarker(candidate, cdataMarker):
		s.emitNode(Event{Kind: KindOpenCDATA})
		s.state = stateCDATA
		s.sgmlDecl.Reset()
		s.cdata.Reset()
	case candidate == "--":
		s.state = stateComment
		s.sgmlDecl.Reset()
		s.comment.Reset()
	case isMarker(candidate, doctypeMarker):
		s.state = stateDoctype
		if s.sawDoctype || s.sawRoot {
			s.fail(ErrMisplacedDoctype)
		}
		s.sawDoctype = true
		s.sgmlDecl.Reset()
		s.doctype.Reset()
	case isQuote(c):
		s.state = stateSGMLDeclQuoted
		s.quote = c
	}
}

// isMarker compares case-insensitively without rescanning longer
// declarations on every rune.
func isMarker(candidate, marker string) bool {
	return len(candidate) == len(marker) && strings.EqualFold(candidate, marker)
}

func (s *Scanner) inDoctype(c rune) {
	switch s.state {
	case stateDoctype:
		if c == '>' {
			s.state = stateText
			s.emitNode(Event{Kind: KindDoctype, Text: s.doctype.String()})
			s.doctype.Reset()
			return
		}

		s.doctype.WriteRune(c)
		if c == '[' {
			s.state = stateDoctypeDTD
		} else if isQuote(c) {
			s.state = stateDoctypeQuoted
			s.quote = c
		}

	case stateDoctypeQuoted:
		s.doctype.WriteRune(c)
		if c == s.quote {
			s.quote = 0
			s.state = stateDoctype
		}

	case stateDoctypeDTD:
		s.doctype.WriteRune(c)
		if c == ']' {
			s.state = stateDoctype
		} else if isQuote(c) {
			s.state = stateDoctypeDTDQuoted
			s.quote = c
		}

	case stateDoctypeDTDQuoted:
		s.doctype.WriteRune(c)
		if c == s.quote {
			s.state = stateDoctypeDTD
			s.quote = 0
		}
	}
}

func (s *Scanner) inComment(c rune) {
	switch s.state {
	case stateComment:
		if c == '-' {
			s.state = stateCommentEnding
		} else {
			s.comment.WriteRune(c)
		}

	case stateCommentEnding:
		if c != '-' {
			s.comment.WriteByte('-')
			s.comment.WriteRune(c)
			s.state = stateComment
			return
		}

		s.state = stateCommentEnded
		if s.comment.Len() > 0 {
			s.emitNode(Event{Kind: KindComment, Text: s.comment.String()})
		}
		s.comment.Reset()

	case stateCommentEnded:
		if c == '>' {
			s.state = stateText
			return
		}

		// "--" inside a comment body.
		s.fail(ErrMalformedComment)
		s.comment.WriteString("--")
		s.comment.WriteRune(c)
		s.state = stateComment
	}
}

func (s *Scanner) inCDATA(c rune) {
	switch s.state {
	case stateCDATA:
		if c == ']' {
			s.state = stateCDATAEnding
		} else {
			s.cdata.WriteRune(c)
		}

	case stateCDATAEnding:
		if c == ']' {
			s.state = stateCDATAEnding2
		} else {
			s.cdata.WriteByte(']')
			s.cdata.WriteRune(c)
			s.state = stateCDATA
		}

	case stateCDATAEnding2:
		switch c {
		case '>':
			if s.cdata.Len() > 0 {
				s.emitNode(Event{Kind: KindCDATA, Text: s.cdata.String()})
			}
			s.emitNode(Event{Kind: KindCloseCDATA})
			s.cdata.Reset()
			s.state = stateText
		case ']':
			s.cdata.WriteByte(']')
		default:
			s.cdata.WriteString("]]")
			s.cdata.WriteRune(c)
			s.state = stateCDATA
		}
	}
}

func (s *Scanner) inProcInst(c rune) {
	switch s.state {
	case stateProcInst:
		switch {
		case c == '?':
			s.state = stateProcInstEnding
		case isWhitespace(c):
			s.state = stateProcInstBody
		default:
			s.piName.WriteRune(c)
		}

	case stateProcInstBody:
		switch {
		case s.piBody.Len() == 0 && isWhitespace(c):
		case c == '?':
			s.state = stateProcInstEnding
		default:
			s.piBody.WriteRune(c)
		}

	case stateProcInstEnding:
		if c == '>' {
			s.emitNode(Event{Kind: KindProcessingInstruction, Name: s.piName.String(), Text: s.piBody.String()})
			s.piName.Reset()
			s.piBody.Reset()
			s.state = stateText
			return
		}

		s.piBody.WriteByte('?')
		s.piBody.WriteRune(c)
		s.state = stateProcInstBody
	}
}

func (s *Scanner) inOpenTag(c rune) {
	if s.state == stateOpenTagSlash {
		if c == '>' {
			s.openTag(true)
			s.closeTag()
			return
		}

		s.fail(ErrSlashInOpenTag)
		s.state = stateAttrib
		return
	}

	if isNameChar(c) {
		s.tagName.WriteRune(c)
		return
	}

	s.newTag()

	switch {
	case c == '>':
		s.openTag(false)
	case c == '/':
		s.state = stateOpenTagSlash
	default:
		if !isWhitespace(c) {
			s.fail(ErrInvalidTagNameChar)
		}
		s.state = stateAttrib
	}
}

func (s *Scanner) inAttribName(c rune) {
	switch s.state {
	case stateAttrib:
		switch {
		case isWhitespace(c):
		case c == '>':
			s.openTag(false)
		case c == '/':
			s.state = stateOpenTagSlash
		case isNameStart(c):
			s.startAttr(c)
			s.state = stateAttribName
		default:
			s.fail(ErrInvalidAttributeName)
		}

	case stateAttribName:
		switch {
		case c == '=':
			s.state = stateAttribValue
		case c == '>':
			s.fail(ErrAttributeWithoutValue)
			s.attrValue.Reset()
			s.attrValue.WriteString(s.attrName.String())
			s.attrib()
			s.openTag(false)
		case isWhitespace(c):
			s.state = stateAttribNameSawWhite
		case isNameChar(c):
			s.attrName.WriteRune(c)
		default:
			s.fail(ErrInvalidAttributeName)
		}

	case stateAttribNameSawWhite:
		switch {
		case c == '=':
			s.state = stateAttribValue
		case isWhitespace(c):
		default:
			s.fail(ErrAttributeWithoutValue)
			s.attrValue.Reset()
			s.attrib()

			switch {
			case c == '>':
				s.openTag(false)
			case isNameStart(c):
				s.startAttr(c)
				s.state = stateAttribName
			default:
				s.fail(ErrInvalidAttributeName)
				s.state = stateAttrib
			}
		}
	}
}

func (s *Scanner) inAttribValue(c rune) {
	switch s.state {
	case stateAttribValue:
		switch {
		case isWhitespace(c):
		case isQuote(c):
			s.quote = c
			s.state = stateAttribValueQuoted
		default:
			s.fail(ErrUnquotedAttributeValue)
			s.state = stateAttribValueUnquoted
			s.attrValue.Reset()
			s.attrValue.WriteRune(c)
		}

	case stateAttribValueQuoted:
		if c != s.quote {
			if c == '&' {
				s.state = stateAttribValueEntityQ
			} else {
				s.attrValue.WriteRune(c)
			}
			return
		}

		s.attrib()
		s.quote = 0
		s.state = stateAttribValueClosed

	case stateAttribValueClosed:
		switch {
		case isWhitespace(c):
			s.state = stateAttrib
		case c == '>':
			s.openTag(false)
		case c == '/':
			s.state = stateOpenTagSlash
		case isNameStart(c):
			s.fail(ErrNoWhitespaceBetweenAttrs)
			s.startAttr(c)
			s.state = stateAttribName
		default:
			s.fail(ErrInvalidAttributeName)
		}

	case stateAttribValueUnquoted:
		if c != '>' && !isWhitespace(c) {
			if c == '&' {
				s.state = stateAttribValueEntityU
			} else {
				s.attrValue.WriteRune(c)
			}
			return
		}

		s.attrib()
		if c == '>' {
			s.openTag(false)
		} else {
			s.state = stateAttrib
		}
	}
}

func (s *Scanner) inCloseTag(c rune) {
	if s.state == stateCloseTagSawWhite {
		switch {
		case isWhitespace(c):
		case c == '>':
			s.closeTag()
		default:
			s.fail(ErrInvalidCloseTagChars)
		}
		return
	}

	switch {
	case s.tagName.Len() == 0:
		switch {
		case isWhitespace(c):
		case !isNameStart(c):
			s.fail(ErrInvalidCloseTagName)
		default:
			s.tagName.WriteRune(c)
		}
	case c == '>':
		s.closeTag()
	case isNameChar(c):
		s.tagName.WriteRune(c)
	default:
		if !isWhitespace(c) {
			s.fail(ErrInvalidCloseTagName)
		}
		s.state = stateCloseTagSawWhite
	}
}

func (s *Scanner) inEntity(c rune) {
	var returnTo state
	buf := &s.attrValue

	switch s.state {
	case stateTextEntity:
		returnTo = stateText
		buf = &s.text
	case stateAttribValueEntityQ:
		returnTo = stateAttribValueQuoted
	default:
		returnTo = stateAttribValueUnquoted
	}

	switch {
	case c == ';':
		value, ok := resolveEntity(s.entity.String())
		if !ok {
			s.fail(ErrInvalidCharacterEntity)
		}
		buf.WriteString(value)
		s.entity.Reset()
		s.state = returnTo
	case (s.entity.Len() == 0 && isEntityStart(c)) || (s.entity.Len() > 0 && isEntityChar(c)):
		s.entity.WriteRune(c)
	default:
		s.fail(ErrInvalidEntityName)
		buf.WriteByte('&')
		buf.WriteString(s.entity.String())
		buf.WriteRune(c)
		s.entity.Reset()
		s.state = returnTo
	}
}

func (s *Scanner) newTag() {
	name := s.tagName.String()
	if s.closedRoot && len(s.tags) == 0 {
		s.fail(ErrMultipleRoots)
	}

	s.tag = &openTag{name: name}
	s.emitNode(Event{Kind: KindOpenTagStart, Name: name})
}

func (s *Scanner) startAttr(c rune) {
	s.attrName.Reset()
	s.attrName.WriteRune(c)
	s.attrValue.Reset()
}

func (s *Scanner) resetAttr() {
	s.attrName.Reset()
	s.attrValue.Reset()
}

// attrib records the pending attribute. Later duplicates raise an error
// and are dropped.
func (s *Scanner) attrib() {
	name, value := s.attrName.String(), s.attrValue.String()
	s.resetAttr()

	if s.tag == nil {
		return
	}

	for _, attr := range s.tag.attrs {
		if attr.Name == name {
			s.fail(ErrDuplicateAttribute + name)
			return
		}
	}

	s.tag.attrs = append(s.tag.attrs, Attr{Name: name, Value: value})
	s.emitNode(Event{Kind: KindAttribute, Name: name, Value: value})
}

func (s *Scanner) openTag(selfClosing bool) {
	s.sawRoot = true
	s.tags = append(s.tags, s.tag)

	s.emitNode(Event{
		Kind:        KindOpenTag,
		Name:        s.tag.name,
		SelfClosing: selfClosing,
		Attributes:  s.tag.attrs,
	})

	if !selfClosing {
		s.state = stateText
		s.tag = nil
		s.tagName.Reset()
	}

	s.resetAttr()
}

func (s *Scanner) closeTag() {
	name := s.tagName.String()
	if name == "" {
		s.fail(ErrWeirdEmptyCloseTag)
		s.text.WriteString("</>")
		s.state = stateText
		return
	}

	match := len(s.tags) - 1
	for ; match >= 0; match-- {
		if s.tags[match].name == name {
			break
		}
		s.fail(ErrUnexpectedCloseTag)
	}

	if match < 0 {
		s.fail(ErrUnmatchedCloseTag + name)
		s.text.WriteString("</" + name + ">")
		s.state = stateText
		s.tagName.Reset()
		return
	}

	for len(s.tags) > match {
		closing := s.tags[len(s.tags)-1]
		s.tags = s.tags[:len(s.tags)-1]
		s.tag = closing
		s.emitNode(Event{Kind: KindCloseTag, Name: closing.name})
	}

	if match == 0 {
		s.closedRoot = true
	}

	s.tag = nil
	s.tagName.Reset()
	s.resetAttr()
	s.state = stateText
}

func (s *Scanner) end() {
	if s.sawRoot && !s.closedRoot {
		s.closeText()
		s.emit(Event{Kind: KindError, Text: ErrUnclosedRoot, Fatal: true})
	}

	if s.state != stateBegin && s.state != stateBeginWhitespace && s.state != stateText {
		s.closeText()
		s.emit(Event{Kind: KindError, Text: ErrUnexpectedEnd, Fatal: true})
	}

	s.closeText()
	s.done = true
}
