package parser

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"go.creack.net/robotwar/op"
)

type stateFn func(*lexer) stateFn

const eof = -1

type itemType int

const (
	itemNewline itemType = iota
	itemWord             // Opcode, register, variable or label reference.
	itemNumber           // Numeric literal.
	itemLabel            // Word with a trailing label char, value without it.
	itemComment
	itemEOF // End of the input.
)

func (it itemType) String() string {
	switch it {
	case itemNewline:
		return "<newline>"
	case itemWord:
		return "<word>"
	case itemNumber:
		return "<number>"
	case itemLabel:
		return "<label>"
	case itemComment:
		return "<comment>"
	case itemEOF:
		return "<eof>"
	default:
		return fmt.Sprintf("<unknown token %d>", it)
	}
}

func (it itemType) isEOL() bool {
	// Comments run to the end of the line.
	return it == itemNewline || it == itemEOF || it == itemComment
}

type item struct {
	typ  itemType // The type of this item.
	pos  Pos      // The start position, in bytes, of this item in the input string.
	val  string   // The value of this item.
	line int      // The line number at the start of this item.
}

func (i item) String() string {
	switch {
	case i.typ == itemEOF:
		return "EOF"
	case i.typ == itemNewline:
		return "'\\n'"
	case len(i.val) > 10:
		return fmt.Sprintf("%s %.10q...", i.typ, i.val)
	}
	return fmt.Sprintf("%s %q", i.typ, i.val)
}

// raw returns the token as it was written.
func (i item) raw() string {
	if i.typ == itemLabel {
		return i.val + string(op.LabelChar)
	}
	return i.val
}

// Pos is a byte offset in the input.
type Pos int

// lexer holds the state of the scanner.
type lexer struct {
	name      string // The name of the input; used only for error reports.
	input     string // The string being scanned.
	pos       Pos    // Current position in the input.
	start     Pos    // Start position of this item.
	atEOF     bool   // We have hit the end of input and returned eof.
	line      int    // 1+number of newlines seen.
	startLine int    // Start line of this item.
	item      item   // Item to return to parser.
}

// next returns the next rune in the input.
func (l *lexer) next() rune {
	if int(l.pos) >= len(l.input) {
		l.atEOF = true
		return eof
	}
	r, w := utf8.DecodeRuneInString(l.input[l.pos:])
	l.pos += Pos(w)
	if r == '\n' {
		l.line++
	}
	return r
}

// peek returns but does not consume the next rune in the input.
func (l *lexer) peek() rune {
	r := l.next()
	l.backup()
	return r
}

// backup steps back one rune.
func (l *lexer) backup() {
	if !l.atEOF && l.pos > 0 {
		r, w := utf8.DecodeLastRuneInString(l.input[:l.pos])
		l.pos -= Pos(w)
		// Correct newline count.
		if r == '\n' {
			l.line--
		}
	}
}

// thisItem returns the item at the current input point with the specified type
// and advances the input.
func (l *lexer) thisItem(t itemType) item {
	i := item{t, l.start, l.input[l.start:l.pos], l.startLine}
	l.start = l.pos
	l.startLine = l.line
	return i
}

// emit passes the trailing text as an item back to the parser.
func (l *lexer) emit(t itemType) stateFn {
	return l.emitItem(l.thisItem(t))
}

// emitItem passes the specified item to the parser.
func (l *lexer) emitItem(i item) stateFn {
	l.item = i
	return nil
}

// ignore skips over the pending input before this point.
func (l *lexer) ignore() {
	l.line += strings.Count(l.input[l.start:l.pos], "\n")
	l.start = l.pos
	l.startLine = l.line
}

// acceptRun consumes a run of runes from the valid set.
func (l *lexer) acceptRun(valid string) bool {
	accepted := false
	for strings.ContainsRune(valid, l.next()) {
		accepted = true
	}
	l.backup()
	return accepted
}

// isSpace reports whether r separates tokens.
func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r' || r == '\n' || r == eof
}

// lexText scans the leading whitespace and dispatches on the next rune.
func lexText(l *lexer) stateFn {
	l.acceptRun(" \t\r")
	if l.atEOF {
		return l.emit(itemEOF)
	}
	l.ignore()
	switch r := l.peek(); {
	case r == eof:
		return l.emit(itemEOF)
	case r == '\n':
		l.next()
		return l.emit(itemNewline)
	case r == op.CommentChar:
		return lexComment
	default:
		return lexWord
	}
}

// lexWord consumes everything up to the next separator.
// Every rune is valid in a word, unknown names are the parser's concern.
func lexWord(l *lexer) stateFn {
	for {
		r := l.next()
		if isSpace(r) || r == op.CommentChar {
			l.backup()
			break
		}
	}
	i := l.thisItem(itemWord)
	switch {
	case strings.HasSuffix(i.val, string(op.LabelChar)):
		i.typ = itemLabel
		i.val = strings.TrimSuffix(i.val, string(op.LabelChar))
	case IsNumber(i.val):
		i.typ = itemNumber
	}
	return l.emitItem(i)
}

func lexComment(l *lexer) stateFn {
	for {
		r := l.next()
		if r == eof || r == '\n' {
			l.backup()
			break
		}
	}
	i := l.thisItem(itemComment)
	i.val = strings.TrimSpace(i.val)
	return l.emitItem(i)
}

// nextItem returns the next item from the input.
func (l *lexer) nextItem() item {
	l.item = item{itemEOF, l.pos, "EOF", l.startLine}
	state := lexText
	for {
		state = state(l)
		if state == nil {
			return l.item
		}
	}
}

// NewLexer creates a new scanner for the input string.
func NewLexer(name, input string) *lexer {
	return &lexer{
		name:      name,
		input:     input,
		line:      1,
		startLine: 1,
	}
}
