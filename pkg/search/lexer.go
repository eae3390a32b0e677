package search

import "strings"

const foldCaseFlag = "(?i)"

// tokenKind is the lexical class of a token. Comparison operators are kept
// contiguous so isComparison is a range check.
type tokenKind uint8

const (
	tokIllegal tokenKind = iota
	tokEOF
	tokAnd
	tokOr
	tokNot
	tokLParen
	tokRParen

	tokEq
	tokNe
	tokLt
	tokLe
	tokGt
	tokGe
	tokMatch
	tokNotMatch

	tokString
	tokRegex
	tokIdent
	tokBool
)

// tokenText is how a token is written in source and in error messages.
var tokenText = [...]string{
	tokIllegal:  "illegal input",
	tokEOF:      "end of input",
	tokAnd:      "and",
	tokOr:       "or",
	tokNot:      "not",
	tokLParen:   "(",
	tokRParen:   ")",
	tokEq:       "=",
	tokNe:       "!=",
	tokLt:       "<",
	tokLe:       "<=",
	tokGt:       ">",
	tokGe:       ">=",
	tokMatch:    "~",
	tokNotMatch: "!~",
	tokString:   "string",
	tokRegex:    "regex",
	tokIdent:    "field name",
	tokBool:     "boolean",
}

func (k tokenKind) String() string {
	return tokenText[k]
}

func (k tokenKind) isComparison() bool {
	return k >= tokEq && k <= tokNotMatch
}

func (k tokenKind) isRegexMatch() bool {
	return k == tokMatch || k == tokNotMatch
}

var keywords = map[string]tokenKind{
	"and":   tokAnd,
	"or":    tokOr,
	"not":   tokNot,
	"true":  tokBool,
	"false": tokBool,
}

// punctuation maps operator spellings to their kind. Two character
// spellings are tried first.
var punctuation = map[string]tokenKind{
	"(":  tokLParen,
	")":  tokRParen,
	"=":  tokEq,
	"!=": tokNe,
	"<":  tokLt,
	"<=": tokLe,
	">":  tokGt,
	">=": tokGe,
	"~":  tokMatch,
	"!~": tokNotMatch,
}

type lexer struct {
	src     []byte
	ch      byte
	offset  int
	pos     int
	nextPos int
}

func newLexer(src []byte) *lexer {
	l := &lexer{src: src}
	l.next()

	return l
}

// Scan returns the position, kind and value of the next token. The value is
// set for identifiers, literals and booleans, and holds the message of an
// illegal token.
func (l *lexer) Scan() (int, tokenKind, string) {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.next()
	}

	pos := l.pos
	switch ch := l.ch; {
	case ch == 0:
		return pos, tokEOF, ""
	case isIdentifierStart(ch):
		name := l.word()
		if kind, ok := keywords[strings.ToLower(name)]; ok {
			if kind == tokBool {
				return pos, kind, name
			}
			return pos, kind, ""
		}
		return pos, tokIdent, name
	case ch == '"' || ch == '\'':
		l.next()
		val, ok := l.quoted(ch)
		if !ok {
			return pos, tokIllegal, "unclosed string"
		}
		return pos, tokString, val
	case ch == '/':
		l.next()
		val, ok := l.quoted('/')
		if !ok {
			return pos, tokIllegal, "unclosed regex"
		}
		if l.ch == 'i' && !isIdentifierChar(l.peek()) {
			l.next()
			val = foldCaseFlag + val
		}
		return pos, tokRegex, val
	}

	if kind, ok := punctuation[string([]byte{l.ch, l.peek()})]; ok {
		l.next()
		l.next()
		return pos, kind, ""
	}
	if kind, ok := punctuation[string(l.ch)]; ok {
		l.next()
		return pos, kind, ""
	}
	l.next()
	return pos, tokIllegal, "unexpected char"
}

// word consumes an identifier or keyword starting at l.ch.
func (l *lexer) word() string {
	start := l.offset - 1
	for isIdentifierChar(l.ch) {
		l.next()
	}
	return string(l.src[start : l.offset-1])
}

// quoted consumes text up to and including the closing delim. A backslash
// before delim escapes it; other backslashes are kept.
func (l *lexer) quoted(delim byte) (string, bool) {
	var b strings.Builder
	for l.ch != delim {
		if l.ch == 0 {
			return "", false
		}
		if l.ch == '\\' && l.peek() == delim {
			l.next()
		}
		b.WriteByte(l.ch)
		l.next()
	}
	l.next()
	return b.String(), true
}

// next loads the next character into l.ch, or 0 at the end of input.
func (l *lexer) next() {
	l.pos = l.nextPos
	if l.offset >= len(l.src) {
		// step one past the end once so offset-1 is the end of the last token
		if l.ch != 0 {
			l.ch = 0
			l.offset++
			l.nextPos++
		}
		return
	}
	l.ch = l.src[l.offset]
	l.nextPos++
	l.offset++
}

// peek returns the character after l.ch, or 0 at the end of input.
func (l *lexer) peek() byte {
	if l.offset < len(l.src) {
		return l.src[l.offset]
	}
	return 0
}

func isIdentifierStart(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}

func isIdentifierChar(ch byte) bool {
	return isIdentifierStart(ch) || (ch >= '0' && ch <= '9') || ch == '.'
}
