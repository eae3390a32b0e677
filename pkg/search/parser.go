package search

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"
)

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseError is the type of error returned by Parse.
type ParseError struct {
	// Source column position where the error occurred.
	Position int
	// Error message.
	Message string
}

// Error returns a formatted version of the error, including the position.
func (e ParseError) Error() string {
	return fmt.Sprintf("parse error at %d: %s", e.Position, e.Message)
}

type parser struct {
	lexer  *lexer
	fields Fields
	pos    int       // position of last token (tok)
	tok    tokenKind // last lexed token
	val    string    // string value of last token (or "")
}

// Parse reads a filter whose identifiers are resolved against fields.
//
// The recursive-descent methods panic with a ParseError, which is recovered
// here and returned. Any other panic is re-raised.
func Parse(src string, fields Fields) (node Node, err error) {
	defer func() {
		if r := recover(); r != nil {
			if pe, ok := r.(ParseError); ok {
				node = nil
				err = pe
			} else {
				panic(r)
			}
		}
	}()

	p := parser{lexer: newLexer([]byte(src)), fields: fields}
	p.next()

	node = p.expression()
	p.expect(tokEOF)

	return node, err
}

// expression parses a logic expression.
//
// term ( "or" term )*
func (p *parser) expression() Node {
	node := p.term()

	for p.matches(tokOr) {
		p.next()
		node = &logicalNode{Left: node, Op: tokOr, Right: p.term()}
	}

	return node
}

// term parses an AND expression.
//
// factor ( "and" factor )*
func (p *parser) term() Node {
	node := p.factor()

	for p.matches(tokAnd) {
		p.next()
		node = &logicalNode{Left: node, Op: tokAnd, Right: p.factor()}
	}

	return node
}

// factor parses a negation, a grouped expression or a single comparison.
//
// "not" factor | "(" expression ")" | comparison
func (p *parser) factor() Node {
	switch {
	case p.matches(tokNot):
		p.next()
		return &notNode{Inner: p.factor()}
	case p.matches(tokLParen):
		p.next()
		node := p.expression()
		p.expect(tokRParen)
		p.next()
		return node
	}

	return p.comparison()
}

// comparison parses a field, an operator and the value that fits the field.
//
// IDENTIFIER ( "=" | "!=" | "<" | "<=" | ">" | ">=" | "~" | "!~" ) value
func (p *parser) comparison() Node {
	p.expect(tokIdent)
	field, ok := p.fields.Lookup(p.val)
	if !ok {
		panic(p.errorf("unknown field %q, expected one of %s", p.val, strings.Join(p.fields.Names(), ", ")))
	}
	p.next()

	op := p.tok
	if !op.isComparison() {
		panic(p.errorf("expected operator instead of %s", p.tok))
	}
	p.next()

	node := p.value(field, op)
	p.next()
	return node
}

// value checks the current token against the field kind and operator.
func (p *parser) value(field Field, op tokenKind) Node {
	if op.isRegexMatch() {
		if field.Kind != KindText {
			panic(p.errorf("operator %s needs a text field, %s is %s", op, field.Name, field.Kind))
		}
		p.expect(tokRegex)
		if _, err := regexp.Compile(p.val); err != nil {
			panic(p.errorf("invalid regex: %s", err))
		}
		return &regexNode{Field: field, Pattern: p.val, Negate: op == tokNotMatch}
	}

	if p.tok == tokRegex {
		panic(p.errorf("regex needs ~ or !~ instead of %s", op))
	}

	switch field.Kind {
	case KindBool:
		if op != tokEq && op != tokNe {
			panic(p.errorf("operator %s does not apply to %s", op, field.Name))
		}
		p.expect(tokBool)
		return &comparisonNode{Field: field, Op: op, Value: strings.EqualFold(p.val, "true")}
	case KindTime:
		p.expect(tokString)
		t, err := parseTime(p.val)
		if err != nil {
			panic(p.errorf("invalid time %q for %s", p.val, field.Name))
		}
		return &comparisonNode{Field: field, Op: op, Value: t}
	default:
		p.expect(tokString)
		return &comparisonNode{Field: field, Op: op, Value: p.val}
	}
}

func parseTime(s string) (time.Time, error) {
	var err error
	for _, layout := range timeLayouts {
		var t time.Time
		if t, err = time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}

// next parses the next token into p.tok.
func (p *parser) next() {
	p.pos, p.tok, p.val = p.lexer.Scan()
	if p.tok == tokIllegal {
		panic(p.errorf("%s", p.val))
	}
}

// matches returns true if current token matches one of the given tokens.
func (p *parser) matches(tokens ...tokenKind) bool {
	return slices.Contains(tokens, p.tok)
}

// expect panics if current token is not the expected token.
func (p *parser) expect(tok tokenKind) {
	if p.tok != tok {
		panic(p.errorf("expected %s instead of %s", tok, p.tok))
	}
}

// errorf formats an error with the current position.
func (p *parser) errorf(format string, args ...any) error {
	message := fmt.Sprintf(format, args...)
	return ParseError{p.pos, message}
}
