package search

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Lexer", func() {
	Context("Scan", func() {
		type testCase struct {
			input  string
			output string
		}

		tests := []testCase{
			// operators
			{input: "=", output: "=, end of input"},
			{input: "!=", output: "!=, end of input"},
			{input: "<", output: "<, end of input"},
			{input: "<=", output: "<=, end of input"},
			{input: ">", output: ">, end of input"},
			{input: ">=", output: ">=, end of input"},
			{input: "~", output: "~, end of input"},
			{input: "!~", output: "!~, end of input"},
			{input: "=!=<<=>>=~!~", output: "=, !=, <, <=, >, >=, ~, !~, end of input"},

			// keywords
			{input: "and or not", output: "and, or, not, end of input"},
			{input: "AND Or NOT", output: "and, or, not, end of input"},
			{input: "true FALSE", output: "boolean, boolean, end of input"},

			// brackets
			{input: "()", output: "(, ), end of input"},
			{input: "( )", output: "(, ), end of input"},

			// literals
			{input: "'test'", output: "string, end of input"},
			{input: `"hello world"`, output: "string, end of input"},
			{input: "''", output: "string, end of input"},
			{input: "'unclosed", output: "illegal input, end of input"},
			{input: "/^prod/", output: "regex, end of input"},
			{input: "/^prod/i", output: "regex, end of input"},
			{input: "/unclosed", output: "illegal input, end of input"},

			// identifiers
			{input: "name", output: "field name, end of input"},
			{input: "created_at", output: "field name, end of input"},
			{input: "_x.y2", output: "field name, end of input"},
			{input: "android", output: "field name, end of input"},
			{input: "notes", output: "field name, end of input"},

			// whitespace and stray characters
			{input: "", output: "end of input"},
			{input: " \t\r\n", output: "end of input"},
			{input: "#", output: "illegal input, end of input"},
			{input: "!", output: "illegal input, end of input"},

			// full expressions
			{input: "name = 'x'", output: "field name, =, string, end of input"},
			{
				input:  "not (name ~ /a/ or updated_at >= '2026-01-01')",
				output: "not, (, field name, ~, regex, or, field name, >=, string, ), end of input",
			},
			{input: "/ab/in", output: "regex, field name, end of input"},
		}

		for _, test := range tests {
			test := test
			It("should scan: "+test.input, func() {
				Expect(scanAll(test.input)).To(Equal(test.output))
			})
		}
	})

	Context("Values", func() {
		type testCase struct {
			input string
			tok   tokenKind
			value string
		}

		tests := []testCase{
			{input: "Name", tok: tokIdent, value: "Name"},
			{input: "'hello world'", tok: tokString, value: "hello world"},
			{input: `'it\'s'`, tok: tokString, value: "it's"},
			{input: `"say \"hi\""`, tok: tokString, value: `say "hi"`},
			{input: `'a\b'`, tok: tokString, value: `a\b`},
			{input: `/a\/b/`, tok: tokRegex, value: "a/b"},
			{input: "/^prod/i", tok: tokRegex, value: "(?i)^prod"},
			{input: "/ab/in", tok: tokRegex, value: "ab"},
			{input: "True", tok: tokBool, value: "True"},
		}

		for _, test := range tests {
			test := test
			It("should read the value of: "+test.input, func() {
				_, tok, val := newLexer([]byte(test.input)).Scan()
				Expect(tok).To(Equal(test.tok))
				Expect(val).To(Equal(test.value))
			})
		}
	})

	It("should report token positions", func() {
		l := newLexer([]byte("name = 'x'"))

		pos, tok, _ := l.Scan()
		Expect(pos).To(Equal(0))
		Expect(tok).To(Equal(tokIdent))

		pos, tok, _ = l.Scan()
		Expect(pos).To(Equal(5))
		Expect(tok).To(Equal(tokEq))

		pos, tok, _ = l.Scan()
		Expect(pos).To(Equal(7))
		Expect(tok).To(Equal(tokString))

		_, tok, _ = l.Scan()
		Expect(tok).To(Equal(tokEOF))
	})
})
