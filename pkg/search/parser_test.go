package search

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Parser", func() {
	Context("Valid expressions", func() {
		type testCase struct {
			input  string
			output string
		}

		tests := []testCase{
			// comparisons
			{input: "name = 'test'", output: `(name = "test")`},
			{input: `name != "test"`, output: `(name != "test")`},
			{input: "description = ''", output: `(description = "")`},
			{input: "NAME = 'test'", output: `(name = "test")`},
			{input: "name >= 'm'", output: `(name >= "m")`},

			// regexes
			{input: "name ~ /^prod/", output: "(name ~ /^prod/)"},
			{input: "name ~ /prod/i", output: "(name ~ /(?i)prod/)"},
			{input: `name !~ /a\/b/`, output: "(name !~ /a/b/)"},

			// booleans
			{input: "unique_adapters = true", output: "(unique_adapters = true)"},
			{input: "unique_adapters != FALSE", output: "(unique_adapters != false)"},

			// times
			{input: "created_at >= '2026-01-02'", output: `(created_at >= "2026-01-02T00:00:00Z")`},
			{input: "updated_at < '2026-01-02T10:30:00Z'", output: `(updated_at < "2026-01-02T10:30:00Z")`},
			{input: "updated_at > '2026-01-02 10:30:00'", output: `(updated_at > "2026-01-02T10:30:00Z")`},

			// precedence
			{
				input:  "name = 'a' and namespace = 'b' or description = 'c'",
				output: `(((name = "a") and (namespace = "b")) or (description = "c"))`,
			},
			{
				input:  "name = 'a' or namespace = 'b' and description = 'c'",
				output: `((name = "a") or ((namespace = "b") and (description = "c")))`,
			},
			{
				input:  "(name = 'a' or namespace = 'b') and description = 'c'",
				output: `(((name = "a") or (namespace = "b")) and (description = "c"))`,
			},

			// negation
			{input: "not name = 'a'", output: `(not (name = "a"))`},
			{input: "not (name = 'a' or name = 'b')", output: `(not ((name = "a") or (name = "b")))`},
			{input: "not not name = 'a'", output: `(not (not (name = "a")))`},
		}

		for _, test := range tests {
			test := test
			It("should parse: "+test.input, func() {
				node, err := Parse(test.input, testFields)
				Expect(err).ToNot(HaveOccurred())
				Expect(node.String()).To(Equal(test.output))
			})
		}
	})

	Context("Invalid expressions", func() {
		type testCase struct {
			input    string
			position int
			message  string
		}

		tests := []testCase{
			{input: "", position: 0, message: "expected field name instead of end of input"},
			{input: "bogus = 'a'", position: 0, message: `unknown field "bogus"`},
			{input: "name 'a'", position: 5, message: "expected operator instead of string"},
			{input: "name = ", position: 7, message: "expected string instead of end of input"},
			{input: "name = true", position: 7, message: "expected string instead of boolean"},
			{input: "name = /a/", position: 7, message: "regex needs ~ or !~ instead of ="},
			{input: "name ~ 'a'", position: 7, message: "expected regex instead of string"},
			{input: "name ~ /(/", position: 7, message: "invalid regex"},
			{input: "created_at ~ /a/", position: 13, message: "operator ~ needs a text field, created_at is time"},
			{input: "created_at > 'yesterday'", position: 13, message: `invalid time "yesterday" for created_at`},
			{input: "unique_adapters > true", position: 18, message: "operator > does not apply to unique_adapters"},
			{input: "unique_adapters = 'yes'", position: 18, message: "expected boolean instead of string"},
			{input: "(name = 'a'", position: 11, message: "expected ) instead of end of input"},
			{input: "name = 'a' name = 'b'", position: 11, message: "expected end of input instead of field name"},
			{input: "name = 'a' and", position: 14, message: "expected field name instead of end of input"},
			{input: "name = 'unclosed", position: 7, message: "unclosed string"},
			{input: "name # 'a'", position: 5, message: "unexpected char"},
		}

		for _, test := range tests {
			test := test
			It("should reject: "+test.input, func() {
				node, err := Parse(test.input, testFields)
				Expect(node).To(BeNil())

				var pe ParseError
				Expect(errors.As(err, &pe)).To(BeTrue())
				Expect(pe.Position).To(Equal(test.position))
				Expect(pe.Message).To(ContainSubstring(test.message))
			})
		}
	})

	It("should list the known fields for an unknown identifier", func() {
		_, err := Parse("owner = 'me'", testFields)
		Expect(err).To(MatchError(ContainSubstring("expected one of name, namespace, description")))
	})
})
