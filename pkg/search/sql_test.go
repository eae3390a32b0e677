package search

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("SQL Generation", func() {
	type testCase struct {
		input string
		sql   string
		args  []any
	}

	tests := []testCase{
		{input: "name = 'a'", sql: "name = ?", args: []any{"a"}},
		{input: "name != 'a'", sql: "name <> ?", args: []any{"a"}},
		{input: "name < 'a'", sql: "name < ?", args: []any{"a"}},
		{input: "name <= 'a'", sql: "name <= ?", args: []any{"a"}},
		{input: "name > 'a'", sql: "name > ?", args: []any{"a"}},
		{input: "name >= 'a'", sql: "name >= ?", args: []any{"a"}},
		{input: "name ~ /^a/", sql: "regexp_matches(name, ?)", args: []any{"^a"}},
		{input: "name !~ /^a/i", sql: "NOT regexp_matches(name, ?)", args: []any{"(?i)^a"}},
		{
			input: "unique_adapters = true",
			sql:   "starts_with(filter, 'INCLUDE OUTDATED: ') = ?",
			args:  []any{true},
		},
		{
			input: "created_at >= '2026-01-02'",
			sql:   "created_at >= ?",
			args:  []any{time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)},
		},
		{
			input: "name = 'a' and namespace = 'b'",
			sql:   "(name = ? AND namespace = ?)",
			args:  []any{"a", "b"},
		},
		{
			input: "name = 'a' or namespace = 'b' and description = 'c'",
			sql:   "(name = ? OR (namespace = ? AND description = ?))",
			args:  []any{"a", "b", "c"},
		},
		{
			input: "not (name = 'a' or name ~ /b/)",
			sql:   "NOT ((name = ? OR regexp_matches(name, ?)))",
			args:  []any{"a", "b"},
		},
	}

	for _, test := range tests {
		test := test
		It("should generate SQL for: "+test.input, func() {
			node, err := Parse(test.input, testFields)
			Expect(err).ToNot(HaveOccurred())

			sql, args, err := node.ToSql()
			Expect(err).ToNot(HaveOccurred())
			Expect(sql).To(Equal(test.sql))
			Expect(args).To(Equal(test.args))
		})
	}

	It("should keep quotes out of the SQL text", func() {
		node, err := Parse(`name = "x' OR '1'='1"`, testFields)
		Expect(err).ToNot(HaveOccurred())

		sql, args, err := node.ToSql()
		Expect(err).ToNot(HaveOccurred())
		Expect(sql).To(Equal("name = ?"))
		Expect(args).To(Equal([]any{"x' OR '1'='1"}))
	})
})
