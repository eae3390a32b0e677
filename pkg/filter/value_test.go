package filter

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Values", func() {
	Context("formatNumber", func() {
		type testCase struct {
			name   string
			input  float64
			output string
		}

		tests := []testCase{
			{name: "integer", input: 42, output: "42"},
			{name: "fraction", input: 1.5, output: "1.5"},
			{name: "negative zero", input: math.Copysign(0, -1), output: "0"},
			{name: "large", input: 1e21, output: "1e+21"},
			{name: "just below the exponent range", input: 1e20, output: "100000000000000000000"},
			{name: "small", input: 1.5e-7, output: "1.5e-7"},
			{name: "negative small", input: -2e-10, output: "-2e-10"},
			{name: "micro", input: 0.000001, output: "0.000001"},
			{name: "not a number", input: math.NaN(), output: "NaN"},
			{name: "infinity", input: math.Inf(-1), output: "-Infinity"},
		}

		for _, test := range tests {
			test := test
			It("should format "+test.name, func() {
				Expect(formatNumber(test.input)).To(Equal(test.output))
			})
		}
	})

	Context("isNaN", func() {
		It("should accept finite numbers and blank text", func() {
			Expect(isNaN("12")).To(BeFalse())
			Expect(isNaN(" 1.5 ")).To(BeFalse())
			Expect(isNaN("")).To(BeFalse())
		})

		It("should reject text and non finite spellings", func() {
			for _, s := range []string{"a", "NaN", "inf", "-Infinity", "1e999"} {
				Expect(isNaN(s)).To(BeTrue(), s)
			}
		})
	})
})
