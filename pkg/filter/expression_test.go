package filter

import (
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	srvErrors "github.com/kubev2v/aql-compiler/pkg/errors"
)

var _ = Describe("Expression", func() {
	const cond = `(f == "x")`

	Context("Leaf composition", func() {
		type testCase struct {
			name    string
			node    Expression
			isFirst bool
			output  Fragment
		}

		tests := []testCase{
			{
				name: "first node", node: Expression{Field: "f", CompOp: OpEquals, LogicOp: LogicAnd}, isFirst: true,
				output: Fragment{Filter: cond},
			},
			{
				name: "connector", node: Expression{Field: "f", CompOp: OpEquals, LogicOp: LogicOr},
				output: Fragment{Filter: `or (f == "x")`},
			},
			{
				name: "negation", node: Expression{Field: "f", CompOp: OpEquals, Not: true}, isFirst: true,
				output: Fragment{Filter: `not (f == "x")`},
			},
			{
				name: "left bracket", node: Expression{Field: "f", CompOp: OpEquals, LogicOp: LogicAnd, LeftBracket: true, Not: true},
				output: Fragment{Filter: `and (not (f == "x")`, BracketWeight: -1},
			},
			{
				name: "right bracket", node: Expression{Field: "f", CompOp: OpEquals, LogicOp: LogicAnd, RightBracket: true},
				output: Fragment{Filter: `and (f == "x"))`, BracketWeight: 1},
			},
			{
				name: "both brackets", node: Expression{Field: "f", CompOp: OpEquals, LeftBracket: true, RightBracket: true}, isFirst: true,
				output: Fragment{Filter: `((f == "x"))`},
			},
			{
				name: "no field", node: Expression{CompOp: OpEquals, LeftBracket: true}, isFirst: true,
				output: Fragment{},
			},
			{
				name: "saved query", node: Expression{Field: SavedQueryField, Value: "5f1a"}, isFirst: true,
				output: Fragment{Filter: "{{QueryID=5f1a}}"},
			},
		}

		for _, test := range tests {
			test := test
			It("should compose "+test.name, func() {
				frag, err := CompileExpression(&test.node, cond, test.isFirst, nil)
				Expect(err).ToNot(HaveOccurred())
				Expect(frag).To(Equal(test.output))
			})
		}

		It("should require a connector after the first node", func() {
			_, err := CompileExpression(&Expression{Field: "f", CompOp: OpEquals}, cond, false, nil)
			Expect(srvErrors.IsValidationError(err)).To(BeTrue())
			Expect(err.Error()).To(Equal("Logical operator is needed to add expression to the filter"))
		})
	})

	Context("Nested contexts", func() {
		It("should match nested documents", func() {
			node := Expression{Field: "specific_data.data.port_access", Context: NodeContext{Kind: KindNestedObject}}
			frag, err := CompileExpression(&node, "", true, []Fragment{{Filter: `(port_mode == "singleHost")`}})
			Expect(err).ToNot(HaveOccurred())
			Expect(frag.Filter).To(Equal(`(specific_data.data.port_access == match([(port_mode == "singleHost")]))`))
		})

		It("should exclude filtered adapters from nested documents", func() {
			node := Expression{
				Field:            "specific_data.data.network_interfaces",
				FieldType:        GeneralNamespace,
				Context:          NodeContext{Kind: KindNestedObject},
				FilteredAdapters: []string{"esx_adapter"},
			}
			frag, err := CompileExpression(&node, "", true, []Fragment{{Filter: `(mac == "1")`}})
			Expect(err).ToNot(HaveOccurred())
			Expect(frag.Filter).To(Equal(
				`(specific_data == match([not (plugin_name in ["esx_adapter"]) and (data.network_interfaces == match([(mac == "1")]))]))`))
		})

		It("should scope children to one adapter", func() {
			node := Expression{Field: "adapters_data.active_directory_adapter", Context: ParseContext("active_directory_adapter")}
			frag, err := CompileExpression(&node, "", true, []Fragment{{Filter: `(data.connection_label == "or ad")`}})
			Expect(err).ToNot(HaveOccurred())
			Expect(frag.Filter).To(Equal(
				`specific_data == match([plugin_name == 'active_directory_adapter' and (data.connection_label == "or ad")])`))
		})

		It("should group several adapter children", func() {
			node := Expression{Field: "adapters_data.aws_adapter", Context: ParseContext("aws_adapter"), Not: true}
			frag, err := CompileExpression(&node, "", true, []Fragment{{Filter: `(data.a == "1")`}, {Filter: `or (data.b == "2")`}})
			Expect(err).ToNot(HaveOccurred())
			Expect(frag.Filter).To(Equal(
				`not specific_data == match([plugin_name == 'aws_adapter' and ((data.a == "1") or (data.b == "2"))])`))
		})

		It("should drop a context without children", func() {
			node := Expression{Field: "specific_data.data.port_access", Context: NodeContext{Kind: KindNestedObject}, LogicOp: LogicAnd}
			Expect(CompileExpression(&node, "", false, []Fragment{{}})).To(Equal(Fragment{}))
		})

		It("should reject unbalanced children", func() {
			node := Expression{Field: "specific_data.data.port_access", Context: NodeContext{Kind: KindNestedObject}}
			_, err := CompileExpression(&node, "", true, []Fragment{{Filter: `((a == "1")`, BracketWeight: -1}})
			Expect(err).To(MatchError("Missing right bracket"))
		})
	})

	Context("Field comparison", func() {
		const (
			first  = "adapters_data.esx_adapter.last_seen"
			second = "adapters_data.active_directory_adapter.last_seen"
		)

		type testCase struct {
			name     string
			compOp   string
			not      bool
			subvalue Value
			output   string
		}

		tests := []testCase{
			{name: "equals", compOp: OpEquals, output: `COMPARE_FIELDS == {"Eq": ["` + first + `", "` + second + `"]}`},
			{name: "not equals", compOp: OpEquals, not: true, output: `COMPARE_FIELDS == {"NotEq": ["` + first + `", "` + second + `"]}`},
			{name: "greater", compOp: ">", output: `COMPARE_FIELDS == {"Gt": ["` + first + `", "` + second + `"]}`},
			{name: "not greater", compOp: ">", not: true, output: `COMPARE_FIELDS == {"LtE": ["` + first + `", "` + second + `"]}`},
			{name: "not less or equal", compOp: "<=", not: true, output: `COMPARE_FIELDS == {"Gt": ["` + first + `", "` + second + `"]}`},
			{
				name: "days before", compOp: "<Days", subvalue: "3",
				output: `MULTI_COMPARE_FIELDS == {"Lt": 3, "Add": ["` + first + `", "` + second + `"]}`,
			},
			{
				name: "negated days after", compOp: ">Days", subvalue: "-2", not: true,
				output: `not (MULTI_COMPARE_FIELDS == {"Gt": 2, "Sub": ["` + first + `", "` + second + `"]})`,
			},
		}

		for _, test := range tests {
			test := test
			It("should compare "+test.name, func() {
				node := Expression{
					Field:    first,
					Value:    second,
					Subvalue: test.subvalue,
					CompOp:   test.compOp,
					Not:      test.not,
					LogicOp:  LogicAnd,
					Context:  NodeContext{Kind: KindRawComparison},
				}
				frag, err := CompileExpression(&node, "", false, nil)
				Expect(err).ToNot(HaveOccurred())
				Expect(frag.Filter).To(Equal("and " + test.output))
			})
		}

		It("should omit the connector of an incomplete comparison", func() {
			node := Expression{Field: first, CompOp: "<Days", Value: second, LogicOp: LogicAnd, LeftBracket: true, Context: NodeContext{Kind: KindRawComparison}}
			Expect(CompileExpression(&node, "", false, nil)).To(Equal(Fragment{Filter: "(", BracketWeight: -1}))
		})
	})

	Context("Size operators", func() {
		It("should compile more than zero elements", func() {
			node := Expression{Field: "adapters", CompOp: OpSizeGt, Value: "0"}
			Expect(CompileExpression(&node, "", true, nil)).To(Equal(Fragment{
				Filter: `(adapters == exists(true) and adapters != [] and not (adapters == size(0)))`,
			}))
		})

		It("should compile more than two elements", func() {
			node := Expression{Field: "labels", CompOp: OpSizeGt, Value: "2"}
			frag, err := CompileExpression(&node, "", true, nil)
			Expect(err).ToNot(HaveOccurred())
			Expect(frag.Filter).To(Equal(
				`(labels == exists(true) and labels != [] and not (labels == size(0)) and not (labels == size(1)) and not (labels == size(2)))`))
		})

		It("should compile fewer than three elements", func() {
			node := Expression{Field: "adapters", CompOp: OpSizeLt, Value: "3"}
			frag, err := CompileExpression(&node, "", true, nil)
			Expect(err).ToNot(HaveOccurred())
			Expect(frag.Filter).To(Equal(`(adapters == size(0) or adapters == size(1) or adapters == size(2))`))
		})

		It("should use the condition on fields outside the allow-list", func() {
			node := Expression{Field: "specific_data.data.hostnames", CompOp: OpSizeGt, Value: "2"}
			Expect(CompileExpression(&node, cond, true, nil)).To(Equal(Fragment{Filter: cond}))
		})

		type testCase struct {
			compOp string
			value  Value
		}

		for _, test := range []testCase{
			{compOp: OpSizeGt, value: "11"},
			{compOp: OpSizeGt, value: "-1"},
			{compOp: OpSizeGt, value: "many"},
			{compOp: OpSizeLt, value: "0"},
			{compOp: OpSizeLt, value: "11"},
		} {
			test := test
			It("should reject "+test.compOp+" "+test.value.String(), func() {
				node := Expression{Field: "adapters", CompOp: test.compOp, Value: test.value}
				_, err := CompileExpression(&node, "", true, nil)
				Expect(err).To(MatchError("Value must be between 0 to 10"))
			})
		}
	})

	Context("JSON", func() {
		It("should decode the wire form", func() {
			var node Expression
			data := `{"field": "specific_data.data.port_access", "compOp": "", "value": 5, "not": false,
				"logicOp": "and", "leftBracket": true, "rightBracket": false, "context": "OBJ",
				"children": [{"field": "port_mode", "compOp": "equals", "value": "singleHost", "context": null}]}`
			Expect(json.Unmarshal([]byte(data), &node)).To(Succeed())
			Expect(node.Context.Kind).To(Equal(KindNestedObject))
			Expect(node.Value).To(Equal(Value("5")))
			Expect(node.Children).To(HaveLen(1))
			Expect(node.Children[0].Context.IsSet()).To(BeFalse())
		})

		It("should decode list values", func() {
			var v Value
			Expect(json.Unmarshal([]byte(`["a", "b,c", 3]`), &v)).To(Succeed())
			Expect(v).To(Equal(Value(`a,b\,c,3`)))
		})

		It("should encode contexts as strings", func() {
			data, err := json.Marshal(ParseContext("aws_adapter"))
			Expect(err).ToNot(HaveOccurred())
			Expect(string(data)).To(Equal(`"aws_adapter"`))
			Expect(ParseContext("CMP").Kind).To(Equal(KindRawComparison))
		})
	})

	Context("CheckBrackets", func() {
		It("should accept balanced weights", func() {
			Expect(CheckBrackets(nil)).To(Succeed())
			Expect(CheckBrackets([]int{-1, 0, 1})).To(Succeed())
			Expect(CheckBrackets([]int{-1, -1, 1, 1})).To(Succeed())
		})

		It("should reject a right bracket before its left one", func() {
			Expect(CheckBrackets([]int{1, -1})).To(MatchError("Missing left bracket"))
		})

		It("should reject an unclosed left bracket", func() {
			Expect(CheckBrackets([]int{-1, 0})).To(MatchError("Missing right bracket"))
		})
	})
})
