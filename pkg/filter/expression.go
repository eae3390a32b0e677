package filter

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	srvErrors "github.com/kubev2v/aql-compiler/pkg/errors"
)

const (
	errMissingLogicOp = "Logical operator is needed to add expression to the filter"
	errSizeRange      = "Value must be between 0 to 10"

	maxSizeBound = 10

	// SavedQueryField references another saved query by id.
	SavedQueryField = "saved_query"

	compareFieldsMagic      = "COMPARE_FIELDS"
	multiCompareFieldsMagic = "MULTI_COMPARE_FIELDS"
)

// NodeKind tells how an expression node is compiled.
type NodeKind int

const (
	KindLeaf NodeKind = iota
	KindNestedObject
	KindAdapterScoped
	KindRawComparison
)

const (
	contextObject     = "OBJ"
	contextComparison = "CMP"
)

// NodeContext is the kind of a node plus, for adapter scoped nodes, the adapter name.
// On the wire it is a single string: "", "OBJ", "CMP" or the adapter name.
type NodeContext struct {
	Kind    NodeKind
	Adapter string
}

func ParseContext(s string) NodeContext {
	switch s {
	case "":
		return NodeContext{Kind: KindLeaf}
	case contextObject:
		return NodeContext{Kind: KindNestedObject}
	case contextComparison:
		return NodeContext{Kind: KindRawComparison}
	default:
		return NodeContext{Kind: KindAdapterScoped, Adapter: s}
	}
}

func (c NodeContext) String() string {
	switch c.Kind {
	case KindNestedObject:
		return contextObject
	case KindRawComparison:
		return contextComparison
	case KindAdapterScoped:
		return c.Adapter
	}
	return ""
}

// IsSet reports whether the node carries a context, ie it is not a plain leaf.
func (c NodeContext) IsSet() bool {
	return c.Kind != KindLeaf
}

func (c NodeContext) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *NodeContext) UnmarshalJSON(data []byte) error {
	var s *string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == nil {
		*c = NodeContext{}
		return nil
	}
	*c = ParseContext(*s)
	return nil
}

type LogicOp string

const (
	LogicAnd LogicOp = "and"
	LogicOr  LogicOp = "or"
)

// Expression is one node of the visual query tree.
type Expression struct {
	// ID identifies the node across compile passes. Nodes without one are
	// identified by position.
	ID               string       `json:"id,omitempty"`
	Field            string       `json:"field"`
	FieldType        string       `json:"fieldType,omitempty"`
	CompOp           string       `json:"compOp"`
	Value            Value        `json:"value"`
	Subvalue         Value        `json:"subvalue,omitempty"`
	Not              bool         `json:"not"`
	LogicOp          LogicOp      `json:"logicOp,omitempty"`
	LeftBracket      bool         `json:"leftBracket"`
	RightBracket     bool         `json:"rightBracket"`
	Context          NodeContext  `json:"context"`
	Children         []Expression `json:"children,omitempty"`
	FilteredAdapters []string     `json:"filteredAdapters,omitempty"`
}

// Fragment is the compiled form of one node: its filter text and the net
// bracket weight it contributes (+1 per right bracket, -1 per left bracket).
type Fragment struct {
	Filter        string `json:"filter"`
	BracketWeight int    `json:"bracketWeight"`
}

// CompileExpression composes node from its precompiled leaf condition and
// the fragments of its children. isFirst suppresses the logical connector.
func (t *OperatorTable) CompileExpression(node *Expression, condition string, isFirst bool, children []Fragment) (Fragment, error) {
	if node.Field == "" {
		return Fragment{}, nil
	}
	childFilter, childWeight := joinFragments(children)
	if node.Context.IsSet() && node.Context.Kind != KindRawComparison && childFilter == "" {
		return Fragment{}, nil
	}

	if !isFirst && node.LogicOp == "" {
		return Fragment{}, srvErrors.NewValidationError(errMissingLogicOp)
	}
	if err := CheckBrackets(weights(children)); err != nil {
		return Fragment{}, err
	}

	var body string
	omitConnector := false
	switch node.Context.Kind {
	case KindNestedObject:
		body = "(" + ExcludedAdaptersFilter(node.FieldType, node.Field, node.FilteredAdapters, func(field string) string {
			return fmt.Sprintf("%s == match([%s])", field, childFilter)
		}) + ")"
	case KindAdapterScoped:
		if nonEmpty(children) > 1 {
			childFilter = "(" + childFilter + ")"
		}
		body = fmt.Sprintf("specific_data == match([plugin_name == '%s' and %s])", node.Context.Adapter, childFilter)
	case KindRawComparison:
		body = rawComparison(node)
		omitConnector = body == ""
	default:
		switch {
		case t.IsSizeField(node.Field) && (node.CompOp == OpSizeGt || node.CompOp == OpSizeLt):
			var err error
			if body, err = sizeComparison(node.Field, node.CompOp, node.Value.String()); err != nil {
				return Fragment{}, err
			}
		case node.Field == SavedQueryField:
			body = fmt.Sprintf("{{QueryID=%s}}", node.Value)
		default:
			body = condition
		}
	}

	var b strings.Builder
	weight := childWeight
	if !isFirst && !omitConnector {
		b.WriteString(string(node.LogicOp))
		b.WriteString(" ")
	}
	if node.LeftBracket {
		b.WriteString("(")
		weight--
	}
	if node.Not && node.Context.Kind != KindRawComparison {
		b.WriteString("not ")
	}
	b.WriteString(body)
	if node.RightBracket {
		b.WriteString(")")
		weight++
	}
	return Fragment{Filter: b.String(), BracketWeight: weight}, nil
}

// CompileExpression composes with the default table.
func CompileExpression(node *Expression, condition string, isFirst bool, children []Fragment) (Fragment, error) {
	return defaultTable.CompileExpression(node, condition, isFirst, children)
}

func joinFragments(fragments []Fragment) (string, int) {
	parts := make([]string, 0, len(fragments))
	weight := 0
	for _, f := range fragments {
		weight += f.BracketWeight
		if f.Filter != "" {
			parts = append(parts, f.Filter)
		}
	}
	return strings.Join(parts, " "), weight
}

func nonEmpty(fragments []Fragment) int {
	n := 0
	for _, f := range fragments {
		if f.Filter != "" {
			n++
		}
	}
	return n
}

func weights(fragments []Fragment) []int {
	w := make([]int, len(fragments))
	for i, f := range fragments {
		w[i] = f.BracketWeight
	}
	return w
}

var (
	compareOperators = map[string]string{
		OpEquals: "Eq",
		">":      "Gt",
		"<":      "Lt",
		">=":     "GtE",
		"<=":     "LtE",
	}
	negatedCompareOperators = map[string]string{
		"Eq":  "NotEq",
		"Gt":  "LtE",
		"Lt":  "GtE",
		"GtE": "Lt",
		"LtE": "Gt",
	}
	daysCompareOperators = map[string]string{
		"<Days": "Lt",
		">Days": "Gt",
	}
)

// rawComparison renders a field to field comparison. The node field is
// compared with the field named by its value. An empty result means the
// comparison is not complete yet.
func rawComparison(node *Expression) string {
	other := node.Value.String()
	if other == "" {
		return ""
	}
	if op, ok := compareOperators[node.CompOp]; ok {
		if node.Not {
			op = negatedCompareOperators[op]
		}
		return fmt.Sprintf(`%s == {"%s": ["%s", "%s"]}`, compareFieldsMagic, op, node.Field, other)
	}
	op, ok := daysCompareOperators[node.CompOp]
	if !ok {
		return ""
	}
	sub := strings.TrimSpace(node.Subvalue.String())
	days, err := strconv.ParseFloat(sub, 64)
	if sub == "" || err != nil {
		return ""
	}
	arith := "Add"
	if days < 0 {
		arith = "Sub"
	}
	cond := fmt.Sprintf(`%s == {"%s": %s, "%s": ["%s", "%s"]}`,
		multiCompareFieldsMagic, op, formatNumber(math.Abs(days)), arith, node.Field, other)
	if node.Not {
		return "not (" + cond + ")"
	}
	return cond
}

// sizeComparison renders "more than n elements" and "fewer than n elements"
// as chains of size() checks.
func sizeComparison(field string, compOp string, value string) (string, error) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return "", srvErrors.NewValidationError(errSizeRange)
	}
	var clauses []string
	switch compOp {
	case OpSizeGt:
		if n < 0 || n > maxSizeBound {
			return "", srvErrors.NewValidationError(errSizeRange)
		}
		clauses = append(clauses, fmt.Sprintf("%s == exists(true)", field), fmt.Sprintf("%s != []", field))
		for i := 0; i <= n; i++ {
			clauses = append(clauses, fmt.Sprintf("not (%s == size(%d))", field, i))
		}
		return "(" + strings.Join(clauses, " and ") + ")", nil
	default:
		if n <= 0 || n > maxSizeBound {
			return "", srvErrors.NewValidationError(errSizeRange)
		}
		for i := 0; i < n; i++ {
			clauses = append(clauses, fmt.Sprintf("%s == size(%d)", field, i))
		}
		return "(" + strings.Join(clauses, " or ") + ")", nil
	}
}
