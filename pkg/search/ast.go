package search

import (
	"fmt"
	"strconv"
	"time"

	sq "github.com/Masterminds/squirrel"
)

// Node is a parsed filter. It is a squirrel.Sqlizer, so it can be passed
// straight to SelectBuilder.Where.
type Node interface {
	String() string
	ToSql() (string, []any, error)
}

// logicalNode joins two nodes with "and" or "or".
type logicalNode struct {
	Left  Node
	Op    tokenKind
	Right Node
}

func (n *logicalNode) String() string {
	return fmt.Sprintf("(%s %s %s)", n.Left.String(), n.Op, n.Right.String())
}

func (n *logicalNode) ToSql() (string, []any, error) {
	if n.Op == tokAnd {
		return sq.And{n.Left, n.Right}.ToSql()
	}
	return sq.Or{n.Left, n.Right}.ToSql()
}

type notNode struct {
	Inner Node
}

func (n *notNode) String() string {
	return fmt.Sprintf("(not %s)", n.Inner.String())
}

func (n *notNode) ToSql() (string, []any, error) {
	sql, args, err := n.Inner.ToSql()
	if err != nil {
		return "", nil, err
	}
	return "NOT (" + sql + ")", args, nil
}

// comparisonNode compares a field with a string, time or boolean literal.
type comparisonNode struct {
	Field Field
	Op    tokenKind
	Value any
}

func (n *comparisonNode) String() string {
	return fmt.Sprintf("(%s %s %s)", n.Field.Name, n.Op, literal(n.Value))
}

func (n *comparisonNode) ToSql() (string, []any, error) {
	col := n.Field.Column
	switch n.Op {
	case tokEq:
		return sq.Eq{col: n.Value}.ToSql()
	case tokNe:
		return sq.NotEq{col: n.Value}.ToSql()
	case tokLt:
		return sq.Lt{col: n.Value}.ToSql()
	case tokLe:
		return sq.LtOrEq{col: n.Value}.ToSql()
	case tokGt:
		return sq.Gt{col: n.Value}.ToSql()
	case tokGe:
		return sq.GtOrEq{col: n.Value}.ToSql()
	default:
		return "", nil, fmt.Errorf("unsupported operator %s", n.Op)
	}
}

// regexNode matches a text field with regexp_matches.
type regexNode struct {
	Field   Field
	Pattern string
	Negate  bool
}

func (n *regexNode) String() string {
	op := tokMatch
	if n.Negate {
		op = tokNotMatch
	}
	return fmt.Sprintf("(%s %s /%s/)", n.Field.Name, op, n.Pattern)
}

func (n *regexNode) ToSql() (string, []any, error) {
	sql := fmt.Sprintf("regexp_matches(%s, ?)", n.Field.Column)
	if n.Negate {
		sql = "NOT " + sql
	}
	return sql, []any{n.Pattern}, nil
}

func literal(v any) string {
	switch v := v.(type) {
	case string:
		return strconv.Quote(v)
	case time.Time:
		return strconv.Quote(v.Format(time.RFC3339))
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}
