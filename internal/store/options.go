package store

import (
	sq "github.com/Masterminds/squirrel"

	"github.com/kubev2v/aql-compiler/pkg/search"
)

// ListOption modifies a SELECT query for filtering/sorting/pagination.
type ListOption func(sq.SelectBuilder) sq.SelectBuilder

// ByNamespace keeps the saved queries compiled against namespace.
func ByNamespace(namespace string) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		if namespace == "" {
			return b
		}
		return b.Where(sq.Eq{"namespace": namespace})
	}
}

// ByName matches names containing term, case insensitively.
func ByName(term string) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		if term == "" {
			return b
		}
		return b.Where(sq.ILike{"name": "%" + term + "%"})
	}
}

// BySearch applies a parsed search filter. A nil node keeps every row.
func BySearch(node search.Node) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		if node == nil {
			return b
		}
		return b.Where(node)
	}
}

func WithLimit(limit uint64) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		if limit == 0 {
			return b
		}
		return b.Limit(limit)
	}
}

func WithOffset(offset uint64) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		if offset == 0 {
			return b
		}
		return b.Offset(offset)
	}
}

// WithDefaultSort orders by creation time, then id for a stable order.
func WithDefaultSort() ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		return b.OrderBy("created_at ASC", "id ASC")
	}
}
