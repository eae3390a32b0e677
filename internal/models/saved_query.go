package models

import (
	"time"

	"github.com/kubev2v/aql-compiler/pkg/filter"
)

// SavedQuery is a named expression list together with the filter it compiled to.
// Compiled filters may still hold {{QueryID=...}} references to other saved queries.
// Namespace groups saved queries by entity view, such as devices or users.
type SavedQuery struct {
	ID          string
	Name        string
	Description string
	Namespace   string
	Expressions []filter.Expression
	Meta        filter.Meta
	Filter      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Reference returns the macro other queries use to embed this one.
func (q SavedQuery) Reference() string {
	return "{{QueryID=" + q.ID + "}}"
}
