package models

import (
	"time"

	"github.com/kubev2v/aql-compiler/pkg/filter"
)

// SchemaNamespace is the stored field list of one namespace: the general
// "axonius" one or a single adapter's.
type SchemaNamespace struct {
	Name      string
	Fields    []filter.FieldSchema
	UpdatedAt time.Time
}

// Registry folds namespaces into the lookup the compiler consumes.
func Registry(namespaces []SchemaNamespace) filter.Registry {
	r := make(filter.Registry, len(namespaces))
	for _, ns := range namespaces {
		r[ns.Name] = filter.Namespace{Fields: ns.Fields}
	}
	return r
}
