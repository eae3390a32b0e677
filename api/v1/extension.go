package v1

import (
	"github.com/kubev2v/aql-compiler/internal/models"
	"github.com/kubev2v/aql-compiler/pkg/adapters"
	"github.com/kubev2v/aql-compiler/pkg/filter"
)

func NewSavedQuery(q models.SavedQuery) SavedQuery {
	expressions := q.Expressions
	if expressions == nil {
		expressions = []Expression{}
	}
	return SavedQuery{
		Id:          q.ID,
		Name:        q.Name,
		Description: q.Description,
		Namespace:   q.Namespace,
		Expressions: expressions,
		Meta:        q.Meta,
		Filter:      q.Filter,
		CreatedAt:   q.CreatedAt,
		UpdatedAt:   q.UpdatedAt,
	}
}

// NewSavedQueryList builds one page of the listing. total counts every
// matching query, not only the ones on this page.
func NewSavedQueryList(queries []models.SavedQuery, total int, page int, pageSize int) SavedQueryListResponse {
	resp := SavedQueryListResponse{
		Queries: make([]SavedQuery, 0, len(queries)),
		Total:   total,
		Page:    page,
	}
	for _, q := range queries {
		resp.Queries = append(resp.Queries, NewSavedQuery(q))
	}
	if pageSize > 0 {
		resp.PageCount = (total + pageSize - 1) / pageSize
	}
	return resp
}

func (r SavedQueryRequest) ToModel() models.SavedQuery {
	q := models.SavedQuery{
		Name:        r.Name,
		Expressions: r.Expressions,
	}
	if r.Description != nil {
		q.Description = *r.Description
	}
	if r.Namespace != nil {
		q.Namespace = *r.Namespace
	}
	if r.Meta != nil {
		q.Meta = *r.Meta
	}
	return q
}

func NewSchemaNamespace(ns models.SchemaNamespace) SchemaNamespace {
	fields := ns.Fields
	if fields == nil {
		fields = []FieldSchema{}
	}
	return SchemaNamespace{
		Name:      ns.Name,
		Fields:    fields,
		UpdatedAt: ns.UpdatedAt,
	}
}

func NewSchemaNamespaceList(namespaces []models.SchemaNamespace) SchemaNamespaceList {
	list := SchemaNamespaceList{Namespaces: make([]SchemaNamespace, 0, len(namespaces))}
	for _, ns := range namespaces {
		list.Namespaces = append(list.Namespaces, NewSchemaNamespace(ns))
	}
	return list
}

// Schema rebuilds the field schema described by the query parameters.
func (p GetOperatorsParams) Schema() *filter.FieldSchema {
	schema := &filter.FieldSchema{Type: filter.FieldType(p.Type)}
	if p.Format != nil {
		schema.Format = filter.Format(*p.Format)
	}
	if p.Name != nil {
		schema.Name = *p.Name
	}
	if p.Enum != nil {
		for _, e := range *p.Enum {
			schema.Enum = append(schema.Enum, filter.EnumEntry{Name: e})
		}
	}
	if p.ItemsType != nil {
		schema.Items = &filter.FieldSchema{Type: filter.FieldType(*p.ItemsType)}
		if p.ItemsFormat != nil {
			schema.Items.Format = filter.Format(*p.ItemsFormat)
		}
	}
	return schema
}

func NewOperatorList(table *filter.OperatorTable, schema *filter.FieldSchema) OperatorList {
	titles := filter.GetOpsList(table.OpsMap(schema))
	list := OperatorList{Operators: make([]Operator, 0, len(titles))}
	for _, t := range titles {
		list.Operators = append(list.Operators, Operator{
			Name:      t.Name,
			Title:     t.Title,
			ShowValue: table.CheckShowValue(schema, t.Name),
		})
	}
	return list
}

// NewCompileResponse reports the filter together with every validation error
// of the pass. Error holds the first one, as the query builder shows it.
func NewCompileResponse(q filter.CompiledQuery, errs []error, expanded string) CompileResponse {
	resp := CompileResponse{
		ResultFilter:          q.ResultFilter,
		OnlyExpressionsFilter: q.OnlyExpressionsFilter,
	}
	if expanded != "" {
		resp.ExpandedFilter = &expanded
	}
	if len(errs) > 0 {
		msg := errs[0].Error()
		resp.Error = &msg

		messages := make([]string, 0, len(errs))
		for _, err := range errs {
			messages = append(messages, err.Error())
		}
		resp.Errors = &messages
	}
	return resp
}

func NewAdapterList(entries []adapters.Adapter) AdapterList {
	list := AdapterList{Adapters: make([]Adapter, 0, len(entries))}
	for _, a := range entries {
		list.Adapters = append(list.Adapters, Adapter{Name: a.Name, Title: a.Title})
	}
	return list
}
