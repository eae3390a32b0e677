package filter

import (
	"slices"
	"strconv"
	"strings"

	srvErrors "github.com/kubev2v/aql-compiler/pkg/errors"
)

// IncludeOutdatedMarker tells the backend to match every adapter record,
// including the outdated ones.
const IncludeOutdatedMarker = "INCLUDE OUTDATED: "

// Meta holds the compile time flags that wrap the user expressions.
type Meta struct {
	UniqueAdapters      bool       `json:"uniqueAdapters,omitempty"`
	EnforcementFilter   string     `json:"enforcementFilter,omitempty"`
	FilterOutExpression *FilterOut `json:"filterOutExpression,omitempty"`
}

// FilterOut is a global exclusion. When ShowIDs is set it only marks which
// ids to show and adds nothing to the filter.
type FilterOut struct {
	Expression
	ShowIDs bool `json:"showIds,omitempty"`
}

type CompiledQuery struct {
	ResultFilter          string `json:"resultFilter"`
	OnlyExpressionsFilter string `json:"onlyExpressionsFilter"`
}

// Builder compiles expression lists against a schema registry.
//
// It keeps the fragments of the last pass, keyed by node id or position, and
// the last valid result. A Builder is not safe for concurrent use.
type Builder struct {
	registry Registry
	table    *OperatorTable
	resolver AdapterResolver

	cache map[string]Fragment
	last  CompiledQuery
	errs  []error
}

type BuilderOption func(*Builder)

func WithOperatorTable(t *OperatorTable) BuilderOption {
	return func(b *Builder) {
		b.table = t
	}
}

// WithResolver sets the adapter title lookup used by IN on the adapters field.
func WithResolver(r AdapterResolver) BuilderOption {
	return func(b *Builder) {
		b.resolver = r
	}
}

func NewBuilder(registry Registry, opts ...BuilderOption) *Builder {
	b := &Builder{
		registry: registry,
		table:    defaultTable,
		cache:    make(map[string]Fragment),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// resolveFunc returns the schema and namespace of node, rewriting its field
// when the scope uses a local path.
type resolveFunc func(node *Expression) (*FieldSchema, string)

// Compile turns expressions into a filter. With recompile false, nodes that
// were compiled in a previous pass reuse their fragment.
//
// Validation errors do not stop the pass. The returned error is the first
// one collected. Unbalanced brackets return the last valid result.
func (b *Builder) Compile(expressions []Expression, meta Meta, recompile bool) (CompiledQuery, error) {
	b.errs = nil
	if expressions == nil {
		return CompiledQuery{}, nil
	}

	var (
		filters []string
		weights []int
	)
	for i := range expressions {
		node := expressions[i]
		key := cacheKey(&node, i)
		if cached, ok := b.cache[key]; ok && !recompile {
			filters, weights = appendFragment(filters, weights, cached)
			continue
		}
		if skipNode(&node) {
			delete(b.cache, key)
			continue
		}

		frag, err := b.compileNode(node, len(filters) == 0, b.resolveGeneral)
		if err != nil {
			b.errs = append(b.errs, err)
			if cached, ok := b.cache[key]; ok {
				filters, weights = appendFragment(filters, weights, cached)
			}
			continue
		}
		b.cache[key] = frag
		filters, weights = appendFragment(filters, weights, frag)
	}

	onlyExpressions := strings.Join(filters, " ")
	if err := CheckBrackets(weights); err != nil {
		b.errs = append(b.errs, err)
		return b.last, b.Error()
	}

	filter := onlyExpressions
	if fo := meta.FilterOutExpression; fo != nil && fo.Value != "" && !fo.ShowIDs {
		frag, err := b.compileNode(fo.Expression, true, b.resolveGeneral)
		switch {
		case err != nil:
			b.errs = append(b.errs, err)
		case frag.Filter != "" && filter != "":
			filter = frag.Filter + " and (" + filter + ")"
		case frag.Filter != "":
			filter = frag.Filter
		}
	}
	if enforcement := meta.EnforcementFilter; enforcement != "" && !strings.Contains(filter, enforcement) {
		if filter == "" {
			filter = enforcement
		} else {
			filter = "(" + enforcement + ") and (" + filter + ")"
		}
	}
	if meta.UniqueAdapters && filter != "" {
		filter = IncludeOutdatedMarker + filter
	}

	result := CompiledQuery{ResultFilter: filter, OnlyExpressionsFilter: onlyExpressions}
	if len(b.errs) == 0 {
		b.last = result
	}
	return result, b.Error()
}

// Error returns the first error of the last pass, or nil.
func (b *Builder) Error() error {
	if len(b.errs) == 0 {
		return nil
	}
	return b.errs[0]
}

func (b *Builder) Errors() []error {
	return slices.Clone(b.errs)
}

// Reset drops the fragment cache and the last valid result.
func (b *Builder) Reset() {
	b.cache = make(map[string]Fragment)
	b.last = CompiledQuery{}
	b.errs = nil
}

func (b *Builder) compileNode(node Expression, isFirst bool, resolve resolveFunc) (Fragment, error) {
	schema, fieldType := resolve(&node)
	if node.FieldType == "" {
		node.FieldType = fieldType
	}

	condition := ""
	switch {
	case node.Field == SavedQueryField:
		if node.Value == "" {
			return Fragment{}, srvErrors.NewValidationError(errMissingValue)
		}
	case !node.Context.IsSet():
		c := NewCondition(node.Field, schema, node.FieldType, node.CompOp, node.Value.String(),
			WithFilteredAdapters(node.FilteredAdapters),
			WithAdapterResolver(b.resolver),
			WithConditionOperatorTable(b.table),
		)
		if err := c.Format(); err != nil {
			return Fragment{}, err
		}
		var err error
		if condition, err = c.Compose(); err != nil {
			return Fragment{}, err
		}
	}

	var children []Fragment
	switch node.Context.Kind {
	case KindNestedObject:
		nested := schema.NestedFields()
		scope := node.FieldType
		frags, err := b.compileChildren(node.Children, func(child *Expression) (*FieldSchema, string) {
			return findField(nested, child.Field), scope
		})
		if err != nil {
			return Fragment{}, err
		}
		children = frags
	case KindAdapterScoped:
		adapter := node.Context.Adapter
		frags, err := b.compileChildren(node.Children, func(child *Expression) (*FieldSchema, string) {
			schema := b.registry.Lookup(adapter, child.Field)
			child.Field = adapterLocalField(adapter, child.Field)
			return schema, adapter
		})
		if err != nil {
			return Fragment{}, err
		}
		children = frags
	}

	return b.table.CompileExpression(&node, condition, isFirst, children)
}

func (b *Builder) compileChildren(nodes []Expression, resolve resolveFunc) ([]Fragment, error) {
	var frags []Fragment
	emitted := false
	for _, child := range nodes {
		if skipNode(&child) {
			continue
		}
		frag, err := b.compileNode(child, !emitted, resolve)
		if err != nil {
			return nil, err
		}
		if frag.Filter != "" {
			emitted = true
		}
		frags = append(frags, frag)
	}
	return frags, nil
}

func (b *Builder) resolveGeneral(node *Expression) (*FieldSchema, string) {
	fieldType := node.FieldType
	if fieldType == "" {
		fieldType = InferFieldType(node.Field)
	}
	return b.registry.Lookup(fieldType, node.Field), fieldType
}

// skipNode reports whether node is still incomplete: no field, or neither an
// operator nor a context. Saved query references need neither.
func skipNode(node *Expression) bool {
	if node.Field == "" {
		return true
	}
	return node.Field != SavedQueryField && node.CompOp == "" && !node.Context.IsSet()
}

func cacheKey(node *Expression, i int) string {
	if node.ID != "" {
		return node.ID
	}
	return "#" + strconv.Itoa(i)
}

func appendFragment(filters []string, weights []int, f Fragment) ([]string, []int) {
	if f.Filter != "" {
		filters = append(filters, f.Filter)
	}
	return filters, append(weights, f.BracketWeight)
}
