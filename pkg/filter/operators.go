package filter

import (
	"fmt"
	"slices"
	"strings"
)

// Operator names as sent by the query builder UI.
const (
	OpEquals      = "equals"
	OpContains    = "contains"
	OpStarts      = "starts"
	OpEnds        = "ends"
	OpExists      = "exists"
	OpRegex       = "regex"
	OpIn          = "IN"
	OpLess        = "<"
	OpGreater     = ">"
	OpDays        = "days"
	OpNextDays    = "next_days"
	OpHours       = "hours"
	OpNextHours   = "next_hours"
	OpTrue        = "true"
	OpFalse       = "false"
	OpSubnet      = "subnet"
	OpNotInSubnet = "notInSubnet"
	OpIsIPv4      = "isIPv4"
	OpIsIPv6      = "isIPv6"
	OpEarlierThan = "earlier than"
	OpLaterThan   = "later than"
	OpSmallerThan = "smaller-than"
	OpBiggerThan  = "bigger-than"
	OpSize        = "size"
	OpSizeGt      = "sizegt"
	OpSizeLt      = "sizelt"
)

var opTitles = map[string]string{
	OpEquals:      "Equals",
	OpContains:    "Contains",
	OpStarts:      "Starts With",
	OpEnds:        "Ends With",
	OpExists:      "Exists",
	OpRegex:       "Regex",
	OpIn:          "In",
	OpLess:        "<",
	OpGreater:     ">",
	OpDays:        "Last Days",
	OpNextDays:    "Next Days",
	OpHours:       "Last Hours",
	OpNextHours:   "Next Hours",
	OpSubnet:      "In Subnet",
	OpNotInSubnet: "Not In Subnet",
	OpIsIPv4:      "Is IPv4",
	OpIsIPv6:      "Is IPv6",
	OpEarlierThan: "Earlier Than",
	OpLaterThan:   "Later Than",
	OpSmallerThan: "<",
	OpBiggerThan:  ">",
	OpSize:        "Count Equals",
	OpSizeGt:      "Count Above",
	OpSizeLt:      "Count Below",
}

// DefaultSizeFields lists the array fields that can be compared by element count.
var DefaultSizeFields = []string{
	"adapters",
	"labels",
	"specific_data.data.network_interfaces",
	"specific_data.data.network_interfaces.ips",
	"specific_data.data.network_interfaces.mac",
	"specific_data.data.installed_software",
	"specific_data.data.software_cves",
	"specific_data.data.users",
}

// templateArgs feeds one rendering of an operator template.
// Repeated calls to val cycle through the processed values.
type templateArgs struct {
	field  string
	values []string
	next   int
	op     string
}

func (a *templateArgs) val() string {
	if len(a.values) == 0 {
		return ""
	}
	v := a.values[a.next%len(a.values)]
	a.next++
	return v
}

// Template renders a filter fragment for one operator.
type Template struct {
	render    func(a *templateArgs) string
	usesValue bool
}

func valueTemplate(fn func(a *templateArgs) string) Template {
	return Template{render: fn, usesValue: true}
}

func fieldTemplate(fn func(a *templateArgs) string) Template {
	return Template{render: fn}
}

// UsesValue reports whether the operator compares against a user value.
func (t Template) UsesValue() bool {
	return t.usesValue
}

// Render produces the fragment for field. op is the date-arithmetic sign.
func (t Template) Render(field string, values []string, op string) string {
	return t.render(&templateArgs{field: field, values: values, op: op})
}

type namedTemplate struct {
	name     string
	template Template
}

type operatorSet []namedTemplate

func (s operatorSet) get(name string) (Template, bool) {
	for _, nt := range s {
		if nt.name == name {
			return nt.template, true
		}
	}
	return Template{}, false
}

// OpsMap is an insertion-ordered operator name to template mapping.
type OpsMap struct {
	names     []string
	templates map[string]Template
}

func newOpsMap() *OpsMap {
	return &OpsMap{templates: make(map[string]Template)}
}

// Set adds or replaces an operator, keeping the position of an existing one.
func (m *OpsMap) Set(name string, t Template) {
	if _, ok := m.templates[name]; !ok {
		m.names = append(m.names, name)
	}
	m.templates[name] = t
}

func (m *OpsMap) Get(name string) (Template, bool) {
	t, ok := m.templates[name]
	return t, ok
}

func (m *OpsMap) Has(name string) bool {
	_, ok := m.templates[name]
	return ok
}

func (m *OpsMap) Delete(name string) {
	if _, ok := m.templates[name]; !ok {
		return
	}
	delete(m.templates, name)
	m.names = slices.DeleteFunc(m.names, func(n string) bool { return n == name })
}

func (m *OpsMap) Names() []string {
	return append([]string{}, m.names...)
}

func (m *OpsMap) Len() int {
	return len(m.names)
}

func (m *OpsMap) merge(set operatorSet) {
	for _, nt := range set {
		m.Set(nt.name, nt.template)
	}
}

var (
	existsTmpl = fieldTemplate(func(a *templateArgs) string {
		return fmt.Sprintf(`(%s == exists(true) and %s != "")`, a.field, a.field)
	})
	existsListTmpl = fieldTemplate(func(a *templateArgs) string {
		return fmt.Sprintf(`(%s == exists(true) and %s != [])`, a.field, a.field)
	})
	existsDateTmpl = fieldTemplate(func(a *templateArgs) string {
		return fmt.Sprintf(`(%s == exists(true) and %s != type(10))`, a.field, a.field)
	})
	equalsTmpl = valueTemplate(func(a *templateArgs) string {
		return fmt.Sprintf(`%s == "%s"`, a.field, a.val())
	})
	containsTmpl = valueTemplate(func(a *templateArgs) string {
		return fmt.Sprintf(`%s == regex("%s", "i")`, a.field, a.val())
	})
	startsTmpl = valueTemplate(func(a *templateArgs) string {
		return fmt.Sprintf(`%s == regex("^%s", "i")`, a.field, a.val())
	})
	endsTmpl = valueTemplate(func(a *templateArgs) string {
		return fmt.Sprintf(`%s == regex("%s$", "i")`, a.field, a.val())
	})
	regexTmpl = valueTemplate(func(a *templateArgs) string {
		return fmt.Sprintf(`%s == regex("%s")`, a.field, a.val())
	})
	inTmpl = valueTemplate(func(a *templateArgs) string {
		return fmt.Sprintf(`%s in [%s]`, a.field, a.val())
	})
	passThroughTmpl = valueTemplate(func(a *templateArgs) string {
		return a.val()
	})
)

func compareTmpl(cmp string) Template {
	return valueTemplate(func(a *templateArgs) string {
		return fmt.Sprintf(`%s %s %s`, a.field, cmp, a.val())
	})
}

func compareQuotedTmpl(cmp string) Template {
	return valueTemplate(func(a *templateArgs) string {
		return fmt.Sprintf(`%s %s "%s"`, a.field, cmp, a.val())
	})
}

func compareDateTmpl(cmp string) Template {
	return valueTemplate(func(a *templateArgs) string {
		return fmt.Sprintf(`%s %s date("%s")`, a.field, cmp, a.val())
	})
}

func lastTmpl(unit string) Template {
	return valueTemplate(func(a *templateArgs) string {
		return fmt.Sprintf(`%s >= date("NOW %s %s%s")`, a.field, a.op, a.val(), unit)
	})
}

func nextTmpl(unit string) Template {
	return valueTemplate(func(a *templateArgs) string {
		return fmt.Sprintf(`(%s <= date("NOW %s %s%s") and %s >= date("NOW"))`, a.field, a.op, a.val(), unit, a.field)
	})
}

func rawCompareTmpl(cmp string) Template {
	return valueTemplate(func(a *templateArgs) string {
		return fmt.Sprintf(`%s_raw %s %s`, a.field, cmp, a.val())
	})
}

var (
	numericOps = operatorSet{
		{OpEquals, compareTmpl("==")},
		{OpLess, compareTmpl("<")},
		{OpGreater, compareTmpl(">")},
		{OpExists, existsTmpl},
		{OpIn, inTmpl},
	}

	dateOps = operatorSet{
		{OpLess, compareDateTmpl("<")},
		{OpGreater, compareDateTmpl(">")},
		{OpDays, lastTmpl("d")},
		{OpNextDays, nextTmpl("d")},
		{OpExists, existsDateTmpl},
	}

	// compOps is keyed by type name, format name, or array_<format>.
	compOps = map[string]operatorSet{
		string(TypeString): {
			{OpContains, containsTmpl},
			{OpEquals, equalsTmpl},
			{OpStarts, startsTmpl},
			{OpEnds, endsTmpl},
			{OpExists, existsTmpl},
			{OpRegex, regexTmpl},
			{OpIn, inTmpl},
		},
		string(TypeInteger):    numericOps,
		string(TypeNumber):     numericOps,
		string(TypePercentage): numericOps,
		string(TypeBool): {
			{OpTrue, fieldTemplate(func(a *templateArgs) string { return a.field + " == true" })},
			{OpFalse, fieldTemplate(func(a *templateArgs) string { return a.field + " == false" })},
			{OpExists, existsTmpl},
		},
		string(TypeImage): {
			{OpExists, existsTmpl},
		},
		// TypeTag and FormatTag share the "tag" key.
		string(TypeTag): {
			{OpContains, containsTmpl},
			{OpEquals, equalsTmpl},
			{OpExists, existsTmpl},
		},
		string(TypeArray): {
			{OpSize, valueTemplate(func(a *templateArgs) string {
				return fmt.Sprintf(`%s == size(%s)`, a.field, a.val())
			})},
			{OpExists, existsListTmpl},
		},
		string(FormatDateTime): append(slices.Clone(dateOps),
			namedTemplate{OpHours, lastTmpl("h")},
			namedTemplate{OpNextHours, nextTmpl("h")},
		),
		string(FormatDate): dateOps,
		string(FormatTime): {
			{OpLess, compareDateTmpl("<")},
			{OpGreater, compareDateTmpl(">")},
			{OpExists, existsDateTmpl},
		},
		string(FormatIP): {
			{OpSubnet, passThroughTmpl},
			{OpNotInSubnet, passThroughTmpl},
			{OpContains, containsTmpl},
			{OpEquals, equalsTmpl},
			{OpIsIPv4, fieldTemplate(func(a *templateArgs) string { return a.field + ` == regex("\.")` })},
			{OpIsIPv6, fieldTemplate(func(a *templateArgs) string { return a.field + ` == regex(":")` })},
			{OpExists, existsTmpl},
		},
		string(FormatVersion): {
			{OpContains, containsTmpl},
			{OpEquals, equalsTmpl},
			{OpEarlierThan, rawCompareTmpl("<")},
			{OpLaterThan, rawCompareTmpl(">")},
			{OpExists, existsTmpl},
		},
		string(FormatPredefined): {
			{OpContains, containsTmpl},
			{OpEquals, equalsTmpl},
			{OpExists, existsTmpl},
		},
		string(FormatOSDistribution): {
			{OpEquals, equalsTmpl},
			{OpContains, containsTmpl},
			{OpStarts, startsTmpl},
			{OpEnds, endsTmpl},
			{OpExists, existsTmpl},
			{OpSmallerThan, compareQuotedTmpl("<")},
			{OpBiggerThan, compareQuotedTmpl(">")},
		},
	}

	specialEnumFormats = map[Format]bool{
		FormatPredefined:     true,
		FormatTag:            true,
		FormatOSDistribution: true,
	}
)

// OperatorTable resolves the operators available for a field schema.
type OperatorTable struct {
	sizeFields map[string]struct{}
}

func NewOperatorTable(sizeFields ...string) *OperatorTable {
	t := &OperatorTable{sizeFields: make(map[string]struct{}, len(sizeFields))}
	for _, f := range sizeFields {
		t.sizeFields[f] = struct{}{}
	}
	return t
}

var defaultTable = NewOperatorTable(DefaultSizeFields...)

// DefaultOperatorTable uses DefaultSizeFields.
func DefaultOperatorTable() *OperatorTable {
	return defaultTable
}

// IsSizeField reports whether field accepts the sizegt/sizelt operators.
func (t *OperatorTable) IsSizeField(field string) bool {
	_, ok := t.sizeFields[field]
	return ok
}

// OpsMap returns the operators of schema, in display order. A missing schema has none.
func (t *OperatorTable) OpsMap(schema *FieldSchema) *OpsMap {
	ops := newOpsMap()
	if schema == nil {
		return ops
	}
	parent := schema
	if schema.Type == TypeArray {
		set, ok := compOps["array_"+string(schema.Format)]
		if !ok || schema.Format == "" {
			set = compOps[string(TypeArray)]
		}
		ops.merge(set)
		if t.IsSizeField(schema.Name) {
			ops.Set(OpSizeGt, passThroughTmpl)
			ops.Set(OpSizeLt, passThroughTmpl)
		}
		schema = schema.Items
		if schema == nil {
			return ops
		}
	}

	typeOps := compOps[string(schema.Type)]
	if len(schema.Enum) > 0 && !specialEnumFormats[schema.Format] {
		for _, name := range []string{OpEquals, OpExists, OpIn} {
			if tmpl, ok := typeOps.get(name); ok {
				ops.Set(name, tmpl)
			}
		}
	} else if formatOps, ok := compOps[string(schema.Format)]; ok && schema.Format != "" {
		ops.merge(formatOps)
	} else {
		ops.merge(typeOps)
	}

	if parent.Type == TypeArray {
		ops.Set(OpExists, existsListTmpl)
	}
	if schema.Type == TypeArray {
		if exists, ok := ops.Get(OpExists); ok {
			ops.Set(OpExists, fieldTemplate(func(a *templateArgs) string {
				return fmt.Sprintf(`(%s and "%s" != [])`, exists.render(a), a.field)
			}))
		}
	}
	if parent.Name == "labels" || schema.Name == "labels" {
		ops.Delete(OpSize)
	}
	return ops
}

// CheckShowValue reports whether compOp on schema needs a user value.
// A field without a schema always does.
func (t *OperatorTable) CheckShowValue(schema *FieldSchema, compOp string) bool {
	if schema == nil {
		return true
	}
	if schema.Format == FormatPredefined {
		return true
	}
	if compOp == "" {
		return false
	}
	tmpl, ok := t.OpsMap(schema).Get(compOp)
	return ok && tmpl.UsesValue()
}

// GetOpsMap resolves operators with the default table.
func GetOpsMap(schema *FieldSchema) *OpsMap {
	return defaultTable.OpsMap(schema)
}

// CheckShowValue checks with the default table.
func CheckShowValue(schema *FieldSchema, compOp string) bool {
	return defaultTable.CheckShowValue(schema, compOp)
}

// OperatorTitle is an operator as listed for display.
type OperatorTitle struct {
	Name  string `json:"name"`
	Title string `json:"title"`
}

func GetOpsList(ops *OpsMap) []OperatorTitle {
	list := make([]OperatorTitle, 0, ops.Len())
	for _, name := range ops.names {
		title, ok := opTitles[name]
		if !ok {
			title = name
		}
		list = append(list, OperatorTitle{Name: name, Title: strings.ToLower(title)})
	}
	return list
}
