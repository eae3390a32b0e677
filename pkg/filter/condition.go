package filter

import (
	"fmt"
	"math"
	"reflect"
	"regexp"
	"slices"
	"strconv"
	"strings"

	srvErrors "github.com/kubev2v/aql-compiler/pkg/errors"
)

const (
	errMissingOperator = "Comparison operator is needed to add expression to the filter"
	errMissingValue    = "A value to compare is needed to add expression to the filter"
	errOnlyNumbers     = "Only numbers allowed in this filter"
	errSubnet          = "Specify <address>/<CIDR> to filter IP by subnet"
	errVersion         = "Invalid version format, must be <optional>:<period>.<separated>.<numbers>"
	errNoAddressLeft   = "The subnets exclude every IPv4 address"
	errEnumValue       = "Specify a valid value for enum field"
)

// adaptersField holds the names of the adapters an entity is built from.
const adaptersField = "adapters"

// AdapterResolver maps an adapter title, as the user types it, to its plugin name.
type AdapterResolver interface {
	NameForTitle(title string) (string, bool)
}

var regexSpecialCharacters = regexp.MustCompile(`[.*+?^${}()|[\]\\]`)

// EscapeRegex escapes the regular expression metacharacters of s.
func EscapeRegex(s string) string {
	return regexSpecialCharacters.ReplaceAllString(s, `\$0`)
}

// Condition compiles one leaf comparison: field, operator and value.
//
// Format must run before Compose; it validates and reshapes the value.
type Condition struct {
	field            string
	schema           *FieldSchema
	fieldType        string
	compOp           string
	value            string
	filteredAdapters []string
	negate           bool
	table            *OperatorTable
	resolver         AdapterResolver

	processed []string
}

type ConditionOption func(*Condition)

// WithFilteredAdapters excludes the named adapters from a general field match.
func WithFilteredAdapters(adapters []string) ConditionOption {
	return func(c *Condition) {
		c.filteredAdapters = adapters
	}
}

// WithNegation wraps the rendered condition in not (...).
func WithNegation(not bool) ConditionOption {
	return func(c *Condition) {
		c.negate = not
	}
}

func WithConditionOperatorTable(t *OperatorTable) ConditionOption {
	return func(c *Condition) {
		c.table = t
	}
}

func WithAdapterResolver(r AdapterResolver) ConditionOption {
	return func(c *Condition) {
		c.resolver = r
	}
}

func NewCondition(field string, schema *FieldSchema, fieldType string, compOp string, value string, opts ...ConditionOption) *Condition {
	c := &Condition{
		field:     field,
		schema:    schema,
		fieldType: fieldType,
		compOp:    compOp,
		value:     value,
		table:     defaultTable,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Format validates the value against the operator and prepares it for templating.
// The returned error is a *errors.ValidationError.
func (c *Condition) Format() error {
	c.processed = nil
	if c.compOp == OpIn {
		return c.formatIn()
	}
	if c.schema == nil {
		return nil
	}
	switch c.schema.Format {
	case FormatIP:
		switch c.compOp {
		case OpSubnet:
			return c.formatInSubnet()
		case OpNotInSubnet:
			return c.formatNotInSubnet()
		}
	case FormatVersion:
		if c.compOp == OpEarlierThan || c.compOp == OpLaterThan {
			return c.formatVersion()
		}
	case FormatOSDistribution:
		if c.compOp != OpSmallerThan && c.compOp != OpBiggerThan {
			return nil
		}
	}

	valueSchema := ValueSchema(c.schema, c.compOp)
	if c.value != "" && len(valueSchema.Enum) > 0 && c.compOp == OpEquals && !enumContains(valueSchema, c.value) {
		return srvErrors.NewValidationError(errEnumValue)
	}
	return nil
}

func (c *Condition) formatIn() error {
	if c.value == "" {
		return nil
	}
	values := splitEscaped(c.value)
	if c.field == adaptersField && c.resolver != nil {
		names := make([]string, 0, len(values))
		for _, title := range values {
			if name, ok := c.resolver.NameForTitle(strings.TrimSpace(title)); ok {
				names = append(names, name)
			}
		}
		values = names
	}

	var processed string
	if c.schema != nil && (c.schema.Type == TypeInteger || c.schema.Type == TypeNumber) {
		numbers := make([]string, 0, len(values))
		for _, v := range values {
			if f, ok := parseLeadingFloat(v); ok {
				numbers = append(numbers, formatNumber(f))
			}
		}
		if len(numbers) == 0 {
			return srvErrors.NewValidationError(errOnlyNumbers)
		}
		processed = strings.Join(numbers, ",")
	} else {
		processed = `"` + strings.Join(values, `","`) + `"`
	}
	c.processed = []string{strings.ReplaceAll(processed, `\,`, ",")}
	return nil
}

// splitEscaped splits on commas that are not escaped as \, and drops empty tokens.
func splitEscaped(s string) []string {
	var tokens []string
	var cur strings.Builder
	for i := 0; i < len(s); i++ {
		switch {
		case s[i] == '\\' && i+1 < len(s) && s[i+1] == ',':
			cur.WriteString(`\,`)
			i++
		case s[i] == ',':
			if cur.Len() > 0 {
				tokens = append(tokens, cur.String())
				cur.Reset()
			}
		default:
			cur.WriteByte(s[i])
		}
	}
	if cur.Len() > 0 {
		tokens = append(tokens, cur.String())
	}
	return tokens
}

func (c *Condition) formatInSubnet() error {
	ranges, err := parseSubnets(c.value, func(string) error {
		return srvErrors.NewValidationError(errSubnet)
	})
	if err != nil {
		return err
	}
	c.processed = []string{rawRangeMatch(c.field, ranges)}
	return nil
}

func (c *Condition) formatNotInSubnet() error {
	ranges, err := parseSubnets(c.value, func(subnet string) error {
		return srvErrors.NewValidationError(fmt.Sprintf(`Invalid "%s", Specify <address>/<CIDR>`, subnet))
	})
	if err != nil {
		return err
	}
	rest := complementRanges(ranges)
	if rest == nil {
		return srvErrors.NewValidationError(errNoAddressLeft)
	}
	c.processed = []string{rawRangeMatch(c.field, rest)}
	return nil
}

func (c *Condition) formatVersion() error {
	raw := ConvertVersionToRaw(c.value)
	if raw == "" {
		return srvErrors.NewValidationError(errVersion)
	}
	c.processed = []string{"'" + raw + "'"}
	return nil
}

// Compose renders the condition, wrapped by the adapter exclusion filter and parentheses.
func (c *Condition) Compose() (string, error) {
	if c.field == "" {
		return "", nil
	}
	if err := c.table.ConditionError(c.field, c.schema, c.compOp, c.value); err != nil {
		return "", err
	}
	return "(" + ExcludedAdaptersFilter(c.fieldType, c.field, c.filteredAdapters, c.expression) + ")", nil
}

// expression renders the condition on field, which is c.field or its adapter
// local path.
func (c *Condition) expression(field string) string {
	values := c.processed
	if len(values) == 0 {
		values = []string{c.value}
	}

	op := ""
	switch c.compOp {
	case OpDays, OpHours, OpNextDays, OpNextHours:
		n, err := strconv.ParseFloat(strings.TrimSpace(values[0]), 64)
		if err != nil {
			n = math.NaN()
		}
		past := c.compOp == OpDays || c.compOp == OpHours
		if (n < 0) == past {
			op = "+"
		} else {
			op = "-"
		}
		values = []string{formatNumber(math.Abs(n))}
	case OpContains:
		escaped := make([]string, len(values))
		for i, v := range values {
			escaped[i] = EscapeRegex(v)
		}
		values = escaped
	}

	var cond string
	if tmpl, ok := c.table.OpsMap(c.schema).Get(c.compOp); ok {
		cond = tmpl.Render(field, values, op)
	} else {
		cond = passThroughTmpl.Render(field, values, op)
		cond = "(" + cond + ")"
	}
	if c.negate {
		return "not (" + cond + ")"
	}
	return cond
}

// ConditionError checks that the condition names a known operator and carries
// a value when the operator needs one.
func (t *OperatorTable) ConditionError(field string, schema *FieldSchema, compOp string, value string) error {
	if field == "" {
		return nil
	}
	ops := t.OpsMap(schema)
	if ops.Len() > 0 && (compOp == "" || !ops.Has(compOp)) {
		return srvErrors.NewValidationError(errMissingOperator)
	}
	if t.CheckShowValue(schema, compOp) && value == "" {
		return srvErrors.NewValidationError(errMissingValue)
	}
	return nil
}

// ConditionError checks with the default table.
func ConditionError(field string, schema *FieldSchema, compOp string, value string) error {
	return defaultTable.ConditionError(field, schema, compOp, value)
}

// ExcludedAdaptersFilter restricts a general field condition to the adapters
// that are not filtered out. render is called with the field path the
// condition must use: the adapter local "data.<path>" inside the exclusion,
// or field itself for other namespaces or when nothing is filtered.
func ExcludedAdaptersFilter(fieldType string, field string, filteredAdapters []string, render func(field string) string) string {
	path, ok := strings.CutPrefix(field, specificDataPrefix)
	if fieldType != GeneralNamespace || len(filteredAdapters) == 0 || !ok {
		return render(field)
	}
	return fmt.Sprintf(`specific_data == match([not (plugin_name in [%s]) and (%s)])`, quoteJoin(filteredAdapters), render("data."+path))
}

func quoteJoin(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = `"` + v + `"`
	}
	return strings.Join(quoted, ",")
}

func enumContains(schema *FieldSchema, value string) bool {
	for i, entry := range schema.Enum {
		if schema.Type == TypeInteger && !entry.IsNumeric() {
			if strconv.Itoa(i+1) == value {
				return true
			}
			continue
		}
		if entry.Name == value {
			return true
		}
	}
	return false
}

// ValueSchema returns the schema governing the value input of compOp on schema.
func ValueSchema(schema *FieldSchema, compOp string) *FieldSchema {
	if schema == nil {
		return &FieldSchema{}
	}
	switch {
	case isStringComparison(schema, compOp), isOSDistributionStringComparison(schema, compOp):
		return &FieldSchema{Type: TypeString}
	case isDateCountComparison(schema, compOp):
		return &FieldSchema{Type: TypeInteger, AllowNegatives: true}
	}
	final := schema
	if schema.Type == TypeArray && slices.Contains([]string{OpContains, OpEquals, OpSubnet, OpNotInSubnet, OpStarts, OpEnds}, compOp) {
		final = schema.Items
		if final == nil {
			return &FieldSchema{}
		}
	}
	out := *final
	if out.Type == TypeNumber || out.Type == TypeInteger || out.Type == TypeArray {
		zero := 0.0
		out.Min = &zero
	}
	return &out
}

// ValueSchemaChanged reports whether moving from prev to next changes the
// value input, in which case the entered value should be reset.
func ValueSchemaChanged(next *FieldSchema, prev *FieldSchema, compOp string) bool {
	return !reflect.DeepEqual(ValueSchema(next, compOp), ValueSchema(prev, compOp))
}

func isStringComparison(schema *FieldSchema, compOp string) bool {
	switch schema.Type {
	case TypeString, TypeInteger, TypeNumber, TypeArray:
		return compOp == OpIn || compOp == OpContains || compOp == OpRegex
	}
	return false
}

func isOSDistributionStringComparison(schema *FieldSchema, compOp string) bool {
	return schema.Format == FormatOSDistribution && schema.Type == TypeString &&
		(compOp == OpEquals || compOp == OpStarts || compOp == OpEnds)
}

func isDateCountComparison(schema *FieldSchema, compOp string) bool {
	if schema.Format != FormatDateTime {
		return false
	}
	switch compOp {
	case OpDays, OpNextDays, OpHours, OpNextHours:
		return true
	}
	return false
}
