package filter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

type FieldType string

const (
	TypeString     FieldType = "string"
	TypeInteger    FieldType = "integer"
	TypeNumber     FieldType = "number"
	TypeBool       FieldType = "bool"
	TypeArray      FieldType = "array"
	TypeImage      FieldType = "image"
	TypeTag        FieldType = "tag"
	TypePercentage FieldType = "percentage"
)

type Format string

const (
	FormatDateTime       Format = "date-time"
	FormatDate           Format = "date"
	FormatTime           Format = "time"
	FormatIP             Format = "ip"
	FormatVersion        Format = "version"
	FormatPredefined     Format = "predefined"
	FormatTag            Format = "tag"
	FormatOSDistribution Format = "os-distribution"
)

const (
	// GeneralNamespace holds the fields aggregated over all adapters.
	GeneralNamespace = "axonius"

	adaptersDataPrefix = "adapters_data."
	specificDataPrefix = "specific_data.data."
)

// EnumEntry is one allowed value of a closed-choice field. The wire form is
// either a plain scalar or a {"name", "title"} object.
type EnumEntry struct {
	Name   string
	Title  string
	object bool
}

func (e *EnumEntry) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}
	switch data[0] {
	case '{':
		var obj struct {
			Name  json.RawMessage `json:"name"`
			Title string          `json:"title"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		name, err := scalarString(obj.Name)
		if err != nil {
			return fmt.Errorf("enum name: %w", err)
		}
		*e = EnumEntry{Name: name, Title: obj.Title, object: true}
		return nil
	default:
		name, err := scalarString(data)
		if err != nil {
			return err
		}
		*e = EnumEntry{Name: name}
		return nil
	}
}

func (e EnumEntry) MarshalJSON() ([]byte, error) {
	if e.object {
		return json.Marshal(struct {
			Name  string `json:"name"`
			Title string `json:"title,omitempty"`
		}{e.Name, e.Title})
	}
	return json.Marshal(e.Name)
}

// IsNumeric reports whether a plain enum value reads as a number.
// Object entries are never numeric.
func (e EnumEntry) IsNumeric() bool {
	return !e.object && !isNaN(e.Name)
}

// FieldSchema describes one addressable field.
//
// items is either a single schema (array of primitives) or a list of
// schemas (array of nested documents). The list form is kept in Fields.
type FieldSchema struct {
	Name           string
	Title          string
	Type           FieldType
	Format         Format
	Enum           []EnumEntry
	Items          *FieldSchema
	Fields         []FieldSchema
	Min            *float64
	AllowNegatives bool
}

type fieldSchemaWire struct {
	Name           string          `json:"name,omitempty"`
	Title          string          `json:"title,omitempty"`
	Type           FieldType       `json:"type,omitempty"`
	Format         Format          `json:"format,omitempty"`
	Enum           []EnumEntry     `json:"enum,omitempty"`
	Items          json.RawMessage `json:"items,omitempty"`
	Min            *float64        `json:"min,omitempty"`
	AllowNegatives bool            `json:"allow_negatives,omitempty"`
}

func (s *FieldSchema) UnmarshalJSON(data []byte) error {
	var w fieldSchemaWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*s = FieldSchema{
		Name:           w.Name,
		Title:          w.Title,
		Type:           w.Type,
		Format:         w.Format,
		Enum:           w.Enum,
		Min:            w.Min,
		AllowNegatives: w.AllowNegatives,
	}
	items := bytes.TrimSpace(w.Items)
	if len(items) == 0 || bytes.Equal(items, []byte("null")) {
		return nil
	}
	if items[0] == '[' {
		return json.Unmarshal(items, &s.Fields)
	}
	s.Items = &FieldSchema{}
	return json.Unmarshal(items, s.Items)
}

func (s FieldSchema) MarshalJSON() ([]byte, error) {
	w := fieldSchemaWire{
		Name:           s.Name,
		Title:          s.Title,
		Type:           s.Type,
		Format:         s.Format,
		Enum:           s.Enum,
		Min:            s.Min,
		AllowNegatives: s.AllowNegatives,
	}
	var err error
	switch {
	case s.Items != nil:
		w.Items, err = json.Marshal(s.Items)
	case len(s.Fields) > 0:
		w.Items, err = json.Marshal(s.Fields)
	}
	if err != nil {
		return nil, err
	}
	return json.Marshal(w)
}

// NestedFields returns the sub-document fields of an array of objects.
// The nested list usually sits one level down, on the items schema.
func (s *FieldSchema) NestedFields() []FieldSchema {
	if s == nil {
		return nil
	}
	if s.Items != nil && len(s.Items.Fields) > 0 {
		return s.Items.Fields
	}
	return s.Fields
}

// Namespace is the field list of one schema namespace (the general one or an adapter's).
type Namespace struct {
	Fields []FieldSchema `json:"fields"`
}

// Registry maps a namespace name (fieldType) to its fields. The compiler never mutates it.
type Registry map[string]Namespace

// Lookup returns the schema of field in namespace, or nil when unknown.
func (r Registry) Lookup(namespace string, field string) *FieldSchema {
	ns, ok := r[namespace]
	if !ok {
		return nil
	}
	return findField(ns.Fields, field)
}

func findField(fields []FieldSchema, name string) *FieldSchema {
	for i := range fields {
		if fields[i].Name == name {
			return &fields[i]
		}
	}
	return nil
}

// InferFieldType derives the namespace of a field from its path:
// adapters_data.<adapter>.<path> belongs to <adapter>, everything else to the general namespace.
func InferFieldType(field string) string {
	if rest, ok := strings.CutPrefix(field, adaptersDataPrefix); ok {
		if adapter, _, found := strings.Cut(rest, "."); found && adapter != "" {
			return adapter
		}
	}
	return GeneralNamespace
}

// adapterLocalField rewrites adapters_data.<adapter>.<path> to the
// document-local data.<path> used inside specific_data matches.
func adapterLocalField(adapter string, field string) string {
	if rest, ok := strings.CutPrefix(field, adaptersDataPrefix+adapter+"."); ok {
		return "data." + rest
	}
	return field
}

// scalarString flattens a JSON scalar to its textual form.
func scalarString(data []byte) (string, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return "", nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return "", err
		}
		return s, nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return "", err
		}
		return strconv.FormatBool(b), nil
	case '{', '[':
		return "", fmt.Errorf("expected a scalar, got %s", string(data))
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return "", err
		}
		return n.String(), nil
	}
}
