package search

import "strings"

// Kind decides which operators and literals a field accepts.
type Kind int

const (
	// KindText accepts strings and regexes.
	KindText Kind = iota
	// KindTime accepts RFC 3339 timestamps or plain dates, ordered.
	KindTime
	// KindBool accepts true and false with = and != only.
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindTime:
		return "time"
	case KindBool:
		return "bool"
	default:
		return "unknown"
	}
}

// Field maps a filter identifier to a SQL column or expression.
type Field struct {
	Name   string
	Column string
	Kind   Kind
}

type Fields []Field

// Lookup finds a field by name, case insensitively.
func (f Fields) Lookup(name string) (Field, bool) {
	for _, field := range f {
		if strings.EqualFold(field.Name, name) {
			return field, true
		}
	}
	return Field{}, false
}

// Names lists the field names in declaration order.
func (f Fields) Names() []string {
	names := make([]string, 0, len(f))
	for _, field := range f {
		names = append(names, field.Name)
	}
	return names
}
