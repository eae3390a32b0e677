package filter

import (
	"bytes"
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Value is a user-entered comparison value. The UI sends strings, numbers
// or booleans; all of them are kept in their textual form.
type Value string

func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		values := make([]string, 0, len(items))
		for _, item := range items {
			s, err := scalarString(item)
			if err != nil {
				return err
			}
			values = append(values, strings.ReplaceAll(s, ",", `\,`))
		}
		*v = Value(strings.Join(values, ","))
		return nil
	}
	s, err := scalarString(data)
	if err != nil {
		return err
	}
	*v = Value(s)
	return nil
}

func (v Value) String() string {
	return string(v)
}

// isNaN mirrors the loose numeric test of the UI: blank text counts as zero.
// Only finite numbers pass, so "NaN" and "inf" spellings are rejected.
func isNaN(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	f, err := strconv.ParseFloat(s, 64)
	return err != nil || math.IsNaN(f) || math.IsInf(f, 0)
}

var leadingFloat = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// parseLeadingFloat parses the numeric prefix of s, ignoring trailing text.
func parseLeadingFloat(s string) (float64, bool) {
	m := leadingFloat.FindString(strings.TrimLeft(s, " \t\n\r"))
	if m == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// formatNumber writes f the way the UI prints numbers: shortest digits,
// exponent notation below 1e-6 and from 1e21 on, and no negative zero.
func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}
	if abs := math.Abs(f); abs >= 1e21 || abs < 1e-6 {
		mantissa, exp, _ := strings.Cut(strconv.FormatFloat(f, 'e', -1, 64), "e")
		return mantissa + "e" + exp[:1] + strings.TrimLeft(exp[1:], "0")
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
