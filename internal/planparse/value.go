package planparse

import (
	"encoding/json"
	"strconv"
	"strings"
)

// FlexValue is a JSON field that may arrive as a number, a range string
// ("8-12"), a qualitative label, or not at all. It keeps the numeric/text
// distinction while persisting as a string for schema compatibility.
type FlexValue struct {
	Numeric bool
	Number  float64
	Text    string
	set     bool
}

func (v *FlexValue) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		return nil
	}

	if strings.HasPrefix(s, `"`) {
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		v.Text = text
		v.set = true
		return nil
	}

	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		// Objects and arrays carry nothing usable here; treat as absent
		// rather than failing the whole plan.
		return nil
	}
	v.Numeric = true
	v.Number = n
	v.set = true
	return nil
}

// IsText reports whether the source supplied a string value.
func (v FlexValue) IsText() bool {
	return v.set && !v.Numeric
}

// String renders the persisted form. Absent and zero-number values render
// empty, matching the upstream coercion rules.
func (v FlexValue) String() string {
	switch {
	case !v.set:
		return ""
	case !v.Numeric:
		return v.Text
	case v.Number == 0:
		return ""
	default:
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	}
}

// Float extracts a numeric reading: the number itself, a parseable text
// value, or 0.
func (v FlexValue) Float() float64 {
	if !v.set {
		return 0
	}
	if v.Numeric {
		return v.Number
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(v.Text), 64)
	if err != nil {
		return 0
	}
	return n
}

// Int extracts an integer reading with a fallback default for absent or
// non-numeric values.
func (v FlexValue) Int(def int) int {
	if !v.set {
		return def
	}
	if v.Numeric {
		if v.Number == 0 {
			return def
		}
		return int(v.Number)
	}
	n, err := strconv.Atoi(strings.TrimSpace(v.Text))
	if err != nil || n == 0 {
		return def
	}
	return n
}
