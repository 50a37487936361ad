package metric

import (
	"encoding/json"
	"strconv"
)

// Value is a tagged metric payload: either a number or free-form text.
// Aggregation operates only on the numeric arm; text values are stored and
// echoed back but excluded from min/max/avg.
type Value struct {
	num     float64
	text    string
	numeric bool
}

// Number wraps a numeric metric value.
func Number(f float64) Value {
	return Value{num: f, numeric: true}
}

// Text wraps a non-numeric metric value.
func Text(s string) Value {
	return Value{text: s}
}

// ParseValue re-tags a stored string: values that parse as a float become
// numeric, everything else stays text.
func ParseValue(s string) Value {
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return Number(f)
	}
	return Text(s)
}

// IsNumber reports whether the value carries a number.
func (v Value) IsNumber() bool { return v.numeric }

// Float returns the numeric payload and whether one is present.
func (v Value) Float() (float64, bool) {
	return v.num, v.numeric
}

// String renders the value the way it is persisted.
func (v Value) String() string {
	if v.numeric {
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	}
	return v.text
}

// MarshalJSON emits numbers as JSON numbers and text as JSON strings.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.numeric {
		return json.Marshal(v.num)
	}
	return json.Marshal(v.text)
}

// UnmarshalJSON accepts either a JSON number or a JSON string.
func (v *Value) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*v = Number(f)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*v = Text(s)
	return nil
}
