package trial

import (
	"encoding/json"
	"math"
	"strconv"
)

// Kind discriminates the scalar type held by a Value.
type Kind uint8

// Value kinds.
const (
	KindNumber Kind = iota + 1
	KindString
	KindBool
)

// Value is one reported metric scalar: a number, a string or a boolean.
// The zero Value is invalid and never appears in a snapshot.
type Value struct {
	kind Kind
	num  float64
	str  string
	b    bool
}

// Number builds a numeric Value.
func Number(v float64) Value { return Value{kind: KindNumber, num: v} }

// Text builds a string Value.
func Text(v string) Value { return Value{kind: KindString, str: v} }

// Bool builds a boolean Value.
func Bool(v bool) Value { return Value{kind: KindBool, b: v} }

// valueOf converts a flattened or inferred scalar into a Value.
func valueOf(v any) (Value, bool) {
	switch t := v.(type) {
	case float64:
		return Number(t), true
	case string:
		return Text(t), true
	case bool:
		return Bool(t), true
	}

	return Value{}, false
}

// Kind returns the value's scalar kind.
func (v Value) Kind() Kind { return v.kind }

// Number returns the numeric value, reporting whether the kind is numeric.
func (v Value) Number() (float64, bool) {
	return v.num, v.kind == KindNumber
}

// Str returns the string value, reporting whether the kind is string.
func (v Value) Str() (string, bool) {
	return v.str, v.kind == KindString
}

// Bool returns the boolean value, reporting whether the kind is boolean.
func (v Value) Bool() (bool, bool) {
	return v.b, v.kind == KindBool
}

// String renders the value for display.
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case KindString:
		return v.str
	case KindBool:
		return strconv.FormatBool(v.b)
	}

	return ""
}

// Interface returns the underlying scalar as an untyped value.
func (v Value) Interface() any {
	switch v.kind {
	case KindNumber:
		return v.num
	case KindString:
		return v.str
	case KindBool:
		return v.b
	}

	return nil
}

// Less orders values: numbers by magnitude, strings lexicographically,
// booleans false before true. Mixed kinds order by kind so selection stays
// deterministic on heterogeneous metrics.
func (v Value) Less(o Value) bool {
	if v.kind != o.kind {
		return v.kind < o.kind
	}

	switch v.kind {
	case KindNumber:
		return v.num < o.num
	case KindString:
		return v.str < o.str
	case KindBool:
		return !v.b && o.b
	}

	return false
}

// MarshalJSON writes the underlying scalar. Non-finite numbers, which JSON
// cannot carry, fall back to their string forms.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.kind == KindNumber && (math.IsNaN(v.num) || math.IsInf(v.num, 0)) {
		return json.Marshal(v.String())
	}

	return json.Marshal(v.Interface())
}

// MarshalYAML renders the underlying scalar.
func (v Value) MarshalYAML() (any, error) {
	return v.Interface(), nil
}
