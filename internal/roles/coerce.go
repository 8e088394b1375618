package roles

import (
	"encoding/json"
	"math"
	"reflect"
	"strconv"
	"time"
)

// Writes through a role coerce loosely typed values into the Go field type,
// SQLite affinity style:
//
//	string field:  numbers → decimal text, bool → "0"/"1"
//	integer field: whole floats, bools (0/1) and numeric strings → int
//	float field:   any number, bool (0/1) and numeric strings → float
//	bool field:    numbers (non-zero), "true"/"false"/"1"/"0"
//	time.Time:     RFC 3339 strings
//	struct, slice, map: JSON round trip of map[string]any / []any values
//
// A conversion that loses information (fractional float into an integer,
// overflow, non-numeric text into a number) fails instead of truncating.

// coerce converts value into a reflect.Value assignable to t.
func coerce(value any, t reflect.Type) (reflect.Value, bool) {
	if value == nil {
		return reflect.Zero(t), true
	}
	v := reflect.ValueOf(value)
	if v.Type().AssignableTo(t) {
		return v, true
	}
	if t.Kind() == reflect.Pointer {
		inner, ok := coerce(value, t.Elem())
		if !ok {
			return reflect.Value{}, false
		}
		p := reflect.New(t.Elem())
		p.Elem().Set(inner)
		return p, true
	}
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return reflect.Zero(t), true
		}
		return coerce(v.Elem().Interface(), t)
	}
	if t == reflect.TypeFor[time.Time]() {
		s, ok := value.(string)
		if !ok {
			return reflect.Value{}, false
		}
		ts, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return reflect.Value{}, false
		}
		return reflect.ValueOf(ts), true
	}

	switch t.Kind() {
	case reflect.String:
		s, ok := coerceToText(v)
		if !ok {
			return reflect.Value{}, false
		}
		return reflect.ValueOf(s).Convert(t), true
	case reflect.Bool:
		b, ok := coerceToBool(v)
		if !ok {
			return reflect.Value{}, false
		}
		return reflect.ValueOf(b).Convert(t), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, ok := coerceToInteger(v)
		if !ok {
			return reflect.Value{}, false
		}
		out := reflect.New(t).Elem()
		if out.OverflowInt(i) {
			return reflect.Value{}, false
		}
		out.SetInt(i)
		return out, true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		i, ok := coerceToInteger(v)
		if !ok || i < 0 {
			return reflect.Value{}, false
		}
		out := reflect.New(t).Elem()
		if out.OverflowUint(uint64(i)) {
			return reflect.Value{}, false
		}
		out.SetUint(uint64(i))
		return out, true
	case reflect.Float32, reflect.Float64:
		f, ok := coerceToReal(v)
		if !ok {
			return reflect.Value{}, false
		}
		out := reflect.New(t).Elem()
		if out.OverflowFloat(f) {
			return reflect.Value{}, false
		}
		out.SetFloat(f)
		return out, true
	case reflect.Struct, reflect.Slice, reflect.Map, reflect.Array:
		return coerceJSON(value, t)
	default:
		if v.Type().ConvertibleTo(t) && v.Kind() == t.Kind() {
			return v.Convert(t), true
		}
		return reflect.Value{}, false
	}
}

// coerceToText converts scalar values to their text representation.
func coerceToText(v reflect.Value) (string, bool) {
	switch v.Kind() {
	case reflect.String:
		return v.String(), true
	case reflect.Bool:
		if v.Bool() {
			return "1", true
		}
		return "0", true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(v.Uint(), 10), true
	case reflect.Float32, reflect.Float64:
		f := v.Float()
		// Format without unnecessary decimal places for whole numbers
		if f == math.Trunc(f) && !math.IsInf(f, 0) && !math.IsNaN(f) && math.Abs(f) < 1<<53 {
			return strconv.FormatInt(int64(f), 10), true
		}
		return strconv.FormatFloat(f, 'f', -1, 64), true
	default:
		return "", false
	}
}

// coerceToInteger converts values to integer representation.
func coerceToInteger(v reflect.Value) (int64, bool) {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := v.Uint()
		if u > math.MaxInt64 {
			return 0, false
		}
		return int64(u), true
	case reflect.Float32, reflect.Float64:
		return floatToInteger(v.Float())
	case reflect.Bool:
		if v.Bool() {
			return 1, true
		}
		return 0, true
	case reflect.String:
		if i, err := strconv.ParseInt(v.String(), 10, 64); err == nil {
			return i, true
		}
		if f, err := strconv.ParseFloat(v.String(), 64); err == nil {
			return floatToInteger(f)
		}
		return 0, false
	default:
		return 0, false
	}
}

// floatToInteger accepts only whole floats within the int64 range.
func floatToInteger(f float64) (int64, bool) {
	if f != math.Trunc(f) || math.IsInf(f, 0) || math.IsNaN(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

// coerceToReal converts values to floating point representation.
func coerceToReal(v reflect.Value) (float64, bool) {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(v.Uint()), true
	case reflect.Float32, reflect.Float64:
		return v.Float(), true
	case reflect.Bool:
		if v.Bool() {
			return 1, true
		}
		return 0, true
	case reflect.String:
		f, err := strconv.ParseFloat(v.String(), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// coerceToBool converts numbers and boolean text.
func coerceToBool(v reflect.Value) (bool, bool) {
	switch v.Kind() {
	case reflect.Bool:
		return v.Bool(), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() != 0, true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.Uint() != 0, true
	case reflect.Float32, reflect.Float64:
		return v.Float() != 0, true
	case reflect.String:
		b, err := strconv.ParseBool(v.String())
		return b, err == nil
	default:
		return false, false
	}
}

// coerceJSON converts decoded JSON values (maps, slices) into composite types.
func coerceJSON(value any, t reflect.Type) (reflect.Value, bool) {
	data, err := json.Marshal(value)
	if err != nil {
		return reflect.Value{}, false
	}
	p := reflect.New(t)
	if err := json.Unmarshal(data, p.Interface()); err != nil {
		return reflect.Value{}, false
	}
	return p.Elem(), true
}
