package schema

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Kind discriminates the raw scalar variants accepted by Parse.
type Kind int

const (
	// KindText is a plain string.
	KindText Kind = iota
	// KindInt is an integer, read as Unix epoch seconds by timestamp
	// fields.
	KindInt
	// KindTime is an already-typed timestamp.
	KindTime
)

// Value is the closed scalar variant raw input values are expressed in before
// coercion. The zero Value is the blank text value, which every field treats
// as absent.
type Value struct {
	kind Kind
	text string
	n    int64
	t    time.Time
}

// String returns the text Value for s.
func String(s string) Value {
	return Value{kind: KindText, text: s}
}

// Int returns the integer Value for n.
func Int(n int64) Value {
	return Value{kind: KindInt, n: n}
}

// Time returns the timestamp Value for t.
func Time(t time.Time) Value {
	return Value{kind: KindTime, t: t}
}

// ValueOf bridges loosely typed data, such as decoded YAML or JSON, into the
// scalar variant. It accepts strings, signed and unsigned integers, integral
// floats (JSON numbers), time.Time, and nil (the blank text value); anything
// else fails with ErrUnsupportedValue.
func ValueOf(v any) (Value, error) {
	switch t := v.(type) {
	case Value:
		return t, nil
	case nil:
		return String(""), nil
	case string:
		return String(t), nil
	case int:
		return Int(int64(t)), nil
	case int8:
		return Int(int64(t)), nil
	case int16:
		return Int(int64(t)), nil
	case int32:
		return Int(int64(t)), nil
	case int64:
		return Int(t), nil
	case uint:
		return Int(int64(t)), nil
	case uint8:
		return Int(int64(t)), nil
	case uint16:
		return Int(int64(t)), nil
	case uint32:
		return Int(int64(t)), nil
	case uint64:
		if t > math.MaxInt64 {
			return Value{}, fmt.Errorf("%w: integer %d overflows", ErrUnsupportedValue, t)
		}
		return Int(int64(t)), nil
	case float32:
		return floatValue(float64(t))
	case float64:
		return floatValue(t)
	case time.Time:
		return Time(t), nil
	default:
		return Value{}, fmt.Errorf("%w: %T", ErrUnsupportedValue, v)
	}
}

func floatValue(f float64) (Value, error) {
	if f != math.Trunc(f) || math.IsInf(f, 0) || math.IsNaN(f) {
		return Value{}, fmt.Errorf("%w: non-integral number %v", ErrUnsupportedValue, f)
	}
	// float64(math.MaxInt64) rounds up to 2^63, so >= catches every float
	// past the last representable int64.
	if f >= math.MaxInt64 || f < math.MinInt64 {
		return Value{}, fmt.Errorf("%w: number %v overflows", ErrUnsupportedValue, f)
	}
	return Int(int64(f)), nil
}

// Input maps input keys to raw scalar values for one Parse call.
type Input map[string]Value

// InputOf bridges a loosely typed map into an Input via ValueOf.
func InputOf(m map[string]any) (Input, error) {
	in := make(Input, len(m))
	for key, raw := range m {
		value, err := ValueOf(raw)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", key, err)
		}
		in[key] = value
	}
	return in, nil
}

// Kind reports the variant held by the value.
func (v Value) Kind() Kind {
	return v.kind
}

// Text returns the textual representation of the value: trimmed text as
// given, integers in base 10, timestamps in RFC 3339.
func (v Value) Text() string {
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(v.n, 10)
	case KindTime:
		return v.t.Format(time.RFC3339)
	default:
		return strings.TrimSpace(v.text)
	}
}

// blank reports whether the value counts as absent: only the empty (or
// whitespace-only) text value does.
func (v Value) blank() bool {
	return v.kind == KindText && strings.TrimSpace(v.text) == ""
}

// timestamp coerces the value into a time.Time. Integers are Unix epoch
// seconds in UTC; strings go through the permissive dateparse grammar.
func (v Value) timestamp() (time.Time, bool) {
	switch v.kind {
	case KindTime:
		return v.t, true
	case KindInt:
		return time.Unix(v.n, 0).UTC(), true
	default:
		ts, err := dateparse.ParseAny(strings.TrimSpace(v.text))
		if err != nil {
			return time.Time{}, false
		}
		return ts, true
	}
}
