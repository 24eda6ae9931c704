package schema

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"
)

func TestValueOf(t *testing.T) {
	when := time.Date(2020, time.January, 2, 3, 4, 5, 0, time.UTC)

	tests := []struct {
		name string
		in   any
		want Value
	}{
		{name: "string", in: "x", want: String("x")},
		{name: "nil is blank text", in: nil, want: String("")},
		{name: "int", in: 42, want: Int(42)},
		{name: "int64", in: int64(-7), want: Int(-7)},
		{name: "uint32", in: uint32(9), want: Int(9)},
		{name: "integral float", in: float64(3), want: Int(3)},
		{name: "min int64 float", in: float64(math.MinInt64), want: Int(math.MinInt64)},
		{name: "time", in: when, want: Time(when)},
		{name: "value passthrough", in: Int(5), want: Int(5)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValueOf(tt.in)
			if err != nil {
				t.Fatalf("value of %v: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("got %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestValueOf_Rejects(t *testing.T) {
	for _, in := range []any{
		uint64(math.MaxUint64),
		3.5,
		math.NaN(),
		1e300,
		-1e300,
		float64(math.MaxInt64),
		[]string{"x"},
		map[string]any{},
		struct{}{},
	} {
		if _, err := ValueOf(in); !errors.Is(err, ErrUnsupportedValue) {
			t.Errorf("value of %v: got %v, want ErrUnsupportedValue", in, err)
		}
	}
}

func TestInputOf(t *testing.T) {
	in, err := InputOf(map[string]any{
		"name":  "x",
		"count": 3,
	})
	if err != nil {
		t.Fatalf("input of: %v", err)
	}
	if in["name"] != String("x") || in["count"] != Int(3) {
		t.Errorf("unexpected input: %#v", in)
	}

	_, err = InputOf(map[string]any{"bad": []int{1}})
	if !errors.Is(err, ErrUnsupportedValue) {
		t.Fatalf("got %v, want ErrUnsupportedValue", err)
	}
	if !strings.Contains(err.Error(), `key "bad"`) {
		t.Errorf("error should name the offending key: %v", err)
	}
}

func TestValueText(t *testing.T) {
	when := time.Date(2020, time.January, 2, 3, 4, 5, 0, time.UTC)

	if got := String(" padded ").Text(); got != "padded" {
		t.Errorf("text: got %q", got)
	}
	if got := Int(42).Text(); got != "42" {
		t.Errorf("int: got %q", got)
	}
	if got := Time(when).Text(); got != "2020-01-02T03:04:05Z" {
		t.Errorf("time: got %q", got)
	}
}

func TestValueKind(t *testing.T) {
	var zero Value
	if zero.Kind() != KindText {
		t.Errorf("zero value kind: got %v", zero.Kind())
	}
	if Int(1).Kind() != KindInt || Time(time.Now()).Kind() != KindTime {
		t.Errorf("constructor kinds wrong")
	}
}
