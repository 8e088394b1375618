package roles

import (
	"math"
	"reflect"
	"testing"
)

func TestCoerce(t *testing.T) {
	type named string
	t.Run("valid", func(t *testing.T) {
		tests := []struct {
			name  string
			value any
			typ   reflect.Type
			want  any
		}{
			{"int to int64", 5, reflect.TypeFor[int64](), int64(5)},
			{"whole float to int", 7.0, reflect.TypeFor[int](), 7},
			{"bool to int", true, reflect.TypeFor[int](), 1},
			{"text to uint8", "200", reflect.TypeFor[uint8](), uint8(200)},
			{"int to float32", 3, reflect.TypeFor[float32](), float32(3)},
			{"whole float to text", 2.0, reflect.TypeFor[string](), "2"},
			{"bool to text", false, reflect.TypeFor[string](), "0"},
			{"text to named", "x", reflect.TypeFor[named](), named("x")},
			{"zero int to bool", 0, reflect.TypeFor[bool](), false},
			{"nil to int", nil, reflect.TypeFor[int](), 0},
			{"map to map", map[string]any{"k": 1.0}, reflect.TypeFor[map[string]int](), map[string]int{"k": 1}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				got, ok := coerce(tt.value, tt.typ)
				if !ok {
					t.Fatalf("coerce(%v, %s) failed", tt.value, tt.typ)
				}
				if !reflect.DeepEqual(got.Interface(), tt.want) {
					t.Errorf("coerce(%v, %s) = %#v, want %#v", tt.value, tt.typ, got.Interface(), tt.want)
				}
			})
		}
	})

	t.Run("pointers", func(t *testing.T) {
		got, ok := coerce(4, reflect.TypeFor[*int]())
		if !ok || *got.Interface().(*int) != 4 {
			t.Errorf("coerce(4, *int) = %v, %v", got, ok)
		}
		s := "9"
		got, ok = coerce(&s, reflect.TypeFor[int]())
		if !ok || got.Interface() != 9 {
			t.Errorf("coerce(*string, int) = %v, %v", got, ok)
		}
		got, ok = coerce((*string)(nil), reflect.TypeFor[int]())
		if !ok || got.Interface() != 0 {
			t.Errorf("coerce(nil *string, int) = %v, %v", got, ok)
		}
	})

	t.Run("errors", func(t *testing.T) {
		tests := []struct {
			name  string
			value any
			typ   reflect.Type
		}{
			{"overflow int8", 300, reflect.TypeFor[int8]()},
			{"negative uint", -1, reflect.TypeFor[uint]()},
			{"fraction to int", 1.25, reflect.TypeFor[int]()},
			{"NaN to int", math.NaN(), reflect.TypeFor[int]()},
			{"text to float", "abc", reflect.TypeFor[float64]()},
			{"slice to text", []int{1}, reflect.TypeFor[string]()},
			{"text to slice", "abc", reflect.TypeFor[[]int]()},
			{"number to struct", 5, reflect.TypeFor[struct{ A int }]()},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				if got, ok := coerce(tt.value, tt.typ); ok {
					t.Errorf("coerce(%v, %s) = %v, want failure", tt.value, tt.typ, got)
				}
			})
		}
	})
}
