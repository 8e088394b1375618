// Handles column types derived from Go field types.

package roles

import (
	"reflect"
	"time"
)

// ColumnType is the storage class of a struct-backed role.
type ColumnType string

const (
	ColumnTypeText   ColumnType = "text"
	ColumnTypeNumber ColumnType = "number"
	ColumnTypeBool   ColumnType = "bool"
	ColumnTypeDate   ColumnType = "date"
	ColumnTypeBlob   ColumnType = "blob"
	ColumnTypeJSONB  ColumnType = "jsonb"
)

// Column describes one property role of a struct type.
type Column struct {
	Name        string
	Role        Role
	Type        ColumnType
	Required    bool
	Description string

	goType reflect.Type
	index  []int
}

// GoType returns the Go type of the struct field backing the column.
func (c *Column) GoType() reflect.Type {
	return c.goType
}

// jsonFieldName returns the JSON field name for a struct field.
func jsonFieldName(field *reflect.StructField) string {
	tag := field.Tag.Get("json")
	if tag == "" || tag == "-" {
		return field.Name
	}
	// Handle "name,omitempty" format
	for i, c := range tag {
		if c == ',' {
			if i == 0 {
				return field.Name
			}
			return tag[:i]
		}
	}
	return tag
}

// goTypeToColumnType maps Go types to column types.
func goTypeToColumnType(t reflect.Type) ColumnType {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == reflect.TypeFor[time.Time]() {
		return ColumnTypeDate
	}
	if t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.Uint8 {
		return ColumnTypeBlob
	}

	switch t.Kind() {
	case reflect.String:
		return ColumnTypeText
	case reflect.Bool:
		return ColumnTypeBool
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return ColumnTypeNumber
	case reflect.Struct, reflect.Slice, reflect.Array, reflect.Map,
		reflect.Complex64, reflect.Complex128:
		return ColumnTypeJSONB
	case reflect.Invalid, reflect.Uintptr, reflect.Chan, reflect.Func,
		reflect.Interface, reflect.Pointer, reflect.UnsafePointer:
		return ColumnTypeText
	}
	return ColumnTypeText
}
