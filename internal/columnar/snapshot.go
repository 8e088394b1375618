// Package columnar converts views to Apache Arrow records.
package columnar

import (
	"maps"
	"slices"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/maruel/tableview/internal/roles"
	"github.com/maruel/tableview/internal/view"
)

// Snapshot copies every row of v into an Arrow record, one field per role
// other than Display and Object, in role order.
//
// Each field type is inferred from the values of its column: booleans, Go
// integers, other numbers, times, otherwise strings. A column mixing kinds is
// stored as strings. nil values are nulls.
//
// mem defaults to a Go allocator. The caller must Release the record.
func Snapshot(v view.View, mem memory.Allocator) arrow.Record {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}
	names := v.RoleNames()
	var columns []roles.Role
	for _, r := range slices.Sorted(maps.Keys(names)) {
		if !roles.IsReserved(r) {
			columns = append(columns, r)
		}
	}
	n := v.RowCount()
	values := make([][]any, len(columns))
	fields := make([]arrow.Field, len(columns))
	for i, r := range columns {
		col := make([]any, n)
		for row := range n {
			col[row] = v.Data(row, r)
		}
		values[i] = col
		fields[i] = arrow.Field{Name: names[r], Type: inferType(col), Nullable: true}
	}
	b := array.NewRecordBuilder(mem, arrow.NewSchema(fields, nil))
	defer b.Release()
	for i, col := range values {
		appendColumn(b.Field(i), col)
	}
	return b.NewRecord()
}

type kind int

const (
	kindNone kind = iota
	kindBool
	kindInt
	kindFloat
	kindTime
	kindString
)

func kindOf(v any) kind {
	switch v.(type) {
	case nil:
		return kindNone
	case bool:
		return kindBool
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return kindInt
	case float32, float64:
		return kindFloat
	case time.Time:
		return kindTime
	default:
		return kindString
	}
}

func inferType(col []any) arrow.DataType {
	k := kindNone
	for _, v := range col {
		switch vk := kindOf(v); {
		case vk == kindNone || vk == k:
		case k == kindNone:
			k = vk
		case (k == kindInt && vk == kindFloat) || (k == kindFloat && vk == kindInt):
			k = kindFloat
		default:
			k = kindString
		}
	}
	switch k {
	case kindBool:
		return arrow.FixedWidthTypes.Boolean
	case kindInt:
		return arrow.PrimitiveTypes.Int64
	case kindFloat:
		return arrow.PrimitiveTypes.Float64
	case kindTime:
		return arrow.FixedWidthTypes.Timestamp_ns
	default:
		return arrow.BinaryTypes.String
	}
}

func appendColumn(b array.Builder, col []any) {
	for _, v := range col {
		if v == nil {
			b.AppendNull()
			continue
		}
		switch fb := b.(type) {
		case *array.BooleanBuilder:
			fb.Append(v.(bool))
		case *array.Int64Builder:
			fb.Append(toInt64(v))
		case *array.Float64Builder:
			f, _ := view.ToFloat(v)
			fb.Append(f)
		case *array.TimestampBuilder:
			fb.Append(arrow.Timestamp(v.(time.Time).UnixNano()))
		case *array.StringBuilder:
			fb.Append(view.ToString(v))
		}
	}
}

func toInt64(v any) int64 {
	switch n := v.(type) {
	case int:
		return int64(n)
	case int8:
		return int64(n)
	case int16:
		return int64(n)
	case int32:
		return int64(n)
	case int64:
		return n
	case uint:
		return int64(n)
	case uint8:
		return int64(n)
	case uint16:
		return int64(n)
	case uint32:
		return int64(n)
	case uint64:
		return int64(n)
	default:
		return 0
	}
}

// Rows converts rec back to one map per row keyed by field name.
func Rows(rec arrow.Record) []map[string]any {
	n := int(rec.NumRows())
	out := make([]map[string]any, n)
	for row := range n {
		out[row] = make(map[string]any, rec.NumCols())
	}
	for i, field := range rec.Schema().Fields() {
		col := rec.Column(i)
		for row := range n {
			out[row][field.Name] = value(col, row)
		}
	}
	return out
}

func value(col arrow.Array, pos int) any {
	if col.IsNull(pos) {
		return nil
	}
	switch c := col.(type) {
	case *array.Boolean:
		return c.Value(pos)
	case *array.Int64:
		return c.Value(pos)
	case *array.Float64:
		return c.Value(pos)
	case *array.Timestamp:
		return c.Value(pos).ToTime(arrow.Nanosecond)
	case *array.String:
		return c.Value(pos)
	default:
		return col.ValueStr(pos)
	}
}
