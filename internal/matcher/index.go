// Provides in-memory hash indexes over one role of a view.

package matcher

import (
	"fmt"
	"iter"
	"slices"
	"time"

	"github.com/maruel/ksid"
	"github.com/maruel/tableview/internal/roles"
	"github.com/maruel/tableview/internal/view"
)

// Index provides O(1) lookup of the rows holding a value for one role.
//
// The index subscribes to the view and is rebuilt on the first lookup after a
// change. Values equal under view.Equal share a key: numbers of every Go type
// collapse to float64 and times to their instant.
type Index struct {
	source view.View
	role   roles.Role
	sub    ksid.ID
	dirty  bool
	byKey  map[key][]int
}

// NewIndex creates an index of role on source.
func NewIndex(source view.View, role roles.Role) *Index {
	idx := &Index{source: source, role: role, dirty: true}
	idx.sub = source.Connect(idx.onEvent)
	return idx
}

// Rows returns the rows holding value, ascending.
func (idx *Index) Rows(value any) []int {
	idx.build()
	return slices.Clone(idx.byKey[keyOf(value)])
}

// First returns the lowest row holding value, or -1.
func (idx *Index) First(value any) int {
	idx.build()
	if rows := idx.byKey[keyOf(value)]; len(rows) != 0 {
		return rows[0]
	}
	return -1
}

// Has reports whether a row holds value.
func (idx *Index) Has(value any) bool {
	return idx.First(value) >= 0
}

// Len returns the number of distinct values.
func (idx *Index) Len() int {
	idx.build()
	return len(idx.byKey)
}

// Groups iterates over each distinct value and its rows.
func (idx *Index) Groups() iter.Seq2[any, []int] {
	return func(yield func(any, []int) bool) {
		idx.build()
		seen := make(map[key]struct{}, len(idx.byKey))
		for row := range idx.source.RowCount() {
			v := idx.source.Data(row, idx.role)
			k := keyOf(v)
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			if !yield(v, slices.Clone(idx.byKey[k])) {
				return
			}
		}
	}
}

// Close stops tracking the view.
func (idx *Index) Close() {
	idx.source.Disconnect(idx.sub)
}

func (idx *Index) onEvent(e view.Event) {
	switch e.Kind {
	case view.DataChanged:
		if e.HasRole(idx.role) {
			idx.dirty = true
		}
	case view.RowsInserted, view.RowsRemoved, view.RowsMoved, view.Reset, view.LayoutChanged:
		idx.dirty = true
	}
}

func (idx *Index) build() {
	if !idx.dirty {
		return
	}
	idx.dirty = false
	idx.byKey = make(map[key][]int)
	for row := range idx.source.RowCount() {
		k := keyOf(idx.source.Data(row, idx.role))
		idx.byKey[k] = append(idx.byKey[k], row)
	}
}

type keyKind uint8

const (
	keyNil keyKind = iota
	keyNumber
	keyString
	keyBool
	keyTime
	keyOther
)

type key struct {
	kind keyKind
	num  float64
	str  string
}

func keyOf(v any) key {
	if v == nil {
		return key{kind: keyNil}
	}
	if f, ok := view.ToFloat(v); ok {
		return key{kind: keyNumber, num: f}
	}
	switch t := v.(type) {
	case string:
		return key{kind: keyString, str: t}
	case bool:
		if t {
			return key{kind: keyBool, num: 1}
		}
		return key{kind: keyBool}
	case time.Time:
		return key{kind: keyTime, str: t.UTC().Format(time.RFC3339Nano)}
	default:
		return key{kind: keyOther, str: fmt.Sprintf("%T:%v", v, v)}
	}
}
