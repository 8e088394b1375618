// Package matcher finds rows of a view by role value.
//
// The free functions scan a view once. [Matcher] keeps the result of a query up
// to date with the view, and [Index] maintains a hash index of one role.
package matcher

import (
	"sort"

	"github.com/maruel/tableview/internal/roles"
	"github.com/maruel/tableview/internal/view"
)

// IndexOf returns the first row whose role equals value, or -1.
//
// When sorted is true the view must be ordered ascending by role under
// view.Compare and a binary search is used; otherwise rows are scanned.
func IndexOf(v view.View, role roles.Role, value any, sorted bool) int {
	if sorted {
		i := LowerBound(v, role, value)
		if i < v.RowCount() && view.Equal(v.Data(i, role), value) {
			return i
		}
		return -1
	}
	n := v.RowCount()
	for row := range n {
		if view.Equal(v.Data(row, role), value) {
			return row
		}
	}
	return -1
}

// IndexesOf returns every row whose role equals value, ascending.
func IndexesOf(v view.View, role roles.Role, value any) []int {
	var out []int
	n := v.RowCount()
	for row := range n {
		if view.Equal(v.Data(row, role), value) {
			out = append(out, row)
		}
	}
	return out
}

// Count returns the number of rows whose role equals value.
func Count(v view.View, role roles.Role, value any) int {
	return len(IndexesOf(v, role, value))
}

// Contains reports whether a row's role equals value.
func Contains(v view.View, role roles.Role, value any, sorted bool) bool {
	return IndexOf(v, role, value, sorted) >= 0
}

// LowerBound returns the first row whose role is not less than value, assuming
// the view is ordered ascending by role. It returns RowCount() when every row is
// less.
func LowerBound(v view.View, role roles.Role, value any) int {
	return sort.Search(v.RowCount(), func(row int) bool {
		return view.Compare(v.Data(row, role), value) >= 0
	})
}

// IsSorted reports whether rows are ordered ascending by role. Views with less
// than two rows are sorted.
func IsSorted(v view.View, role roles.Role) bool {
	n := v.RowCount()
	if n < 2 {
		return true
	}
	prev := v.Data(0, role)
	for row := 1; row < n; row++ {
		cur := v.Data(row, role)
		if view.Compare(prev, cur) > 0 {
			return false
		}
		prev = cur
	}
	return true
}

// Match returns up to hits rows, starting at start, whose role matches value
// under flags. hits -1 returns every match. With MatchWrap the search continues
// from row 0 up to start.
func Match(v view.View, start int, role roles.Role, value any, hits int, flags Flags) []int {
	n := v.RowCount()
	if n == 0 || hits == 0 {
		return nil
	}
	start = min(max(start, 0), n)
	m := newMatchFunc(value, flags)
	var out []int
	scan := func(from, to int) bool {
		for row := from; row < to; row++ {
			if m(v.Data(row, role)) {
				out = append(out, row)
				if hits > 0 && len(out) >= hits {
					return false
				}
			}
		}
		return true
	}
	if scan(start, n) && flags&MatchWrap != 0 {
		scan(0, start)
	}
	return out
}

// matchSorted is Match for exact lookups on a view ordered ascending by role.
func matchSorted(v view.View, start int, role roles.Role, value any, hits int) []int {
	n := v.RowCount()
	if hits == 0 {
		return nil
	}
	var out []int
	for row := max(LowerBound(v, role, value), start); row < n; row++ {
		if !view.Equal(v.Data(row, role), value) {
			break
		}
		out = append(out, row)
		if hits > 0 && len(out) >= hits {
			break
		}
	}
	return out
}
