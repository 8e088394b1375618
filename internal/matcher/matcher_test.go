package matcher

import (
	"slices"
	"testing"

	"github.com/maruel/tableview/internal/eventloop"
	"github.com/maruel/tableview/internal/listmodel"
	"github.com/maruel/tableview/internal/roles"
)

// Roles of records with the keys "n" and "name", sorted.
const (
	roleN    = roles.Object + 1
	roleName = roles.Object + 2
)

func newRecords(loop *eventloop.Loop, names ...string) *listmodel.RecordList {
	l := listmodel.NewRecordList(listmodel.Options{Name: "test", Loop: loop})
	for i, name := range names {
		l.Append(listmodel.Record{"name": name, "n": float64(i + 1)})
	}
	return l
}

func TestSearch(t *testing.T) {
	l := newRecords(eventloop.New(), "a", "b", "c", "b")
	t.Run("IndexOf", func(t *testing.T) {
		tests := []struct {
			name   string
			role   roles.Role
			value  any
			sorted bool
			want   int
		}{
			{"first of duplicates", roleName, "b", false, 1},
			{"missing", roleName, "z", false, -1},
			{"sorted", roleN, 3, true, 2},
			{"sorted across types", roleN, int64(1), true, 0},
			{"sorted missing", roleN, 2.5, true, -1},
			{"sorted past the end", roleN, 9, true, -1},
			{"unknown role", roles.Object + 9, "b", false, -1},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				if got := IndexOf(l, tt.role, tt.value, tt.sorted); got != tt.want {
					t.Errorf("IndexOf() = %d, want %d", got, tt.want)
				}
			})
		}
	})
	t.Run("IndexesOf", func(t *testing.T) {
		if got := IndexesOf(l, roleName, "b"); !slices.Equal(got, []int{1, 3}) {
			t.Errorf("IndexesOf() = %v, want [1 3]", got)
		}
		if got := Count(l, roleName, "b"); got != 2 {
			t.Errorf("Count() = %d, want 2", got)
		}
		if Contains(l, roleName, "z", false) {
			t.Error("Contains(z) = true")
		}
	})
	t.Run("LowerBound", func(t *testing.T) {
		if got := LowerBound(l, roleN, 2.5); got != 2 {
			t.Errorf("LowerBound() = %d, want 2", got)
		}
		if got := LowerBound(l, roleN, 0); got != 0 {
			t.Errorf("LowerBound() = %d, want 0", got)
		}
	})
	t.Run("IsSorted", func(t *testing.T) {
		if !IsSorted(l, roleN) {
			t.Error("IsSorted(n) = false")
		}
		if IsSorted(l, roleName) {
			t.Error("IsSorted(name) = true")
		}
		if !IsSorted(newRecords(eventloop.New(), "z"), roleName) {
			t.Error("IsSorted() on one row = false")
		}
	})
}

func TestMatch(t *testing.T) {
	l := newRecords(eventloop.New(), "apple", "Banana", "cherry", "banana")
	tests := []struct {
		name  string
		start int
		value any
		hits  int
		flags Flags
		want  []int
	}{
		{"exact", 0, "banana", -1, MatchExactly, []int{3}},
		{"contains", 0, "AN", -1, MatchContains, []int{1, 3}},
		{"contains case sensitive", 0, "AN", -1, MatchContains | MatchCaseSensitive, nil},
		{"starts with", 0, "b", -1, MatchStartsWith, []int{1, 3}},
		{"ends with", 0, "Y", -1, MatchEndsWith, []int{2}},
		{"regexp", 0, "^b.*a$", -1, MatchRegexp, []int{1, 3}},
		{"invalid regexp", 0, "(", -1, MatchRegexp, nil},
		{"wildcard", 0, "*e*", -1, MatchWildcard, []int{0, 2}},
		{"fixed string", 0, "BANANA", -1, MatchFixedString, []int{1, 3}},
		{"start and hits", 2, "an", 1, MatchContains, []int{3}},
		{"no wrap", 2, "b", -1, MatchStartsWith, []int{3}},
		{"wrap", 2, "b", -1, MatchStartsWith | MatchWrap, []int{3, 1}},
		{"zero hits", 0, "b", 0, MatchStartsWith, nil},
		{"start clamped", 10, "b", -1, MatchStartsWith | MatchWrap, []int{1, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Match(l, tt.start, roleName, tt.value, tt.hits, tt.flags); !slices.Equal(got, tt.want) {
				t.Errorf("Match() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMatcher(t *testing.T) {
	t.Run("lazy", func(t *testing.T) {
		loop := eventloop.New()
		l := newRecords(loop)
		m := New(l, loop)
		m.SetRoleName("name")
		m.SetValue("b")
		if m.Count() != 0 {
			t.Fatalf("Count() = %d on an empty source", m.Count())
		}
		var runs int
		m.OnInvalidated(func([]int) { runs++ })
		l.Append(listmodel.Record{"name": "a", "n": 1.0})
		l.Append(listmodel.Record{"name": "b", "n": 2.0})
		l.Append(listmodel.Record{"name": "b", "n": 3.0})
		if runs != 0 {
			t.Errorf("recomputed %d times before a query", runs)
		}
		if got := m.Indexes(); !slices.Equal(got, []int{1, 2}) {
			t.Errorf("Indexes() = %v, want [1 2]", got)
		}
		if m.Count() != 2 || m.First() != 1 || m.IsEmpty() {
			t.Errorf("Count() = %d, First() = %d", m.Count(), m.First())
		}
		if runs != 1 {
			t.Errorf("recomputed %d times, want 1", runs)
		}
		if loop.Pending() != 0 {
			t.Errorf("Pending() = %d, want 0", loop.Pending())
		}
	})

	t.Run("ignores other roles", func(t *testing.T) {
		loop := eventloop.New()
		l := newRecords(loop, "a", "b")
		m := New(l, loop)
		m.SetRole(roleName)
		m.SetValue("b")
		m.Count()
		var stale int
		m.OnAboutToBeInvalidated(func() { stale++ })
		l.SetData(0, roleN, 9.0)
		if stale != 0 {
			t.Error("a change to another role invalidated the matcher")
		}
		l.SetData(0, roleName, "b")
		if stale != 1 {
			t.Errorf("invalidated %d times, want 1", stale)
		}
		if got := m.Indexes(); !slices.Equal(got, []int{0, 1}) {
			t.Errorf("Indexes() = %v, want [0 1]", got)
		}
	})

	t.Run("delayed", func(t *testing.T) {
		loop := eventloop.New()
		l := newRecords(loop)
		m := New(l, loop)
		m.SetRoleName("name")
		m.SetValue("b")
		var counts []int
		var empties []bool
		m.OnCountChanged(func(n int) { counts = append(counts, n) })
		m.OnEmptyChanged(func(e bool) { empties = append(empties, e) })
		m.SetDelayed(true)
		l.Append(listmodel.Record{"name": "b", "n": 1.0})
		l.Append(listmodel.Record{"name": "b", "n": 2.0})
		if loop.Pending() != 1 {
			t.Fatalf("Pending() = %d, want 1", loop.Pending())
		}
		loop.Drain()
		if !slices.Equal(counts, []int{2}) || !slices.Equal(empties, []bool{false}) {
			t.Errorf("counts = %v, empties = %v", counts, empties)
		}
		l.Clear()
		loop.Drain()
		if !slices.Equal(counts, []int{2, 0}) || !slices.Equal(empties, []bool{false, true}) {
			t.Errorf("counts = %v, empties = %v", counts, empties)
		}
	})

	t.Run("sorted", func(t *testing.T) {
		loop := eventloop.New()
		l := newRecords(loop, "a", "b", "b", "c")
		m := New(l, loop)
		m.SetRole(roleName)
		m.SetValue("b")
		m.SetSorted(true)
		if got := m.Indexes(); !slices.Equal(got, []int{1, 2}) {
			t.Errorf("Indexes() = %v, want [1 2]", got)
		}
		m.SetHits(1)
		if got := m.Indexes(); !slices.Equal(got, []int{1}) {
			t.Errorf("Indexes() = %v, want [1]", got)
		}
		m.SetStartRow(2)
		m.SetHits(-1)
		if got := m.Indexes(); !slices.Equal(got, []int{2}) {
			t.Errorf("Indexes() = %v, want [2]", got)
		}
	})

	t.Run("Close", func(t *testing.T) {
		loop := eventloop.New()
		l := newRecords(loop, "a")
		m := New(l, loop)
		m.SetRole(roleName)
		m.SetValue("a")
		if m.Count() != 1 {
			t.Fatalf("Count() = %d, want 1", m.Count())
		}
		m.Close()
		l.Append(listmodel.Record{"name": "a", "n": 2.0})
		if m.Count() != 1 {
			t.Errorf("Count() = %d after Close, want 1", m.Count())
		}
	})
}

func TestIndex(t *testing.T) {
	l := newRecords(eventloop.New(), "a", "b", "c", "b")
	idx := NewIndex(l, roleName)
	if got := idx.Rows("b"); !slices.Equal(got, []int{1, 3}) {
		t.Errorf("Rows(b) = %v, want [1 3]", got)
	}
	if idx.Len() != 3 {
		t.Errorf("Len() = %d, want 3", idx.Len())
	}
	if idx.Has("z") || idx.First("z") != -1 {
		t.Error("found a missing value")
	}
	byN := NewIndex(l, roleN)
	if got := byN.First(int32(2)); got != 1 {
		t.Errorf("First(int32(2)) = %d, want 1", got)
	}

	l.SetData(0, roleName, "b")
	if got := idx.Rows("b"); !slices.Equal(got, []int{0, 1, 3}) {
		t.Errorf("Rows(b) after SetData = %v, want [0 1 3]", got)
	}
	l.RemoveAt(1, 1)
	if got := idx.Rows("b"); !slices.Equal(got, []int{0, 2}) {
		t.Errorf("Rows(b) after remove = %v, want [0 2]", got)
	}
	var values []any
	for v, rows := range idx.Groups() {
		values = append(values, v)
		if len(rows) == 0 {
			t.Errorf("Groups() yielded %v without rows", v)
		}
	}
	if !slices.Equal(values, []any{"b", "c"}) {
		t.Errorf("Groups() = %v, want [b c]", values)
	}
	idx.Close()
	l.Clear()
	if got := idx.Rows("b"); len(got) != 2 {
		t.Errorf("Rows(b) after Close = %v, want the stale rows", got)
	}
}
