package helper

import (
	"errors"
	"slices"
	"testing"

	"github.com/maruel/tableview/internal/eventloop"
	"github.com/maruel/tableview/internal/listmodel"
	"github.com/maruel/tableview/internal/view"
)

func newRecords(records ...listmodel.Record) *listmodel.RecordList {
	l := listmodel.NewRecordList(listmodel.Options{Name: "test", Loop: eventloop.New()})
	l.Append(records...)
	return l
}

func abc() *listmodel.RecordList {
	return newRecords(
		listmodel.Record{"name": "a", "n": 1},
		listmodel.Record{"name": "b", "n": 2},
		listmodel.Record{"name": "c", "n": 3},
	)
}

type tagged struct {
	listmodel.Object
	Name string         `json:"name"`
	Tags []string       `json:"tags"`
	Meta map[string]int `json:"meta"`
}

func TestNew(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		l := abc()
		h, err := New(l)
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		if h.Source() != l || h.Len() != 3 || h.IsEmpty() {
			t.Errorf("Len() = %d", h.Len())
		}
	})
	t.Run("errors", func(t *testing.T) {
		if _, err := New(nil); !errors.Is(err, view.ErrNotAView) {
			t.Errorf("New(nil) error = %v, want %v", err, view.ErrNotAView)
		}
		defer func() {
			if recover() == nil {
				t.Error("Must(nil) did not panic")
			}
		}()
		Must(nil)
	})
}

func TestScenario(t *testing.T) {
	l := abc()
	h := Must(l)
	if got := h.IndexOf("name", "b", false); got != 1 {
		t.Errorf("IndexOf(name, b) = %d, want 1", got)
	}
	if !h.IsSorted("n") {
		t.Error("IsSorted(n) = false")
	}
	if !l.RemoveAt(1, 1) {
		t.Fatal("RemoveAt() = false")
	}
	want := []map[string]any{{"name": "a", "n": 1}, {"name": "c", "n": 3}}
	if got := h.ToValueList(); !view.EqualRecordLists(got, want) {
		t.Errorf("ToValueList() = %v, want %v", got, want)
	}
	if got := h.IndexOf("name", "b", false); got != -1 {
		t.Errorf("IndexOf(name, b) = %d, want -1", got)
	}
}

func TestAccess(t *testing.T) {
	t.Run("Get", func(t *testing.T) {
		h := Must(abc())
		if got := h.Get(1); !view.EqualRecords(got, map[string]any{"name": "b", "n": 2}) {
			t.Errorf("Get(1) = %v", got)
		}
		if got := h.Get(1, "n", "missing"); !view.EqualRecords(got, map[string]any{"n": 2, "missing": nil}) {
			t.Errorf("Get(1, n, missing) = %v", got)
		}
		if got := h.Get(3); got != nil {
			t.Errorf("Get(3) = %v, want nil", got)
		}
		if got := h.GetProperty(2, "name"); got != "c" {
			t.Errorf("GetProperty() = %v, want c", got)
		}
		if got := h.GetProperty(2, "missing"); got != nil {
			t.Errorf("GetProperty(missing) = %v, want nil", got)
		}
		if got := h.GetProperties("name"); !slices.Equal(got, []any{"a", "b", "c"}) {
			t.Errorf("GetProperties() = %v", got)
		}
		if got := h.GetPropertiesAt([]int{2, 0}, "n"); !slices.Equal(got, []any{3, 1}) {
			t.Errorf("GetPropertiesAt() = %v", got)
		}
		if got := h.GetProperties("missing"); got != nil {
			t.Errorf("GetProperties(missing) = %v, want nil", got)
		}
	})

	t.Run("Set", func(t *testing.T) {
		h := Must(abc())
		if !h.Set(0, map[string]any{"name": "z", "n": 26}) {
			t.Fatal("Set() = false")
		}
		if got := h.Get(0); !view.EqualRecords(got, map[string]any{"name": "z", "n": 26}) {
			t.Errorf("Get(0) = %v", got)
		}
		tests := []struct {
			name   string
			row    int
			values map[string]any
		}{
			{"out of range", 3, map[string]any{"name": "x"}},
			{"unknown property", 0, map[string]any{"missing": 1}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				if h.Set(tt.row, tt.values) {
					t.Error("Set() = true")
				}
			})
		}
		if !h.SetProperty(2, "n", 30) || h.GetProperty(2, "n") != 30 {
			t.Errorf("SetProperty() did not store, n = %v", h.GetProperty(2, "n"))
		}
	})

	t.Run("SetProperties", func(t *testing.T) {
		h := Must(abc())
		if !h.SetProperties("n", 0) {
			t.Fatal("SetProperties() = false")
		}
		if got := h.GetProperties("n"); !slices.Equal(got, []any{0, 0, 0}) {
			t.Errorf("GetProperties() = %v", got)
		}
		if !h.SetPropertiesAt([]int{0, 2}, "name", "x") {
			t.Fatal("SetPropertiesAt() = false")
		}
		if got := h.GetProperties("name"); !slices.Equal(got, []any{"x", "b", "x"}) {
			t.Errorf("GetProperties() = %v", got)
		}
		if h.SetProperties("missing", 1) {
			t.Error("SetProperties(missing) = true")
		}
	})

	t.Run("SetProperties removing rows", func(t *testing.T) {
		l := abc()
		h := Must(l)
		role := l.RoleForName("name")
		l.Connect(func(e view.Event) {
			if e.Kind == view.DataChanged && l.Data(e.First, role) == "drop" {
				l.RemoveAt(e.First, 1)
			}
		})
		if !h.SetProperties("name", "drop") {
			t.Fatal("SetProperties() = false")
		}
		if l.Len() != 0 {
			t.Errorf("Len() = %d, want 0", l.Len())
		}
	})

	t.Run("UpdateWhere", func(t *testing.T) {
		h := Must(newRecords(
			listmodel.Record{"name": "a", "n": 1},
			listmodel.Record{"name": "b", "n": 2},
			listmodel.Record{"name": "a", "n": 3},
		))
		if !h.UpdateWhere("name", "a", "n", 9) {
			t.Fatal("UpdateWhere() = false")
		}
		if got := h.GetProperties("n"); !slices.Equal(got, []any{9, 2, 9}) {
			t.Errorf("GetProperties() = %v", got)
		}
		if h.UpdateWhere("name", "zz", "n", 0) {
			t.Error("UpdateWhere() without match = true")
		}
		if !h.UpdateAll("name", "q") || h.Count("name", "q") != 3 {
			t.Errorf("UpdateAll() names = %v", h.GetProperties("name"))
		}
	})

	t.Run("lookup", func(t *testing.T) {
		h := Must(newRecords(
			listmodel.Record{"name": "a", "n": 1},
			listmodel.Record{"name": "b", "n": 2},
			listmodel.Record{"name": "b", "n": 2},
			listmodel.Record{"name": "d", "n": 4},
		))
		if got := h.IndexesOf("name", "b"); !slices.Equal(got, []int{1, 2}) {
			t.Errorf("IndexesOf() = %v", got)
		}
		if h.Count("name", "b") != 2 {
			t.Errorf("Count() = %d, want 2", h.Count("name", "b"))
		}
		if got := h.IndexOf("n", 4.0, true); got != 3 {
			t.Errorf("IndexOf(sorted) = %d, want 3", got)
		}
		if !h.Contains("n", 2, true) || h.Contains("n", 3, true) {
			t.Error("Contains() mismatch")
		}
		if h.IndexOf("missing", 1, false) != -1 || h.IndexesOf("missing", 1) != nil {
			t.Error("found an unknown property")
		}
		if !h.IsSorted("name") {
			t.Error("IsSorted(name) = false")
		}
	})

	t.Run("roles", func(t *testing.T) {
		l := abc()
		h := Must(l)
		r := h.RoleForName("name")
		if r != l.RoleForName("name") || h.RoleName(r) != "name" {
			t.Errorf("RoleForName(name) = %v", r)
		}
		if h.RoleName(r+100) != "" {
			t.Error("RoleName() of an unknown role is not empty")
		}
	})
}

func TestNotifications(t *testing.T) {
	l := newRecords()
	h := Must(l)
	var counts []int
	var empties []bool
	h.OnCountChanged(func(n int) { counts = append(counts, n) })
	id := h.OnEmptyChanged(func(e bool) { empties = append(empties, e) })
	var kinds []view.EventKind
	h.Connect(func(e view.Event) { kinds = append(kinds, e.Kind) })
	l.Append(listmodel.Record{"name": "a"})
	l.Append(listmodel.Record{"name": "b"})
	l.Clear()
	if !slices.Equal(counts, []int{1, 2, 0}) || !slices.Equal(empties, []bool{false, true}) {
		t.Errorf("counts = %v, empties = %v", counts, empties)
	}
	if len(kinds) != 6 || kinds[0] != view.RowsAboutToBeInserted {
		t.Errorf("events = %v", kinds)
	}
	if !h.Disconnect(id) {
		t.Error("Disconnect() = false")
	}
	if h.SetData(0, l.RoleForName("name"), "x") {
		t.Error("SetData() on an empty view = true")
	}
}

func TestMap(t *testing.T) {
	l := abc()
	h := Must(l)
	b := h.Map(1, 0, nil)
	if h.Map(1, 0, nil) != b {
		t.Error("Map() did not reuse the cached bridge")
	}
	if h.Map(1, 1, nil) == b {
		t.Error("Map() cached a bridge for column 1")
	}
	h.SetProperty(1, "n", 7)
	if got := b.Get("n"); got != 7 {
		t.Errorf("bridge n = %v, want 7", got)
	}
	b.Destroy()
	cached := h.Map(1, 0, nil)
	if cached == b {
		t.Error("Map() returned a destroyed bridge")
	}
	h.Close()
	if !cached.IsDestroyed() {
		t.Error("Close() did not destroy the cached bridge")
	}
}

func TestDiff(t *testing.T) {
	t.Run("backup", func(t *testing.T) {
		h := Must(abc())
		if !h.HasChanged() {
			t.Error("HasChanged() without backup = false")
		}
		h.Backup()
		if h.HasChanged() {
			t.Error("HasChanged() right after Backup() = true")
		}
		h.SetProperty(0, "name", "new")
		if !h.HasChanged() {
			t.Error("HasChanged() after a write = false")
		}
		h.Backup()
		h.Source().(*listmodel.RecordList).Append(listmodel.Record{"name": "d", "n": 4})
		if !h.HasChanged() {
			t.Error("HasChanged() after an insert = false")
		}
		h.ClearBackup()
		if !h.HasChanged() {
			t.Error("HasChanged() after ClearBackup() = false")
		}
	})

	t.Run("backup copies object fields", func(t *testing.T) {
		l, err := listmodel.NewObjectList[*tagged](listmodel.Options{Loop: eventloop.New()})
		if err != nil {
			t.Fatal(err)
		}
		item := &tagged{Name: "a", Tags: []string{"x", "y"}, Meta: map[string]int{"n": 1}}
		l.Append(item)
		h := Must(l)
		h.Backup()
		item.Tags[0] = "changed"
		if !h.HasChanged() {
			t.Error("HasChanged() after an in place slice write = false")
		}
		h.Backup()
		item.Meta["n"] = 2
		if !h.HasChanged() {
			t.Error("HasChanged() after an in place map write = false")
		}
	})

	t.Run("backup result is a copy", func(t *testing.T) {
		h := Must(newRecords(listmodel.Record{"name": "a", "tags": []any{"x"}}))
		rows := h.Backup()
		rows[0]["name"] = "changed"
		rows[0]["tags"].([]any)[0] = "changed"
		if h.HasChanged() {
			t.Error("HasChanged() after modifying the rows returned by Backup() = true")
		}
	})

	t.Run("Equals", func(t *testing.T) {
		h := Must(abc())
		tests := []struct {
			name  string
			other view.View
			want  bool
		}{
			{"same", abc(), true},
			{"numbers across types", newRecords(
				listmodel.Record{"name": "a", "n": 1.0},
				listmodel.Record{"name": "b", "n": int64(2)},
				listmodel.Record{"name": "c", "n": 3},
			), true},
			{"different value", newRecords(
				listmodel.Record{"name": "a", "n": 1},
				listmodel.Record{"name": "b", "n": 2},
				listmodel.Record{"name": "x", "n": 3},
			), false},
			{"different count", newRecords(listmodel.Record{"name": "a", "n": 1}), false},
			{"different roles", newRecords(
				listmodel.Record{"name": "a"},
				listmodel.Record{"name": "b"},
				listmodel.Record{"name": "c"},
			), false},
			{"nil", nil, false},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				if got := h.Equals(tt.other); got != tt.want {
					t.Errorf("Equals() = %v, want %v", got, tt.want)
				}
			})
		}
	})
}
