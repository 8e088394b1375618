// Package helper provides uniform row access, lookup and change tracking over
// any view.
//
// A Helper wraps a view and is itself a view that forwards every call and
// notification, so it can stand in for the wrapped view anywhere.
package helper

import (
	"log/slog"
	"maps"
	"slices"

	"github.com/maruel/ksid"
	"github.com/maruel/tableview/internal/bridge"
	"github.com/maruel/tableview/internal/matcher"
	"github.com/maruel/tableview/internal/roles"
	"github.com/maruel/tableview/internal/view"
)

// Helper is a facade over a view.
type Helper struct {
	source  view.View
	sub     ksid.ID
	counter view.Counter
	bridges map[int]*bridge.Bridge
	backup  []map[string]any
}

// New wraps v. It fails with view.ErrNotAView when v is nil.
func New(v view.View) (*Helper, error) {
	if v == nil {
		return nil, view.ErrNotAView
	}
	h := &Helper{source: v, bridges: map[int]*bridge.Bridge{}}
	h.sub = h.counter.Track(v)
	return h, nil
}

// Must is New for views known to be valid. It panics when v is nil.
func Must(v view.View) *Helper {
	h, err := New(v)
	if err != nil {
		panic(err)
	}
	return h
}

// Source returns the wrapped view.
func (h *Helper) Source() view.View {
	return h.source
}

// Close stops tracking the view and destroys the cached bridges.
func (h *Helper) Close() {
	h.source.Disconnect(h.sub)
	for _, b := range slices.Collect(maps.Values(h.bridges)) {
		b.Destroy()
	}
}

// RowCount implements view.View.
func (h *Helper) RowCount() int {
	return h.source.RowCount()
}

// RoleNames implements view.View.
func (h *Helper) RoleNames() map[roles.Role]string {
	return h.source.RoleNames()
}

// Data implements view.View.
func (h *Helper) Data(row int, role roles.Role) any {
	return h.source.Data(row, role)
}

// SetData implements view.View.
func (h *Helper) SetData(row int, role roles.Role, value any) bool {
	return h.source.SetData(row, role, value)
}

// Connect implements view.View.
func (h *Helper) Connect(fn func(view.Event)) ksid.ID {
	return h.source.Connect(fn)
}

// Disconnect implements view.View. It also removes subscriptions made with
// OnCountChanged and OnEmptyChanged.
func (h *Helper) Disconnect(id ksid.ID) bool {
	return h.counter.DisconnectCounter(id) || h.source.Disconnect(id)
}

// RoleForName returns the role named name, or roles.Invalid.
func (h *Helper) RoleForName(name string) roles.Role {
	return roleForName(h.source, name)
}

// RoleName returns the name of r, or "" when unknown.
func (h *Helper) RoleName(r roles.Role) string {
	return h.source.RoleNames()[r]
}

// Len returns the row count last observed from a structural change.
func (h *Helper) Len() int {
	return h.counter.Count()
}

// IsEmpty reports whether the view has no row.
func (h *Helper) IsEmpty() bool {
	return h.counter.IsEmpty()
}

// OnCountChanged subscribes fn to row count changes.
func (h *Helper) OnCountChanged(fn func(count int)) ksid.ID {
	return h.counter.OnCountChanged(fn)
}

// OnEmptyChanged subscribes fn to emptiness changes.
func (h *Helper) OnEmptyChanged(fn func(empty bool)) ksid.ID {
	return h.counter.OnEmptyChanged(fn)
}

// Map returns a live bridge on row.
//
// Bridges on column 0 of root rows are cached per row until destroyed. Others
// are created on every call and belong to the caller.
func (h *Helper) Map(row, column int, parent view.Path) *bridge.Bridge {
	if column != 0 || !parent.IsRoot() {
		return bridge.New(h.source, row, column, parent)
	}
	if b, ok := h.bridges[row]; ok {
		return b
	}
	b := bridge.New(h.source, row, 0, nil)
	h.bridges[row] = b
	b.OnDestroyed(func() {
		if h.bridges[row] == b {
			delete(h.bridges, row)
		}
	})
	return b
}

// Get returns the values of row keyed by role name.
//
// Without names every role except Display and Object is returned. Unknown names
// map to nil. An out of range row returns nil.
func (h *Helper) Get(row int, names ...string) map[string]any {
	if !h.inRange(row) {
		return nil
	}
	if len(names) == 0 {
		return record(h.source, row)
	}
	out := make(map[string]any, len(names))
	for _, name := range names {
		out[name] = h.GetProperty(row, name)
	}
	return out
}

// GetProperty returns the value of name at row, or nil.
func (h *Helper) GetProperty(row int, name string) any {
	role := h.RoleForName(name)
	if role == roles.Invalid {
		return nil
	}
	return h.source.Data(row, role)
}

// GetProperties returns the value of name for every row.
func (h *Helper) GetProperties(name string) []any {
	role := h.RoleForName(name)
	if role == roles.Invalid {
		return nil
	}
	n := h.source.RowCount()
	out := make([]any, n)
	for row := range n {
		out[row] = h.source.Data(row, role)
	}
	return out
}

// GetPropertiesAt returns the value of name for each of rows.
func (h *Helper) GetPropertiesAt(rows []int, name string) []any {
	role := h.RoleForName(name)
	if role == roles.Invalid {
		return nil
	}
	out := make([]any, len(rows))
	for i, row := range rows {
		out[i] = h.source.Data(row, role)
	}
	return out
}

// Set writes every entry of values to row and reports whether all writes
// succeeded. Writes are applied in name order and are not rolled back.
func (h *Helper) Set(row int, values map[string]any) bool {
	if !h.inRange(row) {
		return false
	}
	ok := true
	for _, name := range slices.Sorted(maps.Keys(values)) {
		if !h.SetProperty(row, name, values[name]) {
			ok = false
		}
	}
	return ok
}

// SetProperty writes value to name at row.
func (h *Helper) SetProperty(row int, name string, value any) bool {
	role := h.RoleForName(name)
	if role == roles.Invalid {
		slog.Warn("Unknown property", "name", name, "err", view.ErrUnknownRole)
		return false
	}
	return h.source.SetData(row, role, value)
}

// SetProperties writes value to name on every row and reports whether all
// writes succeeded. Rows are written from last to first so that a write
// removing its own row does not skip the next one.
func (h *Helper) SetProperties(name string, value any) bool {
	role := h.RoleForName(name)
	if role == roles.Invalid {
		slog.Warn("Unknown property", "name", name, "err", view.ErrUnknownRole)
		return false
	}
	ok := true
	for row := h.source.RowCount() - 1; row >= 0; row-- {
		if row >= h.source.RowCount() {
			continue
		}
		if !h.source.SetData(row, role, value) {
			ok = false
		}
	}
	return ok
}

// SetPropertiesAt writes value to name on each of rows.
func (h *Helper) SetPropertiesAt(rows []int, name string, value any) bool {
	role := h.RoleForName(name)
	if role == roles.Invalid {
		slog.Warn("Unknown property", "name", name, "err", view.ErrUnknownRole)
		return false
	}
	ok := true
	for _, row := range rows {
		if !h.source.SetData(row, role, value) {
			ok = false
		}
	}
	return ok
}

// UpdateWhere writes value to property on every row whose column equals where.
// It reports whether at least one row matched and every write succeeded.
func (h *Helper) UpdateWhere(column string, where any, property string, value any) bool {
	rows := h.IndexesOf(column, where)
	if len(rows) == 0 {
		return false
	}
	slices.Reverse(rows)
	return h.SetPropertiesAt(rows, property, value)
}

// UpdateAll writes value to property on every row.
func (h *Helper) UpdateAll(property string, value any) bool {
	return h.SetProperties(property, value)
}

// IndexOf returns the first row whose name equals value, or -1. See
// matcher.IndexOf for sorted.
func (h *Helper) IndexOf(name string, value any, sorted bool) int {
	role := h.RoleForName(name)
	if role == roles.Invalid {
		return -1
	}
	return matcher.IndexOf(h.source, role, value, sorted)
}

// IndexesOf returns every row whose name equals value, ascending.
func (h *Helper) IndexesOf(name string, value any) []int {
	role := h.RoleForName(name)
	if role == roles.Invalid {
		return nil
	}
	return matcher.IndexesOf(h.source, role, value)
}

// Count returns the number of rows whose name equals value.
func (h *Helper) Count(name string, value any) int {
	return len(h.IndexesOf(name, value))
}

// Contains reports whether a row's name equals value.
func (h *Helper) Contains(name string, value any, sorted bool) bool {
	return h.IndexOf(name, value, sorted) >= 0
}

// IsSorted reports whether rows are ordered ascending by name.
func (h *Helper) IsSorted(name string) bool {
	role := h.RoleForName(name)
	if role == roles.Invalid {
		return h.source.RowCount() < 2
	}
	return matcher.IsSorted(h.source, role)
}

func (h *Helper) inRange(row int) bool {
	if row < 0 || row >= h.source.RowCount() {
		slog.Warn("Row out of range", "row", row, "count", h.source.RowCount(), "err", view.ErrOutOfRange)
		return false
	}
	return true
}

func roleForName(v view.View, name string) roles.Role {
	for r, n := range v.RoleNames() {
		if n == name {
			return r
		}
	}
	return roles.Invalid
}

var _ view.View = (*Helper)(nil)
