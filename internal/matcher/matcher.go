package matcher

import (
	"log/slog"
	"slices"

	"github.com/maruel/ksid"
	"github.com/maruel/tableview/internal/eventloop"
	"github.com/maruel/tableview/internal/roles"
	"github.com/maruel/tableview/internal/view"
)

// Matcher keeps the rows of a view matching a value up to date.
//
// Changes to the source or to the query mark the result stale. The result is
// recomputed on the next query, or on the event loop when delayed, so bursts of
// invalidations cost one recomputation.
type Matcher struct {
	loop     *eventloop.Loop
	source   view.View
	sub      ksid.ID
	startRow int
	role     roles.Role
	roleName string
	value    any
	hits     int
	flags    Flags
	sorted   bool
	delayed  bool

	dirty   bool
	queued  bool
	indexes []int
	counter view.Counter

	aboutToInvalidate view.Signal[struct{}]
	invalidated       view.Signal[[]int]
}

// New returns a matcher over source looking for exact matches of the display
// role. source may be nil and set later. loop defaults to eventloop.Default().
func New(source view.View, loop *eventloop.Loop) *Matcher {
	if loop == nil {
		loop = eventloop.Default()
	}
	m := &Matcher{loop: loop, role: roles.Display, hits: -1}
	m.SetSource(source)
	return m
}

// Source returns the matched view.
func (m *Matcher) Source() view.View {
	return m.source
}

// SetSource rebinds the matcher to source.
func (m *Matcher) SetSource(source view.View) {
	if m.source != nil {
		m.source.Disconnect(m.sub)
		m.sub = 0
	}
	m.source = source
	if source != nil {
		m.sub = source.Connect(m.onEvent)
	}
	m.Invalidate()
}

// Close disconnects the matcher from its source.
func (m *Matcher) Close() {
	if m.source != nil {
		m.source.Disconnect(m.sub)
		m.source = nil
		m.sub = 0
	}
}

// StartRow returns the first row searched.
func (m *Matcher) StartRow() int {
	return m.startRow
}

// SetStartRow sets the first row searched.
func (m *Matcher) SetStartRow(row int) {
	if row != m.startRow {
		m.startRow = row
		m.Invalidate()
	}
}

// Role returns the role searched. When a role name is set, it is resolved
// against the source.
func (m *Matcher) Role() roles.Role {
	if m.roleName != "" {
		return m.resolve()
	}
	return m.role
}

// SetRole searches role and clears any role name.
func (m *Matcher) SetRole(role roles.Role) {
	if role != m.role || m.roleName != "" {
		m.role = role
		m.roleName = ""
		m.Invalidate()
	}
}

// RoleName returns the role name set with SetRoleName.
func (m *Matcher) RoleName() string {
	return m.roleName
}

// SetRoleName searches the role named name. The name is resolved on each
// recomputation since record views only learn their roles once populated.
func (m *Matcher) SetRoleName(name string) {
	if name != m.roleName {
		m.roleName = name
		m.Invalidate()
	}
}

// Value returns the searched value.
func (m *Matcher) Value() any {
	return m.value
}

// SetValue sets the searched value.
func (m *Matcher) SetValue(value any) {
	if !view.Equal(value, m.value) {
		m.value = value
		m.Invalidate()
	}
}

// Hits returns the maximum number of matches, -1 for all.
func (m *Matcher) Hits() int {
	return m.hits
}

// SetHits sets the maximum number of matches. Negative values mean all.
func (m *Matcher) SetHits(hits int) {
	hits = max(hits, -1)
	if hits != m.hits {
		m.hits = hits
		m.Invalidate()
	}
}

// Flags returns the match flags.
func (m *Matcher) Flags() Flags {
	return m.flags
}

// SetFlags sets the match flags.
func (m *Matcher) SetFlags(flags Flags) {
	if flags != m.flags {
		m.flags = flags
		m.Invalidate()
	}
}

// Sorted reports whether the source is assumed ordered ascending by role.
func (m *Matcher) Sorted() bool {
	return m.sorted
}

// SetSorted enables the binary search path for exact matches. The ordering is
// not verified.
func (m *Matcher) SetSorted(sorted bool) {
	if sorted != m.sorted {
		m.sorted = sorted
		m.Invalidate()
	}
}

// Delayed reports whether recomputation runs on the event loop.
func (m *Matcher) Delayed() bool {
	return m.delayed
}

// SetDelayed moves recomputation onto the event loop. Invalidations are then
// coalesced into one posted task and signals fire from the loop.
func (m *Matcher) SetDelayed(delayed bool) {
	m.delayed = delayed
	if delayed && m.dirty {
		m.schedule()
	}
}

// Indexes returns the matching rows, ascending from the start row.
func (m *Matcher) Indexes() []int {
	m.update()
	return slices.Clone(m.indexes)
}

// Count returns the number of matching rows.
func (m *Matcher) Count() int {
	m.update()
	return len(m.indexes)
}

// IsEmpty reports whether no row matches.
func (m *Matcher) IsEmpty() bool {
	return m.Count() == 0
}

// First returns the first matching row, or -1.
func (m *Matcher) First() int {
	m.update()
	if len(m.indexes) == 0 {
		return -1
	}
	return m.indexes[0]
}

// Invalidate marks the result stale.
func (m *Matcher) Invalidate() {
	if !m.dirty {
		m.dirty = true
		m.aboutToInvalidate.Emit(struct{}{})
	}
	if m.delayed {
		m.schedule()
	}
}

// OnAboutToBeInvalidated subscribes fn to the result becoming stale.
func (m *Matcher) OnAboutToBeInvalidated(fn func()) ksid.ID {
	return m.aboutToInvalidate.Connect(func(struct{}) { fn() })
}

// OnInvalidated subscribes fn to recomputations. fn receives the new rows.
func (m *Matcher) OnInvalidated(fn func(indexes []int)) ksid.ID {
	return m.invalidated.Connect(fn)
}

// OnCountChanged subscribes fn to changes of the match count.
func (m *Matcher) OnCountChanged(fn func(count int)) ksid.ID {
	return m.counter.OnCountChanged(fn)
}

// OnEmptyChanged subscribes fn to changes of IsEmpty.
func (m *Matcher) OnEmptyChanged(fn func(empty bool)) ksid.ID {
	return m.counter.OnEmptyChanged(fn)
}

// Disconnect removes any subscription made on m.
func (m *Matcher) Disconnect(id ksid.ID) bool {
	return m.aboutToInvalidate.Disconnect(id) || m.invalidated.Disconnect(id) || m.counter.DisconnectCounter(id)
}

func (m *Matcher) onEvent(e view.Event) {
	switch e.Kind {
	case view.DataChanged:
		if role := m.Role(); role != roles.Invalid && !e.HasRole(role) {
			return
		}
		m.Invalidate()
	case view.RowsInserted, view.RowsRemoved, view.RowsMoved, view.Reset, view.LayoutChanged,
		view.ColumnsInserted, view.ColumnsRemoved:
		m.Invalidate()
	}
}

func (m *Matcher) schedule() {
	if m.queued {
		return
	}
	m.queued = true
	m.loop.Post(func() {
		m.queued = false
		m.update()
	})
}

func (m *Matcher) resolve() roles.Role {
	if m.source == nil {
		return roles.Invalid
	}
	for r, name := range m.source.RoleNames() {
		if name == m.roleName {
			return r
		}
	}
	return roles.Invalid
}

// update recomputes the result if stale.
func (m *Matcher) update() {
	if !m.dirty {
		return
	}
	m.dirty = false
	m.indexes = m.compute()
	m.invalidated.Emit(slices.Clone(m.indexes))
	m.counter.Update(len(m.indexes))
}

func (m *Matcher) compute() []int {
	if m.source == nil {
		return nil
	}
	role := m.Role()
	if role == roles.Invalid {
		if m.roleName != "" {
			slog.Warn("Unknown role name", "role", m.roleName, "err", view.ErrUnknownRole)
		}
		return nil
	}
	if m.sorted && m.flags.Kind() == MatchExactly && m.flags&MatchWrap == 0 {
		return matchSorted(m.source, m.startRow, role, m.value, m.hits)
	}
	return Match(m.source, m.startRow, role, m.value, m.hits, m.flags)
}
