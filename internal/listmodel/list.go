package listmodel

import (
	"cmp"
	"iter"
	"log/slog"
	"slices"

	"github.com/maruel/ksid"
	"github.com/maruel/tableview/internal/eventloop"
	"github.com/maruel/tableview/internal/roles"
	"github.com/maruel/tableview/internal/view"
)

// Options configures a list.
type Options struct {
	// Name identifies the list in logs. It defaults to the item type name.
	Name string
	// Exposed restricts object roles to these properties. Ignored by record
	// lists.
	Exposed []string
	// Display names the object property presented through roles.Display.
	// Ignored by record lists.
	Display string
	// Loop receives deferred destruction of owned items. It defaults to
	// eventloop.Default().
	Loop *eventloop.Loop
}

// accessor adapts an item kind to the list engine.
type accessor[T any] interface {
	// namespace returns the roles, deriving them from sample when the kind
	// samples its first items. It returns nil while no role is known.
	namespace(sample []T) *roles.Map
	valid(item T) bool
	// prepare returns the value actually stored for an inserted item.
	prepare(item T) T
	same(a, b T) bool
	get(item T, r roles.Role) (any, bool)
	// set returns the item to store after writing r.
	set(item T, r roles.Role, value any) (T, bool)
	attach(item T)
	detach(item T)
	displayRole() roles.Role
}

type observerEntry[T any] struct {
	id  ksid.ID
	obs ItemObserver[T]
}

// List is an observable ordered collection of homogeneous items.
//
// It implements view.View. It is not safe for concurrent use. Handlers of the
// completed notifications may mutate it reentrantly; structural changes asked
// from an about-to notification or a veto hook are refused.
type List[T any] struct {
	name      string
	acc       accessor[T]
	roles     *roles.Map
	items     []T
	loop      *eventloop.Loop
	readOnly  bool
	// locked counts the about-to notifications and veto hooks in progress.
	locked    int
	events    view.Signal[view.Event]
	counter   view.Counter
	observers []observerEntry[T]
	inserted  view.Signal[ItemEvent[T]]
	removed   view.Signal[ItemEvent[T]]
	moved     view.Signal[MoveEvent[T]]
}

func newList[T any](name string, acc accessor[T], loop *eventloop.Loop) *List[T] {
	if loop == nil {
		loop = eventloop.Default()
	}
	return &List[T]{name: name, acc: acc, roles: acc.namespace(nil), loop: loop}
}

// Name returns the name used in logs.
func (l *List[T]) Name() string {
	return l.name
}

// Loop returns the loop receiving deferred destruction.
func (l *List[T]) Loop() *eventloop.Loop {
	return l.loop
}

// View implementation.

func (l *List[T]) RowCount() int {
	return len(l.items)
}

func (l *List[T]) RoleNames() map[roles.Role]string {
	if l.roles == nil {
		return roles.Empty().Names()
	}
	return l.roles.Names()
}

// Data returns the value of role at row, or nil.
func (l *List[T]) Data(row int, role roles.Role) any {
	if row < 0 || row >= len(l.items) {
		return nil
	}
	v, _ := l.acc.get(l.items[row], role)
	return v
}

// SetData writes value at row for role and emits DataChanged on success.
//
// Writing roles.Object replaces a record; object lists reject it.
func (l *List[T]) SetData(row int, role roles.Role, value any) bool {
	if !l.writable() {
		return false
	}
	if row < 0 || row >= len(l.items) {
		slog.Warn("Cannot write out of bound row", "list", l.name, "row", row, "count", len(l.items), "err", view.ErrOutOfRange)
		return false
	}
	if role != roles.Object && !l.roles.Has(role) {
		slog.Warn("Cannot write unknown role", "list", l.name, "role", role, "err", view.ErrUnknownRole)
		return false
	}
	item, ok := l.acc.set(l.items[row], role, value)
	if !ok {
		return false
	}
	l.items[row] = item
	l.events.Emit(view.Changed(row, row, l.changedRoles(role)...))
	return true
}

func (l *List[T]) Connect(fn func(view.Event)) ksid.ID {
	return l.events.Connect(fn)
}

func (l *List[T]) Disconnect(id ksid.ID) bool {
	return l.events.Disconnect(id)
}

// RoleForName returns the role registered under name, or roles.Invalid.
func (l *List[T]) RoleForName(name string) roles.Role {
	r, ok := l.roles.Role(name)
	if !ok {
		return roles.Invalid
	}
	return r
}

// RoleName returns the name of role r, or "".
func (l *List[T]) RoleName(r roles.Role) string {
	return l.roles.Name(r)
}

// ColumnCount returns the number of roles, reserved roles included.
func (l *List[T]) ColumnCount() int {
	if l.roles == nil {
		return roles.Empty().Len()
	}
	return l.roles.Len()
}

// SetReadOnly toggles rejection of every write and structural change.
func (l *List[T]) SetReadOnly(readOnly bool) {
	l.readOnly = readOnly
}

// ReadOnly reports whether the list rejects writes.
func (l *List[T]) ReadOnly() bool {
	return l.readOnly
}

// Reading.

// Len returns the number of items.
func (l *List[T]) Len() int {
	return len(l.items)
}

// Count returns the number of items as last reported to count subscribers.
func (l *List[T]) Count() int {
	return l.counter.Count()
}

// IsEmpty reports whether the list holds no item.
func (l *List[T]) IsEmpty() bool {
	return len(l.items) == 0
}

// At returns the item at index, or the zero value with a warning.
func (l *List[T]) At(index int) T {
	item, _ := l.Get(index)
	return item
}

// Get returns the item at index.
func (l *List[T]) Get(index int) (T, bool) {
	if index < 0 || index >= len(l.items) {
		slog.Warn("Index is out of bound", "list", l.name, "index", index, "count", len(l.items), "err", view.ErrOutOfRange)
		var zero T
		return zero, false
	}
	return l.items[index], true
}

// First returns the first item.
func (l *List[T]) First() (T, bool) {
	if len(l.items) == 0 {
		slog.Warn("The first element of an empty list doesn't exist", "list", l.name, "err", view.ErrOutOfRange)
		var zero T
		return zero, false
	}
	return l.items[0], true
}

// Last returns the last item.
func (l *List[T]) Last() (T, bool) {
	if len(l.items) == 0 {
		slog.Warn("The last element of an empty list doesn't exist", "list", l.name, "err", view.ErrOutOfRange)
		var zero T
		return zero, false
	}
	return l.items[len(l.items)-1], true
}

// IndexOf returns the row of the first occurrence of item, or -1 with a warning.
func (l *List[T]) IndexOf(item T) int {
	if !l.acc.valid(item) {
		slog.Warn("Cannot find the index of an invalid item", "list", l.name, "err", view.ErrInvalidReference)
		return -1
	}
	i := l.indexOf(item)
	if i < 0 {
		slog.Warn("Item isn't in this list", "list", l.name, "err", view.ErrInvalidReference)
	}
	return i
}

// Contains reports whether item is in the list.
func (l *List[T]) Contains(item T) bool {
	return l.acc.valid(item) && l.indexOf(item) >= 0
}

// All iterates over a snapshot of the items with their rows.
func (l *List[T]) All() iter.Seq2[int, T] {
	items := slices.Clone(l.items)
	return func(yield func(int, T) bool) {
		for i, item := range items {
			if !yield(i, item) {
				return
			}
		}
	}
}

// Items returns a copy of the item slice.
func (l *List[T]) Items() []T {
	return slices.Clone(l.items)
}

// Inserting.

// Append inserts items at the end.
func (l *List[T]) Append(items ...T) bool {
	return l.Insert(len(l.items), items...)
}

// Prepend inserts items at the beginning.
func (l *List[T]) Prepend(items ...T) bool {
	return l.Insert(0, items...)
}

// Insert inserts items before index as one batch.
//
// index is clamped into [0, Len()] with a warning. The batch is rejected when it
// is empty, holds an invalid item or is vetoed by an observer.
func (l *List[T]) Insert(index int, items ...T) bool {
	if !l.mutable() {
		return false
	}
	if len(items) == 0 {
		slog.Warn("Cannot insert an empty list", "list", l.name, "err", view.ErrInvalidReference)
		return false
	}
	for _, item := range items {
		if !l.acc.valid(item) {
			slog.Warn("Cannot insert an invalid item", "list", l.name, "err", view.ErrInvalidReference)
			return false
		}
	}
	if index > len(l.items) {
		slog.Warn("Index is greater than count, inserting at the end", "list", l.name, "index", index, "count", len(l.items), "err", view.ErrOutOfRange)
		index = len(l.items)
	} else if index < 0 {
		slog.Warn("Index is lower than 0, inserting at the beginning", "list", l.name, "index", index, "err", view.ErrOutOfRange)
		index = 0
	}
	for i, item := range items {
		if !l.aboutToInsert(item, index+i) {
			slog.Warn("Insertion vetoed", "list", l.name, "index", index+i, "err", view.ErrVetoed)
			return false
		}
	}

	if l.roles == nil {
		l.roles = l.acc.namespace(items)
	}
	prepared := make([]T, len(items))
	for i, item := range items {
		prepared[i] = l.acc.prepare(item)
	}
	before, after := view.Inserting(index, index+len(prepared)-1)
	l.emitAboutTo(before)
	l.items = slices.Insert(l.items, index, prepared...)
	for _, item := range prepared {
		l.acc.attach(item)
	}
	l.events.Emit(after)
	l.counter.Update(len(l.items))
	for i, item := range prepared {
		l.notifyInserted(item, index+i)
	}
	return true
}

// InsertArg inserts one item or a list of items before index.
func (l *List[T]) InsertArg(index int, a Arg[T]) bool {
	switch a.kind {
	case argOne:
		return l.Insert(index, a.item)
	case argMany:
		return l.Insert(index, a.items...)
	default:
		slog.Warn("Cannot insert argument, want an item or a list of items", "list", l.name, "arg", a.kind, "err", view.ErrInvalidReference)
		return false
	}
}

// Removing.

// RemoveAt removes count items starting at index as one batch.
func (l *List[T]) RemoveAt(index, count int) bool {
	if !l.mutable() {
		return false
	}
	if count < 1 || index < 0 || index+count > len(l.items) {
		slog.Warn("Cannot remove out of bound rows", "list", l.name, "index", index, "count", count, "len", len(l.items), "err", view.ErrOutOfRange)
		return false
	}
	rows := make([]int, count)
	for i := range rows {
		rows[i] = index + i
	}
	return l.removeRows(rows)
}

// RemoveItem removes the first occurrence of item.
func (l *List[T]) RemoveItem(item T) bool {
	if !l.mutable() {
		return false
	}
	i := l.IndexOf(item)
	if i < 0 {
		return false
	}
	return l.removeRows([]int{i})
}

// RemoveItems removes every item of items as one atomic batch.
//
// Every item must be present; an item listed twice removes two occurrences.
// Each contiguous run of rows gets its own bracket, highest run first.
func (l *List[T]) RemoveItems(items []T) bool {
	if !l.mutable() {
		return false
	}
	if len(items) == 0 {
		slog.Warn("Cannot remove an empty list", "list", l.name, "err", view.ErrInvalidReference)
		return false
	}
	used := make([]bool, len(l.items))
	rows := make([]int, 0, len(items))
	for _, item := range items {
		if !l.acc.valid(item) {
			slog.Warn("Cannot remove an invalid item", "list", l.name, "err", view.ErrInvalidReference)
			return false
		}
		row := -1
		for i := range l.items {
			if !used[i] && l.acc.same(l.items[i], item) {
				row = i
				break
			}
		}
		if row < 0 {
			slog.Warn("Cannot remove an item that isn't in this list", "list", l.name, "err", view.ErrInvalidReference)
			return false
		}
		used[row] = true
		rows = append(rows, row)
	}
	slices.Sort(rows)
	return l.removeRows(rows)
}

// RemoveArg removes a single item, a list of items or count rows from an index.
func (l *List[T]) RemoveArg(a Arg[T]) bool {
	switch a.kind {
	case argOne:
		return l.RemoveItem(a.item)
	case argMany:
		return l.RemoveItems(a.items)
	case argIndex:
		return l.RemoveAt(a.index, a.count)
	default:
		slog.Warn("Cannot remove argument, want an item, a list of items or an index", "list", l.name, "err", view.ErrInvalidReference)
		return false
	}
}

// Clear removes every item as one batch. Clearing an empty list succeeds without
// notification.
func (l *List[T]) Clear() bool {
	if !l.mutable() {
		return false
	}
	if len(l.items) == 0 {
		return true
	}
	rows := make([]int, len(l.items))
	for i := range rows {
		rows[i] = i
	}
	return l.removeRows(rows)
}

// removeRows removes the ascending distinct rows after consulting observers.
//
// Each contiguous run gets its own bracket, highest run first. The remaining
// items are located again before every run since a RowsRemoved handler may
// have changed the list; items such a handler removed itself are skipped.
func (l *List[T]) removeRows(rows []int) bool {
	removed := make([]ItemEvent[T], len(rows))
	for i, row := range rows {
		removed[i] = ItemEvent[T]{Item: l.items[row], Index: row}
	}
	for _, e := range removed {
		if !l.aboutToRemove(e.Item, e.Index) {
			slog.Warn("Removal vetoed", "list", l.name, "index", e.Index, "err", view.ErrVetoed)
			return false
		}
	}
	pending := make([]int, len(removed))
	for i := range pending {
		pending[i] = i
	}
	done := make([]int, 0, len(removed))
	for len(pending) != 0 {
		hits := l.locate(removed, pending)
		if len(hits) == 0 {
			break
		}
		start := len(hits) - 1
		for start > 0 && hits[start-1].row+1 == hits[start].row {
			start--
		}
		first, last := hits[start].row, hits[len(hits)-1].row
		pending = pending[:0]
		for _, h := range hits[:start] {
			pending = append(pending, h.idx)
		}
		for _, h := range hits[start:] {
			done = append(done, h.idx)
		}
		before, after := view.Removing(first, last)
		l.emitAboutTo(before)
		l.items = slices.Delete(l.items, first, last+1)
		l.events.Emit(after)
	}
	slices.Sort(done)
	for _, idx := range done {
		l.acc.detach(removed[idx].Item)
	}
	l.counter.Update(len(l.items))
	for _, idx := range done {
		l.notifyRemoved(removed[idx].Item, removed[idx].Index)
	}
	return true
}

type hit struct {
	row int
	idx int
}

// locate returns the current rows of the pending removed items in ascending
// order. Items no longer in the list are left out.
func (l *List[T]) locate(removed []ItemEvent[T], pending []int) []hit {
	used := make([]bool, len(l.items))
	hits := make([]hit, 0, len(pending))
	for _, idx := range pending {
		e := removed[idx]
		row := -1
		if e.Index < len(l.items) && !used[e.Index] && l.acc.same(l.items[e.Index], e.Item) {
			row = e.Index
		} else {
			for i := range l.items {
				if !used[i] && l.acc.same(l.items[i], e.Item) {
					row = i
					break
				}
			}
		}
		if row >= 0 {
			used[row] = true
			hits = append(hits, hit{row: row, idx: idx})
		}
	}
	slices.SortFunc(hits, func(a, b hit) int { return cmp.Compare(a.row, b.row) })
	return hits
}

// Moving.

// Move moves the item at from so that it ends up at row to.
//
// to is clamped into [0, Len()-1] with a warning. Moving an item onto itself
// fails.
func (l *List[T]) Move(from, to int) bool {
	if !l.mutable() {
		return false
	}
	n := len(l.items)
	if from < 0 || from >= n {
		slog.Warn("'From' is out of bound", "list", l.name, "from", from, "count", n, "err", view.ErrOutOfRange)
		return false
	}
	if clamped := min(max(to, 0), n-1); clamped != to {
		slog.Warn("'To' has been clamped", "list", l.name, "to", to, "clamped", clamped, "err", view.ErrOutOfRange)
		to = clamped
	}
	if from == to {
		slog.Warn("Cannot move an item onto itself", "list", l.name, "from", from)
		return false
	}
	item := l.items[from]
	if !l.aboutToMove(item, from, to) {
		slog.Warn("Move vetoed", "list", l.name, "from", from, "to", to, "err", view.ErrVetoed)
		return false
	}
	dest := to
	if from < to {
		dest = to + 1
	}
	before, after := view.Moving(from, from, dest)
	l.emitAboutTo(before)
	moveItem(l.items, from, to)
	l.events.Emit(after)
	l.notifyMoved(item, from, to)
	return true
}

// MoveUp moves the item at index one row up.
func (l *List[T]) MoveUp(index int) bool {
	if index <= 0 || index >= len(l.items) {
		slog.Warn("The index is the first of the list or is out of bound", "list", l.name, "index", index, "err", view.ErrOutOfRange)
		return false
	}
	return l.Move(index, index-1)
}

// MoveDown moves the item at index one row down.
func (l *List[T]) MoveDown(index int) bool {
	if index < 0 || index >= len(l.items)-1 {
		slog.Warn("The index is the last of the list or is out of bound", "list", l.name, "index", index, "err", view.ErrOutOfRange)
		return false
	}
	return l.Move(index, index+1)
}

func moveItem[T any](s []T, from, to int) {
	v := s[from]
	if from < to {
		copy(s[from:to], s[from+1:to+1])
	} else {
		copy(s[to+1:from+1], s[to:from])
	}
	s[to] = v
}

// Resetting.

// Reset replaces every item, bracketed by AboutToReset and Reset.
//
// Observers are not consulted and item signals are not emitted. Invalid items are
// skipped with a warning.
func (l *List[T]) Reset(items []T) bool {
	if !l.mutable() {
		return false
	}
	valid := make([]T, 0, len(items))
	for _, item := range items {
		if !l.acc.valid(item) {
			slog.Warn("Skipping an invalid item", "list", l.name, "err", view.ErrInvalidReference)
			continue
		}
		valid = append(valid, item)
	}
	if l.roles == nil {
		l.roles = l.acc.namespace(valid)
	}
	prepared := make([]T, len(valid))
	for i, item := range valid {
		prepared[i] = l.acc.prepare(item)
	}
	before, after := view.Resetting()
	l.emitAboutTo(before)
	old := l.items
	l.items = prepared
	for _, item := range prepared {
		l.acc.attach(item)
	}
	for _, item := range old {
		l.acc.detach(item)
	}
	l.events.Emit(after)
	l.counter.Update(len(l.items))
	return true
}

// Subscriptions.

// AddObserver registers o. Observers are consulted in registration order.
func (l *List[T]) AddObserver(o ItemObserver[T]) ksid.ID {
	id := ksid.NewID()
	l.observers = append(l.observers, observerEntry[T]{id: id, obs: o})
	return id
}

// RemoveObserver unregisters an observer added with AddObserver.
func (l *List[T]) RemoveObserver(id ksid.ID) bool {
	i := slices.IndexFunc(l.observers, func(e observerEntry[T]) bool { return e.id == id })
	if i < 0 {
		return false
	}
	l.observers = slices.Delete(slices.Clone(l.observers), i, i+1)
	return true
}

// OnInserted subscribes fn to every inserted item, after the bracket closed.
func (l *List[T]) OnInserted(fn func(ItemEvent[T])) ksid.ID {
	return l.inserted.Connect(fn)
}

// OnRemoved subscribes fn to every removed item, after the bracket closed.
func (l *List[T]) OnRemoved(fn func(ItemEvent[T])) ksid.ID {
	return l.removed.Connect(fn)
}

// OnMoved subscribes fn to every moved item.
func (l *List[T]) OnMoved(fn func(MoveEvent[T])) ksid.ID {
	return l.moved.Connect(fn)
}

// DisconnectItem removes a subscription made with OnInserted, OnRemoved or
// OnMoved.
func (l *List[T]) DisconnectItem(id ksid.ID) bool {
	return l.inserted.Disconnect(id) || l.removed.Disconnect(id) || l.moved.Disconnect(id)
}

// OnCountChanged subscribes fn to item count changes.
func (l *List[T]) OnCountChanged(fn func(count int)) ksid.ID {
	return l.counter.OnCountChanged(fn)
}

// OnEmptyChanged subscribes fn to emptiness changes.
func (l *List[T]) OnEmptyChanged(fn func(empty bool)) ksid.ID {
	return l.counter.OnEmptyChanged(fn)
}

// Internals.

func (l *List[T]) writable() bool {
	if l.readOnly {
		slog.Warn("List is read-only", "list", l.name, "err", view.ErrReadOnly)
		return false
	}
	return true
}

// mutable reports whether the structure may change now. Rows announced by an
// about-to notification must stay where they are until the matching completed
// notification.
func (l *List[T]) mutable() bool {
	if !l.writable() {
		return false
	}
	if l.locked != 0 {
		slog.Warn("Cannot change rows from an about-to notification", "list", l.name, "err", view.ErrVetoed)
		return false
	}
	return true
}

func (l *List[T]) emitAboutTo(e view.Event) {
	l.locked++
	defer func() { l.locked-- }()
	l.events.Emit(e)
}

func (l *List[T]) indexOf(item T) int {
	return slices.IndexFunc(l.items, func(v T) bool { return l.acc.same(v, item) })
}

// changedRoles returns the roles affected by a write of r.
func (l *List[T]) changedRoles(r roles.Role) []roles.Role {
	display := l.acc.displayRole()
	switch {
	case r == roles.Object:
		return nil
	case r == roles.Display && display != roles.Invalid:
		return []roles.Role{display, roles.Display}
	case r == roles.Display:
		return []roles.Role{roles.Display}
	case r == display && display != roles.Invalid:
		return []roles.Role{r, roles.Display}
	default:
		return []roles.Role{r}
	}
}

// propertyChanged re-emits an item property change as DataChanged for every row
// holding item.
func (l *List[T]) propertyChanged(item T, name string) {
	r, ok := l.roles.Role(name)
	if !ok || roles.IsReserved(r) {
		return
	}
	rs := l.changedRoles(r)
	for row := range l.items {
		if l.acc.same(l.items[row], item) {
			l.events.Emit(view.Changed(row, row, rs...))
		}
	}
}

func (l *List[T]) snapshotObservers() []observerEntry[T] {
	return slices.Clone(l.observers)
}

func (l *List[T]) aboutToInsert(item T, index int) bool {
	l.locked++
	defer func() { l.locked-- }()
	for _, e := range l.snapshotObservers() {
		if !e.obs.OnAboutToInsert(item, index) {
			return false
		}
	}
	return true
}

func (l *List[T]) aboutToRemove(item T, index int) bool {
	l.locked++
	defer func() { l.locked-- }()
	for _, e := range l.snapshotObservers() {
		if !e.obs.OnAboutToRemove(item, index) {
			return false
		}
	}
	return true
}

func (l *List[T]) aboutToMove(item T, from, to int) bool {
	l.locked++
	defer func() { l.locked-- }()
	for _, e := range l.snapshotObservers() {
		if !e.obs.OnAboutToMove(item, from, to) {
			return false
		}
	}
	return true
}

func (l *List[T]) notifyInserted(item T, index int) {
	l.inserted.Emit(ItemEvent[T]{Item: item, Index: index})
	for _, e := range l.snapshotObservers() {
		e.obs.OnInserted(item, index)
	}
}

func (l *List[T]) notifyRemoved(item T, index int) {
	l.removed.Emit(ItemEvent[T]{Item: item, Index: index})
	for _, e := range l.snapshotObservers() {
		e.obs.OnRemoved(item, index)
	}
}

func (l *List[T]) notifyMoved(item T, from, to int) {
	l.moved.Emit(MoveEvent[T]{Item: item, From: from, To: to})
	for _, e := range l.snapshotObservers() {
		e.obs.OnMoved(item, from, to)
	}
}

var _ view.View = (*List[int])(nil)
