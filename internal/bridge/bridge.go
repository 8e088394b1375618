// Package bridge exposes one row of a view as a live set of named properties.
//
// A Bridge caches the value of every role of its row and keeps the cache in
// sync with the view's notifications. Writes go through the view and the
// committed value is read back.
package bridge

import (
	"maps"
	"slices"

	"github.com/maruel/ksid"
	"github.com/maruel/tableview/internal/roles"
	"github.com/maruel/tableview/internal/view"
)

// Change is one property refreshed from the view.
type Change struct {
	Name  string
	Value any
}

// Bridge is a live property surface bound to a row of a view.
type Bridge struct {
	view      view.View
	row       int
	column    int
	parent    view.Path
	sub       ksid.ID
	values    map[string]any
	destroyed bool

	changed   view.Signal[Change]
	onDestroy view.Signal[struct{}]
}

// New binds a bridge to row and column of v under parent and reads every role.
func New(v view.View, row, column int, parent view.Path) *Bridge {
	b := &Bridge{
		view:   v,
		row:    row,
		column: column,
		parent: slices.Clone(parent),
		values: map[string]any{},
	}
	b.sub = v.Connect(b.onEvent)
	b.update()
	return b
}

// Row returns the bound row.
func (b *Bridge) Row() int {
	return b.row
}

// Column returns the bound column.
func (b *Bridge) Column() int {
	return b.column
}

// Parent returns the path of the bound row's parent.
func (b *Bridge) Parent() view.Path {
	return slices.Clone(b.parent)
}

// Get returns the current value of the property name.
//
// Names the view knows are read through. Other names return the value last
// stored with Set, if any.
func (b *Bridge) Get(name string) any {
	if role := b.roleFor(name); role != roles.Invalid {
		b.store(name, b.view.Data(b.row, role))
	}
	return b.values[name]
}

// Set writes value to the property name and returns the committed value.
//
// The view may coerce or reject the write, in which case the returned value is
// what the row now holds. A name the view does not know is kept locally and
// value is returned unchanged.
func (b *Bridge) Set(name string, value any) any {
	role := b.roleFor(name)
	if role == roles.Invalid {
		b.store(name, value)
		return value
	}
	b.view.SetData(b.row, role, value)
	v := b.view.Data(b.row, role)
	b.store(name, v)
	return v
}

// Keys returns the property names, sorted.
func (b *Bridge) Keys() []string {
	return slices.Sorted(maps.Keys(b.values))
}

// Values returns a copy of the cached properties.
func (b *Bridge) Values() map[string]any {
	return maps.Clone(b.values)
}

// OnChanged subscribes fn to properties refreshed with a different value.
func (b *Bridge) OnChanged(fn func(Change)) ksid.ID {
	return b.changed.Connect(fn)
}

// OnDestroyed subscribes fn to the destruction of the bridge.
func (b *Bridge) OnDestroyed(fn func()) ksid.ID {
	return b.onDestroy.Connect(func(struct{}) { fn() })
}

// Disconnect removes a subscription made with OnChanged or OnDestroyed.
func (b *Bridge) Disconnect(id ksid.ID) bool {
	return b.changed.Disconnect(id) || b.onDestroy.Disconnect(id)
}

// Destroy stops tracking the view. The cached values stay readable.
func (b *Bridge) Destroy() {
	if b.destroyed {
		return
	}
	b.destroyed = true
	b.view.Disconnect(b.sub)
	b.onDestroy.Emit(struct{}{})
	b.changed.Reset()
	b.onDestroy.Reset()
}

// IsDestroyed reports whether Destroy was called.
func (b *Bridge) IsDestroyed() bool {
	return b.destroyed
}

func (b *Bridge) roleFor(name string) roles.Role {
	for r, n := range b.view.RoleNames() {
		if n == name {
			return r
		}
	}
	return roles.Invalid
}

func (b *Bridge) store(name string, value any) {
	if old, ok := b.values[name]; ok && view.Equal(old, value) {
		return
	}
	b.values[name] = value
	b.changed.Emit(Change{Name: name, Value: value})
}

// update re-reads every role of the row.
func (b *Bridge) update() {
	names := b.view.RoleNames()
	for _, r := range slices.Sorted(maps.Keys(names)) {
		b.store(names[r], b.view.Data(b.row, r))
	}
}

func (b *Bridge) onEvent(e view.Event) {
	if !e.Parent.Equal(b.parent) {
		if e.Kind == view.Reset || e.Kind == view.LayoutChanged {
			b.update()
		}
		return
	}
	switch e.Kind {
	case view.Reset, view.LayoutChanged:
		b.update()
	case view.DataChanged:
		if !e.Contains(b.row, b.column) {
			return
		}
		names := b.view.RoleNames()
		if len(e.Roles) == 0 {
			b.update()
			return
		}
		for _, r := range e.Roles {
			if name, ok := names[r]; ok {
				b.store(name, b.view.Data(b.row, r))
			}
		}
	case view.RowsInserted, view.RowsRemoved:
		if b.row >= e.First {
			b.update()
		}
	case view.RowsMoved:
		if b.row >= min(e.First, e.Dest) {
			b.update()
		}
	case view.ColumnsInserted, view.ColumnsRemoved:
		if b.column >= e.First {
			b.update()
		}
	}
}
