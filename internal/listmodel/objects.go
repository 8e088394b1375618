// Handles lists of struct pointers.

package listmodel

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/maruel/ksid"
	"github.com/maruel/tableview/internal/eventloop"
	"github.com/maruel/tableview/internal/roles"
)

var errNotPointer = errors.New("object list items must be pointers to structs")

// NewObjectList returns an empty list of T, a pointer to struct type.
//
// Roles are reflected from the struct type once, honoring opts.Exposed and
// opts.Display.
func NewObjectList[T comparable](opts Options) (*List[T], error) {
	t := reflect.TypeFor[T]()
	if t.Kind() != reflect.Pointer {
		return nil, fmt.Errorf("%w, got %s", errNotPointer, t)
	}
	s, err := roles.FromType(t, roles.Options{Exposed: opts.Exposed, Display: opts.Display})
	if err != nil {
		return nil, err
	}
	name := opts.Name
	if name == "" {
		name = s.Name()
	}
	acc := &objectAccessor[T]{schema: s, refs: make(map[T]*objectRef)}
	l := newList[T](name, acc, opts.Loop)
	acc.owner = l
	acc.loop = l.loop
	acc.changed = l.propertyChanged
	return l, nil
}

// objectRef counts the rows holding one item.
type objectRef struct {
	count      int
	sub        ksid.ID
	subscribed bool
}

type objectAccessor[T comparable] struct {
	schema  *roles.Schema
	owner   any
	loop    *eventloop.Loop
	changed func(item T, name string)
	refs    map[T]*objectRef
}

func (a *objectAccessor[T]) namespace([]T) *roles.Map {
	return a.schema.Roles()
}

func (a *objectAccessor[T]) valid(item T) bool {
	v := reflect.ValueOf(item)
	return v.IsValid() && !v.IsNil()
}

func (a *objectAccessor[T]) prepare(item T) T {
	return item
}

func (a *objectAccessor[T]) same(x, y T) bool {
	return x == y
}

func (a *objectAccessor[T]) get(item T, r roles.Role) (any, bool) {
	return a.schema.Get(item, r)
}

func (a *objectAccessor[T]) set(item T, r roles.Role, value any) (T, bool) {
	if r == roles.Object {
		return item, false
	}
	return item, a.schema.Set(item, r, value)
}

func (a *objectAccessor[T]) displayRole() roles.Role {
	return a.schema.DisplayRole()
}

// attach takes ownership of unowned items and subscribes to their property
// changes on the first reference.
func (a *objectAccessor[T]) attach(item T) {
	ref := a.refs[item]
	if ref == nil {
		ref = &objectRef{}
		a.refs[item] = ref
		if o, ok := any(item).(Owned); ok && o.Owner() == nil {
			o.SetOwner(a.owner)
		}
		if n, ok := any(item).(PropertyNotifier); ok {
			ref.sub = n.OnPropertyChanged(func(name string) { a.changed(item, name) })
			ref.subscribed = true
		}
	}
	ref.count++
}

// detach drops a reference. On the last one the item is unsubscribed and, when
// owned by the list, released and destroyed on the next loop iteration.
func (a *objectAccessor[T]) detach(item T) {
	ref := a.refs[item]
	if ref == nil {
		return
	}
	ref.count--
	if ref.count > 0 {
		return
	}
	delete(a.refs, item)
	if ref.subscribed {
		any(item).(PropertyNotifier).DisconnectPropertyChanged(ref.sub)
	}
	o, ok := any(item).(Owned)
	if !ok || o.Owner() != a.owner {
		return
	}
	o.SetOwner(nil)
	if d, ok := any(item).(Destroyer); ok {
		a.loop.Post(func() {
			if o.Owner() == nil {
				d.Destroy()
			}
		})
	}
}
