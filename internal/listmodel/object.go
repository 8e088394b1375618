package listmodel

import (
	"github.com/maruel/ksid"
	"github.com/maruel/tableview/internal/view"
)

// Owned is implemented by items that track which collection owns them.
type Owned interface {
	Owner() any
	SetOwner(owner any)
}

// Destroyer is implemented by items that release resources when their owner
// drops them.
type Destroyer interface {
	Destroy()
}

// PropertyNotifier is implemented by items that announce property changes by
// JSON property name.
type PropertyNotifier interface {
	OnPropertyChanged(fn func(name string)) ksid.ID
	DisconnectPropertyChanged(id ksid.ID) bool
}

// Object is embedded in struct items to give them ownership, deferred
// destruction and property change notification.
//
// Setters of the embedding type call Changed with the JSON name of the property
// they modified.
type Object struct {
	owner     any
	destroyed bool
	changed   view.Signal[string]
	onDestroy view.Signal[struct{}]
}

// Owner returns the collection owning the object, or nil.
func (o *Object) Owner() any {
	return o.owner
}

// SetOwner sets the owning collection. nil releases the object.
func (o *Object) SetOwner(owner any) {
	o.owner = owner
}

// Changed notifies subscribers that property name changed.
func (o *Object) Changed(name string) {
	if !o.destroyed {
		o.changed.Emit(name)
	}
}

// OnPropertyChanged subscribes fn to property changes.
func (o *Object) OnPropertyChanged(fn func(name string)) ksid.ID {
	return o.changed.Connect(fn)
}

// DisconnectPropertyChanged removes a subscription made with OnPropertyChanged.
func (o *Object) DisconnectPropertyChanged(id ksid.ID) bool {
	return o.changed.Disconnect(id)
}

// OnDestroyed subscribes fn to the destruction of the object.
func (o *Object) OnDestroyed(fn func()) ksid.ID {
	return o.onDestroy.Connect(func(struct{}) { fn() })
}

// Destroy marks the object destroyed and drops every subscription. It is
// idempotent.
func (o *Object) Destroy() {
	if o.destroyed {
		return
	}
	o.destroyed = true
	o.owner = nil
	o.onDestroy.Emit(struct{}{})
	o.onDestroy.Reset()
	o.changed.Reset()
}

// IsDestroyed reports whether Destroy was called.
func (o *Object) IsDestroyed() bool {
	return o.destroyed
}
