package listmodel

// ItemObserver is consulted before and informed after structural changes of a
// List.
//
// The AboutTo methods are called once per item of a batch, before any change is
// applied; returning false cancels the whole batch.
type ItemObserver[T any] interface {
	OnAboutToInsert(item T, index int) bool
	OnInserted(item T, index int)
	OnAboutToRemove(item T, index int) bool
	OnRemoved(item T, index int)
	OnAboutToMove(item T, from, to int) bool
	OnMoved(item T, from, to int)
}

// ObserverFuncs adapts optional functions to ItemObserver. A nil AboutTo function
// accepts the change.
type ObserverFuncs[T any] struct {
	AboutToInsert func(item T, index int) bool
	Inserted      func(item T, index int)
	AboutToRemove func(item T, index int) bool
	Removed       func(item T, index int)
	AboutToMove   func(item T, from, to int) bool
	Moved         func(item T, from, to int)
}

func (o *ObserverFuncs[T]) OnAboutToInsert(item T, index int) bool {
	return o.AboutToInsert == nil || o.AboutToInsert(item, index)
}

func (o *ObserverFuncs[T]) OnInserted(item T, index int) {
	if o.Inserted != nil {
		o.Inserted(item, index)
	}
}

func (o *ObserverFuncs[T]) OnAboutToRemove(item T, index int) bool {
	return o.AboutToRemove == nil || o.AboutToRemove(item, index)
}

func (o *ObserverFuncs[T]) OnRemoved(item T, index int) {
	if o.Removed != nil {
		o.Removed(item, index)
	}
}

func (o *ObserverFuncs[T]) OnAboutToMove(item T, from, to int) bool {
	return o.AboutToMove == nil || o.AboutToMove(item, from, to)
}

func (o *ObserverFuncs[T]) OnMoved(item T, from, to int) {
	if o.Moved != nil {
		o.Moved(item, from, to)
	}
}

// ItemEvent reports an inserted or removed item with its row.
type ItemEvent[T any] struct {
	Item  T
	Index int
}

// MoveEvent reports a moved item.
type MoveEvent[T any] struct {
	Item T
	From int
	To   int
}
