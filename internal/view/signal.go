package view

import (
	"slices"

	"github.com/maruel/ksid"
)

// Signal is a synchronous multicast notification.
//
// The zero value is ready to use. Handlers run in connection order.
type Signal[E any] struct {
	handlers []handler[E]
}

type handler[E any] struct {
	id ksid.ID
	fn func(E)
}

// Connect subscribes fn and returns the id to Disconnect it with.
func (s *Signal[E]) Connect(fn func(E)) ksid.ID {
	id := ksid.NewID()
	s.handlers = append(s.handlers, handler[E]{id: id, fn: fn})
	return id
}

// Disconnect removes the subscription id. It returns false if id is unknown.
func (s *Signal[E]) Disconnect(id ksid.ID) bool {
	i := slices.IndexFunc(s.handlers, func(h handler[E]) bool { return h.id == id })
	if i < 0 {
		return false
	}
	s.handlers = slices.Delete(slices.Clone(s.handlers), i, i+1)
	return true
}

// Emit calls every handler connected when Emit started.
//
// A handler disconnected by an earlier handler of the same emission is skipped.
func (s *Signal[E]) Emit(e E) {
	snapshot := s.handlers
	for _, h := range snapshot {
		if s.connected(h.id) {
			h.fn(e)
		}
	}
}

// Len returns the number of connected handlers.
func (s *Signal[E]) Len() int {
	return len(s.handlers)
}

// Reset disconnects every handler.
func (s *Signal[E]) Reset() {
	s.handlers = nil
}

func (s *Signal[E]) connected(id ksid.ID) bool {
	for i := range s.handlers {
		if s.handlers[i].id == id {
			return true
		}
	}
	return false
}
