package view

import "github.com/maruel/ksid"

// Counter tracks the row count of a view and reports its changes.
type Counter struct {
	count        int
	countChanged Signal[int]
	emptyChanged Signal[bool]
}

// Count returns the last observed row count.
func (c *Counter) Count() int {
	return c.count
}

// IsEmpty reports whether the last observed row count is zero.
func (c *Counter) IsEmpty() bool {
	return c.count == 0
}

// Update records n, emitting count-changed and, when crossing zero,
// empty-changed notifications.
func (c *Counter) Update(n int) {
	if n == c.count {
		return
	}
	wasEmpty := c.count == 0
	c.count = n
	c.countChanged.Emit(n)
	if wasEmpty != (n == 0) {
		c.emptyChanged.Emit(n == 0)
	}
}

// OnCountChanged subscribes fn to row count changes.
func (c *Counter) OnCountChanged(fn func(count int)) ksid.ID {
	return c.countChanged.Connect(fn)
}

// OnEmptyChanged subscribes fn to emptiness changes.
func (c *Counter) OnEmptyChanged(fn func(empty bool)) ksid.ID {
	return c.emptyChanged.Connect(fn)
}

// DisconnectCounter removes a subscription made with OnCountChanged or
// OnEmptyChanged.
func (c *Counter) DisconnectCounter(id ksid.ID) bool {
	return c.countChanged.Disconnect(id) || c.emptyChanged.Disconnect(id)
}

// Track keeps c in sync with v and returns the subscription on v.
func (c *Counter) Track(v View) ksid.ID {
	c.Update(v.RowCount())
	return v.Connect(func(e Event) {
		if e.Kind.IsStructural() {
			c.Update(v.RowCount())
		}
	})
}
