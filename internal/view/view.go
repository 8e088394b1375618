package view

import (
	"slices"
	"strconv"

	"github.com/maruel/ksid"
	"github.com/maruel/tableview/internal/roles"
)

// View is a rows by roles tabular collection with change notification.
type View interface {
	// RowCount returns the number of rows. It is never negative.
	RowCount() int
	// RoleNames returns the role namespace. It is stable for the lifetime of
	// the view once populated.
	RoleNames() map[roles.Role]string
	// Data returns the value of role at row, or nil when either is invalid.
	Data(row int, role roles.Role) any
	// SetData writes value at row for role and reports whether it was stored.
	SetData(row int, role roles.Role, value any) bool
	// Connect subscribes fn to the notification stream.
	Connect(fn func(Event)) ksid.ID
	// Disconnect removes a subscription made with Connect.
	Disconnect(id ksid.ID) bool
}

// Path locates a parent row from the root of a hierarchical view. The root, and
// every row of a flat view, has a nil path.
type Path []int

// IsRoot reports whether p designates the root.
func (p Path) IsRoot() bool {
	return len(p) == 0
}

// Equal reports whether p and o designate the same parent.
func (p Path) Equal(o Path) bool {
	return slices.Equal(p, o)
}

// EventKind identifies a notification.
type EventKind int

// Notifications, in bracket order where applicable.
const (
	RowsAboutToBeInserted EventKind = iota
	RowsInserted
	RowsAboutToBeRemoved
	RowsRemoved
	RowsAboutToBeMoved
	RowsMoved
	DataChanged
	AboutToReset
	Reset
	LayoutChanged
	ColumnsInserted
	ColumnsRemoved
)

var eventKindNames = [...]string{
	RowsAboutToBeInserted: "RowsAboutToBeInserted",
	RowsInserted:          "RowsInserted",
	RowsAboutToBeRemoved:  "RowsAboutToBeRemoved",
	RowsRemoved:           "RowsRemoved",
	RowsAboutToBeMoved:    "RowsAboutToBeMoved",
	RowsMoved:             "RowsMoved",
	DataChanged:           "DataChanged",
	AboutToReset:          "AboutToReset",
	Reset:                 "Reset",
	LayoutChanged:         "LayoutChanged",
	ColumnsInserted:       "ColumnsInserted",
	ColumnsRemoved:        "ColumnsRemoved",
}

func (k EventKind) String() string {
	if k >= 0 && int(k) < len(eventKindNames) {
		return eventKindNames[k]
	}
	return "EventKind(" + strconv.Itoa(int(k)) + ")"
}

// IsStructural reports whether k changes row indices or the row count.
func (k EventKind) IsStructural() bool {
	switch k {
	case RowsInserted, RowsRemoved, RowsMoved, Reset, LayoutChanged:
		return true
	default:
		return false
	}
}

// Event is one notification of a View.
//
// First and Last delimit the affected rows, inclusive. For moves, Dest is the row
// before which the range is inserted, expressed in pre-move indices. FirstColumn
// and LastColumn are only meaningful for DataChanged and column events. Roles is
// only meaningful for DataChanged; empty means every role.
type Event struct {
	Kind        EventKind
	Parent      Path
	First       int
	Last        int
	FirstColumn int
	LastColumn  int
	Dest        int
	Roles       []roles.Role
}

// Contains reports whether a DataChanged event covers row and column.
func (e *Event) Contains(row, column int) bool {
	return e.First <= row && row <= e.Last && e.FirstColumn <= column && column <= e.LastColumn
}

// HasRole reports whether a DataChanged event covers role r.
func (e *Event) HasRole(r roles.Role) bool {
	return len(e.Roles) == 0 || slices.Contains(e.Roles, r)
}

// Inserting returns the bracket for inserting rows first..last.
func Inserting(first, last int) (Event, Event) {
	return Event{Kind: RowsAboutToBeInserted, First: first, Last: last},
		Event{Kind: RowsInserted, First: first, Last: last}
}

// Removing returns the bracket for removing rows first..last.
func Removing(first, last int) (Event, Event) {
	return Event{Kind: RowsAboutToBeRemoved, First: first, Last: last},
		Event{Kind: RowsRemoved, First: first, Last: last}
}

// Moving returns the bracket for moving rows first..last before dest.
func Moving(first, last, dest int) (Event, Event) {
	return Event{Kind: RowsAboutToBeMoved, First: first, Last: last, Dest: dest},
		Event{Kind: RowsMoved, First: first, Last: last, Dest: dest}
}

// Resetting returns the bracket for a full reset.
func Resetting() (Event, Event) {
	return Event{Kind: AboutToReset}, Event{Kind: Reset}
}

// Changed returns a DataChanged event for rows first..last in column 0.
func Changed(first, last int, rs ...roles.Role) Event {
	return Event{Kind: DataChanged, First: first, Last: last, Roles: rs}
}
