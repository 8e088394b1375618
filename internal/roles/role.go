// Handles the immutable role namespace shared by every view.

package roles

import (
	"log/slog"
	"maps"
	"slices"
	"strconv"
)

// Role identifies one column of a tabular view.
type Role int

const (
	// Display is the role presenting the configured display property.
	Display Role = 0
	// Object is the role holding the whole record.
	Object Role = 256
	// Invalid is returned by lookups that fail.
	Invalid Role = -1
)

const (
	// DisplayName is the name registered for the Display role.
	DisplayName = "display"
	// ObjectName is the name registered for the Object role.
	ObjectName = "modelData"
)

// String implements fmt.Stringer.
func (r Role) String() string {
	switch r {
	case Display:
		return DisplayName
	case Object:
		return ObjectName
	case Invalid:
		return "invalid"
	default:
		return "role(" + strconv.Itoa(int(r)) + ")"
	}
}

// blacklist holds the names views reserve for themselves.
var blacklist = map[string]struct{}{
	"id":        {},
	"index":     {},
	"class":     {},
	"model":     {},
	"modelData": {},
}

// Blacklisted reports whether name can never be used as a property role.
func Blacklisted(name string) bool {
	_, ok := blacklist[name]
	return ok
}

// Map is an immutable bidirectional mapping between roles and names.
//
// The zero value and nil are valid empty maps.
type Map struct {
	names  map[Role]string
	byName map[string]Role
	order  []Role
}

// NewMap builds a Map from an explicit role to name mapping.
//
// It is meant for views that define their own namespace. Duplicate names keep the
// lowest role.
func NewMap(names map[Role]string) *Map {
	m := &Map{
		names:  make(map[Role]string, len(names)),
		byName: make(map[string]Role, len(names)),
	}
	m.order = slices.Sorted(maps.Keys(names))
	for _, r := range m.order {
		name := names[r]
		m.names[r] = name
		if _, ok := m.byName[name]; !ok {
			m.byName[name] = r
		}
	}
	return m
}

// build assigns property roles densely after Object, skipping blacklisted names.
//
// owner is only used for logging.
func build(owner string, properties []string, display string) *Map {
	names := map[Role]string{Object: ObjectName}
	if display != "" {
		names[Display] = DisplayName
	}
	next := Object + 1
	seen := make(map[string]struct{}, len(properties))
	for _, name := range properties {
		if Blacklisted(name) {
			slog.Warn("Property name is reserved and cannot be a role; rename it",
				"owner", owner, "property", name)
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names[next] = name
		next++
	}
	return NewMap(names)
}

// Names returns a copy of the role to name mapping.
func (m *Map) Names() map[Role]string {
	if m == nil {
		return map[Role]string{}
	}
	return maps.Clone(m.names)
}

// Role returns the role registered under name.
func (m *Map) Role(name string) (Role, bool) {
	if m == nil {
		return Invalid, false
	}
	r, ok := m.byName[name]
	if !ok {
		return Invalid, false
	}
	return r, true
}

// Name returns the name of role r, or "" if r is not registered.
func (m *Map) Name(r Role) string {
	if m == nil {
		return ""
	}
	return m.names[r]
}

// Has reports whether role r is registered.
func (m *Map) Has(r Role) bool {
	if m == nil {
		return false
	}
	_, ok := m.names[r]
	return ok
}

// Roles returns the registered roles in ascending order.
func (m *Map) Roles() []Role {
	if m == nil {
		return nil
	}
	return slices.Clone(m.order)
}

// Properties returns the property roles in ascending order, without the reserved
// Display and Object roles.
func (m *Map) Properties() []Role {
	if m == nil {
		return nil
	}
	out := make([]Role, 0, len(m.order))
	for _, r := range m.order {
		if !IsReserved(r) {
			out = append(out, r)
		}
	}
	return out
}

// Len returns the number of registered roles, reserved roles included.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.order)
}

// Equal reports whether both maps register the same roles under the same names.
func (m *Map) Equal(o *Map) bool {
	return maps.Equal(m.Names(), o.Names())
}

// IsReserved reports whether r is the Display or Object role.
func IsReserved(r Role) bool {
	return r == Display || r == Object
}
