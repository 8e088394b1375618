package roles

import (
	"maps"
	"slices"
)

// FromRecord derives a namespace from the key set of a sample record.
//
// Keys are registered in sorted order. The namespace is meant to be frozen by the
// caller: records added later may carry extra keys, which stay invisible.
func FromRecord(owner string, sample map[string]any) *Map {
	return build(owner, slices.Sorted(maps.Keys(sample)), "")
}

// Empty returns the namespace of a view holding no property at all: only the
// Object role is registered.
func Empty() *Map {
	return build("", nil, "")
}

// Extra returns the keys of record that m does not register, sorted.
func (m *Map) Extra(record map[string]any) []string {
	var out []string
	for k := range record {
		if _, ok := m.Role(k); !ok && !Blacklisted(k) {
			out = append(out, k)
		}
	}
	slices.Sort(out)
	return out
}
