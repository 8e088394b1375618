// Handles lists of loosely typed records.

package listmodel

import (
	"log/slog"
	"maps"

	"github.com/maruel/tableview/internal/roles"
	"github.com/maruel/tableview/internal/view"
)

// Record is a loosely typed row: property name to value.
type Record = map[string]any

// RecordList is a List of records with storage level helpers.
type RecordList struct {
	*List[Record]
}

// NewRecordList returns an empty record list. Roles are derived from the first
// record ever inserted and never change afterwards.
func NewRecordList(opts Options) *RecordList {
	name := opts.Name
	if name == "" {
		name = "records"
	}
	return &RecordList{List: newList[Record](name, &recordAccessor{owner: name}, opts.Loop)}
}

// SetStorage replaces every record, bracketed by AboutToReset and Reset.
func (r *RecordList) SetStorage(records []Record) bool {
	return r.Reset(records)
}

// Storage returns a deep copy of the records.
func (r *RecordList) Storage() []Record {
	out := make([]Record, len(r.items))
	for i, rec := range r.items {
		out[i] = view.CloneRecord(rec)
	}
	return out
}

// ToValueList returns a deep copy of the records restricted to the registered
// roles, the snapshot presented to consumers of the view.
func (r *RecordList) ToValueList() []Record {
	out := make([]Record, len(r.items))
	for i, rec := range r.items {
		v := make(Record, len(rec))
		for _, role := range r.roles.Properties() {
			name := r.roles.Name(role)
			if value, ok := rec[name]; ok {
				v[name] = view.Clone(value)
			}
		}
		out[i] = v
	}
	return out
}

// Replace substitutes the record at index and emits DataChanged for every role.
//
// index is clamped into the list with a warning.
func (r *RecordList) Replace(index int, record Record) bool {
	if !r.writable() {
		return false
	}
	if record == nil {
		slog.Warn("Cannot replace with a nil record", "list", r.name, "err", view.ErrInvalidReference)
		return false
	}
	if len(r.items) == 0 {
		slog.Warn("Cannot replace in an empty list", "list", r.name, "index", index, "err", view.ErrOutOfRange)
		return false
	}
	if clamped := min(max(index, 0), len(r.items)-1); clamped != index {
		slog.Warn("Index has been clamped", "list", r.name, "index", index, "clamped", clamped, "err", view.ErrOutOfRange)
		index = clamped
	}
	return r.SetData(index, roles.Object, record)
}

type recordAccessor struct {
	owner string
	names *roles.Map
}

func (a *recordAccessor) namespace(sample []Record) *roles.Map {
	if a.names == nil && len(sample) != 0 {
		a.names = roles.FromRecord(a.owner, sample[0])
	}
	return a.names
}

func (a *recordAccessor) valid(item Record) bool {
	return item != nil
}

// prepare copies the record and reports keys the frozen namespace cannot show.
func (a *recordAccessor) prepare(item Record) Record {
	if extra := a.names.Extra(item); len(extra) != 0 {
		slog.Error("Record keys appeared after the roles were frozen and stay invisible",
			"list", a.owner, "keys", extra)
	}
	return view.CloneRecord(item)
}

func (a *recordAccessor) same(x, y Record) bool {
	return view.EqualRecords(x, y)
}

func (a *recordAccessor) get(item Record, r roles.Role) (any, bool) {
	if r == roles.Object {
		return view.CloneRecord(item), true
	}
	name := a.names.Name(r)
	if name == "" || roles.IsReserved(r) {
		return nil, false
	}
	return view.Clone(item[name]), true
}

func (a *recordAccessor) set(item Record, r roles.Role, value any) (Record, bool) {
	if r == roles.Object {
		rec, ok := value.(Record)
		if !ok || rec == nil {
			slog.Warn("Whole record writes need a record", "list", a.owner, "value", value, "err", view.ErrInvalidReference)
			return item, false
		}
		return a.prepare(rec), true
	}
	name := a.names.Name(r)
	if name == "" || roles.IsReserved(r) {
		return item, false
	}
	out := maps.Clone(item)
	out[name] = view.Clone(value)
	return out, true
}

func (a *recordAccessor) attach(Record) {}

func (a *recordAccessor) detach(Record) {}

func (a *recordAccessor) displayRole() roles.Role {
	return roles.Invalid
}
