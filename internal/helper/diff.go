// Compares views and tracks changes against a snapshot.

package helper

import (
	"github.com/maruel/tableview/internal/roles"
	"github.com/maruel/tableview/internal/view"
)

// Equals reports whether other holds the same rows as the wrapped view.
//
// Views with different row counts or role counts differ without scanning rows.
func (h *Helper) Equals(other view.View) bool {
	if other == nil {
		return false
	}
	if h.source.RowCount() != other.RowCount() || len(h.source.RoleNames()) != len(other.RoleNames()) {
		return false
	}
	for row := range h.source.RowCount() {
		if !view.EqualRecords(record(h.source, row), record(other, row)) {
			return false
		}
	}
	return true
}

// ToValueList returns every row as returned by Get.
func (h *Helper) ToValueList() []map[string]any {
	n := h.source.RowCount()
	out := make([]map[string]any, n)
	for row := range n {
		out[row] = record(h.source, row)
	}
	return out
}

// Backup records the current rows as the baseline of HasChanged and returns a
// copy of them.
func (h *Helper) Backup() []map[string]any {
	h.backup = h.ToValueList()
	out := make([]map[string]any, len(h.backup))
	for i, rec := range h.backup {
		out[i] = view.CloneRecord(rec)
	}
	return out
}

// ClearBackup forgets the baseline. HasChanged then reports any non-empty view
// as changed.
func (h *Helper) ClearBackup() {
	h.backup = nil
}

// HasChanged reports whether the rows differ from the last Backup.
func (h *Helper) HasChanged() bool {
	n := h.source.RowCount()
	if n != len(h.backup) {
		return true
	}
	for row := range n {
		if !view.EqualRecords(record(h.source, row), h.backup[row]) {
			return true
		}
	}
	return false
}

// record deep copies every non-reserved role of row. Object lists hand out
// slices and maps owned by their items.
func record(v view.View, row int) map[string]any {
	names := v.RoleNames()
	out := make(map[string]any, len(names))
	for r, name := range names {
		if roles.IsReserved(r) {
			continue
		}
		out[name] = view.Clone(v.Data(row, r))
	}
	return out
}
