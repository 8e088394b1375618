// Package view defines the tabular view contract shared by every collection.
//
// # Overview
//
// A [View] exposes rows by roles: RowCount rows, each with the values named by
// RoleNames. Structural and content changes are published as [Event] values on
// the notification stream returned by Connect.
//
// # Notification Protocol
//
// Every structural mutation is bracketed: an AboutToBe* event is emitted before
// the change is applied and the matching completed event right after it. No
// event is emitted for a mutation that was vetoed or rejected. DataChanged
// carries the smallest affected row range and the set of changed roles, an empty
// set meaning every role.
//
// Flat collections always report a nil [Path] as the parent of their rows.
//
// # Threading
//
// Views are single threaded: handlers run synchronously on the goroutine that
// performed the mutation. Handlers may mutate the view reentrantly; [Signal]
// iterates a snapshot of its handlers so connecting or disconnecting from a
// handler is safe.
package view
