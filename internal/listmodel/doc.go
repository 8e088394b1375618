// Package listmodel implements observable ordered collections exposed as tabular
// views.
//
// # Overview
//
// [List] is the generic engine: it stores homogeneous items, derives their role
// namespace once and publishes bracketed notifications for every structural
// mutation. Two flavors are provided:
//
//   - [NewObjectList] holds pointers to structs. Roles come from the struct type.
//     Items embedding [Object] are owned by the list when they have no owner, and
//     their property change notifications are re-emitted as DataChanged.
//   - [NewRecordList] holds loosely typed [Record] values. Roles come from the key
//     set of the first record and are frozen afterwards. Records are copied on
//     insert, on whole-record reads and on writes.
//
// # Veto Hooks
//
// Observers registered with [List.AddObserver] are consulted for every item of a
// batch before anything changes. A single refusal cancels the whole batch and no
// notification is emitted.
//
// # Ownership
//
// Owned items removed from a list are destroyed on the next iteration of the
// list's [eventloop.Loop], never synchronously, so handlers still iterating the
// removed items keep valid objects. An item adopted by another owner in the
// meantime is left alone.
package listmodel
