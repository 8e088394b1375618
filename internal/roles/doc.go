// Package roles derives the role namespace of a tabular view.
//
// # Overview
//
// A role is a small integer that identifies one named field of the records held by
// a view. Every view exposes its namespace as a [Map], which is immutable once
// built: role ids never change for the lifetime of a view instance.
//
// Two builders exist:
//
//   - [FromType] reflects a Go struct type and returns a [Schema] whose roles follow
//     the JSON encoding of the struct (names from `json` tags, declaration order).
//     The schema can also read and write struct fields by role.
//   - [FromRecord] samples the key set of a loosely typed record. The resulting
//     namespace is frozen; keys that only appear in later records stay invisible.
//
// # Reserved Roles
//
// [Object] always denotes the whole record and is registered under the name
// "modelData". [Display] is only registered when a display property is configured.
// Property roles are numbered densely from Object+1.
//
// Property names that collide with the reserved vocabulary of views ("id", "index",
// "class", "model", "modelData") are never registered; a warning is logged for each.
package roles
