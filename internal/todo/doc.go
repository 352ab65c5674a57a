// Package todo models the task list and its persisted form.
//
// A list is stored as a single JSON array under one storage key:
//
//	[
//	  {"id": 1718000000000, "task": "Buy milk", "status": false},
//	  {"id": 1718000000001, "task": "Call mom", "status": true}
//	]
//
// The "status" field is the completion flag. There is no schema version field;
// the layout is checked against an embedded JSON Schema (draft 2020-12) when
// decoding, so foreign or truncated values are rejected before they reach the list.
//
// # Ordering
//
// Tasks keep insertion order. Nothing in this package sorts.
//
// # IDs
//
// New IDs come from an IDSource. IDs are derived from the wall clock in
// milliseconds but never repeat: a source always issues a value greater than
// anything it issued or observed before.
//
// # Partitions
//
// Active and Completed are derived views split by the completion flag. Every task
// is in exactly one of them.
package todo
