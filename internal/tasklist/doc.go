// Package tasklist holds the task list container: the authoritative list,
// the add-input value, the single inline edit and the validation alert.
//
// Every mutation is written through the storage port in full. The container
// is not safe for concurrent use; the TUI drives it from its update loop and
// the CLI from a single goroutine.
//
// Edit state:
//
//	Idle <-> Editing(id)
//
// BeginEdit on another task switches the target and drops the old buffer.
// CommitEdit, CancelEdit and deleting the edited task return to Idle.
//
// Alert state:
//
//	Idle -> Showing (blank add) -> Idle (expiry with the current token, or a successful add)
package tasklist
