// Package storage persists the task list in a process-local key-value store.
//
// A KV is a synchronous, string-valued store read and written by key. Three
// backends are available:
//
//   - "file": one file per key inside a data directory (default)
//   - "sqlite": a single kv table in <data_dir>/tasklist.db
//   - "memory": a map, lost on exit
//
// A Port loads and saves the whole task list. KVPort stores the list as one JSON
// array under a fixed key and rewrites it in full on every save. A value that
// cannot be decoded is copied to "<key>.bak" before ErrMalformed is returned, so
// the next save does not destroy it.
package storage
