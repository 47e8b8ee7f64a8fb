// Package history is the durable request journal for the rewrite service.
//
// Every suggestion request is recorded with its input markup, the selected
// node id, the caller's assumptions, and the outcome (option count and
// latency). The journal backs the /history endpoint and makes bug reports
// reproducible: the stored markup replays through the engine as-is.
//
// Storage is SQLite in WAL mode with a single writer connection. Records
// are insert-only; there is no update path.
package history
