// Package history keeps a SQLite ledger of completed fetch runs.
//
// Each successful fetch records one row: the run ID, the substance, the
// variant, where the output went, and how the response was classified. The
// ledger is informational; nothing reads it back to make decisions.
package history
