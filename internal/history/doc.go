// Package history keeps a SQLite ledger of batch runs and the outcome of each
// instruction line.
//
// The ledger lives next to the backup logs and is informational only: a run
// proceeds when it cannot be opened, and idempotence still comes from the
// output index, not from history.
package history
