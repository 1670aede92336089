// Package batchrun wires the clipper components into one batch invocation.
//
// Prepare parses the instruction file, indexes existing outputs and builds the
// request builder. Run adds the process-level concerns around a batch: signal
// handling, the single-run lock, a run identifier stamped on every log line,
// the history ledger, the dated backup log and the optional post-run hook.
package batchrun
