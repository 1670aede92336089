// Package driver executes validated transcode requests one at a time.
//
// A batch is planned first (every job is validated in file order) and then
// executed in the same order. Before each invocation the output path is
// checked on disk so a file produced earlier in the run, or by another tool,
// is never overwritten. Outputs are verified by existence and size only; the
// transcoder's exit status is logged but not trusted.
//
// Executed commands and requeued instruction lines are collected in
// Report.Log for the backup writer.
package driver
