// Package preflight provides readiness checks for the tools and filesystem
// paths a batch run depends on.
//
// These checks run in two contexts:
//   - "clipper run" calls RunAll before parsing. A failed fatal check aborts
//     the run since nothing could be read, produced or backed up.
//   - "clipper status" shows the same checks plus tool availability.
package preflight
