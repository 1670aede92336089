// Package instructions reads tab-delimited clip instruction files.
//
// Each valid line carries four fields: output name, start time, end time and
// input reference. Lines beginning with '#' are comments, a line whose first
// field is STOP ends the file, and repeated tabs count as one. Lines with the
// wrong number of fields are skipped; those with more than three fields are
// also warned about since they usually indicate a stray tab.
package instructions
