// Package request validates parsed instruction jobs into transcode requests.
//
// Validation resolves the input, checks the time window, chooses options by
// output extension and, for video outputs, probes the source to pick a resize
// filter. Only requests that pass every check are marked Ready.
package request
