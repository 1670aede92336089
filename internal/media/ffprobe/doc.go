// Package ffprobe wraps the ffprobe invocation that reports a source's video
// dimensions.
//
// The report is kept both as the raw WIDTHxHEIGHT text and as parsed numbers
// so callers can classify resolution either by substring or by height.
package ffprobe
