// Package command renders transcode requests as ffmpeg invocations.
//
// Argument order is fixed: seek, input, duration, options, output. The seek
// flag must precede -i so ffmpeg seeks on the input before decoding.
package command

import (
	"strings"

	"clipper/internal/request"
)

// DefaultBinary is used when no ffmpeg path is configured.
const DefaultBinary = "ffmpeg"

// String renders the full command line for req as it is logged and written to
// the backup file. Paths are double-quoted.
func String(binary string, req request.Request) string {
	if strings.TrimSpace(binary) == "" {
		binary = DefaultBinary
	}
	parts := make([]string, 0, 6+len(req.Options))
	parts = append(parts, binary)
	parts = appendPart(parts, req.Seek.String())
	parts = append(parts, "-i", quote(req.InputPath))
	parts = appendPart(parts, req.Duration.String())
	for _, opt := range req.Options {
		parts = appendPart(parts, opt.String())
	}
	parts = append(parts, quote(req.OutputPath))
	return strings.Join(parts, " ")
}

// Args returns the argv for req without the binary. It matches String with
// shell quoting removed.
func Args(req request.Request) []string {
	args := make([]string, 0, 6+2*len(req.Options))
	args = append(args, req.Seek.Args()...)
	args = append(args, "-i", req.InputPath)
	args = append(args, req.Duration.Args()...)
	for _, opt := range req.Options {
		args = append(args, opt.Args()...)
	}
	return append(args, req.OutputPath)
}

func appendPart(parts []string, part string) []string {
	if part == "" {
		return parts
	}
	return append(parts, part)
}

func quote(path string) string {
	return `"` + path + `"`
}
