// Package main hosts the clipper CLI entrypoint and command graph.
//
// The Cobra-based command tree runs a batch from the configured instruction
// file, previews the synthesized ffmpeg commands, lists parsed jobs and unused
// inputs, and reports run history and tool availability. Configuration
// loading and logger setup are centralized in commandContext so subcommands
// only translate flags into calls on the internal packages.
package main
