// Package config loads, normalizes, and validates clipper configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the CLIPPER_INPUT_DIR and
// CLIPPER_OUTPUT_DIR environment fallbacks. The Config type is passed into
// each batch component at construction so tests can point every root at a
// temporary directory.
//
// Always obtain settings through this package so downstream code receives
// absolute paths, dot-prefixed extensions, and clear validation errors.
package config
