// Package deps checks that the external executables clipper drives are on
// PATH.
package deps
