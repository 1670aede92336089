// Package textutil provides the string cleanup applied to instruction fields
// before they reach the transcoder command line.
package textutil
