// Package resolve turns instruction input references into local file paths.
//
// A Resolver runs strategies in order. Remote handles references matching a
// configured pattern by downloading them; a refusal falls through to Local,
// which looks the reference up under the input root. Any other outcome ends
// resolution for that reference.
package resolve
