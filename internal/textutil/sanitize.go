package textutil

import "strings"

// outputNameReplacer strips characters that break quoting in the synthesized
// command line. Double quotes survive as single quotes.
var outputNameReplacer = strings.NewReplacer(
	"?", "",
	"'", "",
	"\"", "'",
)

// SanitizeOutputName removes quote and question characters from an output file
// name. A double quote is kept as a single quote so titles like 12" Mix remain
// readable. Nothing else is changed.
func SanitizeOutputName(name string) string {
	return outputNameReplacer.Replace(name)
}

// LooksLikeFlag reports whether a base name begins with a dash and would be
// read as an option by ffmpeg.
func LooksLikeFlag(name string) bool {
	return strings.HasPrefix(name, "-")
}
