package utils

import (
	"regexp"
	"strings"
)

// fencePattern matches a triple-backtick fence with an optional language tag
// and its trailing newline, e.g. "```html\n" or "```\n".
var fencePattern = regexp.MustCompile("```[a-zA-Z0-9]*\n?")

// StripCodeFences removes markdown code-fence markers from generated output
// and trims surrounding whitespace. Text without fences passes through
// unchanged apart from trimming. Kept as a pure function outside the storage
// layer: the store persists exactly what it is given.
func StripCodeFences(s string) string {
	s = fencePattern.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}
