package textutil

import (
	"regexp"
	"strings"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// NormalizeKey lowercases a name and strips every whitespace character,
// "  Sky  Hunter" becomes "skyhunter".
func NormalizeKey(name string) string {
	name = strings.ToLower(name)
	return whitespaceRegex.ReplaceAllString(name, "")
}
