package textutil

import (
	"regexp"
	"strings"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// Squeeze trims a string and collapses any inner run of whitespace
// into a single space.
func Squeeze(s string) string {
	s = strings.Trim(s, " \n\t")
	return whitespaceRegex.ReplaceAllString(s, " ")
}

// StripLabel removes the first occurrence of a label from text and
// trims the result.
func StripLabel(text, label string) string {
	return strings.TrimSpace(strings.Replace(text, label, "", 1))
}
