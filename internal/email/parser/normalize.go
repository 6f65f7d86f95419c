package parser

import (
	"regexp"
	"strings"
)

var (
	newlineRe    = regexp.MustCompile(`[\r\n]+`)
	nonTokenRe   = regexp.MustCompile(`[^a-z0-9&\s]`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// Normalize canonicalizes text for phrase matching: lowercase, newlines and
// punctuation collapsed to single spaces, keeping only letters, digits, '&'
// and spaces.
func Normalize(text string) string {
	s := strings.ToLower(text)
	s = newlineRe.ReplaceAllString(s, " ")
	s = nonTokenRe.ReplaceAllString(s, " ")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
