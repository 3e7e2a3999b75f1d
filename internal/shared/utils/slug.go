package utils

import (
	"regexp"
	"strings"
)

// \s is ASCII only; \p{Zs} adds NBSP and the other Unicode spaces
var whitespaceRun = regexp.MustCompile(`[\s\p{Zs}]+`)

// GenerateSlug lowercases input and collapses every whitespace run into a
// single hyphen. Other characters are kept as they are.
//
//	"Operating Systems"  -> "operating-systems"
//	"Office  \t Suites"  -> "office-suites"
//	"Office\u00a0Suites" -> "office-suites"
func GenerateSlug(input string) string {
	return whitespaceRun.ReplaceAllString(strings.ToLower(input), "-")
}
