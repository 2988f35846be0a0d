package tree

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// PathPlaceholder is used when a description normalizes to nothing,
// so paths stay non-empty and joinable.
const PathPlaceholder = "campo"

var (
	nonAlnumRe      = regexp.MustCompile(`[^a-z0-9]`)
	underscoreRunRe = regexp.MustCompile(`_{2,}`)

	// NFD decomposition with combining marks removed, recomposed back.
	deaccent = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// Normalize turns arbitrary text into a stable path segment:
// strip diacritics, lowercase, map everything outside [a-z0-9] to "_",
// collapse runs, trim edges. Never returns an empty string.
func Normalize(s string) string {
	if out, _, err := transform.String(deaccent, s); err == nil {
		s = out
	}
	s = strings.ToLower(s)
	s = nonAlnumRe.ReplaceAllString(s, "_")
	s = underscoreRunRe.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if s == "" {
		return PathPlaceholder
	}
	return s
}
