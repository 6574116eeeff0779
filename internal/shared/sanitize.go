package shared

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	scriptBlockPattern = regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script>`)
	htmlTagPattern     = regexp.MustCompile(`(?s)<[^>]*>`)
	controlPattern     = regexp.MustCompile(`[\x00-\x08\x0b\x0c\x0e-\x1f\x7f]`)
	likeEscaper        = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
)

// SanitizeText strips markup and control characters from free-form input.
// Script blocks are removed wholesale, remaining tags are dropped and the
// result is NFC-normalised and trimmed.
func SanitizeText(s string) string {
	s = scriptBlockPattern.ReplaceAllString(s, "")
	s = htmlTagPattern.ReplaceAllString(s, "")
	s = controlPattern.ReplaceAllString(s, "")
	s = norm.NFC.String(s)
	return strings.TrimSpace(s)
}

// EscapeLikePattern escapes ILIKE wildcards so user-supplied search terms
// match literally.
func EscapeLikePattern(s string) string {
	return likeEscaper.Replace(s)
}

// NormalizeSearchTerm prepares a raw search string for an ILIKE query.
func NormalizeSearchTerm(s string) string {
	return EscapeLikePattern(SanitizeText(s))
}
