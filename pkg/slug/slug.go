// Package slug generates and checks the short URL identifiers used by
// categories and genres.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxLength is the longest slug the catalog stores.
const MaxLength = 50

var (
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9-]+`)
	multiHyphen     = regexp.MustCompile(`-{2,}`)
	validSlug       = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
)

// From converts an arbitrary Unicode string into an ASCII slug: accents are
// stripped, everything is lowercased and runs of other characters become a
// single hyphen. The result is cut to MaxLength.
func From(s string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn))
	result, _, _ := transform.String(t, s)

	result = strings.ToLower(result)
	result = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return '-'
	}, result)

	result = nonAlphanumeric.ReplaceAllString(result, "-")
	result = multiHyphen.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")

	if len(result) > MaxLength {
		result = strings.TrimRight(result[:MaxLength], "-")
	}
	return result
}

// Valid reports whether s is a non-empty slug of at most MaxLength letters,
// digits, hyphens or underscores.
func Valid(s string) bool {
	return len(s) <= MaxLength && validSlug.MatchString(s)
}

func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}
