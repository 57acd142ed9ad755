// Package slug derives URL-safe identifiers from display names.
package slug

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	dropChars    = regexp.MustCompile(`[^a-z0-9\s-]`)
	dashOrSpaces = regexp.MustCompile(`[-\s]+`)
)

// Make lowercases s, folds accented letters to their ASCII base, drops anything
// that is not a letter, digit, space or dash and joins the words with single dashes.
// "Héllo, Wörld!" becomes "hello-world". The result may be empty.
func Make(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}

	folded = strings.ToLower(folded)
	folded = dropChars.ReplaceAllString(folded, "")
	folded = dashOrSpaces.ReplaceAllString(folded, "-")
	return strings.Trim(folded, "-")
}

// MakeMax is Make with the result cut to at most maxLen bytes, falling back
// to fallback when nothing usable is left.
func MakeMax(s string, maxLen int, fallback string) string {
	base := truncate(Make(s), maxLen)
	if base == "" {
		return fallback
	}
	return base
}

// Nth returns the n-th candidate for a base slug: the base itself for n <= 1,
// otherwise base-n, with the base shortened so the whole candidate fits maxLen.
func Nth(base string, n, maxLen int) string {
	if n <= 1 {
		return truncate(base, maxLen)
	}
	suffix := "-" + strconv.Itoa(n)
	return truncate(base, maxLen-len(suffix)) + suffix
}

func truncate(s string, maxLen int) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	// slugs are pure ASCII at this point, byte slicing is safe
	return strings.TrimRight(s[:maxLen], "-")
}
