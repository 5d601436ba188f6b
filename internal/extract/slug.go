package extract

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var nonSlugRun = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases text, folds diacritics (é -> e) and collapses every run of
// other characters into a single hyphen. Empty results become "item".
func Slugify(text string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), text)
	if err != nil {
		folded = text
	}

	slug := strings.Trim(nonSlugRun.ReplaceAllString(strings.ToLower(folded), "-"), "-")
	if slug == "" {
		return "item"
	}
	return slug
}
