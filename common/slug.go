package common

import (
	"errors"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	ErrEmptySlug = errors.New("slug cannot be empty")
	nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)
	spaceRuns    = regexp.MustCompile(`\s+`)
)

// Slugify builds a URL slug from input, using fallback when input has no usable characters.
// Accented letters are folded to ASCII ("Água Verde" -> "agua-verde").
func Slugify(input, fallback string) (string, error) {
	slug := slugify(input)
	if slug == "" {
		slug = slugify(fallback)
	}
	if slug == "" {
		return "", ErrEmptySlug
	}
	return slug, nil
}

func slugify(s string) string {
	lower := FoldAccents(strings.ToLower(strings.TrimSpace(s)))
	slug := nonSlugChars.ReplaceAllString(lower, "-")
	return strings.Trim(slug, "-")
}

// FoldAccents strips combining marks after NFD decomposition.
func FoldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// NormalizeText lowercases, folds accents and collapses whitespace runs to one space.
func NormalizeText(s string) string {
	s = FoldAccents(strings.ToLower(s))
	return strings.TrimSpace(spaceRuns.ReplaceAllString(s, " "))
}
