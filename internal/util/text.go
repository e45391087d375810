package util

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"equipment-catalog/internal"
)

var (
	reNonSlug   = regexp.MustCompile(`[^a-z0-9]+`)
	reCamelEdge = regexp.MustCompile(`([a-z0-9])([A-Z])`)
	reSlug      = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

var dropNonASCII = runes.Remove(runes.Predicate(func(r rune) bool {
	return r >= utf8.RuneSelf
}))

// Slugify maps a display name to a lowercase identifier made of [a-z0-9]
// groups joined by single hyphens. Accented letters keep their base letter
// after compatibility decomposition; every other non-ASCII rune is dropped.
func Slugify(name string) (string, error) {
	ascii, _, err := transform.String(transform.Chain(norm.NFKD, dropNonASCII), name)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", internal.ErrInvalidName, name, err)
	}
	s := strings.ToLower(ascii)
	s = reNonSlug.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return "", fmt.Errorf("%w: unable to compute slug for %q", internal.ErrInvalidName, name)
	}
	return s, nil
}

func IsSlug(s string) bool {
	return reSlug.MatchString(s)
}

// FormatType turns an upstream category token such as "WeaponOrArmorAccessory"
// into "weapon or armor accessory". Runs of capitals are not split.
func FormatType(category string) string {
	spaced := reCamelEdge.ReplaceAllString(category, "${1} ${2}")
	spaced = strings.Join(strings.Fields(spaced), " ")
	return strings.ToLower(spaced)
}
