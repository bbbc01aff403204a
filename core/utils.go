package core

import (
	"regexp"
	"strings"

	"github.com/mozillazg/go-unidecode"
)

var (
	slugInvalidRegex = regexp.MustCompile(`[^a-z0-9-]+`)
	slugHyphensRegex = regexp.MustCompile(`-{2,}`)
)

// CleanString trims all leading and trailing whitespace in `s` and optionally lowers it.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}

// Slugify converts `s` into a unique-enough URL-safe slug: transliterates to ASCII,
// lowers, replaces whitespace with hyphens and strips everything else.
func Slugify(s string) string {
	s = unidecode.Unidecode(CleanString(s, true /* lower */))
	s = strings.Join(strings.Fields(s), "-")
	s = slugInvalidRegex.ReplaceAllString(s, "")
	s = slugHyphensRegex.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
