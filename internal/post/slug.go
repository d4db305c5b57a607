package post

import (
	"strconv"
	"strings"
	"unicode"
)

// Slugify derives the seo slug of a title: lowercase, every whitespace rune
// replaced by an underscore.
func Slugify(title string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return '_'
		}
		return r
	}, strings.ToLower(title))
}

// SlugCandidate returns the n-th candidate for base: base itself for n <= 1,
// then base_2, base_3, ...
func SlugCandidate(base string, n int) string {
	if n <= 1 {
		return base
	}
	return base + "_" + strconv.Itoa(n)
}
