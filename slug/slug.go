// Package slug derives URL-safe identifiers from display names and
// resolves collisions with a numeric suffix. Callers run Unique inside
// the transaction that inserts the row, with the unique constraint on
// the slug column as the backstop against concurrent winners.
package slug

import (
	"fmt"
	"regexp"
	"strings"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Make lowercases the name and collapses runs of non-alphanumeric
// characters to single hyphens.
func Make(name string) string {
	s := strings.ToLower(name)
	s = nonAlnum.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// ExistsFunc reports whether a candidate slug is already taken.
type ExistsFunc func(slug string) (bool, error)

// Unique returns base when free, otherwise base-1, base-2, ...,
// re-checking every candidate.
func Unique(base string, exists ExistsFunc) (string, error) {
	taken, err := exists(base)
	if err != nil {
		return "", err
	}
	if !taken {
		return base, nil
	}
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s-%d", base, i)
		taken, err := exists(candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
}
