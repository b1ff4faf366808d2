package wordlist

import (
	"strings"
	"unicode"

	"github.com/samber/lo"
)

// Clean trims entries and drops empty ones and ones containing whitespace,
// since a space always advances to the next word. Order and duplicates are
// kept so sampling weights follow the source list.
func Clean(words []string) []string {
	trimmed := lo.Map(words, func(w string, _ int) string { return strings.TrimSpace(w) })
	return lo.Filter(trimmed, func(w string, _ int) bool {
		return w != "" && strings.IndexFunc(w, unicode.IsSpace) < 0
	})
}
