// Package collation orders display strings the way a browser's
// localeCompare does: letters first, case only as a tie-break.
package collation

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortStable sorts items in place by the collated value of key.
// A Collator is not safe for concurrent use, so each call builds its own.
func SortStable[T any](items []T, key func(T) string) {
	c := collate.New(language.English)
	sort.SliceStable(items, func(i, j int) bool {
		return c.CompareString(key(items[i]), key(items[j])) < 0
	})
}
