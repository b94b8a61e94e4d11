package normalization

import (
	"sort"
	"strings"
)

// Fold trims and lower-cases s. Two profile strings that fold equal are the
// same for caching and catalog lookups.
func Fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// SortedCopy returns the items sorted, leaving the caller's slice alone.
func SortedCopy(items []string) []string {
	out := append([]string{}, items...)
	sort.Strings(out)
	return out
}
