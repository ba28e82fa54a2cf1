package app

import "strings"

// Grade reports whether a submitted guess matches the stored solution.
// Both sides are trimmed and compared under a simple case-insensitive fold;
// there is no partial credit and no locale-specific casing. An empty
// submission takes the same path as any other.
func Grade(submission, solution string) bool {
	return strings.EqualFold(strings.TrimSpace(submission), strings.TrimSpace(solution))
}
