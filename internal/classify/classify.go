// Package classify flags work items that look like assessments.
package classify

import "strings"

var markers = []string{"test", "exam", "quiz"}

// IsTest reports whether the description, or the title when given, mentions a
// test, exam or quiz. Matching is case-insensitive, so "Final EXAM" counts.
func IsTest(description string, title *string) bool {
	desc := strings.ToLower(description)
	var t string
	if title != nil {
		t = strings.ToLower(*title)
	}

	for _, m := range markers {
		if strings.Contains(desc, m) || (title != nil && strings.Contains(t, m)) {
			return true
		}
	}
	return false
}
