package grading

import (
	"strings"

	"grading_overview_bot/internal/domain/learner"
)

// MatchesSearch reports whether term is a case-insensitive substring of the
// learner's login, display name or email. An empty term matches everyone.
func MatchesSearch(l *learner.Learner, term string) bool {
	if term == "" {
		return true
	}
	if l == nil {
		return false
	}
	needle := strings.ToLower(term)
	for _, field := range []string{l.Login, l.DisplayName, l.Email} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}
