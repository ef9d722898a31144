package grading

import (
	"strconv"
	"strings"
)

// NoGradeLabel is shown when a pair has no positive grade.
const NoGradeLabel = "No Grade"

// gradeInt returns the leading integer of a stored grade: "75.5" is 75,
// "abc" is 0. Grades are stored as free text.
func gradeInt(raw string) int {
	s := strings.TrimSpace(raw)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}

// gradeEmpty reports whether no grade has been recorded. A stored zero is
// treated the same as a missing grade.
func gradeEmpty(raw string) bool {
	s := strings.TrimSpace(raw)
	if s == "" {
		return true
	}
	f, err := strconv.ParseFloat(s, 64)
	return err == nil && f == 0
}

// GradeValue is the numeric sort key of a stored grade.
func GradeValue(raw string) float64 {
	s := strings.TrimSpace(raw)
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return float64(gradeInt(s))
}

// FormatGrade renders a stored grade as "<value>%", or NoGradeLabel when the
// grade is not positive.
func FormatGrade(raw string) string {
	if gradeInt(raw) <= 0 {
		return NoGradeLabel
	}
	return strings.TrimSpace(raw) + "%"
}
