package grading

// Status is the derived grading state of one learner/lesson pair.
type Status string

const (
	// StatusUnclassified marks a pair that is excluded from rows and counts.
	StatusUnclassified Status = ""
	StatusUngraded     Status = "ungraded"
	StatusGraded       Status = "graded"
	StatusInProgress   Status = "in-progress"
)

// Label returns the display text for s.
func (s Status) Label() string {
	switch s {
	case StatusUngraded:
		return "Ungraded"
	case StatusGraded:
		return "Graded"
	case StatusInProgress:
		return "In Progress"
	default:
		return ""
	}
}

// Rank orders statuses for sorting: ungraded, graded, then in progress.
// Unclassified ranks first.
func (s Status) Rank() int {
	switch s {
	case StatusUngraded:
		return 1
	case StatusGraded:
		return 2
	case StatusInProgress:
		return 3
	default:
		return 0
	}
}

// StatusFilter selects which classified pairs a listing shows.
type StatusFilter string

const (
	FilterAll        StatusFilter = "all"
	FilterUngraded   StatusFilter = StatusFilter(StatusUngraded)
	FilterGraded     StatusFilter = StatusFilter(StatusGraded)
	FilterInProgress StatusFilter = StatusFilter(StatusInProgress)
)

// DefaultFilter applies when no filter was requested.
const DefaultFilter = FilterUngraded

// ParseStatusFilter maps a raw request value to a filter.
// Missing and unknown values select DefaultFilter.
func ParseStatusFilter(raw string) StatusFilter {
	switch f := StatusFilter(raw); f {
	case FilterAll, FilterUngraded, FilterGraded, FilterInProgress:
		return f
	default:
		return DefaultFilter
	}
}

// Admits reports whether a pair classified as s passes the filter.
func (f StatusFilter) Admits(s Status) bool {
	if s == StatusUnclassified {
		return false
	}
	if f == FilterAll {
		return true
	}
	return Status(f) == s
}
